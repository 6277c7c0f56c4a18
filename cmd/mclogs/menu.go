package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mclogs/internal/config"
	"mclogs/internal/logfiles"
	"mclogs/internal/search"
)

const menuWelcome = `== Welcome to the Minecraft log analyzer ==

You may press enter at any prompt to select the default option
(if it exists) or type exit to leave.

What would you like to do?
[1] Count total playtime
[2] Search logs
[exit] Exit the program (default)

`

const menuLocate = `
How do you want to locate your logs folders?

[1] Automatic (default)
[2] Enter path(s)
[3] Enter glob

`

const menuPaths = `
Please enter every logs folder path that you want to scan.
Separate multiple paths with pipes (vertical bar: | ).

`

const menuGlobs = `
Enter a glob(s) to select every log folder you want to scan.
Separate multiple globs with pipes (vertical bar: | ).

Folders that start with period must be explicitly specified
(AppData/Roaming/.*/logs)

Example: To find all logs folders in folders that start with . in AppData,
C:/Users/USERNAME/AppData/Roaming/.*/**/logs

`

// errExitMenu ends the menu without an error.
var errExitMenu = errors.New("exit requested")

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, ctx)
		},
	}
}

func runMenu(cmd *cobra.Command, cc *commandContext) error {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	err := menu(cmd, cc, p)
	if errors.Is(err, errExitMenu) {
		return nil
	}
	return err
}

func menu(cmd *cobra.Command, cc *commandContext, p *prompter) error {
	fmt.Fprint(p.out, menuWelcome)
	op, err := ask(p, "Operation: ", "exit", "Please enter a valid value.", oneOf("1", "2"))
	if err != nil {
		return err
	}

	switch op {
	case "1":
		dirs, err := chooseDirs(p)
		if err != nil {
			return err
		}
		return countPlaytime(cmd.Context(), p.out, cmd.ErrOrStderr(), cc, dirs, playtimeRun{fullPaths: len(dirs) > 1})
	default:
		re, err := ask(p, "Pattern: ", "", "Please enter a valid regular expression.", search.Compile)
		if err != nil {
			return err
		}
		dirs, err := chooseDirs(p)
		if err != nil {
			return err
		}
		cfg, err := cc.ensureConfig()
		if err != nil {
			return err
		}
		return runSearch(cmd.Context(), p.out, cmd.ErrOrStderr(), cc, re, dirs, searchRun{limit: cfg.Search.Limit, output: cfg.Search.Output})
	}
}

func chooseDirs(p *prompter) ([]string, error) {
	fmt.Fprint(p.out, menuLocate)
	method, err := ask(p, "Locate method: ", "1", "Please enter a valid value.", oneOf("1", "2", "3"))
	if err != nil {
		return nil, err
	}

	switch method {
	case "1":
		dir, err := defaultLogsDir()
		if err != nil {
			fmt.Fprintln(p.out, "Could not automatically locate your .minecraft/logs folder.")
			fmt.Fprintln(p.out, "Please try running this program again and enter a path manually.")
			return nil, errExitMenu
		}
		return []string{dir}, nil
	case "2":
		fmt.Fprint(p.out, menuPaths)
		return ask(p, "Path(s): ", "", "One or more of your paths do not exist.", existingDirs)
	default:
		fmt.Fprint(p.out, menuGlobs)
		return ask(p, "Glob(s): ", "", "Your glob(s) did not match any folder.", globDirs)
	}
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// line prints label and reads one trimmed answer. End of input counts as exit.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	text, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if text == "" {
			fmt.Fprintln(p.out)
			return "", errExitMenu
		}
	}
	return strings.TrimSpace(text), nil
}

// ask repeats the prompt until convert accepts the answer. An empty answer
// selects def when def is set, and "exit" leaves the menu.
func ask[T any](p *prompter, label, def, failMsg string, convert func(string) (T, error)) (T, error) {
	var zero T
	for {
		answer, err := p.line(label)
		if err != nil {
			return zero, err
		}
		if answer == "" && def != "" {
			answer = def
		}
		if strings.EqualFold(answer, "exit") {
			return zero, errExitMenu
		}
		value, err := convert(answer)
		if err == nil {
			return value, nil
		}
		fmt.Fprintln(p.out, failMsg)
	}
}

func oneOf(choices ...string) func(string) (string, error) {
	return func(answer string) (string, error) {
		if slices.Contains(choices, answer) {
			return answer, nil
		}
		return "", fmt.Errorf("unknown choice %q", answer)
	}
}

func existingDirs(answer string) ([]string, error) {
	parts := logfiles.SplitList(answer)
	if len(parts) == 0 {
		return nil, errors.New("no paths given")
	}
	dirs := make([]string, 0, len(parts))
	for _, part := range parts {
		dir, err := config.ExpandPath(part)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a folder", dir)
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func globDirs(answer string) ([]string, error) {
	dirs, err := logfiles.ExpandGlobs(logfiles.SplitList(answer))
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, errors.New("no folders matched")
	}
	return dirs, nil
}
