package logfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultDir returns the platform's default launcher log directory. It does
// not check that the directory exists.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return defaultDir(runtime.GOOS, os.Getenv, home), nil
}

func defaultDir(goos string, getenv func(string) string, home string) string {
	switch goos {
	case "windows":
		appData := strings.TrimSpace(getenv("APPDATA"))
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, ".minecraft", "logs")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft", "logs")
	default:
		return filepath.Join(home, ".minecraft", "logs")
	}
}
