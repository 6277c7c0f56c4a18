package main

import "strings"

var escapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")

// unescape expands the backslash escapes a shell user would type for
// control-character delimiters.
func unescape(s string) string {
	return escapes.Replace(s)
}
