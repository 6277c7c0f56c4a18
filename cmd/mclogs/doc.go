// Package main hosts the mclogs CLI entrypoint and command graph.
//
// The Cobra command tree exposes the playtime calculator, the log search, and
// the raw reverse scanner, plus configuration scaffolding and the interactive
// menu that runs when no subcommand is given. It centralizes configuration
// resolution, log directory discovery, and logger setup so subcommands only
// translate flags into calls on the internal packages.
package main
