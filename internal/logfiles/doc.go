// Package logfiles discovers and opens game chat logs.
//
// Walk lazily yields every log in a directory whose name carries the dated
// prefix and a recognized extension. Plain logs are opened as seekable files;
// gzip archives are inflated into memory so the reverse scanner can seek them
// the same way. Each Log decodes its bytes with the configured text encoding
// (windows-1252 by default, which is what the game writes on Windows).
//
// ExpandGlobs and SplitList turn the pipe-separated path and glob input of the
// CLI into directories, and DefaultDir knows where the launcher keeps logs on
// each platform.
package logfiles
