// Package playtime totals how long a game session lasted from its chat logs.
//
// Each log starts with a "[HH:MM:SS]" line; the session end is the last
// HH:MM:SS anywhere in the file, found with a backward scan so only the tail
// of the file is read. Sessions that cross midnight wrap by one day. Files
// that do not look like chat logs are skipped; corrupt files are reported and
// the batch carries on.
package playtime
