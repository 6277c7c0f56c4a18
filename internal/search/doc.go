// Package search scans logs forward line by line for a case-insensitive
// pattern.
//
// A pattern with capture groups emits its first group; otherwise the whole
// line is emitted. Results go to any io.Writer. Output files are guarded by an
// advisory lock so two runs cannot write the same file at once.
package search
