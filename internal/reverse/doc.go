// Package reverse finds delimiters by walking a seekable stream backward from
// its end in fixed-size chunks.
//
// ScanBackward keeps a two-chunk window so an occurrence that straddles the
// boundary between two physical reads is still seen, counts each occurrence
// exactly once, and returns everything from the Nth-from-last occurrence to the
// end of the stream. The caller's read position is restored before any return.
//
// Occurrences that overlap, as "\n\n" does in "\n\n\n", are resolved from
// the end: an occurrence counts only when it ends at or before the start of the
// next counted one, and a longer match that covers a later one replaces it.
// The same occurrences are counted for every chunk size.
//
// Delimiters are either literal strings or compiled regular expressions. The
// chunk size must be at least as long as the longest possible delimiter match;
// bounded delimiters are checked up front and rejected with ErrChunkTooSmall,
// while unbounded patterns (those using *, + or open repeats) cannot be checked
// and may be truncated at chunk boundaries.
//
// LastLine builds on ScanBackward to recover the final line of a text file,
// which is how the playtime calculator reads the closing timestamp of a log
// without reading it forward.
package reverse
