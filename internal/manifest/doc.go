// Package manifest parses newline-separated key manifests.
//
// A manifest is a UTF-8 text file listing one object key per line. Keys
// are relative paths; their line position assigns the zero-based sequence
// index used for ordered reporting. Blank lines are dropped and
// surrounding whitespace is trimmed. No further validation happens here -
// a malformed key simply fails later at fetch time.
package manifest
