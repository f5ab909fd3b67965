// Package writer persists downloaded objects under a destination root,
// mirroring each object key as a relative file path.
//
// Writes are atomic: data is staged in a temporary file in the
// destination directory and renamed into place after a successful sync,
// so a failed write never leaves a partial destination file behind.
package writer
