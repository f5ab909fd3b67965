// Package output serializes line-oriented output from many goroutines
// onto a single writer.
//
// Each Stream owns a bounded queue and one consumer goroutine, so lines
// from concurrent producers never interleave mid-line and arrive in the
// order they were enqueued. Producers block while the queue is full,
// which keeps a slow terminal or pipe from buffering without bound.
package output
