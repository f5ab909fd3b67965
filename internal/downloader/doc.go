// Package downloader coordinates concurrency-bounded bulk downloads
// from an object store to local files.
//
// This package drives the store client and the file writer for every
// key in a manifest. It admits keys in manifest order into a pool of
// at most MaxInflight concurrent downloads and produces exactly one
// outcome per key.
//
// # Usage
//
// The main entry point is the Download function:
//
//	summary := downloader.Download(ctx, client, files, keys, Options{
//	    MaxInflight: 64,
//	    Status:      stdoutStream,
//	    Errors:      stderrStream,
//	})
//
// # Reporting
//
// Outcomes stream out as downloads complete. In ordered mode they pass
// through a reorder buffer instead, so the reported order matches the
// manifest even when completions arrive out of order. Ordering is a
// presentation guarantee only; requests still run concurrently.
//
// # Failure Handling
//
// A key that cannot be fetched or written becomes a StatusFailed
// outcome; the rest of the run continues. Cancelling the context stops
// admitting new keys, lets in-flight downloads finish on their own
// terms, and fails the keys that were never admitted.
package downloader
