package downloader

import (
	"context"
	"runtime"
	"sync"

	"github.com/ckampfe/s3dl/internal/output"
	"github.com/ckampfe/s3dl/internal/writer"
)

// Status describes how a key's download ended.
type Status string

const (
	// StatusDownloaded means the object was fetched and written to a new file.
	StatusDownloaded Status = "downloaded"
	// StatusSkipped means the destination file already existed and was kept.
	StatusSkipped Status = "skipped"
	// StatusOverwritten means the destination file existed and was replaced.
	StatusOverwritten Status = "overwritten"
	// StatusFailed means the key could not be fetched or written.
	StatusFailed Status = "failed"
)

// Outcome is the terminal result for one manifest key.
type Outcome struct {
	// Index is the key's zero-based position in the manifest.
	Index int

	// Key is the object key.
	Key string

	// Status tells how the download ended.
	Status Status

	// Err carries the cause when Status is StatusFailed.
	Err error

	// admitted records whether this key held a concurrency slot. Keys
	// refused admission after cancellation report an outcome without one.
	admitted bool
}

// Fetcher reads a whole object by key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Options configures a download run.
type Options struct {
	// MaxInflight caps the number of keys downloading at once.
	// Default: DefaultMaxInflight().
	MaxInflight int

	// Ordered reports outcomes in manifest order instead of
	// completion order.
	Ordered bool

	// Verbose announces each key on the status stream when its
	// download starts.
	Verbose bool

	// Status receives one line per non-failed key. Optional.
	Status *output.Stream

	// Errors receives one line per failed key. Optional.
	Errors *output.Stream
}

// DefaultMaxInflight returns the default concurrency cap of ten
// in-flight requests per CPU.
func DefaultMaxInflight() int {
	return runtime.NumCPU() * 10
}

// Download fetches every key through fetcher and persists each payload
// under files. At most opts.MaxInflight keys are in flight at once, and
// keys enter the pool in manifest order. The returned Summary tallies
// exactly one outcome per key.
//
// A failed key never stops the run. Cancelling ctx stops admitting new
// keys; downloads already in flight finish on their own and the keys
// never admitted are reported as failed with the context's error.
func Download(ctx context.Context, fetcher Fetcher, files *writer.Writer, keys []string, opts Options) Summary {
	if opts.MaxInflight <= 0 {
		opts.MaxInflight = DefaultMaxInflight()
	}

	sem := make(chan struct{}, opts.MaxInflight)
	results := make(chan Outcome)

	go func() {
		var wg sync.WaitGroup
		for i, key := range keys {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- Outcome{Index: i, Key: key, Status: StatusFailed, Err: ctx.Err()}
				continue
			}

			wg.Add(1)
			go func(i int, key string) {
				defer wg.Done()
				if !opts.Ordered {
					// Releasing after the send keeps reported order
					// equal to manifest order when MaxInflight is 1.
					defer func() { <-sem }()
				}
				out := fetchOne(ctx, fetcher, files, i, key, opts)
				out.admitted = true
				results <- out
			}(i, key)
		}
		wg.Wait()
		close(results)
	}()

	var summary Summary
	report := func(out Outcome) {
		summary.Record(out.Status)
		if out.Status == StatusFailed {
			if opts.Errors != nil {
				opts.Errors.Sendf("%s: failed: %v", out.Key, out.Err)
			}
			return
		}
		if opts.Status != nil {
			opts.Status.Sendf("%s: %s", out.Key, out.Status)
		}
	}

	if opts.Ordered {
		// In ordered mode a completed key keeps its slot until its
		// outcome flushes from the reorder buffer. Completions stuck
		// behind a slow earlier key therefore count against
		// MaxInflight, which bounds the buffer.
		buf := newReorder(func(out Outcome) {
			report(out)
			if out.admitted {
				<-sem
			}
		})
		for out := range results {
			buf.add(out)
		}
	} else {
		for out := range results {
			report(out)
		}
	}

	return summary
}

// fetchOne downloads a single key and maps the result onto a Status.
func fetchOne(ctx context.Context, fetcher Fetcher, files *writer.Writer, index int, key string, opts Options) Outcome {
	if opts.Verbose && opts.Status != nil {
		opts.Status.Sendf("%s: started", key)
	}

	out := Outcome{Index: index, Key: key}

	data, err := fetcher.Fetch(ctx, key)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		return out
	}

	res, err := files.Persist(key, data)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		return out
	}

	switch res {
	case writer.ResultSkipped:
		out.Status = StatusSkipped
	case writer.ResultReplaced:
		out.Status = StatusOverwritten
	default:
		out.Status = StatusDownloaded
	}
	return out
}
