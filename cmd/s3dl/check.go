package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ckampfe/s3dl/internal/manifest"
	"github.com/ckampfe/s3dl/internal/store"
)

// runCheck verifies that every key in a manifest exists in the bucket.
// Reports missing keys without downloading any object data.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	bucket := fs.String("bucket", "", "Bucket name or URL (required)")
	keysPath := fs.String("keys-path", "", "Path to newline-separated key manifest (required)")
	region := fs.String("region", "", "Bucket region")
	endpoint := fs.String("endpoint", "", "Custom S3-compatible endpoint URL")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: s3dl check [options]

Verify that every key listed in a manifest exists in the bucket.
Does not download object data, only probes for existence.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	// Validate required flags
	if *bucket == "" || *keysPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket and -keys-path are required")
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	keys, err := manifest.ReadFile(*keysPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitManifestError
	}

	// Open bucket
	client, err := store.Open(ctx, store.Options{
		Bucket:   *bucket,
		Region:   *region,
		Endpoint: *endpoint,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}
	defer client.Close()

	// Probe every key for existence
	missing := 0
	for _, key := range keys {
		ok, err := client.Exists(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitStorageError
		}
		if !ok {
			fmt.Printf("%s: missing\n", key)
			missing++
		}
	}

	// Print results
	fmt.Printf("Keys: %d\n", len(keys))
	if missing == 0 {
		fmt.Println("Status: OK")
		return ExitSuccess
	}

	fmt.Printf("Missing: %d\n", missing)
	fmt.Println("Status: INCOMPLETE")
	return ExitCheckFailed
}
