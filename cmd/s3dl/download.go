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

	"github.com/ckampfe/s3dl/internal/config"
	"github.com/ckampfe/s3dl/internal/downloader"
	"github.com/ckampfe/s3dl/internal/manifest"
	"github.com/ckampfe/s3dl/internal/output"
	"github.com/ckampfe/s3dl/internal/store"
	"github.com/ckampfe/s3dl/internal/writer"
)

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	bucket := fs.String("bucket", "", "Bucket name or URL (required)")
	keysPath := fs.String("keys-path", "", "Path to newline-separated key manifest (required)")
	outPath := fs.String("out-path", "", "Directory to download into (required)")
	region := fs.String("region", "", "Bucket region")
	endpoint := fs.String("endpoint", "", "Custom S3-compatible endpoint URL")
	maxInflight := fs.Int("max-inflight-requests", 0, "Maximum concurrent downloads (default 10x CPU count)")
	onExisting := fs.String("on-existing-file", "", "Existing file policy: skip, overwrite or error (default skip)")
	ordered := fs.Bool("ordered", false, "Report results in manifest order")
	verbose := fs.Bool("verbose", false, "Announce each key when its download starts")
	stdoutCap := fs.Int("stdout-channel-capacity", 0, "Status line queue bound (default 100)")
	stderrCap := fs.Int("stderr-channel-capacity", 0, "Error line queue bound (default 100)")
	configPath := fs.String("config", "", "Path to YAML config file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: s3dl download [options]

Download every key listed in a manifest file from an object storage
bucket, writing each object to <out-path>/<key>. Keys download
concurrently; one status line is reported per key. Failed keys are
reported on stderr and do not stop the run.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{
		Bucket:         *bucket,
		KeysPath:       *keysPath,
		OutPath:        *outPath,
		Region:         *region,
		Endpoint:       *endpoint,
		MaxInflight:    *maxInflight,
		OnExistingFile: *onExisting,
		Ordered:        *ordered,
		Verbose:        *verbose,
		StdoutCapacity: *stdoutCap,
		StderrCapacity: *stderrCap,
	})
	if code != ExitSuccess {
		return code
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[s3dl] Received interrupt, shutting down...")
		cancel()
	}()

	return download(ctx, cfg)
}

// loadConfig layers the optional config file over the defaults, then
// the environment, then the flag overrides.
func loadConfig(path string, overrides config.Config) (config.Config, int) {
	cfg := config.Default()
	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return config.Config{}, ExitInvalidArgs
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return config.Config{}, ExitInvalidArgs
	}
	return cfg.Merge(overrides), ExitSuccess
}

// download runs the pre-flight checks and the bulk download. Pre-flight
// failures abort before any key is scheduled.
func download(ctx context.Context, cfg config.Config) int {
	keys, err := manifest.ReadFile(cfg.KeysPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitManifestError
	}

	files, err := writer.New(cfg.OutPath, cfg.Policy())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutPathError
	}

	// Open bucket
	client, err := store.Open(ctx, store.Options{
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}
	defer client.Close()

	if err := client.Accessible(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	// Start the output streams
	status := output.NewStream(os.Stdout, cfg.StdoutCapacity)
	errs := output.NewStream(os.Stderr, cfg.StderrCapacity)

	summary := downloader.Download(ctx, client, files, keys, downloader.Options{
		MaxInflight: cfg.MaxInflight,
		Ordered:     cfg.Ordered,
		Verbose:     cfg.Verbose,
		Status:      status,
		Errors:      errs,
	})

	status.Close()
	errs.Close()

	fmt.Fprintf(os.Stderr, "[s3dl] done: %s\n", summary)
	if !summary.OK() {
		return ExitPartialFailure
	}
	return ExitSuccess
}
