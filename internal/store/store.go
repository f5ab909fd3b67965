package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Common errors.
var (
	ErrNotFound     = errors.New("store: object not found")
	ErrAccessDenied = errors.New("store: access denied")
)

// Options configures how the bucket is addressed.
type Options struct {
	// Bucket is a bare S3 bucket name or a full gocloud bucket URL.
	Bucket string

	// Region overrides provider-chain region resolution.
	// Ignored when Bucket is a full URL.
	Region string

	// Endpoint points at a custom S3-compatible server (Minio etc.).
	// Implies path-style addressing. Ignored when Bucket is a full URL.
	Endpoint string
}

// URL returns the gocloud bucket URL for the options. A Bucket value that
// already carries a scheme is returned untouched.
func (o Options) URL() string {
	if strings.Contains(o.Bucket, "://") {
		return o.Bucket
	}

	params := url.Values{}
	if o.Region != "" {
		params.Set("region", o.Region)
	}
	if o.Endpoint != "" {
		params.Set("endpoint", o.Endpoint)
		params.Set("use_path_style", "true")
		if strings.HasPrefix(o.Endpoint, "http://") {
			params.Set("disable_https", "true")
		}
	}

	u := "s3://" + o.Bucket
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Client reads objects from a single bucket.
type Client struct {
	bucket *blob.Bucket
}

// Open opens the bucket described by opts.
func Open(ctx context.Context, opts Options) (*Client, error) {
	bucket, err := blob.OpenBucket(ctx, opts.URL())
	if err != nil {
		return nil, fmt.Errorf("store: open bucket %s: %w", opts.Bucket, err)
	}
	return &Client{bucket: bucket}, nil
}

// NewClient wraps an already-open bucket. The caller keeps ownership of
// the bucket's lifetime.
func NewClient(bucket *blob.Bucket) *Client {
	return &Client{bucket: bucket}
}

// Fetch returns the full contents of the object at key.
//
// Returns an error wrapping:
//   - ErrNotFound if the object doesn't exist
//   - ErrAccessDenied if the store rejects the caller's credentials
//   - the driver's error for transport and any other failure
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := c.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, classify(key, err)
	}
	return data, nil
}

// Exists reports whether the object at key exists, without reading it.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.bucket.Exists(ctx, key)
	if err != nil {
		return false, classify(key, err)
	}
	return ok, nil
}

// Accessible verifies the bucket answers requests at all. Used as a
// pre-flight check so a bad bucket fails the run before any key is
// scheduled.
func (c *Client) Accessible(ctx context.Context) error {
	ok, err := c.bucket.IsAccessible(ctx)
	if err != nil {
		return fmt.Errorf("store: bucket not accessible: %w", err)
	}
	if !ok {
		return errors.New("store: bucket not accessible")
	}
	return nil
}

// Close releases the underlying bucket connection.
func (c *Client) Close() error {
	return c.bucket.Close()
}

// classify maps driver errors onto the package sentinels.
func classify(key string, err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	case gcerrors.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrAccessDenied, key)
	}
	return fmt.Errorf("store: fetch %s: %w", key, err)
}
