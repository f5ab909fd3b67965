package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func TestOptionsURL(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "bare bucket name",
			opts: Options{Bucket: "my-bucket"},
			want: "s3://my-bucket",
		},
		{
			name: "bucket with region",
			opts: Options{Bucket: "my-bucket", Region: "eu-west-1"},
			want: "s3://my-bucket?region=eu-west-1",
		},
		{
			name: "https endpoint",
			opts: Options{Bucket: "my-bucket", Endpoint: "https://storage.example.com"},
			want: "s3://my-bucket?endpoint=https%3A%2F%2Fstorage.example.com&use_path_style=true",
		},
		{
			name: "http endpoint disables https",
			opts: Options{Bucket: "my-bucket", Endpoint: "http://localhost:9000"},
			want: "s3://my-bucket?disable_https=true&endpoint=http%3A%2F%2Flocalhost%3A9000&use_path_style=true",
		},
		{
			name: "full URL passed through",
			opts: Options{Bucket: "gs://other-bucket", Region: "ignored"},
			want: "gs://other-bucket",
		},
		{
			name: "mem URL passed through",
			opts: Options{Bucket: "mem://"},
			want: "mem://",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	want := []byte("object payload")
	if err := bucket.WriteAll(ctx, "dir/a.bin", want, nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	client := NewClient(bucket)

	got, err := client.Fetch(ctx, "dir/a.bin")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Fetch = %q, want %q", got, want)
	}
}

func TestFetchNotFound(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	client := NewClient(bucket)

	_, err = client.Fetch(ctx, "missing.bin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	if err := bucket.WriteAll(ctx, "here.bin", []byte("x"), nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	client := NewClient(bucket)

	ok, err := client.Exists(ctx, "here.bin")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("expected here.bin to exist")
	}

	ok, err = client.Exists(ctx, "gone.bin")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("expected gone.bin to not exist")
	}
}

func TestOpenMem(t *testing.T) {
	ctx := context.Background()
	client, err := Open(ctx, Options{Bucket: "mem://"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer client.Close()

	if err := client.Accessible(ctx); err != nil {
		t.Fatalf("Accessible: %v", err)
	}
}

func TestClassifyUnknownError(t *testing.T) {
	plain := errors.New("connection reset")
	err := classify("k.bin", plain)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccessDenied) {
		t.Fatalf("transport error misclassified: %v", err)
	}
	if !errors.Is(err, plain) {
		t.Fatalf("expected wrapped original error, got %v", err)
	}
}
