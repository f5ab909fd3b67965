package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by Persist when the destination file already
// exists and the writer was configured with PolicyError.
var ErrExists = errors.New("writer: file already exists")

// Policy controls what happens when a destination file already exists.
type Policy string

const (
	// PolicySkip leaves the existing file untouched.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces the existing file.
	PolicyOverwrite Policy = "overwrite"
	// PolicyError fails the write with ErrExists.
	PolicyError Policy = "error"
)

// ParsePolicy converts a flag or config value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyOverwrite, PolicyError:
		return Policy(s), nil
	}
	return "", fmt.Errorf("writer: unknown on-existing-file policy %q (want skip, overwrite or error)", s)
}

// Result describes what Persist did with a key.
type Result string

const (
	// ResultWritten means a new file was created.
	ResultWritten Result = "written"
	// ResultReplaced means an existing file was overwritten.
	ResultReplaced Result = "replaced"
	// ResultSkipped means an existing file was left untouched.
	ResultSkipped Result = "skipped"
)

// Writer persists object payloads under a root directory. It is safe
// for concurrent use as long as no two writes target the same key.
type Writer struct {
	root   string
	policy Policy
}

// New creates the root directory if needed and returns a Writer that
// stores files beneath it according to policy.
func New(root string, policy Policy) (*Writer, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("writer: create root %s: %w", root, err)
	}
	return &Writer{root: root, policy: policy}, nil
}

// Root returns the destination root directory.
func (w *Writer) Root() string {
	return w.root
}

// Persist writes data to <root>/<key>, creating parent directories as
// needed. Slashes in the key become path separators, so nested keys
// produce nested directories.
//
// When the destination already exists the configured Policy decides the
// outcome: leave it (ResultSkipped), replace it (ResultReplaced), or
// fail with an error wrapping ErrExists.
func (w *Writer) Persist(key string, data []byte) (Result, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("writer: key %q escapes the destination root", key)
	}
	dest := filepath.Join(w.root, rel)

	exists := false
	if _, err := os.Lstat(dest); err == nil {
		exists = true
		switch w.policy {
		case PolicySkip:
			return ResultSkipped, nil
		case PolicyError:
			return "", fmt.Errorf("%w: %s", ErrExists, dest)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("writer: stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("writer: create parent dirs for %s: %w", key, err)
	}
	if err := writeAtomic(dest, data); err != nil {
		return "", fmt.Errorf("writer: write %s: %w", key, err)
	}

	if exists {
		return ResultReplaced, nil
	}
	return ResultWritten, nil
}

// writeAtomic stages data in a temp file next to dest and renames it
// into place. The same-directory temp keeps the rename on a single
// filesystem. On any failure the temp file is removed and dest is left
// as it was.
func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".s3dl-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
