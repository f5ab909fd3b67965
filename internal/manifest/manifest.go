package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// maxKeyLen bounds a single manifest line. Object keys top out at a few
// KB on every real store, so this is generous.
const maxKeyLen = 1024 * 1024

// Read parses a key manifest from r, returning keys in input order.
// Blank lines are dropped; surrounding whitespace is trimmed. A line that
// is not valid UTF-8 is an error.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxKeyLen)

	var keys []string
	line := 0
	for scanner.Scan() {
		line++
		if !utf8.Valid(scanner.Bytes()) {
			return nil, fmt.Errorf("manifest: line %d is not valid UTF-8", line)
		}
		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("manifest: read: %w", err)
	}

	return keys, nil
}

// ReadFile parses the key manifest at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}
