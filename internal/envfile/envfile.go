// Package envfile models the application's KEY=VALUE secrets file.
//
// The file is kept as an ordered list of raw lines so that comments, blank
// lines and key order survive a round trip; updating a key rewrites exactly
// one line and leaves everything else byte-identical.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quizsetup/internal/fsutil"
	"quizsetup/internal/logging"
)

type line struct {
	raw   string
	key   string
	value string
	pair  bool
}

// File is an in-memory secrets file
type File struct {
	lines           []line
	trailingNewline bool
}

// Parse builds a File from raw bytes
func Parse(data []byte) *File {
	text := string(data)
	f := &File{trailingNewline: strings.HasSuffix(text, "\n")}

	if text == "" {
		return f
	}

	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for _, l := range raw {
		f.lines = append(f.lines, parseLine(l))
	}
	return f
}

func parseLine(raw string) line {
	trimmed := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line{raw: raw}
	}

	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return line{raw: raw}
	}

	return line{
		raw:   raw,
		key:   strings.TrimSpace(trimmed[:idx]),
		value: trimmed[idx+1:],
		pair:  true,
	}
}

// Load reads and parses a secrets file from disk
func Load(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path comes from validated config
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}
	return Parse(data), nil
}

// Get returns the value of a key and whether the key is present
func (f *File) Get(key string) (string, bool) {
	for _, l := range f.lines {
		if l.pair && l.key == key {
			return l.value, true
		}
	}
	return "", false
}

// Has reports whether a key is present
func (f *File) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Set updates the value of key in place, replacing only that line.
// When the key is absent a new KEY=VALUE line is appended; a key never
// appears twice. It reports whether an existing line was replaced.
func (f *File) Set(key, value string) bool {
	for i, l := range f.lines {
		if l.pair && l.key == key {
			f.lines[i] = line{
				raw:   key + "=" + value,
				key:   key,
				value: value,
				pair:  true,
			}
			return true
		}
	}

	f.lines = append(f.lines, line{
		raw:   key + "=" + value,
		key:   key,
		value: value,
		pair:  true,
	})
	f.trailingNewline = true
	return false
}

// Keys returns all keys in file order
func (f *File) Keys() []string {
	var keys []string
	for _, l := range f.lines {
		if l.pair {
			keys = append(keys, l.key)
		}
	}
	return keys
}

// Bytes serializes the file, preserving untouched lines byte for byte
func (f *File) Bytes() []byte {
	if len(f.lines) == 0 {
		return []byte{}
	}

	raws := make([]string, len(f.lines))
	for i, l := range f.lines {
		raws[i] = l.raw
	}

	out := strings.Join(raws, "\n")
	if f.trailingNewline {
		out += "\n"
	}
	return []byte(out)
}

// Save writes the file atomically with secrets-appropriate permissions
func (f *File) Save(path string, logger *logging.Logger) error {
	return fsutil.AtomicWriteFile(path, f.Bytes(), fsutil.DefaultFilePermissions, logger)
}
