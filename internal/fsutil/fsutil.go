package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quizsetup/internal/logging"
)

const (
	// DefaultDirPermissions is the default permission for created directories
	DefaultDirPermissions = 0o750
	// DefaultFilePermissions is the default permission for created files
	DefaultFilePermissions = 0o600
)

// ResolveProjectDir returns the project root the tool operates on.
// QUIZSETUP_PROJECT_DIR overrides; otherwise the current working directory
// is used (the tool is meant to be run from the application root).
func ResolveProjectDir() (string, error) {
	if env := os.Getenv("QUIZSETUP_PROJECT_DIR"); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", fmt.Errorf("failed to resolve QUIZSETUP_PROJECT_DIR: %w", err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return cwd, nil
}

// EnsureDirectory creates a directory (and parents) if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// AtomicWriteFile writes data to a file atomically by first writing to a temp file
// and then renaming it to the target path. This ensures the file is never partially written.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, logger *logging.Logger) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Try to clean up temp file on failure
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			if logger != nil {
				logger.Warn("fs.cleanup_failed", "Failed to remove temp file", map[string]interface{}{
					"path":  tmpPath,
					"error": removeErr.Error(),
				})
			}
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// CopyFile copies src to dst byte for byte, preserving the source file mode.
// The copy is written atomically so dst never holds a partial file.
func CopyFile(src, dst string, logger *logging.Logger) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source is not a regular file: %s", src)
	}

	in, err := os.Open(filepath.Clean(src)) // #nosec G304 -- paths come from validated config
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer CloseWithError(in.Close, logger, "source file")

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	return AtomicWriteFile(dst, data, info.Mode().Perm(), logger)
}

// CloseWithError closes a resource and logs any error if a logger is provided.
// This is useful for defer statements where close errors should be handled.
func CloseWithError(closer func() error, logger *logging.Logger, resource string) {
	if err := closer(); err != nil {
		if logger != nil {
			logger.Warn("fs.close_failed", fmt.Sprintf("Failed to close %s", resource), map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
