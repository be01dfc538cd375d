// Package gitignore keeps the secrets file out of version control.
package gitignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quizsetup/internal/logging"
)

const filePermissions = 0o644

// Ensure makes sure entry appears in the exclusion list at path.
// The file is created when missing; an existing file is only appended to
// when no line matches entry exactly. Re-running never duplicates entries.
// It reports whether the entry was added.
func Ensure(path, entry string, logger *logging.Logger) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path comes from validated config
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to read exclusion list: %w", err)
		}

		if err := os.WriteFile(path, []byte(entry+"\n"), filePermissions); err != nil {
			return false, fmt.Errorf("failed to create exclusion list: %w", err)
		}
		logger.Info("exclusions.created", "Exclusion list created", map[string]interface{}{
			"path":  path,
			"entry": entry,
		})
		return true, nil
	}

	if containsLine(data, entry) {
		return false, nil
	}

	out, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_WRONLY, filePermissions) // #nosec G304
	if err != nil {
		return false, fmt.Errorf("failed to open exclusion list: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("exclusions.close_failed", "Failed to close exclusion list", map[string]interface{}{
				"error": cerr.Error(),
			})
		}
	}()

	appended := entry + "\n"
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		appended = "\n" + appended
	}

	if _, err := out.WriteString(appended); err != nil {
		return false, fmt.Errorf("failed to append to exclusion list: %w", err)
	}

	logger.Info("exclusions.appended", "Entry added to exclusion list", map[string]interface{}{
		"path":  path,
		"entry": entry,
	})
	return true, nil
}

// containsLine checks for an exact-line match of entry
func containsLine(data []byte, entry string) bool {
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSuffix(l, "\r") == entry {
			return true
		}
	}
	return false
}
