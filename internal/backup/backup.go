// Package backup snapshots the application's AI service module before the
// operator starts editing it.
package backup

import (
	"path/filepath"

	"quizsetup/internal/fsutil"
	"quizsetup/internal/logging"
)

// Status describes the outcome of a snapshot attempt
type Status string

const (
	// StatusCreated means a new backup copy was written
	StatusCreated Status = "created"
	// StatusExists means a previous backup was found and left untouched
	StatusExists Status = "exists"
	// StatusSourceMissing means there was nothing to back up
	StatusSourceMissing Status = "source-missing"
)

// Snapshot copies source to source+suffix inside projectDir, at most once.
// An existing backup is never overwritten, so a snapshot taken on an earlier
// run survives later ones. A missing source file is not an error.
func Snapshot(projectDir, source, suffix string, logger *logging.Logger) (Status, string, error) {
	sourcePath := filepath.Join(projectDir, source)
	backupPath := sourcePath + suffix

	if !fsutil.FileExists(sourcePath) {
		return StatusSourceMissing, backupPath, nil
	}

	if fsutil.FileExists(backupPath) {
		return StatusExists, backupPath, nil
	}

	if err := fsutil.CopyFile(sourcePath, backupPath, logger); err != nil {
		return "", backupPath, err
	}

	logger.Info("backup.created", "Backup created", map[string]interface{}{
		"source": sourcePath,
		"backup": backupPath,
	})
	return StatusCreated, backupPath, nil
}
