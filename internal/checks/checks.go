// Package checks verifies the integration files the quiz application needs.
package checks

import (
	"path/filepath"

	"quizsetup/internal/fsutil"
)

// Report lists which expected files were found and which were not.
// A missing file is advisory only; it never gates the setup flow.
type Report struct {
	Present []string
	Missing []string
}

// OK reports whether every expected file was found
func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// Verify checks each expected filename relative to projectDir
func Verify(projectDir string, files []string) Report {
	var report Report
	for _, name := range files {
		if fsutil.FileExists(filepath.Join(projectDir, name)) {
			report.Present = append(report.Present, name)
		} else {
			report.Missing = append(report.Missing, name)
		}
	}
	return report
}
