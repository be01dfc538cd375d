package configdir

import (
	"os"
	"path/filepath"
)

const userConfigDirName = ".quizsetup"

// UserConfigDir resolves the per-user configuration directory respecting
// overrides. The credential cache and user-level overrides live here.
func UserConfigDir() string {
	if env := os.Getenv("QUIZSETUP_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a relative directory; callers create it on demand.
		return userConfigDirName
	}
	return filepath.Join(homeDir, userConfigDirName)
}
