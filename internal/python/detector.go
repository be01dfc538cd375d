package python

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// interpreter candidates probed in order when no override is set
var candidates = []string{"python3", "python"}

// Detect locates a Python interpreter on the execution path.
// QUIZSETUP_PYTHON overrides the probe order with an explicit executable.
func Detect() (*Interpreter, error) {
	desired := strings.TrimSpace(os.Getenv("QUIZSETUP_PYTHON"))
	if desired != "" {
		path, err := exec.LookPath(desired)
		if err != nil {
			return nil, fmt.Errorf("python requested via QUIZSETUP_PYTHON but not found: %s", desired)
		}
		return NewInterpreter(path), nil
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return NewInterpreter(path), nil
		}
	}

	return nil, fmt.Errorf("no Python interpreter detected (looked for %s)", strings.Join(candidates, ", "))
}
