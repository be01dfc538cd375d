package setup

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"quizsetup/internal/fsutil"
	"quizsetup/internal/venv"
)

// APIKeyName returns the name of the API key the flow collects
func (e *Engine) APIKeyName() string {
	return e.cfg.Secrets.APIKeyName
}

// SecretsFileName returns the secrets file name relative to the project
func (e *Engine) SecretsFileName() string {
	return e.cfg.Secrets.File
}

// SmokeTestName returns the smoke-test script name
func (e *Engine) SmokeTestName() string {
	return e.cfg.SmokeTest
}

// SmokeTestExists reports whether the smoke-test script is present
func (e *Engine) SmokeTestExists() bool {
	return fsutil.FileExists(filepath.Join(e.projectDir, e.cfg.SmokeTest))
}

// SmokeTestProcess builds the smoke-test command for callers that manage
// terminal handoff themselves (the TUI wizard).
func (e *Engine) SmokeTestProcess() (*exec.Cmd, error) {
	env, err := e.environment()
	if err != nil {
		return nil, err
	}
	return env.ScriptCommand(e.projectDir, e.cfg.SmokeTest), nil
}

// RecalledKey returns a previously remembered API key, if any
func (e *Engine) RecalledKey() (string, bool) {
	if e.store == nil {
		return "", false
	}
	value, ok, err := e.store.Recall(e.cfg.Secrets.APIKeyName)
	if err != nil || value == "" {
		return "", false
	}
	return value, ok
}

// CanRememberKey reports whether a credential cache is attached
func (e *Engine) CanRememberKey() bool {
	return e.store != nil
}

// RememberKey saves the API key in the credential cache
func (e *Engine) RememberKey(key string) error {
	if e.store == nil {
		return fmt.Errorf("no credential cache attached")
	}
	return e.store.Remember(e.cfg.Secrets.APIKeyName, key)
}

// SummaryText returns the fixed next-steps guide
func (e *Engine) SummaryText() string {
	interp := venv.InterpreterPath(e.cfg.Venv.Dir)

	var b strings.Builder
	fmt.Fprintf(&b, "  1. Make sure %s holds your real %s\n", e.cfg.Secrets.File, e.cfg.Secrets.APIKeyName)
	fmt.Fprintf(&b, "  2. Apply database migrations:   %s manage.py migrate\n", interp)
	fmt.Fprintf(&b, "  3. Start the development server: %s manage.py runserver\n", interp)
	fmt.Fprintf(&b, "  4. Smoke-test the AI integration: %s\n", e.SmokeTestCommand())
	return b.String()
}
