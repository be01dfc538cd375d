// Package venv provisions the project's isolated dependency environment.
//
// The environment is never "activated": instead the provisioner hands out a
// python.Runtime bound to the venv's own interpreter path, and every install
// or script run goes through that explicit path.
package venv

import (
	"fmt"
	"path/filepath"
	"runtime"

	"quizsetup/internal/fsutil"
	"quizsetup/internal/logging"
	"quizsetup/internal/python"
)

// Provisioner manages the virtual environment directory of one project.
type Provisioner struct {
	projectDir string
	dir        string
	logger     *logging.Logger
}

// NewProvisioner creates a provisioner for a venv directory relative to projectDir
func NewProvisioner(projectDir, dir string, logger *logging.Logger) *Provisioner {
	return &Provisioner{
		projectDir: projectDir,
		dir:        dir,
		logger:     logger,
	}
}

// Path returns the absolute venv directory path
func (p *Provisioner) Path() string {
	return filepath.Join(p.projectDir, p.dir)
}

// Exists reports whether the venv directory already exists
func (p *Provisioner) Exists() bool {
	return fsutil.DirExists(p.Path())
}

// Create builds a fresh environment through the system interpreter.
// Existing environments are reused; Create is only called when Exists is false.
func (p *Provisioner) Create(system python.Runtime) error {
	if err := system.CreateVenv(p.Path()); err != nil {
		return fmt.Errorf("failed to provision environment at %s: %w", p.Path(), err)
	}

	p.logger.Info("venv.created", "Virtual environment created", map[string]interface{}{
		"path": p.Path(),
	})
	return nil
}

// Runtime returns a runtime bound to the venv's own interpreter
func (p *Provisioner) Runtime() (python.Runtime, error) {
	interp := InterpreterPath(p.Path())
	if !fsutil.FileExists(interp) {
		return nil, fmt.Errorf("environment at %s has no interpreter (expected %s)", p.Path(), interp)
	}
	return python.NewInterpreter(interp), nil
}

// InterpreterPath returns the interpreter location inside a venv root.
// The layout is the only place the host OS family matters.
func InterpreterPath(root string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(root, "Scripts", "python.exe")
	}
	return filepath.Join(root, "bin", "python")
}
