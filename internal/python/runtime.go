package python

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runtime represents a Python interpreter the setup steps run through.
// Every operation carries the interpreter path explicitly; nothing relies
// on an "activated" environment inherited through process state.
type Runtime interface {
	// Interpreter returns the interpreter executable path
	Interpreter() string
	// Version returns the interpreter version string (e.g. "Python 3.12.1")
	Version() (string, error)
	// PipVersion returns the pip version string
	PipVersion() (string, error)
	// CreateVenv creates a virtual environment at dir
	CreateVenv(dir string) error
	// Install installs packages quietly via pip
	Install(packages ...string) error
	// InstallRequirements installs every entry of a requirements manifest
	InstallRequirements(path string) error
	// RunScript runs a Python script with output passed through
	RunScript(dir, script string, stdin io.Reader, stdout, stderr io.Writer) error
	// ScriptCommand builds the command RunScript would execute
	ScriptCommand(dir, script string) *exec.Cmd
}

// Interpreter implements Runtime over a concrete python executable.
type Interpreter struct {
	path string
}

// NewInterpreter creates a runtime bound to the given executable path
func NewInterpreter(path string) *Interpreter {
	return &Interpreter{path: path}
}

// Interpreter returns the interpreter executable path
func (i *Interpreter) Interpreter() string {
	return i.path
}

// Version returns the interpreter version string
func (i *Interpreter) Version() (string, error) {
	// #nosec G204 — interpreter path comes from detection or validated config
	cmd := exec.Command(i.path, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to get interpreter version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// PipVersion returns the pip version string, invoked through the interpreter
// so the answer is always about THIS interpreter's pip.
func (i *Interpreter) PipVersion() (string, error) {
	// #nosec G204 — interpreter path comes from detection or validated config
	cmd := exec.Command(i.path, "-m", "pip", "--version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pip is not available: %w, stderr: %s", err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CreateVenv creates a virtual environment at dir
func (i *Interpreter) CreateVenv(dir string) error {
	// #nosec G204 — venv directory comes from validated config
	cmd := exec.Command(i.path, "-m", "venv", dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("venv creation failed: %w, stderr: %s", err, stderr.String())
	}
	return nil
}

// Install installs packages quietly. Normal pip output is suppressed,
// failures still surface with captured stderr.
func (i *Interpreter) Install(packages ...string) error {
	if len(packages) == 0 {
		return nil
	}

	args := []string{"-m", "pip", "install", "-q"}
	args = append(args, packages...)

	// #nosec G204 — package names come from validated config
	cmd := exec.Command(i.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install %s failed: %w, stderr: %s",
			strings.Join(packages, " "), err, stderr.String())
	}
	return nil
}

// InstallRequirements installs every entry of a requirements manifest
func (i *Interpreter) InstallRequirements(path string) error {
	// #nosec G204 — manifest path comes from validated config
	cmd := exec.Command(i.path, "-m", "pip", "install", "-q", "-r", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install -r %s failed: %w, stderr: %s", path, err, stderr.String())
	}
	return nil
}

// ScriptCommand builds the command that runs a script from dir
func (i *Interpreter) ScriptCommand(dir, script string) *exec.Cmd {
	// #nosec G204 — script name comes from validated config
	cmd := exec.Command(i.path, script)
	cmd.Dir = dir
	return cmd
}

// RunScript runs a Python script synchronously with output passed straight
// through. The script's exit status is returned untouched; callers decide
// what a failure means.
func (i *Interpreter) RunScript(dir, script string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := i.ScriptCommand(dir, script)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
