package venv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"quizsetup/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWriterLogger(logging.LevelError, os.Stderr)
}

func TestInterpreterPath(t *testing.T) {
	got := InterpreterPath("venv")

	if runtime.GOOS == "windows" {
		want := filepath.Join("venv", "Scripts", "python.exe")
		if got != want {
			t.Errorf("InterpreterPath() = %q, want %q", got, want)
		}
		return
	}

	want := filepath.Join("venv", "bin", "python")
	if got != want {
		t.Errorf("InterpreterPath() = %q, want %q", got, want)
	}
}

func TestProvisioner_PathAndExists(t *testing.T) {
	projectDir := t.TempDir()
	p := NewProvisioner(projectDir, "venv", testLogger())

	if want := filepath.Join(projectDir, "venv"); p.Path() != want {
		t.Errorf("Path() = %q, want %q", p.Path(), want)
	}

	if p.Exists() {
		t.Error("Exists() = true before creation")
	}

	if err := os.Mkdir(p.Path(), 0o755); err != nil {
		t.Fatal(err)
	}
	if !p.Exists() {
		t.Error("Exists() = false after the directory was created")
	}
}

func TestProvisioner_RuntimeRequiresInterpreter(t *testing.T) {
	projectDir := t.TempDir()
	p := NewProvisioner(projectDir, "venv", testLogger())

	if err := os.MkdirAll(p.Path(), 0o755); err != nil {
		t.Fatal(err)
	}

	// A bare directory is not a usable environment.
	if _, err := p.Runtime(); err == nil {
		t.Error("Runtime() should fail when the venv has no interpreter")
	}

	interp := InterpreterPath(p.Path())
	if err := os.MkdirAll(filepath.Dir(interp), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(interp, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	rt, err := p.Runtime()
	if err != nil {
		t.Fatalf("Runtime() failed with interpreter in place: %v", err)
	}
	if rt.Interpreter() != interp {
		t.Errorf("Interpreter() = %q, want %q", rt.Interpreter(), interp)
	}
	if !strings.HasPrefix(rt.Interpreter(), projectDir) {
		t.Error("runtime interpreter should live inside the project directory")
	}
}
