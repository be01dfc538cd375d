package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quizsetup/internal/logging"
)

func TestParse_KeysAndValues(t *testing.T) {
	data := []byte("# comment\nGEMINI_API_KEY=abc123\n\nGEMINI_MODEL=gemini-1.5-flash\nDEBUG=True\n")
	f := Parse(data)

	tests := []struct {
		key   string
		value string
	}{
		{"GEMINI_API_KEY", "abc123"},
		{"GEMINI_MODEL", "gemini-1.5-flash"},
		{"DEBUG", "True"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := f.Get(tt.key)
			if !ok {
				t.Fatalf("Get(%q) reported key missing", tt.key)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}

	if f.Has("MISSING") {
		t.Error("Has(MISSING) = true, want false")
	}
}

func TestParse_IgnoresCommentsAndMalformedLines(t *testing.T) {
	data := []byte("# KEY=not-a-pair\nno_equals_sign\n=leading-equals\nREAL=yes\n")
	f := Parse(data)

	keys := f.Keys()
	if len(keys) != 1 || keys[0] != "REAL" {
		t.Errorf("Keys() = %v, want [REAL]", keys)
	}
}

func TestBytes_RoundTripPreservesEverything(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"comments and blanks", "# header\n\nKEY=value\n\n# trailing\n"},
		{"no trailing newline", "KEY=value"},
		{"crlf line endings", "KEY=value\r\nOTHER=x\r\n"},
		{"empty file", ""},
		{"odd spacing", "  KEY = spaced value \nPLAIN=x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Parse([]byte(tt.data)).Bytes())
			if got != tt.data {
				t.Errorf("round trip changed content:\n got %q\nwant %q", got, tt.data)
			}
		})
	}
}

func TestSet_ReplacesOnlyTheKeyLine(t *testing.T) {
	data := "# do not touch\nGEMINI_API_KEY=old\nGEMINI_MODEL=gemini-pro\n# footer\n"
	f := Parse([]byte(data))

	replaced := f.Set("GEMINI_API_KEY", "new-key")
	if !replaced {
		t.Error("Set() on existing key reported no replacement")
	}

	want := "# do not touch\nGEMINI_API_KEY=new-key\nGEMINI_MODEL=gemini-pro\n# footer\n"
	if got := string(f.Bytes()); got != want {
		t.Errorf("Set() rewrote more than the key line:\n got %q\nwant %q", got, want)
	}
}

func TestSet_AppendsWhenKeyAbsent(t *testing.T) {
	f := Parse([]byte("EXISTING=1\n"))

	replaced := f.Set("NEW_KEY", "value")
	if replaced {
		t.Error("Set() on absent key reported a replacement")
	}

	want := "EXISTING=1\nNEW_KEY=value\n"
	if got := string(f.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}

func TestSet_NeverDuplicatesKeys(t *testing.T) {
	f := Parse([]byte("KEY=a\n"))
	f.Set("KEY", "b")
	f.Set("KEY", "c")

	count := 0
	for _, k := range f.Keys() {
		if k == "KEY" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("key appears %d times after repeated Set(), want 1", count)
	}

	if v, _ := f.Get("KEY"); v != "c" {
		t.Errorf("Get(KEY) = %q, want %q", v, "c")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	logger := logging.NewWriterLogger(logging.LevelError, os.Stderr)

	f := Parse([]byte("GEMINI_API_KEY=secret\n"))
	if err := f.Save(path, logger); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("secrets file permissions = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if v, ok := loaded.Get("GEMINI_API_KEY"); !ok || v != "secret" {
		t.Errorf("Get(GEMINI_API_KEY) = %q, %t after reload", v, ok)
	}
}

func TestTemplate_ContainsExpectedKeys(t *testing.T) {
	content := string(Template("GEMINI_API_KEY", "GEMINI_MODEL", "gemini-1.5-flash"))

	f := Parse([]byte(content))
	if v, _ := f.Get("GEMINI_API_KEY"); v != "your-gemini-api-key-here" {
		t.Errorf("template GEMINI_API_KEY = %q", v)
	}
	if v, _ := f.Get("GEMINI_MODEL"); v != "gemini-1.5-flash" {
		t.Errorf("template GEMINI_MODEL = %q", v)
	}
	if v, _ := f.Get("DEBUG"); v != "True" {
		t.Errorf("template DEBUG = %q", v)
	}
	if !f.Has("SECRET_KEY") {
		t.Error("template is missing SECRET_KEY")
	}
	if !strings.HasPrefix(content, "#") {
		t.Error("template should start with an explanatory comment")
	}
}
