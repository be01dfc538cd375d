package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"quizsetup/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWriterLogger(logging.LevelError, os.Stderr)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("test-passphrase")
	plaintext := []byte(`{"GEMINI_API_KEY":"secret-value"}`)

	encrypted, err := Encrypt(plaintext, &key)
	if err != nil {
		t.Fatalf("Encrypt() failed: %v", err)
	}
	if bytes.Contains(encrypted, []byte("secret-value")) {
		t.Error("ciphertext contains the plaintext")
	}

	decrypted, err := Decrypt(encrypted, &key)
	if err != nil {
		t.Fatalf("Decrypt() failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", decrypted, plaintext)
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	key := DeriveKey("right")
	wrongKey := DeriveKey("wrong")

	encrypted, err := Encrypt([]byte("payload"), &key)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decrypt(encrypted, &wrongKey); err == nil {
		t.Error("Decrypt() with the wrong key should fail")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	key := DeriveKey("x")
	if _, err := Decrypt([]byte("short"), &key); err == nil {
		t.Error("Decrypt() should reject data shorter than the nonce")
	}
}

func TestStore_RememberAndRecall(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := store.Remember("GEMINI_API_KEY", "abc123"); err != nil {
		t.Fatalf("Remember() failed: %v", err)
	}

	value, ok, err := store.Recall("GEMINI_API_KEY")
	if err != nil {
		t.Fatalf("Recall() failed: %v", err)
	}
	if !ok || value != "abc123" {
		t.Errorf("Recall() = %q, %t, want abc123, true", value, ok)
	}
}

func TestStore_RecallUnknownName(t *testing.T) {
	store, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	value, ok, err := store.Recall("NEVER_SET")
	if err != nil {
		t.Fatalf("Recall() failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Recall() on unknown name = %q, %t, want empty, false", value, ok)
	}
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Remember("GEMINI_API_KEY", "persisted"); err != nil {
		t.Fatal(err)
	}

	second, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	value, ok, err := second.Recall("GEMINI_API_KEY")
	if err != nil {
		t.Fatalf("Recall() after reopen failed: %v", err)
	}
	if !ok || value != "persisted" {
		t.Errorf("Recall() after reopen = %q, %t", value, ok)
	}
}

func TestStore_Forget(t *testing.T) {
	store, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Remember("KEY", "v"); err != nil {
		t.Fatal(err)
	}
	if err := store.Forget("KEY"); err != nil {
		t.Fatalf("Forget() failed: %v", err)
	}

	if _, ok, _ := store.Recall("KEY"); ok {
		t.Error("credential still present after Forget()")
	}

	// Forgetting an unknown name is not an error.
	if err := store.Forget("UNKNOWN"); err != nil {
		t.Errorf("Forget() on unknown name failed: %v", err)
	}
}

func TestStore_CredentialsFileIsEncrypted(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remember("GEMINI_API_KEY", "very-secret-value"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatalf("credentials file not written: %v", err)
	}
	if bytes.Contains(data, []byte("very-secret-value")) {
		t.Error("credential cache holds the secret in plaintext")
	}

	info, err := os.Stat(filepath.Join(dir, "passphrase"))
	if err != nil {
		t.Fatalf("passphrase file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("passphrase permissions = %o, want 600", perm)
	}
}
