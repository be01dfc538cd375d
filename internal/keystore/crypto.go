package keystore

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the size of the encryption key (32 bytes for NaCl secretbox)
	KeySize = 32
	// NonceSize is the size of the nonce (24 bytes for NaCl secretbox)
	NonceSize = 24
)

// DeriveKey derives a 32-byte secretbox key from a passphrase using SHA-256
func DeriveKey(passphrase string) [KeySize]byte {
	return sha256.Sum256([]byte(passphrase))
}

// Encrypt seals data with NaCl secretbox (authenticated encryption).
// The random nonce is prepended to the ciphertext.
func Encrypt(plaintext []byte, key *[KeySize]byte) ([]byte, error) {
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Decrypt opens data sealed by Encrypt
func Decrypt(encrypted []byte, key *[KeySize]byte) ([]byte, error) {
	if len(encrypted) < NonceSize {
		return nil, fmt.Errorf("encrypted data too short (minimum %d bytes)", NonceSize)
	}

	var nonce [NonceSize]byte
	copy(nonce[:], encrypted[:NonceSize])

	decrypted, ok := secretbox.Open(nil, encrypted[NonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("decryption failed (wrong key or corrupted data)")
	}

	return decrypted, nil
}
