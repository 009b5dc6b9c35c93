// Package secrets encrypts sender authorization codes before they land in
// the local database. This is obfuscation against casual file access, not a
// vault: the key is derived from a fixed application passphrase, the same
// trade-off the desktop builds shipped with.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 100_000
	keyLen        = 32
)

type Box struct {
	aead cipher.AEAD
}

// NewBox derives an AES-256-GCM key from the passphrase via
// PBKDF2-HMAC-SHA256 with the given salt.
func NewBox(passphrase, salt []byte) (*Box, error) {
	key := pbkdf2.Key(passphrase, salt, keyIterations, keyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher error: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm mode error: %w", err)
	}

	return &Box{aead: aead}, nil
}

// Encrypt seals the plaintext and returns it urlsafe-base64 encoded, nonce
// prepended.
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce error: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values that do not decode or do not authenticate
// are returned unchanged: rows written by old builds stored the secret in the
// clear and must keep working.
func (b *Box) Decrypt(stored string) string {
	raw, err := base64.URLEncoding.DecodeString(stored)
	if err != nil || len(raw) <= b.aead.NonceSize() {
		return stored
	}

	nonce, sealed := raw[:b.aead.NonceSize()], raw[b.aead.NonceSize():]
	plaintext, err := b.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return stored
	}

	return string(plaintext)
}
