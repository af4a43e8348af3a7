package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// Box seals and opens connection credentials (platform access/refresh tokens)
// with a symmetric key. Tokens are stored base64(nonce || ciphertext).
type Box struct {
	key [32]byte
}

var ErrInvalidKey = errors.New("secrets: key must be 64 hex characters")
var ErrDecrypt = errors.New("secrets: could not open ciphertext")

// NewBox builds a Box from a 64-character hex key.
func NewBox(hexKey string) (*Box, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidKey
	}

	b := &Box{}
	copy(b.key[:], raw)
	return b, nil
}

// Seal encrypts a plaintext token.
func (b *Box) Seal(plaintext string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a token produced by Seal.
func (b *Box) Open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(sealed) < 24 {
		return "", ErrDecrypt
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &b.key)
	if !ok {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}
