package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MasterKeyEnv is consulted by LoadSealer when no key file is configured.
const MasterKeyEnv = "ONBOARDING_MASTER_KEY"

var (
	ErrSealedTooShort = errors.New("cryptox: sealed data too short")
	ErrOpenFailed     = errors.New("cryptox: open failed")
)

// Sealer performs authenticated encryption of small records with
// AES-256-GCM. Output layout is [nonce][ciphertext+tag].
type Sealer struct {
	aead      cipher.AEAD
	ephemeral bool
}

// NewSealer derives a 32-byte key from keyMaterial using SHA-256.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty key material")
	}
	sum := sha256.Sum256(keyMaterial)

	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// LoadSealer builds a Sealer from the key file at path, falling back to the
// ONBOARDING_MASTER_KEY environment variable and finally to a random
// ephemeral key. Ephemeral keys do not survive a restart.
func LoadSealer(path string) (*Sealer, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key: %w", err)
		}
		return NewSealer([]byte(strings.TrimSpace(string(data))))
	}

	if env := os.Getenv(MasterKeyEnv); env != "" {
		return NewSealer([]byte(env))
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptox: generate ephemeral key: %w", err)
	}
	s, err := NewSealer(buf)
	if err != nil {
		return nil, err
	}
	s.ephemeral = true
	return s, nil
}

// Ephemeral reports whether the key was generated at startup.
func (s *Sealer) Ephemeral() bool { return s.ephemeral }

// Seal encrypts plaintext. The additional data is authenticated but not
// stored; Open must be given the same value.
func (s *Sealer) Seal(plaintext, additional []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, additional), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrSealedTooShort
	}

	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], additional)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
