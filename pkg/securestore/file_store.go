package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required app key length, 256 bits for AES-256.
	KeySize = 32

	// keyInfo provides HKDF domain separation so the same app key can be
	// reused for other derivations without overlap.
	keyInfo = "qrconnect-securestore-v1"
)

// FileStore keeps one encrypted file per key under a private directory.
type FileStore struct {
	dir  string
	aead cipher.AEAD
}

// NewFileStore creates a file-backed store rooted at dir. The directory is
// created with owner-only permissions if it does not exist.
func NewFileStore(dir string, appKey []byte) (*FileStore, error) {
	if len(appKey) != KeySize {
		return nil, ErrInvalidKey
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, appKey, nil, []byte(keyInfo)), key); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	return &FileStore{dir: dir, aead: aead}, nil
}

// Get reads and decrypts the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	ciphertext, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrUnavailable, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", errors.Join(ErrUnavailable, errors.New("securestore: entry truncated"))
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, sealed, []byte(key))
	if err != nil {
		return "", errors.Join(ErrUnavailable, err)
	}

	return string(plaintext), nil
}

// Set encrypts and persists value under key, replacing any prior entry.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	// Nonce is prepended to the sealed data; the key name is bound in as
	// additional data so entries cannot be swapped between keys on disk.
	ciphertext := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))

	if err := os.WriteFile(s.path(key), ciphertext, 0o600); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Delete removes the entry for key. Absent entries are a no-op.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	return filepath.Join(s.dir, name+".enc")
}
