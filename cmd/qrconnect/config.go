package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qrconnect/appkit/pkg/securestore"
)

type appConfig struct {
	APIBaseURL string     `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
	DataDir    string     `env:"DATA_DIR"`
	StoreKey   string     `env:"STORE_KEY"` // hex, 32 bytes; generated and kept on disk when empty
	Language   string     `env:"LANGUAGE" envDefault:"en"`
	QRFile     string     `env:"QR_FILE" envDefault:"qr.png"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string     `env:"LOG_FORMAT" envDefault:"text"`
}

// dataDir resolves the configured data directory, defaulting to
// ~/.qrconnect.
func (c appConfig) dataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".qrconnect"), nil
}

// storeKey returns the 32-byte key for the secure store. An explicit
// STORE_KEY wins; otherwise a device key is generated on first run and kept
// next to the encrypted entries.
func (c appConfig) storeKey(dir string) ([]byte, error) {
	if c.StoreKey != "" {
		key, err := hex.DecodeString(c.StoreKey)
		if err != nil {
			return nil, fmt.Errorf("decoding STORE_KEY: %w", err)
		}
		if len(key) != securestore.KeySize {
			return nil, fmt.Errorf("STORE_KEY must be %d bytes, got %d", securestore.KeySize, len(key))
		}
		return key, nil
	}

	path := filepath.Join(dir, "device.key")
	if raw, err := os.ReadFile(path); err == nil {
		key, err := hex.DecodeString(string(raw))
		if err != nil || len(key) != securestore.KeySize {
			return nil, fmt.Errorf("device key at %s is corrupt", path)
		}
		return key, nil
	}

	key := make([]byte, securestore.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating device key: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("writing device key: %w", err)
	}
	return key, nil
}
