package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const keyFileName = "auth.key"

// LoadOrGenerateKey returns the hex-encoded PASETO symmetric key for the
// server. Resolution order: the explicit key if non-empty, then the key
// file under dataDir, then a freshly generated key persisted to that file.
func LoadOrGenerateKey(explicitKey, dataDir string) (string, error) {
	if explicitKey != "" {
		return explicitKey, nil
	}

	keyPath := filepath.Join(dataDir, keyFileName)

	data, err := os.ReadFile(keyPath)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if len(key) != keyHexSize {
			return "", fmt.Errorf("key file %s is corrupt: expected %d hex characters, got %d", keyPath, keyHexSize, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read key file: %w", err)
	}

	keyBytes := make([]byte, keyBytesSize)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	key := hex.EncodeToString(keyBytes)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(key), 0o600); err != nil {
		return "", fmt.Errorf("write key file: %w", err)
	}

	return key, nil
}
