// Package keystore reads and writes the single-object credential file
// holding the AI service API key.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type record struct {
	APIKey string `json:"api_key"`
}

// Load returns the stored API key, or an empty string when the file does not
// exist yet.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read key file: %w", err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("parse key file: %w", err)
	}
	return rec.APIKey, nil
}

// Save overwrites the credential file with the given key. Callers validate
// the key against the service before saving.
func Save(path, key string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	data, err := json.MarshalIndent(record{APIKey: key}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}
