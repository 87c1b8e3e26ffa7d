package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/blink/pkg/domain"
)

const resultExt = ".json"

// FileStore implements ports.ResultStore using the local filesystem.
// It stores each result as a JSON file in a configured directory.
type FileStore struct {
	BasePath string
}

// NewFileStore creates a new FileStore with the given base path.
// If basePath is empty, it defaults to ".blink/results".
func NewFileStore(basePath string) *FileStore {
	if basePath == "" {
		basePath = filepath.Join(".blink", "results")
	}
	return &FileStore{BasePath: basePath}
}

// fileName maps a key to a portable file name. Keys contain ':' which is not
// valid on every filesystem.
func fileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key)) + resultExt
}

func keyFromFileName(name string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, resultExt))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// Save persists the result atomically: temp file, fsync, rename.
func (f *FileStore) Save(ctx context.Context, key string, result *domain.Result) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure result directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(f.BasePath, "tmp-*.partial")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(f.BasePath, fileName(key))); err != nil {
		return fmt.Errorf("failed to rename result file: %w", err)
	}
	return nil
}

// Load retrieves the result from its JSON file.
func (f *FileStore) Load(ctx context.Context, key string) (*domain.Result, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(f.BasePath, fileName(key)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Delete removes the result file. Deleting a missing key is not an error.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := os.Remove(filepath.Join(f.BasePath, fileName(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete result file: %w", err)
	}

	return nil
}

// List returns all stored keys.
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != resultExt {
			continue
		}
		if key, ok := keyFromFileName(entry.Name()); ok {
			keys = append(keys, key)
		}
	}

	return keys, nil
}
