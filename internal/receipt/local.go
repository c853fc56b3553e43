package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes receipts to a directory that the HTTP server exposes
// under BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save implements Store. An existing file with the same name is replaced.
func (s *LocalStore) Save(ctx context.Context, name, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file := name + "." + ext
	if err := os.WriteFile(filepath.Join(s.Dir, file), data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return s.BaseURL + "/" + file, nil
}
