package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore persists processed images and builds the public link for a stored file name.
type ImageStore interface {
	Save(ctx context.Context, folder, name string, data []byte) error
	URL(folder, name string) string
}

type LocalImageStore struct {
	root    string
	baseURL string
}

func CreateLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageStore) Save(ctx context.Context, folder, name string, data []byte) error {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	return os.WriteFile(filepath.Join(dir, filepath.Base(name)), data, 0o644)
}

func (s *LocalImageStore) URL(folder, name string) string {
	return publicURL(s.baseURL, folder, name)
}

func publicURL(baseURL, folder, name string) string {
	if name == "" || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return fmt.Sprintf("%s/%s/%s", baseURL, folder, name)
}
