package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStoreSave(t *testing.T) {
	root := t.TempDir()
	store := CreateLocalImageStore(root, "http://localhost:8000/")

	err := store.Save(context.Background(), "categories", "category-1.jpeg", []byte("jpeg"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "categories", "category-1.jpeg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestLocalImageStoreURL(t *testing.T) {
	store := CreateLocalImageStore("uploads", "http://localhost:8000/")

	assert.Equal(t, "http://localhost:8000/brands/brand-1.jpeg", store.URL("brands", "brand-1.jpeg"))
	assert.Equal(t, "", store.URL("brands", ""))
	assert.Equal(t, "https://cdn.example.com/x.jpeg", store.URL("brands", "https://cdn.example.com/x.jpeg"))
}
