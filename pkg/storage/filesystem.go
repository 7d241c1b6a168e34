package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps archived roster sheets on the local filesystem,
// one subdirectory per tenant. Paths given to its methods are relative
// to the archive root and use forward slashes.
type LocalStorage struct {
	root string
}

// NewLocalStorage ensures the archive root exists and returns a handle.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Save writes data under the archive root, creating tenant subdirectories
// as needed. The relative path is returned unchanged on success.
func (s *LocalStorage) Save(relPath string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create tenant directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write archived sheet: %w", err)
	}
	return relPath, nil
}

// Open returns a read handle for an archived sheet.
func (s *LocalStorage) Open(relPath string) (*os.File, error) {
	file, err := os.Open(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("open archived sheet: %w", err)
	}
	return file, nil
}

// CleanupOlderThan deletes archived sheets whose modification time is older
// than ttl and returns the relative paths it removed. Tenant directories are
// left in place even when emptied.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var removed []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
		if rel, relErr := filepath.Rel(s.root, p); relErr == nil {
			removed = append(removed, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive cleanup: %w", err)
	}
	return removed, nil
}
