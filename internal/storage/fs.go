package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by a local uploads directory.
type FS struct {
	root string // absolute path to the uploads directory
}

// NewFS creates an FS provider rooted at the given directory, creating it
// if necessary.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute uploads directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves name against the uploads root and rejects any result
// that escapes it. Stored names are flat, so path separators are refused
// outright.
func (f *FS) safePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: name is required")
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) || cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid object name: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes uploads root: %s", name)
	}
	return abs, nil
}

// Write atomically stores content: tmp file, fsync, rename.
func (f *FS) Write(name string, content []byte) error {
	abs, err := f.safePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".noteboard-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Read returns the stored bytes for name.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Exists reports whether an object is stored under name.
func (f *FS) Exists(name string) bool {
	abs, err := f.safePath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Delete removes the object stored under name.
func (f *FS) Delete(name string) error {
	abs, err := f.safePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}
