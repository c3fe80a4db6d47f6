package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem keeps one <namespace>.json per record under a local directory.
// Saves go through a temp file and rename so a crash mid-write never leaves
// a truncated record behind.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem record store rooted at dir, creating it
// if needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Filesystem{root: dir}, nil
}

func (f *Filesystem) pathFor(namespace string) (string, error) {
	if strings.TrimSpace(namespace) == "" {
		return "", fmt.Errorf("empty namespace")
	}
	if strings.ContainsAny(namespace, `/\`) || strings.Contains(namespace, "..") {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(f.root, namespace+".json"), nil
}

func (f *Filesystem) Load(_ context.Context, namespace string) ([]byte, error) {
	path, err := f.pathFor(namespace)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", namespace, err)
	}
	return data, nil
}

func (f *Filesystem) Save(_ context.Context, namespace string, data []byte) error {
	path, err := f.pathFor(namespace)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.root, namespace+".*.tmp")
	if err != nil {
		return retryableErr(namespace, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return retryableErr(namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return retryableErr(namespace, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return retryableErr(namespace, err)
	}
	return nil
}

func (f *Filesystem) Close() error { return nil }
