package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects on the filesystem under a configured folder. Public
// URLs use the prefix the static file server is mounted on, which is
// independent of where the folder lives on disk.
type Local struct {
	folder    string
	urlPrefix string
}

func NewLocal(folder, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("create upload folder: %w", err)
	}
	return &Local{folder: folder, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (l *Local) Name() string { return "local" }

func (l *Local) Store(ctx context.Context, name string, contentType string, content []byte) (string, error) {
	path := filepath.Join(l.folder, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return l.urlPrefix + "/" + name, nil
}

func (l *Local) Remove(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(l.folder, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Folder exposes the storage root so the router can mount a static file
// server over it.
func (l *Local) Folder() string { return l.folder }
