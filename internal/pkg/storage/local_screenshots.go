package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var _ ScreenshotStore = (*LocalScreenshotStore)(nil)

// LocalScreenshotStore writes captures to a directory on disk.
type LocalScreenshotStore struct {
	dir string
}

// NewLocalScreenshotStore creates the directory if needed.
func NewLocalScreenshotStore(dir string) (*LocalScreenshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("screenshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	return &LocalScreenshotStore{dir: dir}, nil
}

// Put writes the capture and returns its path. Names are sanitized and
// timestamped so concurrent jobs never collide.
func (s *LocalScreenshotStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	base := sanitizeName(name)
	filename := fmt.Sprintf("%s_%d.png", base, time.Now().UnixNano())
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

func sanitizeName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		clean = "screenshot"
	}
	return clean
}
