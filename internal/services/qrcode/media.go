package qrcode

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore keeps uploaded images and returns the URL they are served from.
type MediaStore interface {
	Save(ctx context.Context, data []byte, ext string) (publicID, url string, err error)
	Remove(ctx context.Context, publicID string) error
}

// LocalMedia writes images under a directory served statically at BaseURL.
type LocalMedia struct {
	Dir     string
	BaseURL string
}

func NewLocalMedia(dir, baseURL string) (*LocalMedia, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalMedia{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (m *LocalMedia) Save(_ context.Context, data []byte, ext string) (string, string, error) {
	publicID := "payment_qr/" + uuid.NewString() + ext
	dst := filepath.Join(m.Dir, filepath.FromSlash(publicID))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write image: %w", err)
	}
	return publicID, path.Join(m.BaseURL, publicID), nil
}

func (m *LocalMedia) Remove(_ context.Context, publicID string) error {
	err := os.Remove(filepath.Join(m.Dir, filepath.FromSlash(publicID)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
