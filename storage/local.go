package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads below Dir and serves them under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

// NewLocalStore creates a LocalStore, e.g. NewLocalStore("./static", "/static").
func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) Save(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	written, err := io.Copy(out, &io.LimitedReader{R: r, N: MaxImageSize + 1})
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if written > MaxImageSize {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", ErrTooLarge
	}
	return s.URLPrefix + "/" + key, nil
}
