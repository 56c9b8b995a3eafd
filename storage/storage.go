// Package storage keeps uploaded images outside the database. Rows only hold
// the returned URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 10 * 1024 * 1024

// ErrTooLarge is returned when an upload exceeds MaxImageSize.
var ErrTooLarge = errors.New("storage: file exceeds size limit")

// Folders for the two kinds of uploads.
const (
	ProfileImages = "uploads/user_images"
	PostImages    = "uploads/post_images"
)

// ImageStore saves an object under key and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// ImageKey builds "<folder>/<slug(owner)>-<uuid><ext>" from the original file name.
func ImageKey(folder, owner, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := Slugify(owner)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s/%s-%s%s", folder, base, uuid.New().String(), ext)
}

// Slugify lowercases s and keeps letters and digits, joining other runs with '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
