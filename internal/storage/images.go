// Package storage resolves lesson image names to something the HTTP layer
// can serve: a file on disk or a presigned object URL.
package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrImageNotFound is returned for names that do not resolve to an image.
var ErrImageNotFound = errors.New("image not found")

// Image is a resolved image. Exactly one of Path and URL is set.
type Image struct {
	Path string
	URL  string
}

// ImageStore resolves a slash-separated image name such as "math.png".
type ImageStore interface {
	Resolve(ctx context.Context, name string) (Image, error)
}

// cleanName rejects empty names and anything that escapes the root.
func cleanName(name string) (string, bool) {
	name = path.Clean("/" + strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." {
		return "", false
	}
	return name, true
}

// LocalImages serves images from a directory.
type LocalImages struct {
	Dir string
}

// NewLocalImages returns a store rooted at dir.
func NewLocalImages(dir string) *LocalImages { return &LocalImages{Dir: dir} }

// Resolve returns the on-disk path for name.
func (l *LocalImages) Resolve(_ context.Context, name string) (Image, error) {
	clean, ok := cleanName(name)
	if !ok {
		return Image{}, ErrImageNotFound
	}
	p := filepath.Join(l.Dir, filepath.FromSlash(clean))
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return Image{}, ErrImageNotFound
	}
	return Image{Path: p}, nil
}
