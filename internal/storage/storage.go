// Package storage is the object store for uploaded media. The site only needs
// save, remove, and a public URL per object; everything else (serving, cache
// headers) is the web layer's problem.
package storage

import (
	"context"
	"io"
)

type MediaStore interface {
	// Save writes the object at path, failing if it already exists.
	Save(ctx context.Context, path string, r io.Reader) error
	// Remove deletes the object at path. Removing a missing object is not an
	// error.
	Remove(ctx context.Context, path string) error
	// PublicURL returns the URL the site serves the object under.
	PublicURL(path string) string
}
