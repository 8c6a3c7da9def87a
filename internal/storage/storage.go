// Package storage defines the static-storage collaborator that holds image
// content and site assets. The persistent store keeps metadata only.
package storage

import "context"

// Store provisions per-user and per-gallery namespaces and moves image
// bytes and static assets.
type Store interface {
	// EnsureUser provisions an empty namespace for a new user's galleries.
	EnsureUser(ctx context.Context, username string) error
	// EnsureGallery provisions storage for a new gallery.
	EnsureGallery(ctx context.Context, username, gallery string) error
	// PutImage stores decoded image bytes under user/gallery/name.
	PutImage(ctx context.Context, username, gallery, name string, data []byte) error
	// GetImage fetches stored image bytes.
	GetImage(ctx context.Context, username, gallery, name string) ([]byte, error)
	// GetStatic fetches a site asset (page template, stylesheet, script)
	// by path, or errs.ErrNotFound.
	GetStatic(ctx context.Context, path string) ([]byte, error)
}
