package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/olmmcc/union/internal/model"
)

// GalleryRepository provides access to galleries and their images.
type GalleryRepository interface {
	// Create inserts a gallery. Returns errs.ErrAlreadyExists when the
	// owner already has a gallery with that name.
	Create(ctx context.Context, g *model.Gallery) error
	// GetByOwnerAndName resolves a gallery by its per-owner unique name.
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*model.Gallery, error)
	// ListByOwner returns all galleries owned by a user.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Gallery, error)

	// AddImage inserts image metadata into a gallery.
	AddImage(ctx context.Context, img *model.Image) error
	// GetImage resolves one image by gallery and name.
	GetImage(ctx context.Context, galleryID uuid.UUID, name string) (*model.Image, error)
	// ListImages returns all images in a gallery.
	ListImages(ctx context.Context, galleryID uuid.UUID) ([]model.Image, error)
}
