package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/model"
)

// GalleryRepo implements GalleryRepository using PostgreSQL.
type GalleryRepo struct{ db *DB }

// NewGalleryRepo constructs a gallery repository.
func NewGalleryRepo(db *DB) *GalleryRepo { return &GalleryRepo{db: db} }

// Create inserts a gallery row. The (user_id, name) unique constraint
// turns duplicate names per owner into errs.ErrAlreadyExists.
func (r *GalleryRepo) Create(ctx context.Context, g *model.Gallery) error {
	const q = `INSERT INTO galleries (id, user_id, name) VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, g.ID, g.OwnerID, g.Name)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByOwnerAndName selects one gallery by its per-owner unique name.
func (r *GalleryRepo) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*model.Gallery, error) {
	const q = `
SELECT id, user_id, name, created_at
FROM galleries WHERE user_id=$1 AND name=$2`
	row := r.db.Pool.QueryRow(ctx, q, ownerID, name)
	var g model.Gallery
	if err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListByOwner returns all galleries owned by a user, oldest first.
func (r *GalleryRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Gallery, error) {
	const q = `
SELECT id, user_id, name, created_at
FROM galleries WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Gallery
	for rows.Next() {
		var g model.Gallery
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddImage inserts image metadata.
func (r *GalleryRepo) AddImage(ctx context.Context, img *model.Image) error {
	const q = `INSERT INTO images (id, gallery_id, name) VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, img.ID, img.GalleryID, img.Name)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetImage selects one image by gallery and name.
func (r *GalleryRepo) GetImage(ctx context.Context, galleryID uuid.UUID, name string) (*model.Image, error) {
	const q = `
SELECT id, gallery_id, name, created_at
FROM images WHERE gallery_id=$1 AND name=$2`
	row := r.db.Pool.QueryRow(ctx, q, galleryID, name)
	var img model.Image
	if err := row.Scan(&img.ID, &img.GalleryID, &img.Name, &img.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// ListImages returns all images in a gallery, oldest first.
func (r *GalleryRepo) ListImages(ctx context.Context, galleryID uuid.UUID) ([]model.Image, error) {
	const q = `
SELECT id, gallery_id, name, created_at
FROM images WHERE gallery_id=$1 ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, q, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.GalleryID, &img.Name, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
