// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. Created by signup; immutable thereafter.
// Email and username uniqueness is enforced by the store.
type User struct {
	ID           uuid.UUID // PK
	Email        string    // unique
	Username     string    // unique
	PasswordHash string    // scrypt, PHC-style encoding with embedded salt
	CreatedAt    time.Time
}

// Session maps a high-entropy token to a user. At most one row per user;
// a new login supersedes any prior session.
type Session struct {
	Token  string    // 255 alphanumeric characters, PK
	UserID uuid.UUID // FK -> users.id, unique
}

// Gallery is a named image collection owned by one user.
// Name is unique per owner.
type Gallery struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID // FK -> users.id
	Name      string
	CreatedAt time.Time
}

// Image is a single stored picture belonging to exactly one gallery.
// Content bytes live in the storage collaborator, not in the row.
type Image struct {
	ID        uuid.UUID
	GalleryID uuid.UUID // FK -> galleries.id
	Name      string    // validated image title, ends in .jpg
	CreatedAt time.Time
}

// ImageUpload is one item of an upload batch: the target gallery by name,
// the validated-to-be title, and the raw data-URI payload.
type ImageUpload struct {
	GalleryName string `json:"gallery_name"`
	ImageName   string `json:"image_name"`
	ImageData   string `json:"image"` // data-URI-style base64 payload
}
