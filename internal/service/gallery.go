package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/model"
	"github.com/olmmcc/union/internal/repository"
	"github.com/olmmcc/union/internal/storage"
	"github.com/olmmcc/union/internal/validate"
)

// GalleryService defines authorized gallery and image mutations plus the
// read queries the page handlers need. Callers authenticate first; every
// method takes the already-resolved owner.
type GalleryService interface {
	// CreateGallery persists a named gallery and provisions its storage.
	CreateGallery(ctx context.Context, owner *model.User, name string) error
	// UploadImages processes a batch; items are independent, one item's
	// rejection does not abort siblings. Returned slice parallels items.
	UploadImages(ctx context.Context, owner *model.User, items []model.ImageUpload) ([]UploadResult, error)
	// ListGalleries returns the owner's galleries.
	ListGalleries(ctx context.Context, owner *model.User) ([]model.Gallery, error)
	// ListImages resolves a gallery by name and returns its images.
	ListImages(ctx context.Context, owner *model.User, galleryName string) ([]model.Image, error)
	// GetImageContent fetches stored bytes for one authorized image.
	GetImageContent(ctx context.Context, owner *model.User, galleryName, imageName string) ([]byte, error)
}

// UploadResult reports one batch item's outcome. The HTTP response stays
// an empty ack; these feed logging and future per-item reporting.
type UploadResult struct {
	Name string
	Err  error
}

type GalleryServiceImpl struct {
	galleries repository.GalleryRepository
	store     storage.Store
}

// NewGalleryService constructs GalleryService.
func NewGalleryService(galleries repository.GalleryRepository, store storage.Store) *GalleryServiceImpl {
	return &GalleryServiceImpl{galleries: galleries, store: store}
}

// CreateGallery validates the name, persists the gallery and provisions
// its storage namespace.
func (s *GalleryServiceImpl) CreateGallery(ctx context.Context, owner *model.User, name string) error {
	name, ok := validate.Parse(validate.GalleryName, name)
	if !ok {
		return errs.ErrInvalidInput
	}
	gid, err := uuid.NewV4()
	if err != nil {
		return err
	}
	g := &model.Gallery{ID: gid, OwnerID: owner.ID, Name: name}
	if err := s.galleries.Create(ctx, g); err != nil {
		return err
	}
	if err := s.store.EnsureGallery(ctx, owner.Username, name); err != nil {
		return fmt.Errorf("provision gallery storage: %w", err)
	}
	return nil
}

// UploadImages stores each valid item: metadata to the store, decoded
// bytes to the storage collaborator. Infrastructure failures abort the
// batch; per-item validation/lookup failures only skip the item.
func (s *GalleryServiceImpl) UploadImages(ctx context.Context, owner *model.User, items []model.ImageUpload) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(items))
	for _, item := range items {
		results = append(results, UploadResult{
			Name: item.ImageName,
			Err:  s.uploadOne(ctx, owner, item),
		})
	}
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, errs.ErrInvalidInput) &&
			!errors.Is(r.Err, errs.ErrNotFound) && !errors.Is(r.Err, errs.ErrAlreadyExists) {
			return results, r.Err
		}
	}
	return results, nil
}

func (s *GalleryServiceImpl) uploadOne(ctx context.Context, owner *model.User, item model.ImageUpload) error {
	galleryName, okG := validate.Parse(validate.GalleryName, item.GalleryName)
	imageName, okI := validate.Parse(validate.ImageTitle, item.ImageName)
	if !okG || !okI {
		return errs.ErrInvalidInput
	}
	data, err := decodeDataURI(item.ImageData)
	if err != nil {
		return errs.ErrInvalidInput
	}

	g, err := s.galleries.GetByOwnerAndName(ctx, owner.ID, galleryName)
	if err != nil {
		return err
	}
	imgID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	img := &model.Image{ID: imgID, GalleryID: g.ID, Name: imageName}
	if err := s.galleries.AddImage(ctx, img); err != nil {
		return err
	}
	if err := s.store.PutImage(ctx, owner.Username, galleryName, imageName, data); err != nil {
		return fmt.Errorf("store image content: %w", err)
	}
	return nil
}

// ListGalleries returns the owner's galleries for the user page.
func (s *GalleryServiceImpl) ListGalleries(ctx context.Context, owner *model.User) ([]model.Gallery, error) {
	return s.galleries.ListByOwner(ctx, owner.ID)
}

// ListImages resolves a gallery by validated name and lists its images.
func (s *GalleryServiceImpl) ListImages(ctx context.Context, owner *model.User, galleryName string) ([]model.Image, error) {
	galleryName, ok := validate.Parse(validate.GalleryName, galleryName)
	if !ok {
		return nil, errs.ErrInvalidInput
	}
	g, err := s.galleries.GetByOwnerAndName(ctx, owner.ID, galleryName)
	if err != nil {
		return nil, err
	}
	return s.galleries.ListImages(ctx, g.ID)
}

// GetImageContent authorizes the image through its gallery row before
// handing back bytes from the storage collaborator.
func (s *GalleryServiceImpl) GetImageContent(ctx context.Context, owner *model.User, galleryName, imageName string) ([]byte, error) {
	galleryName, okG := validate.Parse(validate.GalleryName, galleryName)
	imageName, okI := validate.Parse(validate.ImageTitle, imageName)
	if !okG || !okI {
		return nil, errs.ErrInvalidInput
	}
	g, err := s.galleries.GetByOwnerAndName(ctx, owner.ID, galleryName)
	if err != nil {
		return nil, err
	}
	if _, err := s.galleries.GetImage(ctx, g.ID, imageName); err != nil {
		return nil, err
	}
	return s.store.GetImage(ctx, owner.Username, galleryName, imageName)
}

// decodeDataURI decodes a data-URI-style base64 payload
// ("data:image/jpeg;base64,...."). A bare base64 string also decodes.
func decodeDataURI(s string) ([]byte, error) {
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	return data, nil
}
