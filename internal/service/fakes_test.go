package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/limiter"
	"github.com/olmmcc/union/internal/model"
	"github.com/olmmcc/union/internal/repository"
	"github.com/olmmcc/union/internal/storage"
)

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

type fakeSessions struct {
	byToken map[string]uuid.UUID

	issueErr   error
	resolveErr error
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func (f *fakeSessions) Issue(_ context.Context, userID uuid.UUID, token string) error {
	if f.issueErr != nil {
		return f.issueErr
	}
	if f.byToken == nil {
		f.byToken = map[string]uuid.UUID{}
	}
	// one live token per user: drop any prior token
	for t, id := range f.byToken {
		if id == userID {
			delete(f.byToken, t)
		}
	}
	f.byToken[token] = userID
	return nil
}

func (f *fakeSessions) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	if f.resolveErr != nil {
		return uuid.Nil, f.resolveErr
	}
	id, ok := f.byToken[token]
	if !ok {
		return uuid.Nil, errs.ErrNotFound
	}
	return id, nil
}

type galleryKey struct {
	owner uuid.UUID
	name  string
}

type fakeGalleries struct {
	byName map[galleryKey]*model.Gallery
	images map[uuid.UUID][]model.Image

	createErr error
	addErr    error
}

var _ repository.GalleryRepository = (*fakeGalleries)(nil)

func (f *fakeGalleries) Create(_ context.Context, g *model.Gallery) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byName == nil {
		f.byName = map[galleryKey]*model.Gallery{}
	}
	k := galleryKey{g.OwnerID, g.Name}
	if _, exists := f.byName[k]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *g
	f.byName[k] = &cpy
	return nil
}

func (f *fakeGalleries) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*model.Gallery, error) {
	g, ok := f.byName[galleryKey{ownerID, name}]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (f *fakeGalleries) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Gallery, error) {
	var out []model.Gallery
	for _, g := range f.byName {
		if g.OwnerID == ownerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGalleries) AddImage(_ context.Context, img *model.Image) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.images == nil {
		f.images = map[uuid.UUID][]model.Image{}
	}
	f.images[img.GalleryID] = append(f.images[img.GalleryID], *img)
	return nil
}

func (f *fakeGalleries) GetImage(_ context.Context, galleryID uuid.UUID, name string) (*model.Image, error) {
	for _, img := range f.images[galleryID] {
		if img.Name == name {
			c := img
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeGalleries) ListImages(_ context.Context, galleryID uuid.UUID) ([]model.Image, error) {
	return append([]model.Image(nil), f.images[galleryID]...), nil
}

type fakeStore struct {
	users     []string
	galleries []string
	objects   map[string][]byte

	err error
}

var _ storage.Store = (*fakeStore)(nil)

func (f *fakeStore) EnsureUser(_ context.Context, username string) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, username)
	return nil
}

func (f *fakeStore) EnsureGallery(_ context.Context, username, gallery string) error {
	if f.err != nil {
		return f.err
	}
	f.galleries = append(f.galleries, username+"/"+gallery)
	return nil
}

func (f *fakeStore) PutImage(_ context.Context, username, gallery, name string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[username+"/"+gallery+"/"+name] = data
	return nil
}

func (f *fakeStore) GetImage(_ context.Context, username, gallery, name string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[username+"/"+gallery+"/"+name]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

func (f *fakeStore) GetStatic(_ context.Context, path string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects["static/"+path]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}
