// Package web serves the HTTP surface: cookie-authenticated batch image
// upload, user and gallery pages, authorized image bytes and the static
// file fallback.
package web

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/olmmcc/union/internal/errs"
	"github.com/olmmcc/union/internal/model"
	"github.com/olmmcc/union/internal/service"
	"github.com/olmmcc/union/internal/storage"
)

const sessionCookie = "id"

// Handlers carries the service and storage collaborators for all routes.
type Handlers struct {
	auth      service.AuthService
	galleries service.GalleryService
	store     storage.Store
	log       *zap.Logger
}

func NewHandlers(auth service.AuthService, galleries service.GalleryService, store storage.Store, log *zap.Logger) *Handlers {
	return &Handlers{auth: auth, galleries: galleries, store: store, log: log}
}

// Register mounts all HTTP routes on the router. The websocket route is
// mounted separately by the caller.
func (h *Handlers) Register(r *gin.Engine) {
	r.POST("/post/image", h.UploadImages)
	r.GET("/u/:name", h.UserPage)
	r.GET("/u/:name/:gallery", h.GalleryPage)
	r.GET("/u/:name/:gallery/:image", h.ServeImage)
	r.NoRoute(h.Static)
}

// authenticate resolves the session cookie to a user. A missing cookie,
// bad token grammar or unknown session all come back as not-ok; page
// handlers respond with an empty body in that case, revealing nothing.
func (h *Handlers) authenticate(c *gin.Context) (*model.User, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	user, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, errs.ErrUnauthorized) {
			h.log.Error("session lookup failed", zap.Error(err))
		}
		return nil, false
	}
	return user, true
}

// UploadImages accepts a JSON array of upload items. The response is an
// empty ack regardless of per-item outcomes; skipped items are logged.
// Unauthenticated requests get the same empty ack.
func (h *Handlers) UploadImages(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		c.String(http.StatusOK, "")
		return
	}
	var items []model.ImageUpload
	if err := c.ShouldBindJSON(&items); err != nil {
		h.log.Warn("undecodable upload body", zap.Error(err))
		c.String(http.StatusOK, "")
		return
	}
	results, err := h.galleries.UploadImages(c.Request.Context(), user, items)
	if err != nil {
		h.log.Error("upload batch failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	for _, r := range results {
		if r.Err != nil {
			h.log.Info("upload item skipped",
				zap.String("user", user.Username),
				zap.String("image", r.Name),
				zap.Error(r.Err))
		}
	}
	c.String(http.StatusOK, "")
}

// UserPage renders the gallery index for the authenticated owner. Anyone
// else, including other authenticated users, gets an empty page.
func (h *Handlers) UserPage(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok || user.Username != c.Param("name") {
		c.String(http.StatusOK, "")
		return
	}
	galleries, err := h.galleries.ListGalleries(c.Request.Context(), user)
	if err != nil {
		h.log.Error("list galleries failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	page, err := h.renderUserPage(c.Request.Context(), user.Username, galleries)
	if err != nil {
		h.log.Error("render user page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GalleryPage renders one gallery's image index for its owner.
func (h *Handlers) GalleryPage(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok || user.Username != c.Param("name") {
		c.String(http.StatusOK, "")
		return
	}
	galleryName := c.Param("gallery")
	images, err := h.galleries.ListImages(c.Request.Context(), user, galleryName)
	switch {
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrNotFound):
		c.String(http.StatusOK, "")
		return
	case err != nil:
		h.log.Error("list images failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	page, err := h.renderGalleryPage(c.Request.Context(), user.Username, galleryName, images)
	if err != nil {
		h.log.Error("render gallery page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// ServeImage returns stored image bytes to the authenticated owner.
func (h *Handlers) ServeImage(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok || user.Username != c.Param("name") {
		c.String(http.StatusOK, "")
		return
	}
	data, err := h.galleries.GetImageContent(c.Request.Context(), user, c.Param("gallery"), c.Param("image"))
	switch {
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrNotFound):
		c.String(http.StatusOK, "")
		return
	case err != nil:
		h.log.Error("serve image failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// Static serves public assets by path. A trailing slash completes to
// index.html; a miss is an empty page, not a 404.
func (h *Handlers) Static(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.String(http.StatusNotFound, "")
		return
	}
	// gin hands NoRoute the raw request path. A ".." segment could walk
	// the joined object key out of the asset prefix and into private
	// image keys, so those requests get the same empty page as a miss.
	for _, seg := range strings.Split(c.Request.URL.Path, "/") {
		if seg == ".." {
			c.String(http.StatusOK, "")
			return
		}
	}
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	data, err := h.store.GetStatic(c.Request.Context(), name)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.String(http.StatusOK, "")
		return
	case err != nil:
		h.log.Error("static fetch failed", zap.String("name", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "")
		return
	}
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Data(http.StatusOK, ct, data)
}
