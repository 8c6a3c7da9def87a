package web

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/olmmcc/union/internal/model"
)

// Page templates live next to the other static assets. Rendering is plain
// placeholder substitution; the templates own all markup.
const (
	userPageTemplate    = "templates/user.html"
	galleryPageTemplate = "templates/gallery.html"

	usernamePlaceholder  = "{{username}}"
	galleryPlaceholder   = "{{gallery}}"
	galleriesPlaceholder = "{{galleries}}"
	imagesPlaceholder    = "{{images}}"
)

func (h *Handlers) renderUserPage(ctx context.Context, username string, galleries []model.Gallery) ([]byte, error) {
	tmpl, err := h.store.GetStatic(ctx, userPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", userPageTemplate, err)
	}
	var list strings.Builder
	for _, g := range galleries {
		fmt.Fprintf(&list, "<li><a href=\"/u/%s/%s\">%s</a></li>\n", username, g.Name, html.EscapeString(g.Name))
	}
	page := strings.ReplaceAll(string(tmpl), usernamePlaceholder, html.EscapeString(username))
	page = strings.ReplaceAll(page, galleriesPlaceholder, list.String())
	return []byte(page), nil
}

func (h *Handlers) renderGalleryPage(ctx context.Context, username, galleryName string, images []model.Image) ([]byte, error) {
	tmpl, err := h.store.GetStatic(ctx, galleryPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", galleryPageTemplate, err)
	}
	var list strings.Builder
	for _, img := range images {
		fmt.Fprintf(&list, "<li><img src=\"/u/%s/%s/%s\" alt=%q></li>\n", username, galleryName, img.Name, img.Name)
	}
	page := strings.ReplaceAll(string(tmpl), usernamePlaceholder, html.EscapeString(username))
	page = strings.ReplaceAll(page, galleryPlaceholder, html.EscapeString(galleryName))
	page = strings.ReplaceAll(page, imagesPlaceholder, list.String())
	return []byte(page), nil
}
