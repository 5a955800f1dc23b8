// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"ourshop/internal/apperr"
	"ourshop/internal/catalog"
	"ourshop/internal/models"
	"ourshop/internal/storage"
)

// ImageUploader stores project images. *storage.Client satisfies it.
type ImageUploader interface {
	UploadProjectImage(ctx context.Context, body io.Reader) (string, error)
}

// Projects serves the portfolio.
type Projects struct {
	projects *catalog.Projects
	uploader ImageUploader
}

// NewProjects creates the project handler group. uploader may be nil when
// object storage is not configured.
func NewProjects(projects *catalog.Projects, uploader ImageUploader) *Projects {
	return &Projects{projects: projects, uploader: uploader}
}

type projectRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Image       *string               `json:"image" validate:"omitempty,max=500"`
	Slug        *string               `json:"slug" validate:"omitempty,max=150"`
	LiveURL     *string               `json:"liveUrl" validate:"omitempty,url,max=500"`
	Status      *models.ProjectStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

func (req projectRequest) input() catalog.ProjectInput {
	return catalog.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Slug:        req.Slug,
		LiveURL:     req.LiveURL,
		Status:      req.Status,
	}
}

// List returns published projects, optionally by category. With ?id= or
// ?slug= it returns one project. Admins may pass ?admin=true to include
// drafts.
func (p *Projects) List(w http.ResponseWriter, r *http.Request) {
	admin, err := adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := optionalID(r, "id", "Project")
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	switch {
	case id != nil:
		proj, err := p.projects.Get(r.Context(), *id, admin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, proj)
	case q.Get("slug") != "":
		proj, err := p.projects.GetBySlug(r.Context(), q.Get("slug"), admin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, proj)
	default:
		list, err := p.projects.List(r.Context(), catalog.ProjectQuery{Category: q.Get("category"), Admin: admin})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// Create adds a project.
func (p *Projects) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	proj, err := p.projects.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

// Update patches the project named by ?id=.
func (p *Projects) Update(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	proj, err := p.projects.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

// Delete removes the project named by ?id=.
func (p *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.projects.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Project deleted successfully"})
}

// UploadImage stores the multipart "image" field and returns its URL.
func (p *Projects) UploadImage(w http.ResponseWriter, r *http.Request) {
	if p.uploader == nil {
		writeError(w, r, apperr.Degraded("Image storage is not configured", nil))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+1024)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		writeError(w, r, apperr.InvalidField("image", "Image too large. Maximum size is 5 MB."))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, apperr.InvalidField("image", "No image provided"))
		return
	}
	defer file.Close()

	url, err := p.uploader.UploadProjectImage(r.Context(), file)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		writeError(w, r, apperr.InvalidField("image", "Image too large. Maximum size is 5 MB."))
		return
	case errors.Is(err, storage.ErrUnsupportedType):
		writeError(w, r, apperr.InvalidField("image", "Unsupported image type. Use JPEG, PNG, GIF or WebP."))
		return
	case err != nil:
		writeError(w, r, err)
		return
	}
	slog.Info("project image uploaded", "url", url)
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
