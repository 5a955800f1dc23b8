// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog manages the public content of the site: portfolio
// projects, service offerings and the singleton settings row.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/slug"
	"ourshop/internal/store"
)

// Project field limits.
const (
	MaxProjectTitleLen       = 100
	MaxProjectDescriptionLen = 1000
	MaxProjectCategoryLen    = 50
	MaxProjectSlugLen        = 150
	MaxProjectURLLen         = 500
)

const projectsNamespace = "projects"

// ProjectRepository is the project persistence the catalog needs.
// *store.ProjectStore satisfies it.
type ProjectRepository interface {
	List(ctx context.Context, f store.ProjectFilter) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListCache caches public listings. *cache.ListCache satisfies it.
type ListCache interface {
	Get(ctx context.Context, namespace, variant string, dst any) bool
	Set(ctx context.Context, namespace, variant string, v any)
	Invalidate(ctx context.Context, namespace string)
}

// ImageRemover deletes uploaded project images. *storage.Client
// satisfies it.
type ImageRemover interface {
	DeleteURL(ctx context.Context, rawURL string) error
}

// Projects serves and edits portfolio entries.
type Projects struct {
	repo   ProjectRepository
	cache  ListCache
	images ImageRemover
}

// NewProjects creates the project service. cache may be nil.
func NewProjects(repo ProjectRepository, cache ListCache) *Projects {
	return &Projects{repo: repo, cache: cache}
}

// WithImages enables removal of uploaded images when a project is
// deleted or its image replaced.
func (p *Projects) WithImages(images ImageRemover) *Projects {
	p.images = images
	return p
}

// ProjectQuery filters a project listing. Admin listings include drafts
// and bypass the cache.
type ProjectQuery struct {
	Category string
	Admin    bool
}

// List returns projects newest first.
func (p *Projects) List(ctx context.Context, q ProjectQuery) ([]models.Project, error) {
	f := store.ProjectFilter{Category: strings.TrimSpace(q.Category), PublishedOnly: !q.Admin}
	if q.Admin {
		return p.repo.List(ctx, f)
	}

	variant := "category=" + f.Category
	var cached []models.Project
	if p.cache != nil && p.cache.Get(ctx, projectsNamespace, variant, &cached) {
		return cached, nil
	}
	projects, err := p.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Set(ctx, projectsNamespace, variant, projects)
	}
	return projects, nil
}

// Get returns one project by id. Drafts are hidden unless admin is set.
func (p *Projects) Get(ctx context.Context, id uuid.UUID, admin bool) (*models.Project, error) {
	proj, err := p.repo.FindByID(ctx, id)
	return visibleProject(proj, err, admin)
}

// GetBySlug returns one project by slug. Drafts are hidden unless admin
// is set.
func (p *Projects) GetBySlug(ctx context.Context, s string, admin bool) (*models.Project, error) {
	proj, err := p.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(s)))
	return visibleProject(proj, err, admin)
}

func visibleProject(proj *models.Project, err error, admin bool) (*models.Project, error) {
	if err != nil {
		return nil, projectError(err)
	}
	if !admin && !proj.IsPublished() {
		return nil, apperr.NotFound("Project not found")
	}
	return proj, nil
}

// ProjectInput carries the fields of a project write. Nil fields are left
// unchanged on update.
type ProjectInput struct {
	Title       *string
	Description *string
	Category    *string
	Image       *string
	Slug        *string
	LiveURL     *string
	Status      *models.ProjectStatus
}

// Create validates and stores a new project. A missing slug is derived
// from the title.
func (p *Projects) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	proj := &models.Project{Image: models.DefaultProjectImage, Status: models.ProjectDraft}
	in.apply(proj)
	if proj.Slug == "" {
		proj.Slug = slug.Generate(proj.Title)
	}
	if err := validateProject(proj); err != nil {
		return nil, err
	}
	if err := p.repo.Create(ctx, proj); err != nil {
		return nil, projectError(err)
	}
	p.invalidate(ctx)
	return proj, nil
}

// Update merges in onto the stored project and saves it. Clearing the
// slug re-derives it from the (possibly new) title.
func (p *Projects) Update(ctx context.Context, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	proj, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, projectError(err)
	}
	oldImage := proj.Image
	in.apply(proj)
	if proj.Slug == "" {
		proj.Slug = slug.Generate(proj.Title)
	}
	if err := validateProject(proj); err != nil {
		return nil, err
	}
	if err := p.repo.Update(ctx, proj); err != nil {
		return nil, projectError(err)
	}
	if proj.Image != oldImage {
		p.removeImage(ctx, oldImage)
	}
	p.invalidate(ctx)
	return proj, nil
}

// Delete removes a project and its uploaded image.
func (p *Projects) Delete(ctx context.Context, id uuid.UUID) error {
	proj, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return projectError(err)
	}
	if err := p.repo.Delete(ctx, id); err != nil {
		return projectError(err)
	}
	p.removeImage(ctx, proj.Image)
	p.invalidate(ctx)
	return nil
}

func (p *Projects) removeImage(ctx context.Context, url string) {
	if p.images == nil || url == "" || url == models.DefaultProjectImage {
		return
	}
	if err := p.images.DeleteURL(ctx, url); err != nil {
		slog.Warn("project image cleanup failed", "url", url, "error", err)
	}
}

func (p *Projects) invalidate(ctx context.Context) {
	if p.cache != nil {
		p.cache.Invalidate(ctx, projectsNamespace)
	}
}

func (in ProjectInput) apply(p *models.Project) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
		if p.Image == "" {
			p.Image = models.DefaultProjectImage
		}
	}
	if in.Slug != nil {
		p.Slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	if in.LiveURL != nil {
		u := strings.TrimSpace(*in.LiveURL)
		if u == "" {
			p.LiveURL = nil
		} else {
			p.LiveURL = &u
		}
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}

func validateProject(p *models.Project) error {
	switch {
	case p.Title == "":
		return apperr.InvalidField("title", "Please provide a title for this project")
	case tooLong(p.Title, MaxProjectTitleLen):
		return apperr.InvalidField("title", "Title cannot be more than 100 characters")
	case p.Description == "":
		return apperr.InvalidField("description", "Please provide a description for this project")
	case tooLong(p.Description, MaxProjectDescriptionLen):
		return apperr.InvalidField("description", "Description cannot be more than 1000 characters")
	case p.Category == "":
		return apperr.InvalidField("category", "Please specify the category of this project")
	case tooLong(p.Category, MaxProjectCategoryLen):
		return apperr.InvalidField("category", "Category cannot be more than 50 characters")
	case p.Slug == "":
		return apperr.InvalidField("slug", "Please provide a slug for this project")
	case tooLong(p.Slug, MaxProjectSlugLen):
		return apperr.InvalidField("slug", "Slug cannot be more than 150 characters")
	case tooLong(p.Image, MaxProjectURLLen):
		return apperr.InvalidField("image", "Image URL cannot be more than 500 characters")
	case p.LiveURL != nil && tooLong(*p.LiveURL, MaxProjectURLLen):
		return apperr.InvalidField("liveUrl", "Live URL cannot be more than 500 characters")
	case !models.ValidProjectStatus(p.Status):
		return apperr.InvalidField("status", string(p.Status)+" is not a supported status")
	}
	return nil
}

func projectError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("Project not found")
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("A project with this slug already exists")
	case errors.Is(err, store.ErrTooLong):
		return apperr.Wrap(apperr.KindValidation, "A project field is too long", err)
	}
	return err
}

// tooLong counts characters the way VARCHAR(n) does.
func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}
