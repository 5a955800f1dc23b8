// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"ourshop/internal/database"
	"ourshop/internal/models"
)

const projectColumns = `id, title, description, category, image, slug, live_url, status, created_at, updated_at`

// ProjectFilter narrows a project listing. Zero values match everything.
type ProjectFilter struct {
	Category      string
	PublishedOnly bool
}

// ProjectStore handles portfolio project persistence.
type ProjectStore struct {
	db database.DBTX
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db database.DBTX) *ProjectStore {
	return &ProjectStore{db: db}
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Image, &p.Slug,
		&p.LiveURL, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// List returns projects matching f, newest first.
func (s *ProjectStore) List(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if f.PublishedOnly {
		where = append(where, "status = 'published'")
	}

	query := "SELECT " + projectColumns + " FROM projects"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, wrap("scan project", err)
		}
		projects = append(projects, *p)
	}
	return projects, wrap("list projects", rows.Err())
}

// FindByID retrieves a project. Returns ErrNotFound if absent.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if err != nil {
		return nil, wrap("find project", err)
	}
	return p, nil
}

// FindBySlug retrieves a project by slug. Returns ErrNotFound if absent.
func (s *ProjectStore) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE slug = $1", slug))
	if err != nil {
		return nil, wrap("find project by slug", err)
	}
	return p, nil
}

// Create inserts p. A slug already in use yields ErrDuplicate.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	p.ID = newID()
	err := s.db.QueryRow(ctx, `
		INSERT INTO projects (id, title, description, category, image, slug, live_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Description, p.Category, p.Image, p.Slug, p.LiveURL, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return wrap("create project", err)
}

// Update writes every mutable column of p. Returns ErrNotFound if p.ID is
// unknown and ErrDuplicate if the new slug collides.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	err := s.db.QueryRow(ctx, `
		UPDATE projects
		SET title = $2, description = $3, category = $4, image = $5, slug = $6,
		    live_url = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Description, p.Category, p.Image, p.Slug, p.LiveURL, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return wrap("update project", err)
}

// Delete removes a project. Returns ErrNotFound if absent.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return affected("delete project", tag, err)
}
