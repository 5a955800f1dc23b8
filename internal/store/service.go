// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"github.com/google/uuid"

	"ourshop/internal/database"
	"ourshop/internal/models"
)

const serviceColumns = `id, title, description, price, featured, status, created_at, updated_at`

// ServiceFilter narrows a service listing. Zero values match everything.
type ServiceFilter struct {
	FeaturedOnly bool
	ActiveOnly   bool
}

// ServiceStore handles the offered-services catalog.
type ServiceStore struct {
	db database.DBTX
}

// NewServiceStore creates a new ServiceStore.
func NewServiceStore(db database.DBTX) *ServiceStore {
	return &ServiceStore{db: db}
}

func scanService(row rowScanner) (*models.Service, error) {
	s := &models.Service{}
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.Price, &s.Featured, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// List returns services matching f in creation order.
func (s *ServiceStore) List(ctx context.Context, f ServiceFilter) ([]models.Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE (NOT $1 OR featured) AND (NOT $2 OR status = 'active')
		ORDER BY created_at ASC, id ASC
	`, f.FeaturedOnly, f.ActiveOnly)
	if err != nil {
		return nil, wrap("list services", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, wrap("scan service", err)
		}
		services = append(services, *svc)
	}
	return services, wrap("list services", rows.Err())
}

// FindByID retrieves a service. Returns ErrNotFound if absent.
func (s *ServiceStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, err := scanService(s.db.QueryRow(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = $1", id))
	if err != nil {
		return nil, wrap("find service", err)
	}
	return svc, nil
}

// Create inserts svc.
func (s *ServiceStore) Create(ctx context.Context, svc *models.Service) error {
	svc.ID = newID()
	err := s.db.QueryRow(ctx, `
		INSERT INTO services (id, title, description, price, featured, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, svc.ID, svc.Title, svc.Description, svc.Price, svc.Featured, svc.Status,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	return wrap("create service", err)
}

// Update writes every mutable column of svc. Returns ErrNotFound if svc.ID is unknown.
func (s *ServiceStore) Update(ctx context.Context, svc *models.Service) error {
	err := s.db.QueryRow(ctx, `
		UPDATE services
		SET title = $2, description = $3, price = $4, featured = $5, status = $6,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, svc.ID, svc.Title, svc.Description, svc.Price, svc.Featured, svc.Status,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	return wrap("update service", err)
}

// Delete removes a service. Returns ErrNotFound if absent.
func (s *ServiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	return affected("delete service", tag, err)
}
