// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ourshop/internal/database"
	"ourshop/internal/models"
)

const adColumns = `id, title, content, position, status, start_date, end_date, created_at, updated_at`

// AdStore handles advertisement persistence.
type AdStore struct {
	db database.DBTX
}

// NewAdStore creates a new AdStore.
func NewAdStore(db database.DBTX) *AdStore {
	return &AdStore{db: db}
}

func scanAd(row rowScanner) (*models.Ad, error) {
	a := &models.Ad{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Position, &a.Status,
		&a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// List returns ads in creation order, restricted to position when it is
// non-empty.
func (s *AdStore) List(ctx context.Context, position models.AdPosition) ([]models.Ad, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+adColumns+` FROM ads
		WHERE ($1 = '' OR position = $1)
		ORDER BY created_at ASC, id ASC
	`, string(position))
	if err != nil {
		return nil, wrap("list ads", err)
	}
	defer rows.Close()

	ads := []models.Ad{}
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, wrap("scan ad", err)
		}
		ads = append(ads, *a)
	}
	return ads, wrap("list ads", rows.Err())
}

// FindByID retrieves an ad. Returns ErrNotFound if absent.
func (s *AdStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	a, err := scanAd(s.db.QueryRow(ctx, "SELECT "+adColumns+" FROM ads WHERE id = $1", id))
	if err != nil {
		return nil, wrap("find ad", err)
	}
	return a, nil
}

// Create inserts a.
func (s *AdStore) Create(ctx context.Context, a *models.Ad) error {
	a.ID = newID()
	err := s.db.QueryRow(ctx, `
		INSERT INTO ads (id, title, content, position, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, a.ID, a.Title, a.Content, a.Position, a.Status, a.StartDate, a.EndDate,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return wrap("create ad", err)
}

// Update writes every mutable column of a. Returns ErrNotFound if a.ID is unknown.
func (s *AdStore) Update(ctx context.Context, a *models.Ad) error {
	err := s.db.QueryRow(ctx, `
		UPDATE ads
		SET title = $2, content = $3, position = $4, status = $5,
		    start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, a.ID, a.Title, a.Content, a.Position, a.Status, a.StartDate, a.EndDate,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return wrap("update ad", err)
}

// Delete removes an ad. Returns ErrNotFound if absent.
func (s *AdStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	return affected("delete ad", tag, err)
}

// CountVisible returns how many ads are active and within their run at now.
func (s *AdStore) CountVisible(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM ads
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
	`, now).Scan(&n)
	return n, wrap("count visible ads", err)
}
