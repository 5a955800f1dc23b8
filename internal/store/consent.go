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

const consentColumns = `user_id, email, marketing_consent, created_at, updated_at`

// ConsentStore handles per-user marketing consent records.
type ConsentStore struct {
	db database.DBTX
}

// NewConsentStore creates a new ConsentStore.
func NewConsentStore(db database.DBTX) *ConsentStore {
	return &ConsentStore{db: db}
}

func scanConsent(row rowScanner) (*models.MarketingConsent, error) {
	c := &models.MarketingConsent{}
	err := row.Scan(&c.UserID, &c.Email, &c.MarketingConsent, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// FindByUser returns the consent record of userID. Returns ErrNotFound if
// the user never recorded a choice.
func (s *ConsentStore) FindByUser(ctx context.Context, userID uuid.UUID) (*models.MarketingConsent, error) {
	c, err := scanConsent(s.db.QueryRow(ctx,
		"SELECT "+consentColumns+" FROM marketing_consents WHERE user_id = $1", userID))
	if err != nil {
		return nil, wrap("find consent", err)
	}
	return c, nil
}

// Upsert records the consent choice of userID, creating the row on first use.
func (s *ConsentStore) Upsert(ctx context.Context, userID uuid.UUID, email string, consent bool) (*models.MarketingConsent, error) {
	c, err := scanConsent(s.db.QueryRow(ctx, `
		INSERT INTO marketing_consents (user_id, email, marketing_consent)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
		    email = EXCLUDED.email,
		    marketing_consent = EXCLUDED.marketing_consent,
		    updated_at = NOW()
		RETURNING `+consentColumns, userID, email, consent))
	if err != nil {
		return nil, wrap("upsert consent", err)
	}
	return c, nil
}

// ListConsenting returns every record with consent granted, oldest first.
func (s *ConsentStore) ListConsenting(ctx context.Context) ([]models.MarketingConsent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+consentColumns+` FROM marketing_consents
		WHERE marketing_consent = TRUE
		ORDER BY created_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, wrap("list consenting", err)
	}
	defer rows.Close()

	consents := []models.MarketingConsent{}
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, wrap("scan consent", err)
		}
		consents = append(consents, *c)
	}
	return consents, wrap("list consenting", rows.Err())
}

// CountConsenting returns how many users have granted consent.
func (s *ConsentStore) CountConsenting(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM marketing_consents WHERE marketing_consent = TRUE").Scan(&n)
	return n, wrap("count consenting", err)
}
