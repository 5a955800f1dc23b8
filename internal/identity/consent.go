// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// Consent returns the marketing choice of userID. A user who never chose
// gets an unsaved record with consent false.
func (s *Service) Consent(ctx context.Context, userID uuid.UUID) (*models.MarketingConsent, error) {
	c, err := s.consents.FindByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.MarketingConsent{UserID: userID}, nil
	}
	return c, err
}

// SetConsent records the marketing choice of userID.
func (s *Service) SetConsent(ctx context.Context, userID uuid.UUID, email string, consent bool) (*models.MarketingConsent, error) {
	if email == "" {
		return nil, apperr.InvalidField("email", "Email is required")
	}
	if !validEmail(email) {
		return nil, apperr.InvalidField("email", "Please enter a valid email")
	}
	if utf8.RuneCountInString(email) > MaxEmailLen {
		return nil, apperr.InvalidField("email", "Email cannot be more than 255 characters")
	}
	c, err := s.consents.Upsert(ctx, userID, email, consent)
	if errors.Is(err, store.ErrTooLong) {
		return nil, apperr.Wrap(apperr.KindValidation, "Email is too long", err)
	}
	return c, err
}

// Consenting lists every user who opted in.
func (s *Service) Consenting(ctx context.Context) ([]models.MarketingConsent, error) {
	return s.consents.ListConsenting(ctx)
}
