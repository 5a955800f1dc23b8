// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// Column limits of the settings row.
const (
	MaxSiteNameLen        = 255
	MaxSiteDescriptionLen = 500
	MaxContactEmailLen    = 255
	MaxPhoneNumberLen     = 50
	MaxAddressLen         = 500
)

// SettingsRepository is the settings persistence the catalog needs.
// *store.SettingsStore satisfies it.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

// Settings reads and patches the singleton site settings.
type Settings struct {
	repo SettingsRepository
}

// NewSettings creates the settings service.
func NewSettings(repo SettingsRepository) *Settings {
	return &Settings{repo: repo}
}

// Get returns the settings, creating the default row on first use.
func (s *Settings) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

// Update applies the non-nil fields of patch. The store stamps
// LastUpdated on every save.
func (s *Settings) Update(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error) {
	if patch.ContactEmail != nil {
		email := strings.TrimSpace(*patch.ContactEmail)
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			return nil, apperr.InvalidField("contactEmail", "Please provide a valid email")
		}
		patch.ContactEmail = &email
	}
	if patch.SiteName != nil && strings.TrimSpace(*patch.SiteName) == "" {
		return nil, apperr.InvalidField("siteName", "Site name cannot be empty")
	}
	for _, f := range []struct {
		value *string
		field string
		max   int
		msg   string
	}{
		{patch.SiteName, "siteName", MaxSiteNameLen, "Site name cannot be more than 255 characters"},
		{patch.SiteDescription, "siteDescription", MaxSiteDescriptionLen, "Site description cannot be more than 500 characters"},
		{patch.ContactEmail, "contactEmail", MaxContactEmailLen, "Contact email cannot be more than 255 characters"},
		{patch.PhoneNumber, "phoneNumber", MaxPhoneNumberLen, "Phone number cannot be more than 50 characters"},
		{patch.Address, "address", MaxAddressLen, "Address cannot be more than 500 characters"},
	} {
		if f.value != nil && tooLong(*f.value, f.max) {
			return nil, apperr.InvalidField(f.field, f.msg)
		}
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	if err := s.repo.Save(ctx, current); err != nil {
		if errors.Is(err, store.ErrTooLong) {
			return nil, apperr.Wrap(apperr.KindValidation, "A settings field is too long", err)
		}
		return nil, err
	}
	return current, nil
}
