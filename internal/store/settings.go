// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"ourshop/internal/database"
	"ourshop/internal/models"
)

const settingsColumns = `site_name, site_description, contact_email, phone_number, address, maintenance_mode, last_updated`

// SettingsStore handles the single site-settings row.
type SettingsStore struct {
	db database.DBTX
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(db database.DBTX) *SettingsStore {
	return &SettingsStore{db: db}
}

func scanSettings(row rowScanner) (*models.Settings, error) {
	s := &models.Settings{}
	err := row.Scan(
		&s.SiteName, &s.SiteDescription, &s.ContactEmail, &s.PhoneNumber,
		&s.Address, &s.MaintenanceMode, &s.LastUpdated,
	)
	return s, err
}

// Get returns the settings row, creating it with defaults on first read.
// Concurrent first reads converge on the same row.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	d := models.DefaultSettings()
	_, err := s.db.Exec(ctx, `
		INSERT INTO settings (id, site_name, site_description, contact_email, phone_number, address, maintenance_mode)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, d.SiteName, d.SiteDescription, d.ContactEmail, d.PhoneNumber, d.Address, d.MaintenanceMode)
	if err != nil {
		return nil, wrap("ensure settings", err)
	}

	settings, err := scanSettings(s.db.QueryRow(ctx, "SELECT "+settingsColumns+" FROM settings WHERE id = 1"))
	if err != nil {
		return nil, wrap("get settings", err)
	}
	return settings, nil
}

// Save writes every field of settings and stamps last_updated.
func (s *SettingsStore) Save(ctx context.Context, settings *models.Settings) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO settings (id, site_name, site_description, contact_email, phone_number, address, maintenance_mode, last_updated)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
		    site_name = EXCLUDED.site_name,
		    site_description = EXCLUDED.site_description,
		    contact_email = EXCLUDED.contact_email,
		    phone_number = EXCLUDED.phone_number,
		    address = EXCLUDED.address,
		    maintenance_mode = EXCLUDED.maintenance_mode,
		    last_updated = NOW()
		RETURNING last_updated
	`, settings.SiteName, settings.SiteDescription, settings.ContactEmail,
		settings.PhoneNumber, settings.Address, settings.MaintenanceMode,
	).Scan(&settings.LastUpdated)
	return wrap("save settings", err)
}
