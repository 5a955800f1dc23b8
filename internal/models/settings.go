// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Settings is the singleton site configuration row.
type Settings struct {
	SiteName        string    `json:"siteName"`
	SiteDescription string    `json:"siteDescription"`
	ContactEmail    string    `json:"contactEmail"`
	PhoneNumber     string    `json:"phoneNumber"`
	Address         string    `json:"address"`
	MaintenanceMode bool      `json:"maintenanceMode"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// DefaultSettings returns the values used when the settings row is first created.
func DefaultSettings() Settings {
	return Settings{
		SiteName:        "OURSHOP",
		SiteDescription: "Modern Web Design Agency",
		ContactEmail:    "contact@ourshop.com",
		PhoneNumber:     "+1 (555) 123-4567",
		Address:         "123 Main Street, City, Country",
	}
}

// SettingsPatch carries the fields of a partial settings update. Nil
// fields are left unchanged.
type SettingsPatch struct {
	SiteName        *string `json:"siteName" validate:"omitempty,max=255"`
	SiteDescription *string `json:"siteDescription" validate:"omitempty,max=500"`
	ContactEmail    *string `json:"contactEmail" validate:"omitempty,email,max=255"`
	PhoneNumber     *string `json:"phoneNumber" validate:"omitempty,max=50"`
	Address         *string `json:"address" validate:"omitempty,max=500"`
	MaintenanceMode *bool   `json:"maintenanceMode"`
}

// Apply copies the non-nil patch fields onto s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.SiteDescription != nil {
		s.SiteDescription = *p.SiteDescription
	}
	if p.ContactEmail != nil {
		s.ContactEmail = *p.ContactEmail
	}
	if p.PhoneNumber != nil {
		s.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.MaintenanceMode != nil {
		s.MaintenanceMode = *p.MaintenanceMode
	}
}
