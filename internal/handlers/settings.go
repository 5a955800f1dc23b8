// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ourshop/internal/catalog"
	"ourshop/internal/models"
)

// Settings serves the site settings.
type Settings struct {
	settings *catalog.Settings
}

// NewSettings creates the settings handler group.
func NewSettings(settings *catalog.Settings) *Settings {
	return &Settings{settings: settings}
}

// Get returns the settings row, creating it with defaults on first use.
func (s *Settings) Get(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Update applies a partial settings update.
func (s *Settings) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.settings.Update(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
