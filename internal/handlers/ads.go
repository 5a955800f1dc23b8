// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"ourshop/internal/ads"
	"ourshop/internal/models"
)

// Ads serves advertisements.
type Ads struct {
	ads *ads.Service
}

// NewAds creates the ad handler group.
func NewAds(svc *ads.Service) *Ads {
	return &Ads{ads: svc}
}

// date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": invalid date"}
}

func (d *date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type adRequest struct {
	Title     *string            `json:"title"`
	Content   *string            `json:"content"`
	Position  *models.AdPosition `json:"position" validate:"omitempty,oneof=top sidebar bottom banner"`
	Status    *models.Status     `json:"status" validate:"omitempty,oneof=active inactive"`
	StartDate *date              `json:"startDate"`
	EndDate   *date              `json:"endDate"`
}

func (req adRequest) input() ads.Input {
	return ads.Input{
		Title:     req.Title,
		Content:   req.Content,
		Position:  req.Position,
		Status:    req.Status,
		StartDate: req.StartDate.ptr(),
		EndDate:   req.EndDate.ptr(),
	}
}

// List returns ads. Without ?admin=true only active ads whose run covers
// now are returned; ?mostPromoted=true returns at most one banner ad.
func (a *Ads) List(w http.ResponseWriter, r *http.Request) {
	admin, err := adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := optionalID(r, "id", "Advertisement")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := a.ads.Select(r.Context(), ads.Query{
		ID:           id,
		Position:     models.AdPosition(r.URL.Query().Get("position")),
		Admin:        admin,
		MostPromoted: queryFlag(r, "mostPromoted"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id != nil && len(list) == 1 {
		writeJSON(w, http.StatusOK, list[0])
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create adds an ad.
func (a *Ads) Create(w http.ResponseWriter, r *http.Request) {
	var req adRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ad, err := a.ads.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

// Update patches the ad named by ?id=.
func (a *Ads) Update(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Advertisement")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req adRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ad, err := a.ads.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// Delete removes the ad named by ?id=.
func (a *Ads) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Advertisement")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.ads.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Advertisement deleted successfully"})
}
