// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ourshop/internal/catalog"
	"ourshop/internal/models"
)

// Services serves the offerings list.
type Services struct {
	services *catalog.Services
}

// NewServices creates the service handler group.
func NewServices(services *catalog.Services) *Services {
	return &Services{services: services}
}

type serviceRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *string        `json:"price"`
	Featured    *bool          `json:"featured"`
	Status      *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (req serviceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Featured:    req.Featured,
		Status:      req.Status,
	}
}

// List returns active services, or one service with ?id=.
// ?featured=true narrows to featured ones.
func (s *Services) List(w http.ResponseWriter, r *http.Request) {
	admin, err := adminView(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := optionalID(r, "id", "Service")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id != nil {
		svc, err := s.services.Get(r.Context(), *id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
		return
	}

	list, err := s.services.List(r.Context(), catalog.ServiceQuery{
		FeaturedOnly: queryFlag(r, "featured"),
		Admin:        admin,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create adds a service.
func (s *Services) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	svc, err := s.services.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// Update patches the service named by ?id=.
func (s *Services) Update(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Service")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req serviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	svc, err := s.services.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Delete removes the service named by ?id=.
func (s *Services) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Service")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.services.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Service deleted successfully"})
}
