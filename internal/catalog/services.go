// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// Service field limits.
const (
	MaxServiceTitleLen       = 100
	MaxServiceDescriptionLen = 1000
	MaxServicePriceLen       = 50
)

const servicesNamespace = "services"

// ServiceRepository is the service persistence the catalog needs.
// *store.ServiceStore satisfies it.
type ServiceRepository interface {
	List(ctx context.Context, f store.ServiceFilter) ([]models.Service, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Services serves and edits the agency's offerings.
type Services struct {
	repo  ServiceRepository
	cache ListCache
}

// NewServices creates the service catalog. cache may be nil.
func NewServices(repo ServiceRepository, cache ListCache) *Services {
	return &Services{repo: repo, cache: cache}
}

// ServiceQuery filters a service listing.
type ServiceQuery struct {
	FeaturedOnly bool
	Admin        bool
}

// List returns services oldest first. Public listings contain active
// services only.
func (s *Services) List(ctx context.Context, q ServiceQuery) ([]models.Service, error) {
	f := store.ServiceFilter{FeaturedOnly: q.FeaturedOnly, ActiveOnly: !q.Admin}
	if q.Admin {
		return s.repo.List(ctx, f)
	}

	variant := "featured=" + strconv.FormatBool(q.FeaturedOnly)
	var cached []models.Service
	if s.cache != nil && s.cache.Get(ctx, servicesNamespace, variant, &cached) {
		return cached, nil
	}
	services, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, servicesNamespace, variant, services)
	}
	return services, nil
}

// Get returns one service by id.
func (s *Services) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, serviceError(err)
	}
	return svc, nil
}

// ServiceInput carries the fields of a service write. Nil fields are left
// unchanged on update.
type ServiceInput struct {
	Title       *string
	Description *string
	Price       *string
	Featured    *bool
	Status      *models.Status
}

// Create validates and stores a new service. Featured defaults to false
// and status to active.
func (s *Services) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if blank(in.Title) || blank(in.Description) || blank(in.Price) {
		return nil, apperr.Validation("Missing required fields")
	}
	svc := &models.Service{Status: models.StatusActive}
	in.apply(svc)
	if err := validateService(svc); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return svc, nil
}

// Update merges in onto the stored service and saves it.
func (s *Services) Update(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(svc)
	if err := validateService(svc); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, serviceError(err)
	}
	s.invalidate(ctx)
	return svc, nil
}

// Delete removes a service.
func (s *Services) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return serviceError(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Services) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, servicesNamespace)
	}
}

func (in ServiceInput) apply(svc *models.Service) {
	if in.Title != nil {
		svc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		svc.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		svc.Price = strings.TrimSpace(*in.Price)
	}
	if in.Featured != nil {
		svc.Featured = *in.Featured
	}
	if in.Status != nil {
		svc.Status = *in.Status
	}
}

func validateService(svc *models.Service) error {
	switch {
	case svc.Title == "":
		return apperr.InvalidField("title", "Title is required")
	case tooLong(svc.Title, MaxServiceTitleLen):
		return apperr.InvalidField("title", "Title cannot be more than 100 characters")
	case svc.Description == "":
		return apperr.InvalidField("description", "Description is required")
	case tooLong(svc.Description, MaxServiceDescriptionLen):
		return apperr.InvalidField("description", "Description cannot be more than 1000 characters")
	case svc.Price == "":
		return apperr.InvalidField("price", "Price is required")
	case tooLong(svc.Price, MaxServicePriceLen):
		return apperr.InvalidField("price", "Price cannot be more than 50 characters")
	case !models.ValidStatus(svc.Status):
		return apperr.InvalidField("status", "Invalid service status")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func serviceError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("Service not found")
	case errors.Is(err, store.ErrTooLong):
		return apperr.Wrap(apperr.KindValidation, "A service field is too long", err)
	}
	return err
}
