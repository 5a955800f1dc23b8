// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ads decides which advertisements are shown and keeps every
// stored ad inside a valid run window.
package ads

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// Field limits.
const (
	MaxTitleLen   = 100
	MaxContentLen = 500
)

// Repository is the ad persistence the selector needs.
// *store.AdStore satisfies it.
type Repository interface {
	List(ctx context.Context, position models.AdPosition) ([]models.Ad, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	Create(ctx context.Context, a *models.Ad) error
	Update(ctx context.Context, a *models.Ad) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Query selects ads. ID wins over every other field.
type Query struct {
	ID           *uuid.UUID
	Position     models.AdPosition
	Admin        bool
	MostPromoted bool
}

// Service applies the selection policy and guards ad writes.
type Service struct {
	repo Repository
	now  func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Service. rnd drives the most-promoted pick; a nil rnd
// gets a randomly seeded source.
func New(repo Repository, rnd *rand.Rand) *Service {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Service{repo: repo, rnd: rnd, now: time.Now}
}

// WithClock replaces the time source used for visibility checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Select returns the ads matching q. Public queries see only active ads
// whose run covers the current instant. MostPromoted narrows to banner
// ads and returns at most one, picked uniformly.
func (s *Service) Select(ctx context.Context, q Query) ([]models.Ad, error) {
	if q.ID != nil {
		a, err := s.Get(ctx, *q.ID)
		if err != nil {
			return nil, err
		}
		return []models.Ad{*a}, nil
	}
	if q.Position != "" && !models.ValidAdPosition(q.Position) {
		return nil, apperr.InvalidField("position", "Invalid ad position")
	}

	position := q.Position
	if q.MostPromoted {
		position = models.PositionBanner
	}
	all, err := s.repo.List(ctx, position)
	if err != nil {
		return nil, err
	}

	ads := all
	if !q.Admin {
		now := s.now()
		ads = make([]models.Ad, 0, len(all))
		for _, a := range all {
			if a.VisibleAt(now) {
				ads = append(ads, a)
			}
		}
	}

	if q.MostPromoted {
		if len(ads) == 0 {
			return []models.Ad{}, nil
		}
		return []models.Ad{ads[s.pick(len(ads))]}, nil
	}
	return ads, nil
}

func (s *Service) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// Get returns one ad regardless of visibility.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// Input carries the fields of an ad write. Nil fields are left unchanged
// on update; Create requires all but Status.
type Input struct {
	Title     *string
	Content   *string
	Position  *models.AdPosition
	Status    *models.Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Create validates and stores a new ad. Status defaults to active.
func (s *Service) Create(ctx context.Context, in Input) (*models.Ad, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" ||
		in.Content == nil || strings.TrimSpace(*in.Content) == "" ||
		in.Position == nil || *in.Position == "" ||
		in.StartDate == nil || in.EndDate == nil {
		return nil, apperr.Validation("Missing required fields")
	}
	a := &models.Ad{Status: models.StatusActive}
	in.apply(a)
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update merges in onto the stored ad and saves it. The date check runs on
// the merged record, so moving only one end of the window is still
// checked against the other.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*models.Ad, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(a)
	if err := validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// Delete removes an ad.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id))
}

func (in Input) apply(a *models.Ad) {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		a.Content = strings.TrimSpace(*in.Content)
	}
	if in.Position != nil {
		a.Position = *in.Position
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.StartDate != nil {
		a.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		a.EndDate = *in.EndDate
	}
}

func validate(a *models.Ad) error {
	switch {
	case a.Title == "":
		return apperr.InvalidField("title", "Title is required")
	case len(a.Title) > MaxTitleLen:
		return apperr.InvalidField("title", "Title cannot be more than 100 characters")
	case a.Content == "":
		return apperr.InvalidField("content", "Content is required")
	case len(a.Content) > MaxContentLen:
		return apperr.InvalidField("content", "Content cannot be more than 500 characters")
	case !models.ValidAdPosition(a.Position):
		return apperr.InvalidField("position", "Invalid ad position")
	case !models.ValidStatus(a.Status):
		return apperr.InvalidField("status", "Invalid ad status")
	case !a.DatesValid():
		return apperr.InvalidField("endDate", "End date must be after start date")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Advertisement not found")
	}
	return err
}
