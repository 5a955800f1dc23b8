// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ourshop/internal/models"
	"ourshop/internal/store"
)

type memProjects struct {
	mu       sync.Mutex
	projects []models.Project
	lists    int
}

func (m *memProjects) List(ctx context.Context, f store.ProjectFilter) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []models.Project{}
	for i := len(m.projects) - 1; i >= 0; i-- {
		p := m.projects[i]
		if f.PublishedOnly && !p.IsPublished() {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memProjects) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memProjects) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memProjects) slugTaken(slug string, except uuid.UUID) bool {
	for _, p := range m.projects {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (m *memProjects) Create(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(p.Slug, uuid.Nil) {
		return store.ErrDuplicate
	}
	p.ID = uuid.Must(uuid.NewV7())
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects = append(m.projects, *p)
	return nil
}

func (m *memProjects) Update(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(p.Slug, p.ID) {
		return store.ErrDuplicate
	}
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			p.UpdatedAt = time.Now()
			m.projects[i] = *p
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memProjects) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memServices struct {
	mu       sync.Mutex
	services []models.Service
	lists    int
}

func (m *memServices) List(ctx context.Context, f store.ServiceFilter) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := []models.Service{}
	for _, s := range m.services {
		if f.FeaturedOnly && !s.Featured {
			continue
		}
		if f.ActiveOnly && s.Status != models.StatusActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memServices) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memServices) Create(ctx context.Context, svc *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc.ID = uuid.Must(uuid.NewV7())
	m.services = append(m.services, *svc)
	return nil
}

func (m *memServices) Update(ctx context.Context, svc *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == svc.ID {
			m.services[i] = *svc
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memServices) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memSettings struct {
	row   *models.Settings
	saves int
}

func (m *memSettings) Get(ctx context.Context) (*models.Settings, error) {
	if m.row == nil {
		d := models.DefaultSettings()
		d.LastUpdated = time.Now()
		m.row = &d
	}
	cp := *m.row
	return &cp, nil
}

func (m *memSettings) Save(ctx context.Context, s *models.Settings) error {
	m.saves++
	s.LastUpdated = time.Now()
	cp := *s
	m.row = &cp
	return nil
}

// memCache stores JSON like the Valkey-backed cache does.
type memCache struct {
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, ns, variant string, dst any) bool {
	data, ok := c.entries[ns+":"+variant]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *memCache) Set(ctx context.Context, ns, variant string, v any) {
	data, _ := json.Marshal(v)
	c.entries[ns+":"+variant] = data
}

func (c *memCache) Invalidate(ctx context.Context, ns string) {
	c.invalidated = append(c.invalidated, ns)
	for k := range c.entries {
		if strings.HasPrefix(k, ns+":") {
			delete(c.entries, k)
		}
	}
}

type fakeImages struct {
	deleted []string
}

func (f *fakeImages) DeleteURL(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func ptr[T any](v T) *T { return &v }
