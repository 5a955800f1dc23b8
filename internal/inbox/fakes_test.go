// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inbox

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ourshop/internal/mail"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]models.Message
	now      time.Time
	failOn   string
}

func newMemRepo() *memRepo {
	return &memRepo{messages: map[uuid.UUID]models.Message{}, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (r *memRepo) List(ctx context.Context) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (r *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (r *memRepo) Create(ctx context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "create" {
		return errors.New("insert failed")
	}
	m.ID = uuid.Must(uuid.NewV7())
	r.now = r.now.Add(time.Second)
	m.CreatedAt, m.UpdatedAt = r.now, r.now
	m.Read = false
	r.messages[m.ID] = *m
	return nil
}

func (r *memRepo) SetRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	m.Read = read
	r.messages[id] = m
	return &m, nil
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

// fakeSender records sent mail.
type fakeSender struct {
	configured bool
	err        error
	sent       []mail.Email
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Send(ctx context.Context, e mail.Email) (string, error) {
	if !f.configured {
		return "", mail.ErrNotConfigured
	}
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	return "email_1", nil
}

// setGuard remembers keys like the Valkey-backed guard does.
type setGuard struct {
	seen map[string]bool
	err  error
}

func (g *setGuard) Seen(ctx context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	dup := g.seen[key]
	g.seen[key] = true
	return dup, nil
}

func (g *setGuard) Forget(ctx context.Context, key string) error {
	delete(g.seen, key)
	return nil
}
