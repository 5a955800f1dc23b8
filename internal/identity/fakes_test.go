// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ourshop/internal/models"
	"ourshop/internal/store"
)

// memUsers keeps plaintext passwords in PasswordHash; hashing is the
// store's concern.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]*models.User{}}
}

func (m *memUsers) notFound(op string) error { return fmt.Errorf("%s: %w", op, store.ErrNotFound) }

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, m.notFound("find user by email")
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, m.notFound("find user by id")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Role(ctx context.Context, id uuid.UUID) (models.Role, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (m *memUsers) List(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Create(ctx context.Context, email, password, first, last string, role models.Role) (*models.User, error) {
	if _, err := m.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("create user: %w", store.ErrDuplicate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.Must(uuid.NewV7()), Email: email, PasswordHash: password, FirstName: first, LastName: last, Role: role}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, m.notFound("set user role")
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return m.notFound("set totp secret")
	}
	u.TOTPSecret = &secret
	return nil
}

func (m *memUsers) EnableTOTP(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return m.notFound("enable totp")
	}
	u.TOTPEnabled = true
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return m.notFound("delete user")
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) CheckPassword(u *models.User, password string) bool {
	return u.PasswordHash == password
}

type memConsents struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.MarketingConsent
}

func newMemConsents() *memConsents {
	return &memConsents{rows: map[uuid.UUID]*models.MarketingConsent{}}
}

func (m *memConsents) FindByUser(ctx context.Context, id uuid.UUID) (*models.MarketingConsent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("find consent: %w", store.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (m *memConsents) Upsert(ctx context.Context, id uuid.UUID, email string, consent bool) (*models.MarketingConsent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.MarketingConsent{UserID: id, Email: email, MarketingConsent: consent}
	m.rows[id] = c
	cp := *c
	return &cp, nil
}

func (m *memConsents) ListConsenting(ctx context.Context) ([]models.MarketingConsent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MarketingConsent{}
	for _, c := range m.rows {
		if c.MarketingConsent {
			out = append(out, *c)
		}
	}
	return out, nil
}
