// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"ourshop/internal/mail"
	"ourshop/internal/middleware"
	"ourshop/internal/models"
	"ourshop/internal/session"
	"ourshop/internal/store"
)

// serve runs h against a request carrying the given caller.
func serve(t *testing.T, h http.HandlerFunc, method, target, body string, p *middleware.Principal) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if p != nil {
		ctx := context.WithValue(r.Context(), middleware.SessionKey, &session.Data{
			UserID: p.UserID, Email: p.Email, Role: string(p.Role), TwoFADone: p.TwoFADone,
		})
		r = r.WithContext(middleware.WithPrincipal(ctx, p))
	}
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func admin() *middleware.Principal {
	return &middleware.Principal{UserID: uuid.Must(uuid.NewV7()), Email: "admin@example.com", Role: models.RoleAdmin, TwoFADone: true}
}

type memAds struct {
	mu  sync.Mutex
	ads []models.Ad
}

func (m *memAds) List(ctx context.Context, position models.AdPosition) ([]models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Ad{}
	for _, a := range m.ads {
		if position == "" || a.Position == position {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAds) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.ads {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memAds) Create(ctx context.Context, a *models.Ad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.Must(uuid.NewV7())
	m.ads = append(m.ads, *a)
	return nil
}

func (m *memAds) Update(ctx context.Context, a *models.Ad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.ads {
		if m.ads[i].ID == a.ID {
			m.ads[i] = *a
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memAds) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.ads {
		if m.ads[i].ID == id {
			m.ads = append(m.ads[:i], m.ads[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memServices struct {
	services []models.Service
}

func (m *memServices) List(ctx context.Context, f store.ServiceFilter) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range m.services {
		if (f.FeaturedOnly && !s.Featured) || (f.ActiveOnly && s.Status != models.StatusActive) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memServices) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memServices) Create(ctx context.Context, svc *models.Service) error {
	svc.ID = uuid.Must(uuid.NewV7())
	m.services = append(m.services, *svc)
	return nil
}

func (m *memServices) Update(ctx context.Context, svc *models.Service) error {
	for i := range m.services {
		if m.services[i].ID == svc.ID {
			m.services[i] = *svc
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memServices) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// memUsers keeps plaintext passwords; hashing is the store's concern.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]*models.User{}}
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find user by email: %w", store.ErrNotFound)
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("find user by id: %w", store.ErrNotFound)
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
		return nil, fmt.Errorf("set user role: %w", store.ErrNotFound)
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPSecret = &secret
	return nil
}

func (m *memUsers) EnableTOTP(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPEnabled = true
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("delete user: %w", store.ErrNotFound)
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

// fakeSessions records what the handlers did to the session.
type fakeSessions struct {
	created   *session.Data
	updated   *session.Data
	destroyed bool
}

func (f *fakeSessions) Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	f.created = data
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (f *fakeSessions) Update(ctx context.Context, r *http.Request, data *session.Data) error {
	f.updated = data
	return nil
}

func (f *fakeSessions) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	f.destroyed = true
	return nil
}

type fakeMail struct {
	configured bool
	err        error
	sent       []mail.Email
}

func (f *fakeMail) Configured() bool { return f.configured }

func (f *fakeMail) Send(ctx context.Context, e mail.Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, e)
	return "email-1", nil
}

type fixedCounts struct {
	unread, consenting, visible int
	err                         error
	at                          time.Time
}

func (f *fixedCounts) CountUnread(ctx context.Context) (int, error) { return f.unread, f.err }

func (f *fixedCounts) CountConsenting(ctx context.Context) (int, error) { return f.consenting, nil }

func (f *fixedCounts) CountVisible(ctx context.Context, now time.Time) (int, error) {
	f.at = now
	return f.visible, nil
}

type fakeUploader struct {
	got []byte
	err error
}

func (f *fakeUploader) UploadProjectImage(ctx context.Context, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.got = data
	return "https://cdn.example.com/projects/1.png", nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Configured() bool { return true }

func (f *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

var errBoom = errors.New("boom")

type memMessages struct {
	messages []models.Message
}

func (m *memMessages) List(ctx context.Context) ([]models.Message, error) {
	return m.messages, nil
}

func (m *memMessages) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			return &msg, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memMessages) Create(ctx context.Context, msg *models.Message) error {
	msg.ID = uuid.Must(uuid.NewV7())
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessages) SetRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Read = read
			return &m.messages[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memMessages) Delete(ctx context.Context, id uuid.UUID) error {
	return store.ErrNotFound
}
