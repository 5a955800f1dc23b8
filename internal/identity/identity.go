// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity owns user accounts: sign-up, password login, TOTP
// second factor for admin roles, and role management by the main admin.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// Column limits of the users and marketing_consents tables.
const (
	MaxEmailLen = 255
	MaxNameLen  = 100
)

// Users is the account persistence the service needs.
// *store.UserStore satisfies it.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Role(ctx context.Context, id uuid.UUID) (models.Role, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, email, password, firstName, lastName string, role models.Role) (*models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// Consents records marketing choices. *store.ConsentStore satisfies it.
type Consents interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.MarketingConsent, error)
	Upsert(ctx context.Context, userID uuid.UUID, email string, consent bool) (*models.MarketingConsent, error)
	ListConsenting(ctx context.Context) ([]models.MarketingConsent, error)
}

// Service implements the account operations.
type Service struct {
	users    Users
	consents Consents
	issuer   string
}

// New creates a Service. issuer names the site in authenticator apps.
func New(users Users, consents Consents, issuer string) *Service {
	return &Service{users: users, consents: consents, issuer: issuer}
}

// Role returns the current role of userID. It backs the per-request
// role check of the HTTP layer.
func (s *Service) Role(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	return s.users.Role(ctx, userID)
}

// SignUp is a self-service registration.
type SignUp struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	MarketingConsent bool
}

// Register creates a user account with the user role and records the
// marketing choice made on the form.
func (s *Service) Register(ctx context.Context, in SignUp) (*models.User, error) {
	u, err := s.create(ctx, in.Email, in.Password, in.FirstName, in.LastName, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if in.MarketingConsent {
		if _, err := s.consents.Upsert(ctx, u.ID, u.Email, true); err != nil {
			slog.Error("record sign-up consent failed", "user_id", u.ID, "error", err)
		}
	}
	slog.Info("user registered", "user_id", u.ID, "marketing_consent", in.MarketingConsent)
	return u, nil
}

func (s *Service) create(ctx context.Context, email, password, first, last string, role models.Role) (*models.User, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "" || password == "":
		return nil, apperr.Validation("Email and password are required")
	case !validEmail(email):
		return nil, apperr.InvalidField("email", "Invalid email format")
	case utf8.RuneCountInString(email) > MaxEmailLen:
		return nil, apperr.InvalidField("email", "Email cannot be more than 255 characters")
	case utf8.RuneCountInString(strings.TrimSpace(first)) > MaxNameLen:
		return nil, apperr.InvalidField("firstName", "First name cannot be more than 100 characters")
	case utf8.RuneCountInString(strings.TrimSpace(last)) > MaxNameLen:
		return nil, apperr.InvalidField("lastName", "Last name cannot be more than 100 characters")
	case len(password) < MinPasswordLen:
		return nil, apperr.InvalidField("password", "Password must be at least 8 characters")
	case len(password) > 72:
		return nil, apperr.InvalidField("password", "Password must be at most 72 bytes")
	case !models.ValidRole(role):
		return nil, apperr.InvalidField("role", "Invalid role value")
	}

	u, err := s.users.Create(ctx, email, password, strings.TrimSpace(first), strings.TrimSpace(last), role)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperr.Conflict("Email already registered")
	}
	return u, err
}

// Login checks a password. The same error is returned for an unknown
// email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	invalid := apperr.Unauthenticated("Invalid email or password")
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !s.users.CheckPassword(u, password) {
		return nil, invalid
	}
	return u, nil
}

// Me returns the account of userID.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.user(ctx, userID)
}

func (s *Service) user(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	return u, err
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// User returns one account.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.user(ctx, id)
}

// CreateUser is the main admin creating an account with any role.
func (s *Service) CreateUser(ctx context.Context, email, password, first, last string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	return s.create(ctx, email, password, first, last, role)
}

// SetRole changes the role of target on behalf of actor. Another main
// admin can never be moved off main_admin.
func (s *Service) SetRole(ctx context.Context, actor, target uuid.UUID, role models.Role) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, apperr.InvalidField("role", "Invalid role value")
	}
	u, err := s.user(ctx, target)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleMainAdmin && role != models.RoleMainAdmin && target != actor {
		return nil, apperr.Forbidden("Cannot change the role of another main admin")
	}
	u, err = s.users.SetRole(ctx, target, role)
	if err != nil {
		return nil, err
	}
	slog.Info("user role changed", "actor", actor, "target", target, "role", role)
	return u, nil
}

// DeleteUser removes target on behalf of actor. Another main admin can
// never be deleted.
func (s *Service) DeleteUser(ctx context.Context, actor, target uuid.UUID) error {
	u, err := s.user(ctx, target)
	if err != nil {
		return err
	}
	if u.Role == models.RoleMainAdmin && target != actor {
		return apperr.Forbidden("Cannot delete another main admin")
	}
	if err := s.users.Delete(ctx, target); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	slog.Info("user deleted", "actor", actor, "target", target)
	return nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n") &&
		strings.Contains(email[at+1:], ".") && strings.Count(email, "@") == 1
}
