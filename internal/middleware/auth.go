// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"ourshop/internal/models"
	"ourshop/internal/session"
	"ourshop/internal/store"
)

type contextKey string

const (
	// SessionKey is the context key for the raw session data.
	SessionKey contextKey = "session"
	// PrincipalKey is the context key for the resolved caller.
	PrincipalKey contextKey = "principal"
)

// SessionReader loads the session named by a request. *session.Store
// satisfies it.
type SessionReader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// RoleLookup returns the current role of a user. It returns an error
// wrapping store.ErrNotFound when the user no longer exists.
type RoleLookup interface {
	Role(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Role      models.Role
	TwoFADone bool
}

// IsAdmin reports whether p holds an admin role and finished 2FA.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role.IsAdmin() && p.TwoFADone
}

// IsMainAdmin reports whether p is a main_admin that finished 2FA.
func (p *Principal) IsMainAdmin() bool {
	return p != nil && p.Role == models.RoleMainAdmin && p.TwoFADone
}

// LoadSession resolves the caller from the session cookie and puts it in
// the request context. The role is re-read through roles on every request
// so demotions apply immediately. It never rejects a request.
func LoadSession(sessions SessionReader, roles RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if data == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			role, err := roles.Role(ctx, data.UserID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				next.ServeHTTP(w, r)
				return
			case err != nil:
				slog.Error("role lookup failed", "user_id", data.UserID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = context.WithValue(ctx, PrincipalKey, &Principal{
				UserID:    data.UserID,
				Email:     data.Email,
				Role:      role,
				TwoFADone: data.TwoFADone,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a signed-in caller with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows admin and main_admin callers that completed 2FA.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, (*Principal).IsAdmin)
}

// RequireMainAdmin allows only main_admin callers that completed 2FA.
func RequireMainAdmin(next http.Handler) http.Handler {
	return requireRole(next, (*Principal).IsMainAdmin)
}

func requireRole(next http.Handler, allowed func(*Principal) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromCtx(r.Context())
		switch {
		case p == nil:
			writeError(w, http.StatusUnauthorized, "Unauthorized")
		case p.Role.IsAdmin() && !p.TwoFADone:
			writeError(w, http.StatusForbidden, "Two-factor authentication required")
		case !allowed(p):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// SessionFromCtx returns the raw session, or nil for anonymous requests.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// PrincipalFromCtx returns the caller, or nil for anonymous requests.
func PrincipalFromCtx(ctx context.Context) *Principal {
	p, _ := ctx.Value(PrincipalKey).(*Principal)
	return p
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
