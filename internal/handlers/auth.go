// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"ourshop/internal/apperr"
	"ourshop/internal/identity"
	"ourshop/internal/middleware"
	"ourshop/internal/models"
	"ourshop/internal/session"
)

// SessionManager issues and ends sessions. *session.Store satisfies it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups the account and session handlers.
type Auth struct {
	identity *identity.Service
	sessions SessionManager
}

// NewAuth creates the auth handler group.
func NewAuth(id *identity.Service, sessions SessionManager) *Auth {
	return &Auth{identity: id, sessions: sessions}
}

type signUpRequest struct {
	Email            string `json:"email" validate:"required,email,max=100"`
	Password         string `json:"password" validate:"required"`
	FirstName        string `json:"firstName" validate:"max=100"`
	LastName         string `json:"lastName" validate:"max=100"`
	MarketingConsent bool   `json:"marketingConsent"`
}

// SignUp registers a user account.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.identity.Register(r.Context(), identity.SignUp{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		MarketingConsent: req.MarketingConsent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User                   *models.User `json:"user"`
	TwoFactorRequired      bool         `json:"twoFactorRequired"`
	TwoFactorSetupRequired bool         `json:"twoFactorSetupRequired"`
}

// Login checks credentials and starts a session. Admin roles get a
// session that stays limited until the TOTP check passes.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	needs2FA := u.Needs2FA()
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		TwoFADone: !needs2FA,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user logged in", "user_id", u.ID, "two_factor_required", needs2FA)

	writeJSON(w, http.StatusOK, loginResponse{
		User:                   u,
		TwoFactorRequired:      needs2FA,
		TwoFactorSetupRequired: needs2FA && !u.TOTPEnabled,
	})
}

// Logout ends the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type meResponse struct {
	*models.User
	TwoFactorDone bool `json:"twoFactorDone"`
}

// Me returns the signed-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := a.identity.Me(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: u, TwoFactorDone: p.TwoFADone})
}

// TwoFASetup issues a TOTP secret and its QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setup, err := a.identity.SetupTOTP(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFAVerify checks a TOTP code and unlocks the admin session.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.identity.VerifyTOTP(r.Context(), p.UserID, req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	data := middleware.SessionFromCtx(r.Context())
	if data == nil {
		writeError(w, r, apperr.Unauthenticated("Unauthorized"))
		return
	}
	data.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, data); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("2fa verified", "user_id", p.UserID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
