// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"ourshop/internal/identity"
	"ourshop/internal/models"
)

// Users serves account administration and marketing preferences.
type Users struct {
	identity *identity.Service
}

// NewUsers creates the users handler group.
func NewUsers(id *identity.Service) *Users {
	return &Users{identity: id}
}

// List returns every user, or one with ?userId=.
func (u *Users) List(w http.ResponseWriter, r *http.Request) {
	id, err := optionalID(r, "userId", "User")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id != nil {
		user, err := u.identity.User(r.Context(), *id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}
	users, err := u.identity.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Email     string      `json:"email" validate:"required,email,max=100"`
	Password  string      `json:"password" validate:"required"`
	FirstName string      `json:"firstName" validate:"max=100"`
	LastName  string      `json:"lastName" validate:"max=100"`
	Role      models.Role `json:"role" validate:"omitempty,oneof=user admin main_admin"`
}

// Create adds a user with any role.
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := u.identity.CreateUser(r.Context(), req.Email, req.Password, req.FirstName, req.LastName, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type setRoleRequest struct {
	TargetUserID string      `json:"targetUserId" validate:"required,uuid"`
	Role         models.Role `json:"role" validate:"required,oneof=user admin main_admin"`
}

// SetRole changes the role of a user.
func (u *Users) SetRole(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := u.identity.SetRole(r.Context(), p.UserID, uuid.MustParse(req.TargetUserID), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User role updated to " + string(user.Role),
		"user":    user,
	})
}

// Delete removes the user named by ?userId=.
func (u *Users) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := queryID(r, "userId", "User")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := u.identity.DeleteUser(r.Context(), p.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User deleted successfully"})
}

// Consent returns the caller's marketing preference.
func (u *Users) Consent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := u.identity.Consent(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type consentRequest struct {
	Email            string `json:"email" validate:"omitempty,max=255"`
	MarketingConsent *bool  `json:"marketingConsent" validate:"required"`
}

// SetConsent records the caller's marketing preference. The email
// defaults to the account address.
func (u *Users) SetConsent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req consentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	email := req.Email
	if email == "" {
		email = p.Email
	}
	c, err := u.identity.SetConsent(r.Context(), p.UserID, email, *req.MarketingConsent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"marketingConsent": c.MarketingConsent,
		"message":          "Marketing preferences updated successfully",
	})
}

// Consenting lists every user who opted in to marketing mail.
func (u *Users) Consenting(w http.ResponseWriter, r *http.Request) {
	list, err := u.identity.Consenting(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
