// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleMainAdmin Role = "main_admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMainAdmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and main_admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleMainAdmin
}

// User is a site account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user holds an admin role.
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// Needs2FA reports whether the user must pass a TOTP check after login.
// Only admin roles are required to enrol.
func (u *User) Needs2FA() bool {
	return u.IsAdmin()
}
