// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// AdPosition is a named UI slot an ad can be placed in.
type AdPosition string

const (
	PositionTop     AdPosition = "top"
	PositionSidebar AdPosition = "sidebar"
	PositionBottom  AdPosition = "bottom"
	PositionBanner  AdPosition = "banner"
)

// ValidAdPosition reports whether p is a known placement.
func ValidAdPosition(p AdPosition) bool {
	switch p {
	case PositionTop, PositionSidebar, PositionBottom, PositionBanner:
		return true
	}
	return false
}

// Status is the active/inactive switch shared by ads and services.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatus reports whether s is active or inactive.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusInactive
}

// Ad is a promotional unit. EndDate is always strictly after StartDate.
type Ad struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Position  AdPosition `json:"position"`
	Status    Status     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	EndDate   time.Time  `json:"endDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// DatesValid reports whether the ad's end date is after its start date.
func (a *Ad) DatesValid() bool {
	return a.EndDate.After(a.StartDate)
}

// VisibleAt reports whether the ad is shown publicly at t: it must be
// active and t must fall inside [StartDate, EndDate].
func (a *Ad) VisibleAt(t time.Time) bool {
	return a.Status == StatusActive && !t.Before(a.StartDate) && !t.After(a.EndDate)
}
