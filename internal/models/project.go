// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the publishing state of a portfolio entry.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
)

// DefaultProjectImage is used when a project is created without an image.
const DefaultProjectImage = "/projects/placeholder.jpg"

// Project is a portfolio entry. Slug is unique across all projects.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Slug        string        `json:"slug"`
	LiveURL     *string       `json:"liveUrl,omitempty"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsPublished returns true if the project is visible on public pages.
func (p *Project) IsPublished() bool {
	return p.Status == ProjectPublished
}

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s ProjectStatus) bool {
	return s == ProjectDraft || s == ProjectPublished
}
