// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Development admin credentials created by SeedAdmin.
const (
	DevAdminEmail    = "admin@ourshop.local"
	DevAdminPassword = "admin"
)

type seedService struct {
	title, description, price string
	featured                  bool
}

var initialServices = []seedService{
	{"Web Design", "Custom website design tailored to your business needs.", "$999", true},
	{"Logo Design", "Professional logo design to establish your brand identity.", "$299", false},
	{"SEO Services", "Improve your search engine rankings with our SEO expertise.", "$499/month", true},
	{"Mobile App Development", "Custom mobile applications for iOS and Android platforms.", "$4,999", false},
	{"Social Media Marketing", "Comprehensive social media strategy and implementation.", "$799/month", true},
}

type seedAd struct {
	title, content, position string
}

var initialAds = []seedAd{
	{"Special Offer: Website Package", "Get a professional website with 20% discount until the end of the month.", "top"},
	{"E-commerce Solutions", "Launch your online store with our specialized e-commerce packages.", "sidebar"},
	{"SEO Optimization Service", "Improve your website visibility with our comprehensive SEO services.", "bottom"},
	{"Mobile App Development", "Transform your business with custom mobile applications for iOS and Android.", "top"},
	{"Website Maintenance", "Keep your website running smoothly with our maintenance packages.", "sidebar"},
	{"Premium Web Design Services", "Our award-winning design team will create a stunning website for your business.", "banner"},
	{"Digital Marketing Solutions", "Boost your online presence with our comprehensive digital marketing strategy.", "banner"},
}

// Seed populates empty catalog tables with the starter services and ads.
// Tables that already hold rows are left untouched, so Seed is safe to run
// on every start. Seeded ads run for one year from now.
func Seed(ctx context.Context, db DBTX, now time.Time) error {
	if err := seedServices(ctx, db, now); err != nil {
		return err
	}
	return seedAds(ctx, db, now)
}

func seedServices(ctx context.Context, db DBTX, now time.Time) error {
	empty, err := tableEmpty(ctx, db, "services")
	if err != nil || !empty {
		return err
	}

	for _, s := range initialServices {
		_, err := db.Exec(ctx, `
			INSERT INTO services (id, title, description, price, featured, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'active', $6, $6)
		`, uuid.Must(uuid.NewV7()), s.title, s.description, s.price, s.featured, now)
		if err != nil {
			return fmt.Errorf("seed insert service %q: %w", s.title, err)
		}
	}

	slog.Info("seeded initial services", "count", len(initialServices))
	return nil
}

func seedAds(ctx context.Context, db DBTX, now time.Time) error {
	empty, err := tableEmpty(ctx, db, "ads")
	if err != nil || !empty {
		return err
	}

	start := now.Truncate(24 * time.Hour)
	end := start.AddDate(1, 0, 0)
	for _, a := range initialAds {
		_, err := db.Exec(ctx, `
			INSERT INTO ads (id, title, content, position, status, start_date, end_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'active', $5, $6, $7, $7)
		`, uuid.Must(uuid.NewV7()), a.title, a.content, a.position, start, end, now)
		if err != nil {
			return fmt.Errorf("seed insert ad %q: %w", a.title, err)
		}
	}

	slog.Info("seeded initial ads", "count", len(initialAds))
	return nil
}

// SeedAdmin creates a main_admin development account if no users exist.
// The admin will be prompted to set up 2FA on first login
// (totp_enabled = false).
func SeedAdmin(ctx context.Context, db DBTX) error {
	empty, err := tableEmpty(ctx, db, "users")
	if err != nil {
		return err
	}
	if !empty {
		slog.Info("users already present, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DevAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, 'main_admin', FALSE)
	`, uuid.Must(uuid.NewV7()), DevAdminEmail, string(hash), "Site", "Owner")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", DevAdminEmail,
		"password", DevAdminPassword,
	)
	return nil
}

func tableEmpty(ctx context.Context, db DBTX, table string) (bool, error) {
	var exists bool
	// table is always one of the package constants above.
	query := "SELECT EXISTS (SELECT 1 FROM " + table + ")"
	if err := db.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("seed check %s: %w", table, err)
	}
	return !exists, nil
}
