// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"ourshop/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching config.Load.
func testDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ourshop")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ourshop")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects to the test database and runs migrations. If the
// database is unavailable, the test is skipped. The handle is closed when
// the test finishes.
func testDB(t *testing.T) *database.Handle {
	t.Helper()

	h := database.New(testDSN(), 4)
	ctx := context.Background()
	if _, err := h.Acquire(ctx); err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(ctx, h); err != nil {
		h.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(h.Close)
	return h
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db database.DBTX, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec(context.Background(), "DELETE FROM users WHERE email = $1", email)
	}
}

// cleanRows removes rows of table by id. Call in t.Cleanup().
func cleanRows(t *testing.T, db database.DBTX, table string, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec(context.Background(), "DELETE FROM "+table+" WHERE id = $1", id)
	}
}
