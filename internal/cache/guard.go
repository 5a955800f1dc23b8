// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDuplicateWindow is how long an identical contact submission is
// treated as a resend.
const DefaultDuplicateWindow = 10 * time.Minute

const guardKeyPrefix = "dedup:"

// SubmissionGuard remembers submission fingerprints for a fixed window.
type SubmissionGuard struct {
	client *redis.Client
	window time.Duration
}

// NewSubmissionGuard creates a guard. A zero window uses
// DefaultDuplicateWindow.
func NewSubmissionGuard(client *redis.Client, window time.Duration) *SubmissionGuard {
	if window == 0 {
		window = DefaultDuplicateWindow
	}
	return &SubmissionGuard{client: client, window: window}
}

// Seen records key and reports whether it was already recorded inside the
// window. The check and the write are one atomic SET NX.
func (g *SubmissionGuard) Seen(ctx context.Context, key string) (bool, error) {
	fresh, err := g.client.SetNX(ctx, guardKeyPrefix+key, 1, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup %s: %w", key, err)
	}
	return !fresh, nil
}

// Forget releases key so the next identical submission is accepted again.
func (g *SubmissionGuard) Forget(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("dedup forget %s: %w", key, err)
	}
	return nil
}
