// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a cached public listing lives.
	DefaultListTTL = 5 * time.Minute
)

// ListCache stores JSON-encoded public listings, grouped by namespace
// (for example "services" or "projects") so a write can drop every
// variant of one listing at once.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a listing cache. A nil client yields a cache that
// always misses.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

func listKey(namespace, variant string) string {
	return listKeyPrefix + namespace + ":" + variant
}

// Get decodes the cached value into dst. It reports false on a miss or
// any cache error.
func (c *ListCache) Get(ctx context.Context, namespace, variant string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, listKey(namespace, variant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("list cache get error", "namespace", namespace, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("list cache decode error", "namespace", namespace, "error", err)
		return false
	}
	return true
}

// Set stores v under namespace and variant.
func (c *ListCache) Set(ctx context.Context, namespace, variant string, v any) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("list cache encode error", "namespace", namespace, "error", err)
		return
	}
	if err := c.client.Set(ctx, listKey(namespace, variant), data, c.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "namespace", namespace, "error", err)
	}
}

// Invalidate drops every cached variant of namespace.
func (c *ListCache) Invalidate(ctx context.Context, namespace string) {
	if c == nil || c.client == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, listKey(namespace, "*"), 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "namespace", namespace, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache delete error", "namespace", namespace, "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("list cache invalidated", "namespace", namespace)
}
