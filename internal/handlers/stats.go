// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// UnreadCounter counts unread inbox messages. *store.MessageStore
// satisfies it.
type UnreadCounter interface {
	CountUnread(ctx context.Context) (int, error)
}

// ConsentCounter counts users who opted in to marketing mail.
// *store.ConsentStore satisfies it.
type ConsentCounter interface {
	CountConsenting(ctx context.Context) (int, error)
}

// AdCounter counts ads visible at an instant. *store.AdStore satisfies it.
type AdCounter interface {
	CountVisible(ctx context.Context, now time.Time) (int, error)
}

// Stats serves the admin dashboard counters.
type Stats struct {
	messages UnreadCounter
	consents ConsentCounter
	ads      AdCounter
	now      func() time.Time
}

// NewStats creates the stats handler.
func NewStats(messages UnreadCounter, consents ConsentCounter, ads AdCounter) *Stats {
	return &Stats{messages: messages, consents: consents, ads: ads, now: time.Now}
}

type statsResponse struct {
	UnreadMessages  int `json:"unreadMessages"`
	ConsentingUsers int `json:"consentingUsers"`
	ActiveAds       int `json:"activeAds"`
}

// Get returns the dashboard counters. The three counts run concurrently.
func (s *Stats) Get(w http.ResponseWriter, r *http.Request) {
	var out statsResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		out.UnreadMessages, err = s.messages.CountUnread(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ConsentingUsers, err = s.consents.CountConsenting(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveAds, err = s.ads.CountVisible(ctx, s.now())
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
