// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends transactional email through the Resend API. A Client
// built without an API key reports itself as unconfigured and refuses to
// send, which lets callers fall back to a mailto: link.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"ourshop/internal/apperr"
)

// ErrNotConfigured is returned by Send when no API key was supplied.
var ErrNotConfigured = errors.New("email service not configured")

// Email is one outbound message. FromName is combined with the client's
// sender address; an empty FromName sends from the bare address.
type Email struct {
	FromName string
	To       []string
	Subject  string
	HTML     string
	Text     string
	ReplyTo  string
}

// Sender is the capability the domain services depend on.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, e Email) (string, error)
}

// emailAPI is the slice of the Resend SDK this package calls.
type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client sends email through Resend.
type Client struct {
	api     emailAPI
	from    string
	timeout time.Duration
}

// New creates a Client. An empty apiKey yields an unconfigured client.
// Every Send is bounded by timeout.
func New(apiKey, fromAddress string, timeout time.Duration) *Client {
	c := &Client{from: fromAddress, timeout: timeout}
	if apiKey != "" {
		c.api = resend.NewClient(apiKey).Emails
	}
	return c
}

// newWithAPI builds a Client around an arbitrary Resend emails service.
func newWithAPI(api emailAPI, fromAddress string, timeout time.Duration) *Client {
	return &Client{api: api, from: fromAddress, timeout: timeout}
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// Send delivers e and returns the provider's message id. Provider failures
// are classified as rate-limit, auth or generic provider errors carrying
// the provider's own message.
func (c *Client) Send(ctx context.Context, e Email) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if len(e.To) == 0 {
		return "", apperr.Validation("email has no recipients")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.sender(e.FromName),
		To:      e.To,
		Subject: e.Subject,
		Html:    e.HTML,
		Text:    e.Text,
		ReplyTo: e.ReplyTo,
	})
	if err != nil {
		slog.Error("mail send failed", "subject", e.Subject, "recipients", len(e.To), "error", err)
		return "", classify(err)
	}

	slog.Info("mail sent", "id", resp.Id, "recipients", len(e.To))
	return resp.Id, nil
}

func (c *Client) sender(name string) string {
	if name == "" {
		return c.from
	}
	return fmt.Sprintf("%s <%s>", name, c.from)
}

// classify maps a provider error onto the application error taxonomy.
// The Resend SDK reports failures as plain errors, so the provider message
// is the only signal available.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindProvider, "email provider timed out", err)
	}

	msg := strings.TrimPrefix(err.Error(), "[ERROR]: ")
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		return apperr.Wrap(apperr.KindRateLimited, msg, err)
	case strings.Contains(lower, "api key") || strings.Contains(lower, "authentication") ||
		strings.Contains(lower, "unauthorized"):
		return apperr.Wrap(apperr.KindProviderAuth, msg, err)
	default:
		return apperr.Wrap(apperr.KindProvider, msg, err)
	}
}
