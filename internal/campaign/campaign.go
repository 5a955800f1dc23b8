// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package campaign sends marketing email to every user who opted in.
package campaign

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ourshop/internal/apperr"
	"ourshop/internal/mail"
	"ourshop/internal/models"
)

// FromName is the display name marketing email is sent under.
const FromName = "OurShop Marketing"

// ErrNoRecipients is returned by Send when nobody has consented.
var ErrNoRecipients = errors.New("no users have consented to marketing emails")

// ConsentSource lists consent records. *store.ConsentStore satisfies it.
type ConsentSource interface {
	ListConsenting(ctx context.Context) ([]models.MarketingConsent, error)
}

// Campaign is one marketing email.
type Campaign struct {
	Subject  string
	HTML     string
	TestMode bool
}

// Result describes a dispatched campaign.
type Result struct {
	Recipients int
	TestMode   bool
	EmailID    string
}

// Dispatcher sends campaigns.
type Dispatcher struct {
	consents ConsentSource
	mail     mail.Sender
}

// New creates a Dispatcher.
func New(consents ConsentSource, sender mail.Sender) *Dispatcher {
	return &Dispatcher{consents: consents, mail: sender}
}

// Recipients returns the email of every consenting user, oldest consent
// first.
func (d *Dispatcher) Recipients(ctx context.Context) ([]string, error) {
	consents, err := d.consents.ListConsenting(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(consents))
	for _, c := range consents {
		if c.MarketingConsent {
			emails = append(emails, c.Email)
		}
	}
	return emails, nil
}

// Send delivers c as a single provider call. In test mode only the first
// consenting address receives it.
func (d *Dispatcher) Send(ctx context.Context, c Campaign) (*Result, error) {
	if strings.TrimSpace(c.Subject) == "" || strings.TrimSpace(c.HTML) == "" {
		return nil, apperr.Validation("Subject and content are required")
	}

	recipients, err := d.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if d.mail == nil || !d.mail.Configured() {
		return nil, apperr.Degraded("Email service not configured. Please add RESEND_API_KEY to environment variables.", mail.ErrNotConfigured)
	}
	if c.TestMode {
		recipients = recipients[:1]
	}

	id, err := d.mail.Send(ctx, mail.Email{
		FromName: FromName,
		To:       recipients,
		Subject:  c.Subject,
		HTML:     c.HTML,
		Text:     mail.StripTags(c.HTML),
	})
	if err != nil {
		return nil, err
	}
	slog.Info("marketing email sent", "recipients", len(recipients), "test_mode", c.TestMode, "email_id", id)
	return &Result{Recipients: len(recipients), TestMode: c.TestMode, EmailID: id}, nil
}
