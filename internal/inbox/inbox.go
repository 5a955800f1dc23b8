// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package inbox manages the lifecycle of contact-form messages: public
// submission with owner notification, admin listing, read-state changes,
// deletion and replies by email.
package inbox

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/mail"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

// EmailPattern is the address shape accepted from visitors.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sender names shown on outgoing mail.
const (
	NotificationFromName = "OurShop Contact Form"
	ReplyFromName        = "OURSHOP"
)

// Repository is the message persistence the inbox needs.
// *store.MessageStore satisfies it.
type Repository interface {
	List(ctx context.Context) ([]models.Message, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Create(ctx context.Context, m *models.Message) error
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DuplicateGuard reports whether an identical submission was seen
// recently. Seen records key as a side effect; Forget undoes it.
type DuplicateGuard interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// Inbox is the message lifecycle manager.
type Inbox struct {
	repo      Repository
	mail      mail.Sender
	recipient string
	guard     DuplicateGuard
}

// New creates an Inbox that notifies recipient of every new message.
func New(repo Repository, sender mail.Sender, recipient string) *Inbox {
	return &Inbox{repo: repo, mail: sender, recipient: recipient}
}

// WithGuard enables duplicate-submission suppression.
func (in *Inbox) WithGuard(g DuplicateGuard) *Inbox {
	in.guard = g
	return in
}

// MailConfigured reports whether replies and notifications can be sent.
func (in *Inbox) MailConfigured() bool {
	return in.mail != nil && in.mail.Configured()
}

// List returns every message, newest first.
func (in *Inbox) List(ctx context.Context) ([]models.Message, error) {
	return in.repo.List(ctx)
}

// Get returns one message.
func (in *Inbox) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := in.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// SetRead sets the read flag. Setting it to its current value is a no-op
// that still succeeds.
func (in *Inbox) SetRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	m, err := in.repo.SetRead(ctx, id, read)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// Delete removes a message permanently.
func (in *Inbox) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(in.repo.Delete(ctx, id))
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Message not found")
	}
	return err
}

// Submission is a contact form as entered by a visitor.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (s *Submission) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks required fields, lengths and the email shape.
func (s Submission) Validate() error {
	if s.Name == "" || s.Email == "" || s.Subject == "" || s.Message == "" {
		return apperr.Validation("All fields are required")
	}
	if !EmailPattern.MatchString(s.Email) {
		return apperr.InvalidField("email", "Invalid email format")
	}
	switch {
	case len(s.Name) > models.MaxMessageNameLen:
		return apperr.InvalidField("name", "Name is too long")
	case len(s.Email) > models.MaxMessageEmailLen:
		return apperr.InvalidField("email", "Email is too long")
	case len(s.Subject) > models.MaxMessageSubjectLen:
		return apperr.InvalidField("subject", "Subject is too long")
	case len(s.Message) > models.MaxMessageBodyLen:
		return apperr.InvalidField("message", "Message is too long")
	}
	return nil
}

// DeliveryStatus describes what happened to the owner notification.
type DeliveryStatus string

const (
	DeliverySent          DeliveryStatus = "sent"
	DeliveryNotConfigured DeliveryStatus = "not_configured"
	DeliveryFailed        DeliveryStatus = "failed"
)

// Delivery is the notification outcome. MailtoLink is set whenever the
// notification was not sent.
type Delivery struct {
	Status     DeliveryStatus
	EmailID    string
	Error      string
	MailtoLink string
}

// Outcome is the result of a submission. Duplicate submissions are
// acknowledged without being stored, so Message is nil for them.
type Outcome struct {
	Message   *models.Message
	Delivery  Delivery
	Duplicate bool
}

// Create validates and stores a submission, then notifies the owner.
// Once the message is stored, a notification failure is reported in the
// outcome and never turns into an error.
func (in *Inbox) Create(ctx context.Context, sub Submission) (*Outcome, error) {
	sub.normalize()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	key := fingerprint(sub)
	recorded := false
	if in.guard != nil {
		dup, err := in.guard.Seen(ctx, key)
		if err != nil {
			slog.Warn("duplicate check failed, accepting submission", "error", err)
		} else if dup {
			slog.Info("duplicate contact submission ignored", "email", sub.Email)
			return &Outcome{Duplicate: true}, nil
		} else {
			recorded = true
		}
	}

	m := &models.Message{Name: sub.Name, Email: sub.Email, Subject: sub.Subject, Body: sub.Message}
	if err := in.repo.Create(ctx, m); err != nil {
		// A retry of a submission that was never stored is not a duplicate.
		if recorded {
			if ferr := in.guard.Forget(ctx, key); ferr != nil {
				slog.Warn("failed to release duplicate key", "error", ferr)
			}
		}
		return nil, err
	}
	slog.Info("contact message stored", "id", m.ID)

	return &Outcome{Message: m, Delivery: in.notify(ctx, sub)}, nil
}

func (in *Inbox) notify(ctx context.Context, sub Submission) Delivery {
	fallback := mail.MailtoLink(in.recipient, sub.Subject, sub.Name, sub.Email, sub.Message)

	if !in.MailConfigured() {
		slog.Warn("mail not configured, offering mailto fallback")
		return Delivery{
			Status:     DeliveryNotConfigured,
			Error:      "Email service not configured. Using fallback method.",
			MailtoLink: fallback,
		}
	}

	html, text, err := mail.ContactNotification(sub.Name, sub.Email, sub.Subject, sub.Message)
	if err != nil {
		return Delivery{Status: DeliveryFailed, Error: err.Error(), MailtoLink: fallback}
	}

	id, err := in.mail.Send(ctx, mail.Email{
		FromName: NotificationFromName,
		To:       []string{in.recipient},
		Subject:  "Contact Form: " + sub.Subject,
		HTML:     html,
		Text:     text,
		ReplyTo:  sub.Email,
	})
	if err != nil {
		slog.Error("contact notification failed", "error", err)
		return Delivery{Status: DeliveryFailed, Error: deliveryError(err), MailtoLink: fallback}
	}
	return Delivery{Status: DeliverySent, EmailID: id}
}

// deliveryError turns a send failure into a visitor-facing reason.
func deliveryError(err error) string {
	msg := apperr.Message(err)
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "domain") && strings.Contains(lower, "verif") {
		return "Domain not verified. Using fallback method."
	}
	return msg
}

// Reply is an admin's answer to a message. When MessageID is set,
// Recipient and Subject default to that message's sender and subject.
type Reply struct {
	MessageID  *uuid.UUID
	Recipient  string
	Subject    string
	Message    string
	SenderName string
}

// SendReply emails a reply. It never changes the read state of the
// original message.
func (in *Inbox) SendReply(ctx context.Context, r Reply) (string, error) {
	if r.MessageID != nil {
		orig, err := in.Get(ctx, *r.MessageID)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(r.Recipient) == "" {
			r.Recipient = orig.Email
		}
		if strings.TrimSpace(r.Subject) == "" {
			r.Subject = orig.Subject
		}
	}

	r.Recipient = strings.TrimSpace(r.Recipient)
	r.Subject = strings.TrimSpace(r.Subject)
	if r.Recipient == "" || r.Subject == "" || strings.TrimSpace(r.Message) == "" {
		return "", apperr.Validation("Recipient email, subject, and message are required")
	}
	if !EmailPattern.MatchString(r.Recipient) {
		return "", apperr.InvalidField("recipientEmail", "Invalid email format")
	}

	if !in.MailConfigured() {
		return "", apperr.Degraded("Email service not configured. Please add RESEND_API_KEY to environment variables.", mail.ErrNotConfigured)
	}

	html, text, err := mail.ReplyBody(r.Subject, r.Message, r.SenderName)
	if err != nil {
		return "", err
	}

	id, err := in.mail.Send(ctx, mail.Email{
		FromName: ReplyFromName,
		To:       []string{r.Recipient},
		Subject:  "Re: " + r.Subject,
		HTML:     html,
		Text:     text,
	})
	if err != nil {
		return "", err
	}
	slog.Info("reply sent", "email_id", id)
	return id, nil
}
