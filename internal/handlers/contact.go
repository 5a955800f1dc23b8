// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"ourshop/internal/apperr"
	"ourshop/internal/inbox"
	"ourshop/internal/metrics"
)

var errDeliveryFailed = errors.New("notification delivery failed")

// Contact serves the contact form and the admin inbox.
type Contact struct {
	inbox *inbox.Inbox
}

// NewContact creates the contact handler group.
func NewContact(in *inbox.Inbox) *Contact {
	return &Contact{inbox: in}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success    bool       `json:"success"`
	ID         *uuid.UUID `json:"id,omitempty"`
	EmailSent  bool       `json:"emailSent"`
	EmailID    string     `json:"emailId,omitempty"`
	MailtoLink string     `json:"mailtoLink,omitempty"`
	Error      string     `json:"error,omitempty"`
	Duplicate  bool       `json:"duplicate,omitempty"`
}

// Submit stores a contact form submission and notifies the owner. A
// failed notification still answers 201 with a mailto fallback.
func (c *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := c.inbox.Create(r.Context(), inbox.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if out.Duplicate {
		metrics.ContactSubmitted("duplicate")
		writeJSON(w, http.StatusOK, contactResponse{Success: true, Duplicate: true})
		return
	}

	metrics.ContactSubmitted(string(out.Delivery.Status))
	if out.Delivery.Status != inbox.DeliveryNotConfigured {
		var sendErr error
		if out.Delivery.Status == inbox.DeliveryFailed {
			sendErr = errDeliveryFailed
		}
		metrics.EmailSent("notification", sendErr)
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		Success:    true,
		ID:         &out.Message.ID,
		EmailSent:  out.Delivery.Status == inbox.DeliverySent,
		EmailID:    out.Delivery.EmailID,
		MailtoLink: out.Delivery.MailtoLink,
		Error:      out.Delivery.Error,
	})
}

// List returns every message newest first, or one message when ?id= is
// given.
func (c *Contact) List(w http.ResponseWriter, r *http.Request) {
	id, err := optionalID(r, "id", "Message")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id != nil {
		m, err := c.inbox.Get(r.Context(), *id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
		return
	}

	messages, err := c.inbox.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type markReadRequest struct {
	ID   string `json:"id" validate:"required,uuid"`
	Read *bool  `json:"read" validate:"required"`
}

// MarkRead sets the read flag of a message.
func (c *Contact) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := c.inbox.SetRead(r.Context(), uuid.MustParse(req.ID), *req.Read)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete removes the message named by ?id=.
func (c *Contact) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id", "Message")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.inbox.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Message deleted successfully"})
}

type replyRequest struct {
	MessageID      string `json:"messageId" validate:"omitempty,uuid"`
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Message        string `json:"message" validate:"required"`
	SenderName     string `json:"senderName"`
}

// Reply emails an admin's answer to a visitor.
func (c *Contact) Reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	reply := inbox.Reply{
		Recipient:  req.RecipientEmail,
		Subject:    req.Subject,
		Message:    req.Message,
		SenderName: req.SenderName,
	}
	if req.MessageID != "" {
		id := uuid.MustParse(req.MessageID)
		reply.MessageID = &id
	}

	emailID, err := c.inbox.SendReply(r.Context(), reply)
	if providerAttempted(err) {
		metrics.EmailSent("reply", err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reply sent successfully",
		"emailId": emailID,
	})
}

// ReplyCheck reports whether replies can be sent.
func (c *Contact) ReplyCheck(w http.ResponseWriter, r *http.Request) {
	configured := c.inbox.MailConfigured()
	msg := "Email service is configured"
	if !configured {
		msg = "Email service not configured. Please add RESEND_API_KEY to environment variables."
	}
	writeJSON(w, http.StatusOK, map[string]any{"configured": configured, "message": msg})
}

// providerAttempted reports whether err (or success) came from a call to
// the mail provider rather than from input checks.
func providerAttempted(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindNotFound, apperr.KindDegraded:
		return false
	}
	return true
}
