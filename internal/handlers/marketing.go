// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ourshop/internal/campaign"
	"ourshop/internal/metrics"
)

// Marketing sends campaigns to consenting users.
type Marketing struct {
	dispatcher *campaign.Dispatcher
}

// NewMarketing creates the marketing handler group.
func NewMarketing(d *campaign.Dispatcher) *Marketing {
	return &Marketing{dispatcher: d}
}

type campaignRequest struct {
	Subject  string `json:"subject" validate:"max=200"`
	Content  string `json:"content"`
	TestMode bool   `json:"testMode"`
}

// Send dispatches one marketing email. Having nobody to send to is
// reported with success false rather than as an error.
func (m *Marketing) Send(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := m.dispatcher.Send(r.Context(), campaign.Campaign{
		Subject:  req.Subject,
		HTML:     req.Content,
		TestMode: req.TestMode,
	})
	if errors.Is(err, campaign.ErrNoRecipients) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "No users have consented to marketing emails",
		})
		return
	}
	if providerAttempted(err) {
		metrics.EmailSent("marketing", err)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := fmt.Sprintf("Marketing email sent to %d recipient(s)", res.Recipients)
	if res.TestMode {
		msg += " (TEST MODE)"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    msg,
		"recipients": res.Recipients,
		"testMode":   res.TestMode,
		"emailId":    res.EmailID,
	})
}
