// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"ourshop/internal/chat"
	"ourshop/internal/metrics"
)

// Chat relays visitor questions to the assistant.
type Chat struct {
	relay *chat.Relay
}

// NewChat creates the chat handler.
func NewChat(relay *chat.Relay) *Chat {
	return &Chat{relay: relay}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Ask answers one visitor message.
func (c *Chat) Ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reply, err := c.relay.Ask(r.Context(), req.Message)
	metrics.ChatAnswered(err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
