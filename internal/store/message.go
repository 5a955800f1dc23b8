// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"github.com/google/uuid"

	"ourshop/internal/database"
	"ourshop/internal/models"
)

const messageColumns = `id, name, email, subject, message, read, created_at, updated_at`

// MessageStore handles contact-form message persistence.
type MessageStore struct {
	db database.DBTX
}

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db database.DBTX) *MessageStore {
	return &MessageStore{db: db}
}

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List returns every message, newest first. Messages created within the
// same instant are ordered by their time-ordered id.
func (s *MessageStore) List(ctx context.Context) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, wrap("list messages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, wrap("scan message", err)
		}
		messages = append(messages, *m)
	}
	return messages, wrap("list messages", rows.Err())
}

// FindByID retrieves a message. Returns ErrNotFound if absent.
func (s *MessageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := scanMessage(s.db.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE id = $1
	`, id))
	if err != nil {
		return nil, wrap("find message", err)
	}
	return m, nil
}

// Create inserts a new unread message and fills in its id and timestamps.
func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	m.ID = newID()
	m.Read = false
	err := s.db.QueryRow(ctx, `
		INSERT INTO messages (id, name, email, subject, message, read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING created_at, updated_at
	`, m.ID, m.Name, m.Email, m.Subject, m.Body).Scan(&m.CreatedAt, &m.UpdatedAt)
	return wrap("create message", err)
}

// SetRead sets the read flag and returns the updated message.
func (s *MessageStore) SetRead(ctx context.Context, id uuid.UUID, read bool) (*models.Message, error) {
	m, err := scanMessage(s.db.QueryRow(ctx, `
		UPDATE messages SET read = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+messageColumns, id, read))
	if err != nil {
		return nil, wrap("set message read", err)
	}
	return m, nil
}

// Delete removes a message. Returns ErrNotFound if absent.
func (s *MessageStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return affected("delete message", tag, err)
}

// CountUnread returns the number of unread messages.
func (s *MessageStore) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE read = FALSE`).Scan(&n)
	return n, wrap("count unread messages", err)
}
