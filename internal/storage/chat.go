package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

const chatColumns = `id, user_id, messages, created_at, updated_at`

func scanConversation(row *sql.Row) (*models.ChatConversation, error) {
	var c models.ChatConversation
	var messages []byte
	err := row.Scan(&c.ID, &c.UserID, &messages, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Messages = []models.ChatMessage{}
	if len(messages) > 0 {
		if err := json.Unmarshal(messages, &c.Messages); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// GetUserChatConversation returns the user's single conversation, or
// ErrNotFound if they have never chatted. chat_conversations.user_id is
// unique, so the lookup needs no ordering tricks.
func (s *Storage) GetUserChatConversation(ctx context.Context, ownerID string) (*models.ChatConversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+chatColumns+`
		FROM public.chat_conversations
		WHERE user_id = $1
	`, ownerID)
	return scanConversation(row)
}

// CreateChatConversation opens the user's conversation with an empty message
// list. The upsert makes it safe under concurrent first messages.
func (s *Storage) CreateChatConversation(ctx context.Context, ownerID string) (*models.ChatConversation, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.chat_conversations (user_id, messages)
		VALUES ($1, '[]'::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING `+chatColumns+`
	`, ownerID)
	return scanConversation(row)
}

// UpdateChatMessages replaces the stored message list wholesale.
func (s *Storage) UpdateChatMessages(ctx context.Context, id string, messages []models.ChatMessage) (*models.ChatConversation, error) {
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.chat_conversations
		SET messages = $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING `+chatColumns+`
	`, id, string(payload))
	return scanConversation(row)
}
