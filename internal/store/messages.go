package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Paintersrp/mixsearch/internal/model"
)

// SearchMessages returns the messages of one conversation matching keyword,
// newest first, with their senders joined in.
func (s *Store) SearchMessages(ctx context.Context, conversationID, keyword string, limit int) ([]model.MessageMatch, error) {
	pattern := containsPattern(keyword)
	rows, err := s.db.QueryContext(ctx, `
SELECT m.conversation_id, m.message_id, m.category,
       CASE WHEN m.category LIKE '%\_DATA' ESCAPE '\' THEN m.media_name ELSE m.content END,
       m.created_at, m.user_id,
       COALESCE(u.full_name, ''), COALESCE(u.avatar_url, ''), COALESCE(u.is_verified, 0), COALESCE(u.app_id, '')
FROM messages m
LEFT JOIN users u ON u.user_id = m.user_id
WHERE m.conversation_id = ?
  AND (((m.category LIKE '%\_TEXT' ESCAPE '\' OR m.category LIKE '%\_POST' ESCAPE '\') AND m.content LIKE ? ESCAPE '\')
    OR (m.category LIKE '%\_DATA' ESCAPE '\' AND m.media_name LIKE ? ESCAPE '\'))
ORDER BY m.created_at DESC
LIMIT ?`, conversationID, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	matches := make([]model.MessageMatch, 0, limit)
	for rows.Next() {
		var (
			m        model.MessageMatch
			verified int
		)
		if err := rows.Scan(&m.ConversationID, &m.MessageID, &m.Category, &m.Content, &m.CreatedAt, &m.UserID,
			&m.UserFullName, &m.UserAvatarURL, &verified, &m.UserAppID); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.UserIsVerified = verified != 0
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Message returns a single message by id.
func (s *Store) Message(ctx context.Context, id string) (model.Message, error) {
	var (
		m         model.Message
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT message_id, conversation_id, user_id, category, content, media_name, created_at
FROM messages WHERE message_id = ?`, id).
		Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Category, &m.Content, &m.MediaName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Message{}, ErrNotFound
	}
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

func insertMessages(ctx context.Context, q querier, messages []model.Message) error {
	for _, m := range messages {
		if m.ID == "" || m.ConversationID == "" {
			return fmt.Errorf("message needs message_id and conversation_id")
		}
		_, err := q.ExecContext(ctx, `
INSERT INTO messages (message_id, conversation_id, user_id, category, content, media_name, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(message_id) DO UPDATE SET
    content = excluded.content,
    media_name = excluded.media_name,
    category = excluded.category`,
			m.ID, m.ConversationID, m.UserID, m.Category, m.Content, m.MediaName, formatTime(m.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
		}
	}
	return nil
}
