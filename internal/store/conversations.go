package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Paintersrp/mixsearch/internal/model"
)

const conversationSelect = `
SELECT c.conversation_id, c.category, c.name, c.icon_url, c.owner_id, c.created_at,
       COALESCE(u.full_name, ''), COALESCE(u.avatar_url, ''), COALESCE(u.is_verified, 0), COALESCE(u.app_id, '')
FROM conversations c
LEFT JOIN users u ON u.user_id = c.owner_id`

func scanConversation(row rowScanner) (model.Conversation, error) {
	var (
		c         model.Conversation
		category  string
		createdAt string
		verified  int
	)
	if err := row.Scan(&c.ID, &category, &c.Name, &c.IconURL, &c.OwnerID, &createdAt,
		&c.OwnerName, &c.OwnerAvatarURL, &verified, &c.OwnerAppID); err != nil {
		return model.Conversation{}, err
	}
	c.Category = model.ConversationCategory(category)
	c.CreatedAt = parseTime(createdAt)
	c.OwnerIsVerified = verified != 0
	return c, nil
}

// SearchConversationsByName returns group conversations whose name contains
// keyword, plus contact conversations with non-friends whose name matches.
// Friends are already covered by SearchUsers.
func (s *Store) SearchConversationsByName(ctx context.Context, keyword string, limit int) ([]model.Conversation, error) {
	pattern := containsPattern(keyword)
	rows, err := s.db.QueryContext(ctx, conversationSelect+`
WHERE (c.category = ? AND c.name LIKE ? ESCAPE '\')
   OR (c.category = ? AND COALESCE(u.relationship, '') != ? AND COALESCE(u.full_name, '') LIKE ? ESCAPE '\')
ORDER BY c.created_at DESC, c.conversation_id
LIMIT ?`,
		string(model.CategoryGroup), pattern,
		string(model.CategoryContact), string(model.RelationshipFriend), pattern,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]model.Conversation, 0, limit)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// SearchConversationsByMessage groups matching messages by conversation.
// Text and post messages match on content, file messages on media name.
func (s *Store) SearchConversationsByMessage(ctx context.Context, keyword string, limit int) ([]model.ConversationMessageMatch, error) {
	pattern := containsPattern(keyword)
	rows, err := s.db.QueryContext(ctx, `
SELECT c.conversation_id, c.category,
       CASE WHEN c.category = ? THEN COALESCE(u.full_name, c.name) ELSE c.name END,
       CASE WHEN c.category = ? THEN COALESCE(u.avatar_url, c.icon_url) ELSE c.icon_url END,
       c.owner_id, COALESCE(u.full_name, ''), COALESCE(u.is_verified, 0), COALESCE(u.app_id, ''),
       COUNT(m.message_id)
FROM messages m
JOIN conversations c ON c.conversation_id = m.conversation_id
LEFT JOIN users u ON u.user_id = c.owner_id
WHERE ((m.category LIKE '%\_TEXT' ESCAPE '\' OR m.category LIKE '%\_POST' ESCAPE '\') AND m.content LIKE ? ESCAPE '\')
   OR (m.category LIKE '%\_DATA' ESCAPE '\' AND m.media_name LIKE ? ESCAPE '\')
GROUP BY c.conversation_id
ORDER BY MAX(m.created_at) DESC
LIMIT ?`,
		string(model.CategoryContact), string(model.CategoryContact), pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations by message: %w", err)
	}
	defer rows.Close()

	matches := make([]model.ConversationMessageMatch, 0, limit)
	for rows.Next() {
		var (
			m        model.ConversationMessageMatch
			category string
			verified int
		)
		if err := rows.Scan(&m.ConversationID, &category, &m.Name, &m.IconURL, &m.UserID,
			&m.UserFullName, &verified, &m.UserAppID, &m.RelatedMessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan conversation match: %w", err)
		}
		m.Category = model.ConversationCategory(category)
		m.UserIsVerified = verified != 0
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Conversation returns a single conversation by id.
func (s *Store) Conversation(ctx context.Context, id string) (model.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx, conversationSelect+` WHERE c.conversation_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return c, nil
}

func upsertConversations(ctx context.Context, q querier, conversations []model.Conversation) error {
	for _, c := range conversations {
		if c.ID == "" {
			return fmt.Errorf("conversation without id (name %q)", c.Name)
		}
		_, err := q.ExecContext(ctx, `
INSERT INTO conversations (conversation_id, category, name, icon_url, owner_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(conversation_id) DO UPDATE SET
    category = excluded.category,
    name = excluded.name,
    icon_url = excluded.icon_url,
    owner_id = excluded.owner_id,
    created_at = excluded.created_at`,
			c.ID, string(c.Category), c.Name, c.IconURL, c.OwnerID, formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to upsert conversation %s: %w", c.ID, err)
		}
	}
	return nil
}

func upsertParticipants(ctx context.Context, q querier, participants []model.Participant) error {
	for _, p := range participants {
		_, err := q.ExecContext(ctx, `
INSERT INTO participants (conversation_id, user_id, role) VALUES (?, ?, ?)
ON CONFLICT(conversation_id, user_id) DO UPDATE SET role = excluded.role`,
			p.ConversationID, p.UserID, p.Role)
		if err != nil {
			return fmt.Errorf("failed to upsert participant %s/%s: %w", p.ConversationID, p.UserID, err)
		}
	}
	return nil
}
