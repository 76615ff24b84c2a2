package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Paintersrp/mixsearch/internal/model"
)

const userColumns = `user_id, identity_number, full_name, avatar_url, phone, is_verified, app_id, relationship, biography`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u        model.User
		verified int
		rel      string
	)
	if err := row.Scan(&u.ID, &u.IdentityNumber, &u.FullName, &u.AvatarURL, &u.Phone, &verified, &u.AppID, &rel, &u.Biography); err != nil {
		return model.User{}, err
	}
	u.IsVerified = verified != 0
	u.Relationship = model.Relationship(rel)
	return u, nil
}

// SearchUsers returns friends whose name, identity number or phone contains
// keyword, ordered by name, at most limit rows.
func (s *Store) SearchUsers(ctx context.Context, keyword string, limit int) ([]model.User, error) {
	pattern := containsPattern(keyword)
	rows, err := s.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE relationship = ?
  AND identity_number != '0'
  AND (full_name LIKE ? ESCAPE '\' OR identity_number LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')
ORDER BY full_name COLLATE NOCASE, user_id
LIMIT ?`, string(model.RelationshipFriend), pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// User returns a single user by id.
func (s *Store) User(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

// UpsertUsers inserts or replaces users in one transaction.
func (s *Store) UpsertUsers(ctx context.Context, users ...model.User) error {
	return s.withTx(ctx, func(q querier) error {
		return upsertUsers(ctx, q, users)
	})
}

func upsertUsers(ctx context.Context, q querier, users []model.User) error {
	for _, u := range users {
		if u.ID == "" {
			return fmt.Errorf("user without id (identity %q)", u.IdentityNumber)
		}
		rel := u.Relationship
		if rel == "" {
			rel = model.RelationshipStranger
		}
		_, err := q.ExecContext(ctx, `
INSERT INTO users (`+userColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    identity_number = excluded.identity_number,
    full_name = excluded.full_name,
    avatar_url = excluded.avatar_url,
    phone = excluded.phone,
    is_verified = excluded.is_verified,
    app_id = excluded.app_id,
    relationship = excluded.relationship,
    biography = excluded.biography`,
			u.ID, u.IdentityNumber, u.FullName, u.AvatarURL, u.Phone, boolToInt(u.IsVerified), u.AppID, string(rel), u.Biography)
		if err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
		}
	}
	return nil
}
