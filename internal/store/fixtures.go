package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/mixsearch/internal/model"
)

// Fixtures is the YAML document accepted by Import.
type Fixtures struct {
	Users         []model.User         `yaml:"users"`
	Conversations []model.Conversation `yaml:"conversations"`
	Participants  []model.Participant  `yaml:"participants"`
	Messages      []model.Message      `yaml:"messages"`
	Assets        []model.Asset        `yaml:"assets"`
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Users         int
	Conversations int
	Participants  int
	Messages      int
	Assets        int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("%d users, %d conversations, %d participants, %d messages, %d assets",
		s.Users, s.Conversations, s.Participants, s.Messages, s.Assets)
}

// ParseFixtures decodes a fixtures document.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return Fixtures{}, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return f, nil
}

// ImportFile reads a fixtures file and imports it.
func (s *Store) ImportFile(ctx context.Context, path, region string) (ImportSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer file.Close()

	f, err := ParseFixtures(file)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.Import(ctx, f, region)
}

// Import writes all fixtures in one transaction. Phone numbers are
// normalized to E.164 using region for numbers without a country code.
func (s *Store) Import(ctx context.Context, f Fixtures, region string) (ImportSummary, error) {
	now := s.now()

	users := make([]model.User, len(f.Users))
	for i, u := range f.Users {
		u.Phone = NormalizePhone(u.Phone, region)
		users[i] = u
	}
	conversations := make([]model.Conversation, len(f.Conversations))
	for i, c := range f.Conversations {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		conversations[i] = c
	}
	messages := make([]model.Message, len(f.Messages))
	for i, m := range f.Messages {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		messages[i] = m
	}

	err := s.withTx(ctx, func(q querier) error {
		if err := upsertUsers(ctx, q, users); err != nil {
			return err
		}
		if err := upsertConversations(ctx, q, conversations); err != nil {
			return err
		}
		if err := upsertParticipants(ctx, q, f.Participants); err != nil {
			return err
		}
		if err := insertMessages(ctx, q, messages); err != nil {
			return err
		}
		return upsertAssets(ctx, q, f.Assets)
	})
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to import fixtures: %w", err)
	}

	return ImportSummary{
		Users:         len(users),
		Conversations: len(conversations),
		Participants:  len(f.Participants),
		Messages:      len(messages),
		Assets:        len(f.Assets),
	}, nil
}

// NormalizePhone formats a phone number to E.164. Input that does not parse
// as a valid number is returned trimmed.
func NormalizePhone(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
