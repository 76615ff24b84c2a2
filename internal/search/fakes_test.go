package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/Paintersrp/mixsearch/internal/model"
)

// fakeSources serves canned rows and records the limits it was asked for.
type fakeSources struct {
	mu sync.Mutex

	users     []model.User
	byName    []model.Conversation
	byMessage []model.ConversationMessageMatch
	messages  []model.MessageMatch
	assets    []model.Asset

	errs   map[Category]error
	limits map[string]int
}

func (f *fakeSources) record(name string, limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limits == nil {
		f.limits = map[string]int{}
	}
	f.limits[name] = limit
}

func (f *fakeSources) limit(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.limits[name]
}

func truncate[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func (f *fakeSources) SearchUsers(ctx context.Context, keyword string, limit int) ([]model.User, error) {
	f.record("users", limit)
	if err := f.errs[CategoryUser]; err != nil {
		return nil, err
	}
	return truncate(f.users, limit), ctx.Err()
}

func (f *fakeSources) SearchConversationsByName(ctx context.Context, keyword string, limit int) ([]model.Conversation, error) {
	f.record("by_name", limit)
	if err := f.errs[CategoryConversationByName]; err != nil {
		return nil, err
	}
	return truncate(f.byName, limit), ctx.Err()
}

func (f *fakeSources) SearchConversationsByMessage(ctx context.Context, keyword string, limit int) ([]model.ConversationMessageMatch, error) {
	f.record("by_message", limit)
	if err := f.errs[CategoryConversationByMessage]; err != nil {
		return nil, err
	}
	return truncate(f.byMessage, limit), ctx.Err()
}

func (f *fakeSources) SearchMessages(ctx context.Context, conversationID, keyword string, limit int) ([]model.MessageMatch, error) {
	f.record("messages", limit)
	var out []model.MessageMatch
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return truncate(out, limit), ctx.Err()
}

func (f *fakeSources) SearchAssets(ctx context.Context, keyword string, limit int) ([]model.Asset, error) {
	f.record("assets", limit)
	if err := f.errs[CategoryAsset]; err != nil {
		return nil, err
	}
	return truncate(f.assets, limit), ctx.Err()
}

func numberedUsers(n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{
			ID:             fmt.Sprintf("u-%d", i),
			IdentityNumber: fmt.Sprintf("86100%02d", i),
			FullName:       fmt.Sprintf("User %d", i),
			Relationship:   model.RelationshipFriend,
		}
	}
	return users
}
