package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/mixsearch/internal/model"
)

func TestUserBadgePrefersVerified(t *testing.T) {
	assert.Equal(t, BadgeVerified, UserBadge(true, "app"))
	assert.Equal(t, BadgeBot, UserBadge(false, "app"))
	assert.Equal(t, BadgeNone, UserBadge(false, "  "))
	assert.Equal(t, BadgeNone, UserBadge(false, ""))
}

func TestNewUserResultDescription(t *testing.T) {
	user := model.User{ID: "u1", IdentityNumber: "7000123", FullName: "Anna", Phone: "+8613812345678", AppID: "bot"}

	byName := NewUserResult(user, "ann")
	assert.Nil(t, byName.Description)
	assert.Nil(t, byName.Superscript)
	assert.Equal(t, []string{"Ann"}, byName.Title.Highlights())
	assert.Equal(t, BadgeBot, byName.Badge)
	assert.Equal(t, ContactTarget{User: user}, byName.Target)

	byID := NewUserResult(user, "0012")
	require.NotNil(t, byID.Description)
	assert.Equal(t, "ID: 7000123", byID.Description.String())
	assert.Equal(t, []string{"0012"}, byID.Description.Highlights())

	byPhone := NewUserResult(user, "1381")
	require.NotNil(t, byPhone.Description)
	assert.Equal(t, "Phone: +8613812345678", byPhone.Description.String())

	// Identity wins over phone when both contain the keyword.
	both := NewUserResult(model.User{IdentityNumber: "123", Phone: "123"}, "12")
	require.NotNil(t, both.Description)
	assert.Equal(t, "ID: 123", both.Description.String())
}

func TestNewConversationResult(t *testing.T) {
	group := model.Conversation{ID: "c1", Category: model.CategoryGroup, Name: "Anniversary", IconURL: "https://x/icon"}
	r := NewConversationResult(group, "ann")

	assert.Equal(t, ConversationTarget{Conversation: group}, r.Target)
	assert.Equal(t, "https://x/icon", r.IconURL)
	assert.Equal(t, BadgeNone, r.Badge)
	assert.Nil(t, r.Description)
	assert.Nil(t, r.Superscript)
}

func TestNewConversationMessageResultTargets(t *testing.T) {
	contact := NewConversationMessageResult(model.ConversationMessageMatch{
		ConversationID:      "c1",
		Category:            model.CategoryContact,
		Name:                "Bob",
		UserID:              "u-bob",
		UserIsVerified:      true,
		RelatedMessageCount: 4,
	}, "annual")
	assert.Equal(t, ContactViaMessageSearchTarget{ConversationID: "c1", UserID: "u-bob", UserFullName: "Bob"}, contact.Target)
	assert.Equal(t, BadgeVerified, contact.Badge)
	require.NotNil(t, contact.Description)
	assert.Equal(t, "4 related messages", contact.Description.String())
	assert.Empty(t, contact.Description.Highlights())

	group := NewConversationMessageResult(model.ConversationMessageMatch{
		ConversationID:      "c2",
		Category:            model.CategoryGroup,
		Name:                "Team",
		RelatedMessageCount: 1,
	}, "annual")
	assert.Equal(t, GroupViaMessageSearchTarget{ConversationID: "c2"}, group.Target)
	assert.Equal(t, BadgeNone, group.Badge)
}

func TestNewMessageResult(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	text := model.MessageMatch{
		ConversationID: "c1",
		MessageID:      "m1",
		Category:       "PLAIN_TEXT",
		Content:        "the Annual meetup",
		CreatedAt:      "2024-03-01T09:00:00.000000000Z",
		UserID:         "u1",
		UserFullName:   "Anna",
	}

	r := NewMessageResult(text, "annual", now)
	assert.Equal(t, MessageHitTarget{
		ConversationID: "c1",
		MessageID:      "m1",
		UserID:         "u1",
		UserFullName:   "Anna",
		CreatedAt:      "2024-03-01T09:00:00.000000000Z",
	}, r.Target)
	require.NotNil(t, r.Superscript)
	assert.Equal(t, "3 hours ago", *r.Superscript)
	require.NotNil(t, r.Description)
	assert.Equal(t, []string{"Annual"}, r.Description.Highlights())
	assert.Equal(t, LargerDescriptionStyle, r.Description.Runs[0].Style)

	file := text
	file.Category = "SIGNAL_DATA"
	file.Content = "annual.pdf"
	r = NewMessageResult(file, "annual", now)
	assert.True(t, r.Target.(MessageHitTarget).IsData)
	assert.Equal(t, "[File]", r.Description.String())
	assert.Empty(t, r.Description.Highlights())

	noTime := text
	noTime.CreatedAt = "not a date"
	assert.Nil(t, NewMessageResult(noTime, "annual", now).Superscript)
}

func TestNewMessageResultFlattensPosts(t *testing.T) {
	post := model.MessageMatch{
		Category: "PLAIN_POST",
		Content:  "# Annual **plan**\n\n- first item\n- second",
	}
	r := NewMessageResult(post, "plan", time.Now())
	require.NotNil(t, r.Description)
	assert.Equal(t, "Annual plan first item second", r.Description.String())
	assert.Equal(t, []string{"plan"}, r.Description.Highlights())
}

func TestPostPlainText(t *testing.T) {
	assert.Equal(t, "bold and code", PostPlainText("**bo**ld and `code`"))
	assert.Equal(t, "line one line two", PostPlainText("line one\nline two"))
	assert.Equal(t, "x := 1", PostPlainText("```go\nx := 1\n```"))
	assert.Equal(t, "", PostPlainText(""))
}

func TestTargetID(t *testing.T) {
	id, err := TargetID(ContactTarget{User: model.User{IdentityNumber: "7000"}})
	require.NoError(t, err)
	assert.Equal(t, "7000", id)

	id, err = TargetID(MessageHitTarget{MessageID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	_, err = TargetID(nil)
	assert.Error(t, err)
}
