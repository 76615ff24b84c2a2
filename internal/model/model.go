// Package model holds the records the local data layer returns.
package model

import (
	"strings"
	"time"
)

type Relationship string

const (
	RelationshipFriend   Relationship = "FRIEND"
	RelationshipStranger Relationship = "STRANGER"
	RelationshipMe       Relationship = "ME"
	RelationshipBlocking Relationship = "BLOCKING"
)

// User is a contact or any other known account.
type User struct {
	ID             string       `json:"user_id"         yaml:"user_id"`
	IdentityNumber string       `json:"identity_number" yaml:"identity_number"`
	FullName       string       `json:"full_name"       yaml:"full_name"`
	AvatarURL      string       `json:"avatar_url"      yaml:"avatar_url"`
	Phone          string       `json:"phone"           yaml:"phone"`
	IsVerified     bool         `json:"is_verified"     yaml:"is_verified"`
	AppID          string       `json:"app_id"          yaml:"app_id"`
	Relationship   Relationship `json:"relationship"    yaml:"relationship"`
	Biography      string       `json:"biography"       yaml:"biography"`
}

// IsBot reports whether the user is backed by an app.
func (u User) IsBot() bool {
	return strings.TrimSpace(u.AppID) != ""
}

type ConversationCategory string

const (
	CategoryContact ConversationCategory = "CONTACT"
	CategoryGroup   ConversationCategory = "GROUP"
)

// Conversation is a one-to-one or group chat as listed on the home screen.
type Conversation struct {
	ID        string               `json:"conversation_id" yaml:"conversation_id"`
	Category  ConversationCategory `json:"category"        yaml:"category"`
	Name      string               `json:"name"            yaml:"name"`
	IconURL   string               `json:"icon_url"        yaml:"icon_url"`
	OwnerID   string               `json:"owner_id"        yaml:"owner_id"`
	CreatedAt time.Time            `json:"created_at"      yaml:"created_at"`

	// Owner columns are joined in for CONTACT conversations.
	OwnerName       string `json:"-" yaml:"-"`
	OwnerAvatarURL  string `json:"-" yaml:"-"`
	OwnerIsVerified bool   `json:"-" yaml:"-"`
	OwnerAppID      string `json:"-" yaml:"-"`
}

// DisplayName is the group name, or the owner's name for a contact chat.
func (c Conversation) DisplayName() string {
	if c.Category == CategoryContact && c.OwnerName != "" {
		return c.OwnerName
	}
	return c.Name
}

// DisplayIconURL mirrors DisplayName for the avatar.
func (c Conversation) DisplayIconURL() string {
	if c.Category == CategoryContact && c.OwnerAvatarURL != "" {
		return c.OwnerAvatarURL
	}
	return c.IconURL
}

// Participant links a user to a conversation.
type Participant struct {
	ConversationID string `yaml:"conversation_id"`
	UserID         string `yaml:"user_id"`
	Role           string `yaml:"role"`
}

// Message is a stored chat message.
type Message struct {
	ID             string    `yaml:"message_id"`
	ConversationID string    `yaml:"conversation_id"`
	UserID         string    `yaml:"user_id"`
	Category       string    `yaml:"category"`
	Content        string    `yaml:"content"`
	MediaName      string    `yaml:"media_name"`
	CreatedAt      time.Time `yaml:"created_at"`
}

// IsData reports whether the message carries a file attachment.
func (m Message) IsData() bool {
	return IsDataCategory(m.Category)
}

// IsDataCategory reports whether a message category carries a file.
func IsDataCategory(category string) bool {
	return strings.HasSuffix(category, "_DATA")
}

// IsPostCategory reports whether a message category carries markdown.
func IsPostCategory(category string) bool {
	return strings.HasSuffix(category, "_POST")
}

// ConversationMessageMatch is a conversation that contains at least one
// message matching a keyword.
type ConversationMessageMatch struct {
	ConversationID      string
	Category            ConversationCategory
	Name                string
	IconURL             string
	UserID              string
	UserFullName        string
	UserIsVerified      bool
	UserAppID           string
	RelatedMessageCount int
}

// MessageMatch is a single message matching a keyword, with its sender.
type MessageMatch struct {
	ConversationID string
	MessageID      string
	Category       string
	Content        string
	// CreatedAt is kept as stored; it is parsed when rendered.
	CreatedAt      string
	UserID         string
	UserFullName   string
	UserAvatarURL  string
	UserIsVerified bool
	UserAppID      string
}

// Asset is a wallet asset.
type Asset struct {
	ID       string  `yaml:"asset_id"`
	Symbol   string  `yaml:"symbol"`
	Name     string  `yaml:"name"`
	IconURL  string  `yaml:"icon_url"`
	Balance  float64 `yaml:"balance"`
	PriceUSD float64 `yaml:"price_usd"`
	ChainID  string  `yaml:"chain_id"`
}

// ValueUSD is the balance valued in USD.
func (a Asset) ValueUSD() float64 {
	return a.Balance * a.PriceUSD
}
