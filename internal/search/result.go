package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Paintersrp/mixsearch/internal/highlight"
	"github.com/Paintersrp/mixsearch/internal/model"
)

const (
	colorDarkText    highlight.Color = "#333333"
	colorDescription highlight.Color = "#BBBEC3"
	colorHighlighted highlight.Color = "#3D75E3"
)

// Predefined style pairs for result rows.
var (
	TitleStyle            = highlight.Style{Font: highlight.Font{Size: 16}, Color: colorDarkText}
	HighlightedTitleStyle = highlight.Style{Font: highlight.Font{Size: 16, Bold: true}, Color: colorHighlighted}

	DescriptionStyle            = highlight.Style{Font: highlight.Font{Size: 12}, Color: colorDescription}
	HighlightedDescriptionStyle = highlight.Style{Font: highlight.Font{Size: 12, Bold: true}, Color: colorHighlighted}

	LargerDescriptionStyle            = highlight.Style{Font: highlight.Font{Size: 14}, Color: colorDescription}
	HighlightedLargerDescriptionStyle = highlight.Style{Font: highlight.Font{Size: 14, Bold: true}, Color: colorHighlighted}
)

// Badge marks verified accounts and bots next to a title.
type Badge int

const (
	BadgeNone Badge = iota
	BadgeVerified
	BadgeBot
)

func (b Badge) String() string {
	switch b {
	case BadgeVerified:
		return "verified"
	case BadgeBot:
		return "bot"
	default:
		return ""
	}
}

// UserBadge prefers verified over bot.
func UserBadge(isVerified bool, appID string) Badge {
	switch {
	case isVerified:
		return BadgeVerified
	case strings.TrimSpace(appID) != "":
		return BadgeBot
	default:
		return BadgeNone
	}
}

// Target is what a result row leads to when selected.
type Target interface {
	isTarget()
}

type ContactTarget struct {
	User model.User
}

type ConversationTarget struct {
	Conversation model.Conversation
}

// ContactViaMessageSearchTarget opens the message search inside a contact
// conversation.
type ContactViaMessageSearchTarget struct {
	ConversationID string
	UserID         string
	UserFullName   string
}

// GroupViaMessageSearchTarget opens the message search inside a group.
type GroupViaMessageSearchTarget struct {
	ConversationID string
}

type MessageHitTarget struct {
	ConversationID string
	MessageID      string
	IsData         bool
	UserID         string
	UserFullName   string
	CreatedAt      string
}

func (ContactTarget) isTarget()                 {}
func (ConversationTarget) isTarget()            {}
func (ContactViaMessageSearchTarget) isTarget() {}
func (GroupViaMessageSearchTarget) isTarget()   {}
func (MessageHitTarget) isTarget()              {}

// TargetID returns the primary identifier of a target, the one worth
// copying.
func TargetID(t Target) (string, error) {
	switch t := t.(type) {
	case ContactTarget:
		return t.User.IdentityNumber, nil
	case ConversationTarget:
		return t.Conversation.ID, nil
	case ContactViaMessageSearchTarget:
		return t.ConversationID, nil
	case GroupViaMessageSearchTarget:
		return t.ConversationID, nil
	case MessageHitTarget:
		return t.MessageID, nil
	default:
		return "", fmt.Errorf("unknown search target %T", t)
	}
}

// Result is one formatted row. Optional parts are nil when the kind of
// result has no use for them.
type Result struct {
	Target      Target
	IconURL     string
	Title       highlight.Text
	Badge       Badge
	Superscript *string
	Description *highlight.Text
}

// AssetResult pairs an asset with its highlighted symbol.
type AssetResult struct {
	Asset  model.Asset
	Symbol highlight.Text
}

func NewAssetResult(asset model.Asset, keyword string) AssetResult {
	return AssetResult{
		Asset:  asset,
		Symbol: highlight.Highlight(asset.Symbol, keyword, TitleStyle, HighlightedTitleStyle),
	}
}

func highlightedTitle(s, keyword string) highlight.Text {
	return highlight.Highlight(s, keyword, TitleStyle, HighlightedTitleStyle)
}

func NewUserResult(user model.User, keyword string) Result {
	r := Result{
		Target:  ContactTarget{User: user},
		IconURL: user.AvatarURL,
		Title:   highlightedTitle(user.FullName, keyword),
		Badge:   UserBadge(user.IsVerified, user.AppID),
	}

	var desc string
	switch {
	case strings.Contains(user.IdentityNumber, keyword):
		desc = "ID: " + user.IdentityNumber
	case user.Phone != "" && strings.Contains(user.Phone, keyword):
		desc = "Phone: " + user.Phone
	}
	if desc != "" {
		text := highlight.Highlight(desc, keyword, DescriptionStyle, HighlightedDescriptionStyle)
		r.Description = &text
	}
	return r
}

func NewConversationResult(conversation model.Conversation, keyword string) Result {
	return Result{
		Target:  ConversationTarget{Conversation: conversation},
		IconURL: conversation.DisplayIconURL(),
		Title:   highlightedTitle(conversation.DisplayName(), keyword),
	}
}

// NewConversationMessageResult summarizes a conversation with matching
// messages.
func NewConversationMessageResult(match model.ConversationMessageMatch, keyword string) Result {
	var target Target
	if match.Category == model.CategoryContact {
		target = ContactViaMessageSearchTarget{
			ConversationID: match.ConversationID,
			UserID:         match.UserID,
			UserFullName:   match.Name,
		}
	} else {
		target = GroupViaMessageSearchTarget{ConversationID: match.ConversationID}
	}

	desc := highlight.Plain(fmt.Sprintf("%d related messages", match.RelatedMessageCount), DescriptionStyle)
	return Result{
		Target:      target,
		IconURL:     match.IconURL,
		Title:       highlightedTitle(match.Name, keyword),
		Badge:       UserBadge(match.UserIsVerified, match.UserAppID),
		Description: &desc,
	}
}

// NewMessageResult formats a single message hit. now anchors the relative
// time shown as superscript.
func NewMessageResult(match model.MessageMatch, keyword string, now time.Time) Result {
	isData := model.IsDataCategory(match.Category)
	r := Result{
		Target: MessageHitTarget{
			ConversationID: match.ConversationID,
			MessageID:      match.MessageID,
			IsData:         isData,
			UserID:         match.UserID,
			UserFullName:   match.UserFullName,
			CreatedAt:      match.CreatedAt,
		},
		IconURL: match.UserAvatarURL,
		Title:   highlightedTitle(match.UserFullName, keyword),
		Badge:   UserBadge(match.UserIsVerified, match.UserAppID),
	}

	if ago, ok := RelativeTime(match.CreatedAt, now); ok {
		r.Superscript = &ago
	}

	var desc highlight.Text
	if isData {
		desc = highlight.Plain("[File]", DescriptionStyle)
	} else {
		content := match.Content
		if model.IsPostCategory(match.Category) {
			content = PostPlainText(content)
		}
		desc = highlight.Highlight(content, keyword, LargerDescriptionStyle, HighlightedLargerDescriptionStyle)
	}
	r.Description = &desc
	return r
}

// RelativeTime renders a stored timestamp as "3 hours ago". Timestamps
// without a zone are taken as UTC.
func RelativeTime(raw string, now time.Time) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", false
	}
	return humanize.RelTime(t, now, "ago", "from now"), true
}

// PostPlainText flattens markdown to the text a reader sees, on one line.
func PostPlainText(source string) string {
	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			b.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}
