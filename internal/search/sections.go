package search

import (
	"errors"
	"fmt"
)

// Section is a group of rows on the search screen, in display order.
type Section int

const (
	SectionNumberLookup Section = iota
	SectionAsset
	SectionUser
	SectionGroup
	SectionConversationByMessage
)

// Sections lists all sections in display order.
var Sections = []Section{
	SectionNumberLookup,
	SectionAsset,
	SectionUser,
	SectionGroup,
	SectionConversationByMessage,
}

// Title is the header text. The number lookup row has no header.
func (s Section) Title() string {
	switch s {
	case SectionAsset:
		return "Assets"
	case SectionUser:
		return "Contacts"
	case SectionGroup:
		return "Chats"
	case SectionConversationByMessage:
		return "Messages"
	default:
		return ""
	}
}

func (s Section) String() string {
	switch s {
	case SectionNumberLookup:
		return "number_lookup"
	case SectionAsset:
		return "asset"
	case SectionUser:
		return "user"
	case SectionGroup:
		return "group"
	case SectionConversationByMessage:
		return "conversation_by_message"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// Category maps a result section to the category it is built from.
func (s Section) Category() (Category, bool) {
	switch s {
	case SectionAsset:
		return CategoryAsset, true
	case SectionUser:
		return CategoryUser, true
	case SectionGroup:
		return CategoryConversationByName, true
	case SectionConversationByMessage:
		return CategoryConversationByMessage, true
	default:
		return 0, false
	}
}

// Header describes a section header.
type Header struct {
	Title     string
	IsFirst   bool
	ShowsMore bool
}

// Row is one rendered line of a section.
type Row interface {
	isRow()
}

// NumberRow offers a remote lookup of the keyword.
type NumberRow struct {
	Keyword Keyword
}

type AssetRow struct {
	Result AssetResult
}

type ResultRow struct {
	Result Result
}

func (NumberRow) isRow() {}
func (AssetRow) isRow()  {}
func (ResultRow) isRow() {}

// Action is what selecting a row asks the caller to do.
type Action interface {
	isAction()
}

// LookupNumber asks for the remote lookup of the keyword.
type LookupNumber struct {
	Keyword Keyword
}

// Navigate asks the router to open a destination.
type Navigate struct {
	Destination Destination
}

func (LookupNumber) isAction() {}
func (Navigate) isAction()     {}

// Destination is a detail page the router can open.
type Destination interface {
	isDestination()
}

type ContactDestination struct {
	UserID string
}

type ConversationDestination struct {
	ConversationID string
}

type MessageDestination struct {
	ConversationID string
	MessageID      string
	IsData         bool
}

type AssetDestination struct {
	AssetID string
}

// ConversationSearchDestination lists the messages of one conversation
// that match Keyword.
type ConversationSearchDestination struct {
	ConversationID string
	UserID         string
	Keyword        Keyword
}

func (ContactDestination) isDestination()            {}
func (ConversationDestination) isDestination()       {}
func (MessageDestination) isDestination()            {}
func (AssetDestination) isDestination()              {}
func (ConversationSearchDestination) isDestination() {}

var (
	ErrRowOutOfRange = errors.New("row out of range")
	ErrNoMore        = errors.New("section has no more page")
)

// Presenter maps published results onto the fixed section list.
type Presenter struct {
	results          Results
	showNumberLookup bool
	resultLimit      int
}

// NewPresenter builds a presenter. showNumberLookup is whether the keyword
// may be an identity number or phone; the row still only shows when no
// contact matched.
func NewPresenter(results Results, showNumberLookup bool, resultLimit int) *Presenter {
	return &Presenter{
		results:          results,
		showNumberLookup: showNumberLookup && len(results.Users) == 0,
		resultLimit:      resultLimit,
	}
}

func (p *Presenter) Keyword() Keyword {
	return p.results.Keyword
}

// ShowsNumberLookup reports whether the number lookup row is visible.
func (p *Presenter) ShowsNumberLookup() bool {
	return p.showNumberLookup
}

func (p *Presenter) count(s Section) int {
	if s == SectionNumberLookup {
		if p.showNumberLookup {
			return 1
		}
		return 0
	}
	c, ok := s.Category()
	if !ok {
		return 0
	}
	return p.results.Count(c)
}

// RowCount is the number of rows shown for a section.
func (p *Presenter) RowCount(s Section) int {
	n := p.count(s)
	if s == SectionNumberLookup {
		return n
	}
	return min(p.resultLimit, n)
}

// IsHidden reports whether a section draws nothing at all.
func (p *Presenter) IsHidden(s Section) bool {
	return p.RowCount(s) == 0
}

// IsFirst reports whether s is the first visible section.
func (p *Presenter) IsFirst(s Section) bool {
	for _, candidate := range Sections {
		if !p.IsHidden(candidate) {
			return candidate == s
		}
	}
	return false
}

// Visible returns the sections that have rows, in order.
func (p *Presenter) Visible() []Section {
	var out []Section
	for _, s := range Sections {
		if !p.IsHidden(s) {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty reports whether no section is visible.
func (p *Presenter) IsEmpty() bool {
	return len(p.Visible()) == 0
}

// Header returns the header of s. The number lookup section never has one.
func (p *Presenter) Header(s Section) (Header, bool) {
	if s == SectionNumberLookup || p.IsHidden(s) {
		return Header{}, false
	}
	return Header{
		Title:     s.Title(),
		IsFirst:   p.IsFirst(s),
		ShowsMore: p.count(s) > p.resultLimit,
	}, true
}

// Row returns the row at index i of section s.
func (p *Presenter) Row(s Section, i int) (Row, error) {
	if i < 0 || i >= p.RowCount(s) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, s, i)
	}
	switch s {
	case SectionNumberLookup:
		return NumberRow{Keyword: p.results.Keyword}, nil
	case SectionAsset:
		return AssetRow{Result: p.results.Assets[i]}, nil
	case SectionUser:
		return ResultRow{Result: p.results.Users[i]}, nil
	case SectionGroup:
		return ResultRow{Result: p.results.ConversationsByName[i]}, nil
	case SectionConversationByMessage:
		return ResultRow{Result: p.results.ConversationsByMessage[i]}, nil
	default:
		return nil, fmt.Errorf("unknown section %d", int(s))
	}
}

// Select resolves the action for the row at index i of section s.
func (p *Presenter) Select(s Section, i int) (Action, error) {
	row, err := p.Row(s, i)
	if err != nil {
		return nil, err
	}
	return ActionForRow(row, p.results.Keyword)
}

// More returns the category behind the "more" page of s.
func (p *Presenter) More(s Section) (Category, error) {
	header, ok := p.Header(s)
	if !ok || !header.ShowsMore {
		return 0, fmt.Errorf("%w: %s", ErrNoMore, s)
	}
	c, _ := s.Category()
	return c, nil
}

// ActionForRow resolves what selecting row does.
func ActionForRow(row Row, keyword Keyword) (Action, error) {
	switch row := row.(type) {
	case NumberRow:
		return LookupNumber{Keyword: row.Keyword}, nil
	case AssetRow:
		return Navigate{Destination: AssetDestination{AssetID: row.Result.Asset.ID}}, nil
	case ResultRow:
		dest, err := DestinationFor(row.Result.Target, keyword)
		if err != nil {
			return nil, err
		}
		return Navigate{Destination: dest}, nil
	default:
		return nil, fmt.Errorf("unknown row %T", row)
	}
}

// DestinationFor resolves where a result target leads.
func DestinationFor(target Target, keyword Keyword) (Destination, error) {
	switch t := target.(type) {
	case ContactTarget:
		return ContactDestination{UserID: t.User.ID}, nil
	case ConversationTarget:
		return ConversationDestination{ConversationID: t.Conversation.ID}, nil
	case ContactViaMessageSearchTarget:
		return ConversationSearchDestination{ConversationID: t.ConversationID, UserID: t.UserID, Keyword: keyword}, nil
	case GroupViaMessageSearchTarget:
		return ConversationSearchDestination{ConversationID: t.ConversationID, Keyword: keyword}, nil
	case MessageHitTarget:
		return MessageDestination{ConversationID: t.ConversationID, MessageID: t.MessageID, IsData: t.IsData}, nil
	default:
		return nil, fmt.Errorf("unknown search target %T", target)
	}
}
