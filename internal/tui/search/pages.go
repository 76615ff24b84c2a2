package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/mixsearch/internal/model"
	engine "github.com/Paintersrp/mixsearch/internal/search"
)

// Details loads the records behind a destination.
type Details interface {
	User(ctx context.Context, id string) (model.User, error)
	Conversation(ctx context.Context, id string) (model.Conversation, error)
	Message(ctx context.Context, id string) (model.Message, error)
	Asset(ctx context.Context, id string) (model.Asset, error)
}

// page is a screen pushed over the search screen.
type page interface {
	pageTitle() string
}

// detailPage shows one record in a scrollable viewport.
type detailPage struct {
	title    string
	id       string
	body     string
	viewport viewport.Model
}

// listPage shows rows of one category or of one conversation's messages.
type listPage struct {
	title   string
	keyword engine.Keyword
	rows    []engine.Row
	cursor  int
}

func (p *detailPage) pageTitle() string { return p.title }
func (p *listPage) pageTitle() string   { return p.title }

func newDetailPage(title, id, body string, width, height int) *detailPage {
	vp := viewport.New(max(width, 20), max(height-6, 3))
	vp.SetContent(body)
	return &detailPage{title: title, id: id, body: body, viewport: vp}
}

func (p *detailPage) resize(width, height int) {
	p.viewport.Width = max(width, 20)
	p.viewport.Height = max(height-6, 3)
}

func (p *listPage) selected() (engine.Row, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil, false
	}
	return p.rows[p.cursor], true
}

func (p *listPage) move(delta int) {
	if len(p.rows) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.rows)-1)
}

func field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return labelStyle.Render(label) + value
}

func joinFields(fields ...string) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			lines = append(lines, f)
		}
	}
	return strings.Join(lines, "\n")
}

func contactBody(u model.User) string {
	name := u.FullName
	if badge := engine.UserBadge(u.IsVerified, u.AppID); badge != engine.BadgeNone {
		name += " " + badgeStyle.Render(badgeMark(badge))
	}
	return joinFields(
		field("Name", name),
		field("ID", u.IdentityNumber),
		field("Phone", u.Phone),
		field("Relationship", string(u.Relationship)),
		field("Bot", u.AppID),
		field("Biography", u.Biography),
	)
}

func conversationBody(c model.Conversation) string {
	created := ""
	if !c.CreatedAt.IsZero() {
		created = c.CreatedAt.Local().Format("Jan 02, 2006 15:04")
	}
	return joinFields(
		field("Name", c.DisplayName()),
		field("Category", string(c.Category)),
		field("Conversation", c.ID),
		field("Created", created),
	)
}

func assetBody(a model.Asset) string {
	return joinFields(
		field("Symbol", a.Symbol),
		field("Name", a.Name),
		field("Balance", humanize.CommafWithDigits(a.Balance, 8)),
		field("Price", "$"+humanize.FormatFloat("#,###.##", a.PriceUSD)),
		field("Value", "$"+humanize.FormatFloat("#,###.##", a.ValueUSD())),
		field("Chain", a.ChainID),
	)
}

func messageBody(msg model.Message, width int) string {
	header := joinFields(
		field("Conversation", msg.ConversationID),
		field("Sender", msg.UserID),
		field("Sent", msg.CreatedAt.Local().Format("Jan 02, 2006 15:04")),
	)

	var content string
	switch {
	case msg.IsData():
		content = "[File] " + msg.MediaName
	case model.IsPostCategory(msg.Category):
		content = renderMarkdown(msg.Content, width)
	default:
		content = msg.Content
	}
	return header + "\n\n" + content
}

func renderMarkdown(source string, width int) string {
	wrap := 100
	if width > 0 && width < wrap {
		wrap = width
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return source
	}

	out, err := r.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}

// load resolves dest into a page.
func (m *Model) load(dest engine.Destination) tea.Cmd {
	width, height := m.width, m.height
	return func() tea.Msg {
		ctx := context.Background()

		switch d := dest.(type) {
		case engine.ContactDestination:
			u, err := m.details.User(ctx, d.UserID)
			if err != nil {
				return loadFailedMsg{err: err}
			}
			return pageLoadedMsg{page: newDetailPage(u.FullName, u.IdentityNumber, contactBody(u), width, height)}

		case engine.ConversationDestination:
			c, err := m.details.Conversation(ctx, d.ConversationID)
			if err != nil {
				return loadFailedMsg{err: err}
			}
			return pageLoadedMsg{page: newDetailPage(c.DisplayName(), c.ID, conversationBody(c), width, height)}

		case engine.MessageDestination:
			msg, err := m.details.Message(ctx, d.MessageID)
			if err != nil {
				return loadFailedMsg{err: err}
			}
			title := "Message"
			if d.IsData {
				title = "File"
			}
			return pageLoadedMsg{page: newDetailPage(title, msg.ID, messageBody(msg, width), width, height)}

		case engine.AssetDestination:
			a, err := m.details.Asset(ctx, d.AssetID)
			if err != nil {
				return loadFailedMsg{err: err}
			}
			return pageLoadedMsg{page: newDetailPage(a.Symbol, a.ID, assetBody(a), width, height)}

		case engine.ConversationSearchDestination:
			title := d.ConversationID
			if c, err := m.details.Conversation(ctx, d.ConversationID); err == nil {
				title = c.DisplayName()
			}
			results, err := m.aggregator.SearchConversation(ctx, d.ConversationID, d.Keyword)
			if err != nil {
				return loadFailedMsg{err: err}
			}
			rows := make([]engine.Row, 0, len(results))
			for _, r := range results {
				rows = append(rows, engine.ResultRow{Result: r})
			}
			return pageLoadedMsg{page: &listPage{
				title:   fmt.Sprintf("%s · %q", title, d.Keyword.Trimmed),
				keyword: d.Keyword,
				rows:    rows,
			}}

		default:
			return loadFailedMsg{err: fmt.Errorf("unknown destination %T", dest)}
		}
	}
}

// loadCategory opens the "more" page of a section.
func (m *Model) loadCategory(section engine.Section, category engine.Category, keyword engine.Keyword) tea.Cmd {
	return func() tea.Msg {
		results, err := m.aggregator.SearchCategory(context.Background(), keyword, category)
		if err != nil {
			return loadFailedMsg{err: err}
		}

		var rows []engine.Row
		if category == engine.CategoryAsset {
			for _, a := range results.Assets {
				rows = append(rows, engine.AssetRow{Result: a})
			}
		} else {
			for _, r := range results.Rows(category) {
				rows = append(rows, engine.ResultRow{Result: r})
			}
		}
		return pageLoadedMsg{page: &listPage{
			title:   section.Title(),
			keyword: keyword,
			rows:    rows,
		}}
	}
}
