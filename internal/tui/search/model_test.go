package search

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/apperr"
	"github.com/Paintersrp/mixsearch/internal/lookup"
	"github.com/Paintersrp/mixsearch/internal/metrics"
	"github.com/Paintersrp/mixsearch/internal/model"
	engine "github.com/Paintersrp/mixsearch/internal/search"
	"github.com/Paintersrp/mixsearch/internal/state"
	"github.com/Paintersrp/mixsearch/internal/store"
)

type fakeDirectory struct {
	users map[string]model.User
}

func (f fakeDirectory) SearchUser(ctx context.Context, keyword string) (model.User, error) {
	if u, ok := f.users[keyword]; ok {
		return u, nil
	}
	return model.User{}, apperr.NotFound("The user was not found.")
}

func testFixtures() store.Fixtures {
	at := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	return store.Fixtures{
		Users: []model.User{
			{ID: "u-anna", IdentityNumber: "7000101", FullName: "Anna", Relationship: model.RelationshipFriend},
			{ID: "u-annabel", IdentityNumber: "7000102", FullName: "Annabel", Relationship: model.RelationshipFriend},
			{ID: "u-annette", IdentityNumber: "7000103", FullName: "Annette", Relationship: model.RelationshipFriend},
			{ID: "u-joanna", IdentityNumber: "7000104", FullName: "Joanna", Relationship: model.RelationshipFriend},
		},
		Conversations: []model.Conversation{
			{ID: "c-anna", Category: model.CategoryContact, OwnerID: "u-anna", CreatedAt: at},
		},
		Messages: []model.Message{
			{ID: "m1", ConversationID: "c-anna", UserID: "u-anna", Category: "PLAIN_TEXT", Content: "planning the annual trip", CreatedAt: at},
		},
	}
}

func newTestModel(t *testing.T, dir lookup.Directory) (*Model, *[]string) {
	t.Helper()

	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Import(context.Background(), testFixtures(), "US")
	require.NoError(t, err)

	reg := metrics.New()
	agg := engine.NewAggregator(db, db, db, engine.Options{Logger: zap.NewNop(), Metrics: reg})
	st := &state.State{
		Logger:     zap.NewNop(),
		Metrics:    reg,
		Store:      db,
		Aggregator: agg,
		Session:    engine.NewSession(agg, zap.NewNop(), reg),
		Lookup:     lookup.New(dir, db, lookup.Options{Logger: zap.NewNop(), Metrics: reg}),
		RootStatus: &state.RootStatus{},
	}

	m, err := NewModel(st)
	require.NoError(t, err)

	var copied []string
	m.copyToClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, &copied
}

// drain runs cmd and feeds the resulting messages back into m. Commands
// that sleep longer than the timeout, such as cursor blinks and status
// expiry, are dropped.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- next() }()

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(500 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case searchDoneMsg, lookupDoneMsg, pageLoadedMsg, loadFailedMsg:
			_, follow := m.Update(msg)
			pending = append(pending, follow)
		}
	}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	drain(t, m, cmd)
}

func press(t *testing.T, m *Model, k tea.KeyType) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	drain(t, m, cmd)
}

func TestTypingPublishesSections(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})

	typeText(t, m, "ann")

	require.NotNil(t, m.presenter)
	assert.Equal(t, engine.StateResults, m.session.State())
	assert.Equal(t, []engine.Section{engine.SectionUser, engine.SectionConversationByMessage}, m.presenter.Visible())
	assert.Len(t, m.positions(), 4)

	view := m.View()
	assert.Contains(t, view, "Contacts")
	assert.Contains(t, view, "more ›")
	assert.Contains(t, view, "Messages")
	assert.Contains(t, view, "1 related messages")
	assert.NotContains(t, view, "Joanna", "only the first three contacts are shown")
}

func TestEscClearsKeyword(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})
	typeText(t, m, "ann")
	require.NotNil(t, m.presenter)

	press(t, m, tea.KeyEsc)

	assert.Nil(t, m.presenter)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, engine.StateIdle, m.session.State())
}

func TestMoreOpensCategoryPage(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})
	typeText(t, m, "ann")

	press(t, m, tea.KeyCtrlO)

	require.Len(t, m.pages, 1)
	p, ok := m.pages[0].(*listPage)
	require.True(t, ok)
	assert.Equal(t, "Contacts", p.title)
	assert.Len(t, p.rows, 4)

	press(t, m, tea.KeyEsc)
	assert.Empty(t, m.pages)
}

func TestMoreIgnoredWithoutOverflow(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})
	typeText(t, m, "ann")

	for i := 0; i < 3; i++ {
		press(t, m, tea.KeyDown)
	}
	press(t, m, tea.KeyCtrlO)
	assert.Empty(t, m.pages)
}

func TestSelectMessageSectionOpensConversationSearch(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})
	typeText(t, m, "ann")

	for i := 0; i < 3; i++ {
		press(t, m, tea.KeyDown)
	}
	press(t, m, tea.KeyEnter)

	require.Len(t, m.pages, 1)
	p, ok := m.pages[0].(*listPage)
	require.True(t, ok)
	require.Len(t, p.rows, 1)
	assert.Contains(t, p.title, "Anna")

	press(t, m, tea.KeyEnter)
	require.Len(t, m.pages, 2)
	detail, ok := m.pages[1].(*detailPage)
	require.True(t, ok)
	assert.Equal(t, "m1", detail.id)
	assert.Contains(t, detail.body, "planning the annual trip")
}

func TestCopyUsesSelectedTarget(t *testing.T) {
	m, copied := newTestModel(t, fakeDirectory{})
	typeText(t, m, "ann")

	press(t, m, tea.KeyCtrlY)

	assert.Equal(t, []string{"7000101"}, *copied)
	assert.Equal(t, "Copied 7000101", m.status)
}

func TestNumberLookupOpensContact(t *testing.T) {
	found := model.User{ID: "u-remote", IdentityNumber: "7000999", FullName: "Remote Person"}
	m, _ := newTestModel(t, fakeDirectory{users: map[string]model.User{"7000999": found}})

	typeText(t, m, "7000999")
	require.NotNil(t, m.presenter)
	require.True(t, m.presenter.ShowsNumberLookup())
	assert.True(t, strings.Contains(m.View(), "Search for"))

	press(t, m, tea.KeyEnter)

	require.Len(t, m.pages, 1)
	detail, ok := m.pages[0].(*detailPage)
	require.True(t, ok)
	assert.Equal(t, "Remote Person", detail.title)
	assert.False(t, m.lookup.Busy())

	stored, err := m.details.User(context.Background(), "u-remote")
	require.NoError(t, err)
	assert.Equal(t, "Remote Person", stored.FullName)
}

func TestNumberLookupNotFoundShowsStatus(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})

	typeText(t, m, "7000999")
	press(t, m, tea.KeyEnter)

	assert.Empty(t, m.pages)
	assert.Equal(t, lookup.NotFoundNotice, m.status)

	m.Update(clearStatusMsg{id: m.statusID})
	assert.Empty(t, m.status)
}

func TestKeywordChangeCancelsLookup(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})
	typeText(t, m, "7000999")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.lookup.Busy())

	typeText(t, m, "8")
	assert.False(t, m.lookup.Busy())

	drain(t, m, cmd)
	assert.Empty(t, m.pages, "the abandoned lookup is dropped")
	assert.Empty(t, m.status)
}

func TestStaleStatusClearIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, fakeDirectory{})

	m.setStatus("first")
	stale := m.statusID
	m.setStatus("second")

	m.Update(clearStatusMsg{id: stale})
	assert.Equal(t, "second", m.status)
}
