package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/lookup"
	engine "github.com/Paintersrp/mixsearch/internal/search"
	"github.com/Paintersrp/mixsearch/internal/state"
)

const statusTimeout = 3 * time.Second

// position addresses one visible row of the search screen.
type position struct {
	section engine.Section
	index   int
}

type Model struct {
	state      *state.State
	session    *engine.Session
	aggregator *engine.Aggregator
	lookup     *lookup.Lookup
	details    Details
	region     string
	log        *zap.Logger

	input     textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	presenter *engine.Presenter
	cursor    int
	pages     []page

	status   string
	statusID int
	width    int
	height   int

	copyToClipboard func(string) error
}

func NewModel(s *state.State) (*Model, error) {
	if s == nil || s.Session == nil || s.Aggregator == nil || s.Lookup == nil || s.Store == nil {
		return nil, fmt.Errorf("search model requires a configured state")
	}

	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "name, ID, phone, chat or message"
	input.PromptStyle = titleStyle
	input.Focus()

	return &Model{
		state:           s,
		session:         s.Session,
		aggregator:      s.Aggregator,
		lookup:          s.Lookup,
		details:         s.Store,
		region:          s.Region(),
		log:             logger.WithComponent(s.Logger, "tui"),
		input:           input,
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:            help.New(),
		keys:            newKeyMap(),
		copyToClipboard: clipboard.WriteAll,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.state != nil {
		if cmd := m.state.StoreHeartbeatCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-6, 10)
		m.help.Width = msg.Width
		for _, p := range m.pages {
			if d, ok := p.(*detailPage); ok {
				d.resize(msg.Width-4, msg.Height)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if len(m.pages) > 0 {
			return m, m.updatePage(msg)
		}
		return m, m.updateSearch(msg)

	case searchDoneMsg:
		return m, m.publish(msg.outcome)

	case lookupDoneMsg:
		return m, m.finishLookup(msg.outcome)

	case pageLoadedMsg:
		m.pages = append(m.pages, msg.page)
		return m, nil

	case loadFailedMsg:
		m.log.Warn("failed to open page", zap.Error(msg.err))
		return m, m.setStatus(msg.err.Error())

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case state.StoreStatsMsg:
		if msg.Err != nil {
			m.log.Warn("failed to count store rows", zap.Error(msg.Err))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) busy() bool {
	return m.session.State() == engine.StateSearching || m.lookup.Busy()
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.open):
		return m.selectCurrent()
	case key.Matches(msg, m.keys.more):
		return m.openMore()
	case key.Matches(msg, m.keys.copy):
		return m.copyCurrent()
	case key.Matches(msg, m.keys.back):
		if m.input.Value() == "" {
			return tea.Quit
		}
		m.input.Reset()
		return m.keywordChanged()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.keywordChanged())
}

// keywordChanged starts a search for the current input. Any number lookup
// for the previous keyword is abandoned.
func (m *Model) keywordChanged() tea.Cmd {
	value := m.input.Value()
	if engine.NewKeyword(value).IsEmpty() {
		m.session.Reset()
		m.lookup.Cancel()
		m.presenter = nil
		m.cursor = 0
		return nil
	}

	req, ok := m.session.Begin(value)
	if !ok {
		return nil
	}
	m.lookup.Cancel()

	session := m.session
	return tea.Batch(
		func() tea.Msg { return searchDoneMsg{outcome: session.Execute(req)} },
		m.spinner.Tick,
	)
}

func (m *Model) publish(o engine.Outcome) tea.Cmd {
	if !m.session.Publish(o) {
		return nil
	}

	results, ok := m.session.Results()
	if !ok {
		return nil
	}
	m.presenter = engine.NewPresenter(
		results,
		results.Keyword.MaybeIDOrPhone(m.region),
		m.aggregator.ResultLimit(),
	)
	m.cursor = 0

	if m.state != nil {
		for _, s := range engine.Sections {
			m.state.Metrics.SetSectionRows(s.String(), m.presenter.RowCount(s))
		}
	}
	return nil
}

func (m *Model) positions() []position {
	if m.presenter == nil {
		return nil
	}
	var out []position
	for _, s := range m.presenter.Visible() {
		for i := 0; i < m.presenter.RowCount(s); i++ {
			out = append(out, position{section: s, index: i})
		}
	}
	return out
}

func (m *Model) moveCursor(delta int) {
	n := len(m.positions())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

func (m *Model) current() (position, bool) {
	positions := m.positions()
	if m.cursor < 0 || m.cursor >= len(positions) {
		return position{}, false
	}
	return positions[m.cursor], true
}

func (m *Model) selectCurrent() tea.Cmd {
	pos, ok := m.current()
	if !ok {
		return nil
	}
	action, err := m.presenter.Select(pos.section, pos.index)
	if err != nil {
		return m.setStatus(err.Error())
	}
	return m.perform(action)
}

func (m *Model) perform(action engine.Action) tea.Cmd {
	switch a := action.(type) {
	case engine.LookupNumber:
		return m.startLookup(a.Keyword)
	case engine.Navigate:
		return m.load(a.Destination)
	default:
		return nil
	}
}

// startLookup issues the remote lookup unless one is already outstanding.
func (m *Model) startLookup(keyword engine.Keyword) tea.Cmd {
	if m.lookup.Busy() {
		return nil
	}
	req := m.lookup.Start(keyword.Trimmed)
	l := m.lookup
	return tea.Batch(
		func() tea.Msg { return lookupDoneMsg{outcome: l.Execute(req)} },
		m.spinner.Tick,
	)
}

func (m *Model) finishLookup(o lookup.Outcome) tea.Cmd {
	res, ok := m.lookup.Finish(o)
	if !ok {
		return nil
	}
	if res.User != nil {
		u := *res.User
		m.pages = append(m.pages, newDetailPage(u.FullName, u.IdentityNumber, contactBody(u), m.width-4, m.height))
		return nil
	}
	return m.setStatus(res.Notice)
}

func (m *Model) openMore() tea.Cmd {
	pos, ok := m.current()
	if !ok {
		return nil
	}
	category, err := m.presenter.More(pos.section)
	if err != nil {
		if errors.Is(err, engine.ErrNoMore) {
			return nil
		}
		return m.setStatus(err.Error())
	}
	return m.loadCategory(pos.section, category, m.presenter.Keyword())
}

func (m *Model) copyCurrent() tea.Cmd {
	pos, ok := m.current()
	if !ok {
		return nil
	}
	row, err := m.presenter.Row(pos.section, pos.index)
	if err != nil {
		return m.setStatus(err.Error())
	}
	return m.copyRow(row)
}

func (m *Model) copyRow(row engine.Row) tea.Cmd {
	id, err := rowID(row)
	if err != nil {
		return m.setStatus(err.Error())
	}
	return m.copyID(id)
}

func (m *Model) copyID(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	if err := m.copyToClipboard(id); err != nil {
		return m.setStatus(fmt.Sprintf("copy failed: %v", err))
	}
	return m.setStatus("Copied " + id)
}

func rowID(row engine.Row) (string, error) {
	switch r := row.(type) {
	case engine.NumberRow:
		return r.Keyword.Trimmed, nil
	case engine.AssetRow:
		return r.Result.Asset.ID, nil
	case engine.ResultRow:
		return engine.TargetID(r.Result.Target)
	default:
		return "", fmt.Errorf("unknown row %T", row)
	}
}

func (m *Model) updatePage(msg tea.KeyMsg) tea.Cmd {
	top := m.pages[len(m.pages)-1]

	if key.Matches(msg, m.keys.back) {
		m.pages = m.pages[:len(m.pages)-1]
		return nil
	}

	switch p := top.(type) {
	case *detailPage:
		if key.Matches(msg, m.keys.copy) {
			return m.copyID(p.id)
		}
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd

	case *listPage:
		switch {
		case key.Matches(msg, m.keys.up):
			p.move(-1)
		case key.Matches(msg, m.keys.down):
			p.move(1)
		case key.Matches(msg, m.keys.copy):
			if row, ok := p.selected(); ok {
				return m.copyRow(row)
			}
		case key.Matches(msg, m.keys.open):
			row, ok := p.selected()
			if !ok {
				return nil
			}
			action, err := engine.ActionForRow(row, p.keyword)
			if err != nil {
				return m.setStatus(err.Error())
			}
			return m.perform(action)
		}
	}
	return nil
}

// setStatus shows a transient line that clears after statusTimeout.
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusID++
	m.status = text
	id := m.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func Run(s *state.State) error {
	m, err := NewModel(s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
