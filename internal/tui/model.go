// Package tui is the interactive feed browser: filter hotkeys, live
// search, read-state toggling, and mark-all-read with confirmation, all
// driven through the feed engine.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notifeed/notifeed/internal/feed"
)

const requestTimeout = 10 * time.Second

// Backend is what the TUI needs from the daemon client.
type Backend interface {
	feed.Loader
	feed.Mutator
	feed.FallbackSubmitter
}

// filterKeys maps hotkeys to filters.
var filterKeys = map[string]feed.Filter{
	"a": feed.FilterAll,
	"u": feed.FilterUnread,
	"r": feed.FilterRecent,
	"t": feed.FilterTask,
	"n": feed.FilterNote,
	"o": feed.FilterOther,
}

// snapshot is the render state handed back from engine interactions. The
// engine itself is only touched from one goroutine at a time (gated by
// busy), so View always renders from plain data.
type snapshot struct {
	rows    []row
	vm      feed.ViewModel
	summary feed.Summary
	unread  int
	filter  feed.FilterState
}

// row is one rendered line's worth of display data.
type row struct {
	header bool

	// header fields
	title      string
	dateLabel  string
	countLabel string

	// item fields
	id          int64
	icon        string
	itemTitle   string
	badge       string
	body        string
	timeDisplay string
	unread      bool
}

type loadedMsg struct {
	snap snapshot
	err  error
}

type mutatedMsg struct {
	snap snapshot
	err  error
}

// Model is the bubbletea model for the feed browser.
type Model struct {
	backend Backend
	engine  *feed.Engine

	snap    snapshot
	loaded  bool
	busy    bool
	lastErr error

	search     textinput.Model
	spin       spinner.Model
	searching  bool
	confirming bool

	cursor int
	width  int
	height int
}

// New creates the feed browser over a daemon backend.
func New(backend Backend) *Model {
	search := textinput.New()
	search.Placeholder = "Search notifications"
	search.Prompt = "🔍 "
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return &Model{
		backend: backend,
		search:  search,
		spin:    sp,
	}
}

// Init starts the initial feed load.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := m.backend.Load(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		m.engine = feed.NewEngine(page,
			feed.WithMutator(m.backend),
			feed.WithFallback(m.backend),
			feed.WithLoader(m.backend),
		)
		return loadedMsg{snap: m.takeSnapshot()}
	}
}

// applyCmd runs one engine command off the update loop. The busy gate
// guarantees a single command in flight.
func (m *Model) applyCmd(cmd feed.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := m.engine.Apply(ctx, cmd)
		return mutatedMsg{snap: m.takeSnapshot(), err: err}
	}
}

// applySync runs a pure view-state command inline.
func (m *Model) applySync(cmd feed.Command) {
	_, _ = m.engine.Apply(context.Background(), cmd)
	m.snap = m.takeSnapshot()
	m.clampCursor()
}

// takeSnapshot flattens the engine state into render rows.
func (m *Model) takeSnapshot() snapshot {
	f := m.engine.Feed()
	vm := m.engine.View()

	rows := make([]row, 0, len(f.Items)+len(f.Buckets))
	for _, bv := range vm.Buckets {
		if bv.Hidden {
			continue
		}
		rows = append(rows, row{
			header:     true,
			title:      bv.Bucket.Label,
			dateLabel:  bv.Bucket.DateLabel,
			countLabel: bv.CountLabel,
		})
		for _, item := range bv.Bucket.Items {
			if !vm.Visible[item.Record.ID] {
				continue
			}
			rows = append(rows, row{
				id:          item.Record.ID,
				icon:        item.Icon,
				itemTitle:   item.Title,
				badge:       item.Label,
				body:        item.Record.Body,
				timeDisplay: item.Class.TimeDisplay,
				unread:      item.Unread(),
			})
		}
	}

	return snapshot{
		rows:    rows,
		vm:      vm,
		summary: m.engine.Summary(),
		unread:  m.engine.UnreadDisplay(),
		filter:  m.engine.Filter(),
	}
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.loaded = true
			m.snap = msg.snap
			m.clampCursor()
		}
		return m, nil

	case mutatedMsg:
		m.busy = false
		m.lastErr = msg.err
		m.snap = msg.snap
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirming {
		return m.handleConfirmKey(key)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		if !m.busy && m.loaded {
			m.search.SetValue("")
			m.applySync(feed.ResetFilters{})
		}
	case "R":
		if !m.busy && m.loaded {
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.applyCmd(feed.Refresh{}))
		}
	case "A":
		if !m.busy && m.loaded && m.snap.unread > 0 {
			m.confirming = true
		}
	case "enter", " ":
		if !m.busy && m.loaded {
			if r, ok := m.selectedRow(); ok {
				m.busy = true
				return m, tea.Batch(m.spin.Tick, m.applyCmd(feed.ToggleRead{ID: r.id, Read: r.unread}))
			}
		}
	default:
		if f, ok := filterKeys[key]; ok && !m.busy && m.loaded {
			m.applySync(feed.SetFilter{Filter: f})
		}
	}

	return m, nil
}

func (m *Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.confirming = false
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.applyCmd(feed.MarkAllRead{Confirmed: true}))
	case "n", "N", "esc":
		// Declining is a no-op.
		m.confirming = false
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		if !m.busy && m.loaded {
			m.applySync(feed.SetSearch{})
		}
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if !m.busy && m.loaded {
		m.applySync(feed.SetSearch{Query: m.search.Value()})
	}
	return m, cmd
}

// itemRows lists the indexes of selectable (non-header) rows.
func (m *Model) itemRows() []int {
	idx := make([]int, 0, len(m.snap.rows))
	for i, r := range m.snap.rows {
		if !r.header {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *Model) selectedRow() (row, bool) {
	items := m.itemRows()
	if len(items) == 0 || m.cursor >= len(items) {
		return row{}, false
	}
	return m.snap.rows[items[m.cursor]], true
}

func (m *Model) moveCursor(delta int) {
	items := m.itemRows()
	if len(items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	items := m.itemRows()
	if len(items) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
}
