package tui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/notifeed/notifeed/internal/feed"
)

type fakeBackend struct {
	page feed.Page

	toggleCalls  int
	markAllCalls int
}

func (b *fakeBackend) Load(context.Context) (feed.Page, error) {
	return b.page, nil
}

func (b *fakeBackend) ToggleRead(_ context.Context, id int64, read bool) (feed.MutationResult, error) {
	b.toggleCalls++
	return feed.MutationResult{OK: true, Count: b.page.UnreadTotal - 1}, nil
}

func (b *fakeBackend) MarkAllRead(context.Context) (feed.MutationResult, error) {
	b.markAllCalls++
	return feed.MutationResult{OK: true}, nil
}

func (b *fakeBackend) SubmitToggle(context.Context, int64, bool) error { return nil }
func (b *fakeBackend) SubmitMarkAll(context.Context) error             { return nil }

func testPage() feed.Page {
	now := time.Now()
	stamp := func(d time.Duration) string {
		return now.Add(-d).Format("2006-01-02 15:04:05")
	}
	return feed.Page{
		Records: []feed.Record{
			{ID: 1, Type: "task.assigned", Title: "Fix login flow", CreatedAt: stamp(time.Minute), Read: false},
			{ID: 2, Type: "note.shared", Title: "Q3 plan", CreatedAt: stamp(26 * time.Hour), Read: false},
			{ID: 3, Type: "billing.invoice", Title: "Invoice ready", CreatedAt: stamp(10 * 24 * time.Hour), Read: true},
		},
		UnreadTotal: 2,
	}
}

// collectMsg runs a command synchronously and returns its payload message,
// skipping spinner ticks when the command is a batch.
func collectMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return msg
	}
	for _, c := range batch {
		m := c()
		if _, tick := m.(spinner.TickMsg); tick {
			continue
		}
		if m != nil {
			return m
		}
	}
	t.Fatal("batch carried no payload message")
	return nil
}

// loadedModel runs the init load synchronously and feeds the message back.
func loadedModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	m := New(backend)
	updated, _ := m.Update(collectMsg(t, m.Init()))
	model, ok := updated.(*Model)
	require.True(t, ok)
	require.True(t, model.loaded)
	require.NoError(t, model.lastErr)
	return model
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadBuildsRows(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	// Three buckets, three items.
	require.Len(t, m.snap.rows, 6)
	require.True(t, m.snap.rows[0].header)
	require.Equal(t, "Today", m.snap.rows[0].title)
	require.Equal(t, int64(1), m.snap.rows[1].id)
	require.Equal(t, 2, m.snap.unread)
}

func TestFilterHotkeys(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	updated, _ := m.Update(key("u"))
	m = updated.(*Model)
	require.Equal(t, feed.FilterUnread, m.snap.filter.Active)
	require.Equal(t, 2, m.snap.vm.VisibleCount)

	updated, _ = m.Update(key("o"))
	m = updated.(*Model)
	require.Equal(t, feed.FilterOther, m.snap.filter.Active)
	require.Equal(t, 1, m.snap.vm.VisibleCount)

	// Hidden buckets contribute no rows.
	headers := 0
	for _, r := range m.snap.rows {
		if r.header {
			headers++
		}
	}
	require.Equal(t, 1, headers)
}

func TestEscResetsFilters(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	updated, _ := m.Update(key("t"))
	m = updated.(*Model)
	require.False(t, m.snap.filter.IsDefault())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)
	require.True(t, m.snap.filter.IsDefault())
	require.Equal(t, 3, m.snap.vm.VisibleCount)
}

func TestSearchDispatchesPerKeystroke(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	updated, _ := m.Update(key("/"))
	m = updated.(*Model)
	require.True(t, m.searching)

	updated, _ = m.Update(key("q"))
	m = updated.(*Model)
	updated, _ = m.Update(key("3"))
	m = updated.(*Model)
	require.Equal(t, "q3", m.snap.filter.Query)
	require.Equal(t, 1, m.snap.vm.VisibleCount)

	// Enter keeps the query, esc clears it.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.False(t, m.searching)
	require.Equal(t, "q3", m.snap.filter.Query)

	updated, _ = m.Update(key("/"))
	m = updated.(*Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)
	require.False(t, m.searching)
	require.Empty(t, m.snap.filter.Query)
	require.Equal(t, 3, m.snap.vm.VisibleCount)
}

func TestToggleReadOnSelection(t *testing.T) {
	backend := &fakeBackend{page: testPage()}
	m := loadedModel(t, backend)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.True(t, m.busy)

	updated, _ = m.Update(collectMsg(t, cmd))
	m = updated.(*Model)
	require.False(t, m.busy)
	require.NoError(t, m.lastErr)
	require.Equal(t, 1, backend.toggleCalls)
	require.Equal(t, 1, m.snap.unread)
	require.False(t, m.snap.rows[1].unread)
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	backend := &fakeBackend{page: testPage()}
	m := loadedModel(t, backend)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.True(t, m.busy)

	// A second toggle while the first is in flight is dropped.
	updated, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.Nil(t, second)

	updated, _ = m.Update(collectMsg(t, cmd))
	m = updated.(*Model)
	require.Equal(t, 1, backend.toggleCalls)
}

func TestMarkAllReadConfirmFlow(t *testing.T) {
	backend := &fakeBackend{page: testPage()}
	m := loadedModel(t, backend)

	updated, _ := m.Update(key("A"))
	m = updated.(*Model)
	require.True(t, m.confirming)

	// Declining leaves everything untouched.
	updated, _ = m.Update(key("n"))
	m = updated.(*Model)
	require.False(t, m.confirming)
	require.Zero(t, backend.markAllCalls)
	require.Equal(t, 2, m.snap.unread)

	updated, _ = m.Update(key("A"))
	m = updated.(*Model)
	updated, cmd := m.Update(key("y"))
	m = updated.(*Model)
	require.False(t, m.confirming)
	require.True(t, m.busy)

	updated, _ = m.Update(collectMsg(t, cmd))
	m = updated.(*Model)
	require.Equal(t, 1, backend.markAllCalls)
	require.Zero(t, m.snap.unread)
	require.Zero(t, m.snap.summary.Unread)
}

func TestCursorMovement(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	require.Equal(t, 0, m.cursor)
	updated, _ := m.Update(key("j"))
	m = updated.(*Model)
	updated, _ = m.Update(key("j"))
	m = updated.(*Model)
	require.Equal(t, 2, m.cursor)

	// Clamped at the last item.
	updated, _ = m.Update(key("j"))
	m = updated.(*Model)
	require.Equal(t, 2, m.cursor)

	updated, _ = m.Update(key("k"))
	m = updated.(*Model)
	require.Equal(t, 1, m.cursor)

	r, ok := m.selectedRow()
	require.True(t, ok)
	require.Equal(t, int64(2), r.id)
}

func TestQuitKeys(t *testing.T) {
	m := loadedModel(t, &fakeBackend{page: testPage()})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
