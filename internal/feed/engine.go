package feed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/notifeed/notifeed/internal/logging"
)

// Engine errors.
var (
	ErrNoMutator  = errors.New("no mutator configured")
	ErrNoFallback = errors.New("no fallback submitter configured")
	ErrNoLoader   = errors.New("no loader configured")
)

// MutationResult is the mutation endpoint's reply. Count is the
// authoritative remaining-unread total and wins over any locally recomputed
// count.
type MutationResult struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

// Mutator sends read-state mutations to the remote endpoint.
type Mutator interface {
	ToggleRead(ctx context.Context, id int64, read bool) (MutationResult, error)
	MarkAllRead(ctx context.Context) (MutationResult, error)
}

// FallbackSubmitter is the non-optimistic path used when a mutation request
// fails: a plain full-page submission, so the action is not lost.
type FallbackSubmitter interface {
	SubmitToggle(ctx context.Context, id int64, read bool) error
	SubmitMarkAll(ctx context.Context) error
}

// Page is one upstream page of records plus the server-side unread total,
// which is computed independently of the page.
type Page struct {
	Records     []Record `json:"records"`
	UnreadTotal int      `json:"unread_total"`
}

// Loader fetches the current page from the upstream store.
type Loader interface {
	Load(ctx context.Context) (Page, error)
}

// Command is a user action consumed by Engine.Apply.
type Command interface{ isCommand() }

// SetFilter replaces the active filter.
type SetFilter struct{ Filter Filter }

// SetSearch replaces the search query.
type SetSearch struct{ Query string }

// ToggleRead marks one record read or unread.
type ToggleRead struct {
	ID   int64
	Read bool
}

// MarkAllRead marks every record read. It requires explicit confirmation;
// an unconfirmed command is a no-op, not an error.
type MarkAllRead struct{ Confirmed bool }

// ResetFilters restores the default filter state and clears the search.
type ResetFilters struct{}

// Refresh reloads the page from the upstream store.
type Refresh struct{}

func (SetFilter) isCommand()    {}
func (SetSearch) isCommand()    {}
func (ToggleRead) isCommand()   {}
func (MarkAllRead) isCommand()  {}
func (ResetFilters) isCommand() {}
func (Refresh) isCommand()      {}

// Engine owns one page view: the record set, the filter state, and the
// reconciled view model. All state transitions go through Apply. It is not
// safe for concurrent use; one engine serves one view.
type Engine struct {
	records []*Record
	feed    *Feed
	filter  FilterState
	vm      ViewModel

	// serverUnread is the authoritative unread total as last reported by
	// the server (page load or mutation reply).
	serverUnread int

	now      func() time.Time
	mutator  Mutator
	fallback FallbackSubmitter
	loader   Loader
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMutator sets the mutation endpoint client.
func WithMutator(m Mutator) Option { return func(e *Engine) { e.mutator = m } }

// WithFallback sets the full-page fallback submitter.
func WithFallback(f FallbackSubmitter) Option { return func(e *Engine) { e.fallback = f } }

// WithLoader sets the page loader used by Refresh and post-fallback reloads.
func WithLoader(l Loader) Option { return func(e *Engine) { e.loader = l } }

// WithClock overrides the reference clock. Used by tests.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine builds an engine over one page of records.
func NewEngine(page Page, opts ...Option) *Engine {
	e := &Engine{
		now: time.Now,
		log: logging.Component("feed"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(page)
	return e
}

func (e *Engine) reset(page Page) {
	e.records = make([]*Record, len(page.Records))
	for i := range page.Records {
		rec := page.Records[i]
		e.records[i] = &rec
	}
	e.feed = Aggregate(e.records, e.now())
	e.serverUnread = page.UnreadTotal
	if e.filter == (FilterState{}) {
		e.filter = DefaultFilterState()
	}
	e.reconcile()
}

func (e *Engine) reconcile() {
	e.vm = Reconcile(e.feed, e.filter)
}

// Feed exposes the current bucketed view.
func (e *Engine) Feed() *Feed { return e.feed }

// Filter exposes the current filter state.
func (e *Engine) Filter() FilterState { return e.filter }

// View exposes the last reconciled view model.
func (e *Engine) View() ViewModel { return e.vm }

// Summary recomputes the aggregate counts from the current record set.
func (e *Engine) Summary() Summary { return e.feed.Summary() }

// UnreadDisplay is the unread count to show: the server-reported total,
// which may exceed the page's own unread count on later pages.
func (e *Engine) UnreadDisplay() int {
	if e.serverUnread < 0 {
		return 0
	}
	return e.serverUnread
}

// Apply executes one command and returns the reconciled view model. Filter
// and search commands are synchronous; mutation commands suspend on the
// network and reconcile against the server's authoritative count before
// returning.
func (e *Engine) Apply(ctx context.Context, cmd Command) (ViewModel, error) {
	switch c := cmd.(type) {
	case SetFilter:
		if ValidFilter(c.Filter) {
			e.filter.Active = c.Filter
		}
		e.reconcile()
	case SetSearch:
		e.filter.Query = c.Query
		e.reconcile()
	case ResetFilters:
		e.filter = DefaultFilterState()
		e.reconcile()
	case ToggleRead:
		return e.vm, e.toggleRead(ctx, c.ID, c.Read)
	case MarkAllRead:
		if !c.Confirmed {
			return e.vm, nil
		}
		return e.vm, e.markAllRead(ctx)
	case Refresh:
		return e.vm, e.refresh(ctx)
	}
	return e.vm, nil
}

// toggleRead runs the two-phase mutation for one record: a speculative
// local flip, then reconciliation against the server reply. A rejected
// reply reverts the flip; a failed request reverts and routes through the
// fallback submitter so the action is not lost.
func (e *Engine) toggleRead(ctx context.Context, id int64, read bool) error {
	item, ok := e.feed.ItemByID(id)
	if !ok {
		return nil
	}
	if e.mutator == nil {
		return ErrNoMutator
	}

	prev := item.Record.Read
	item.Record.Read = read
	e.reconcile()

	res, err := e.mutator.ToggleRead(ctx, id, read)
	if err != nil {
		item.Record.Read = prev
		e.reconcile()
		e.log.Warn().Err(err).Int64("id", id).Msg("toggle request failed, using fallback")
		return e.submitFallback(ctx, func(ctx context.Context) error {
			return e.fallback.SubmitToggle(ctx, id, read)
		})
	}
	if !res.OK {
		item.Record.Read = prev
		e.reconcile()
		return nil
	}

	e.serverUnread = res.Count
	e.reconcile()
	return nil
}

func (e *Engine) markAllRead(ctx context.Context) error {
	if e.mutator == nil {
		return ErrNoMutator
	}

	prev := make([]bool, len(e.records))
	for i, rec := range e.records {
		prev[i] = rec.Read
		rec.Read = true
	}
	e.reconcile()

	restore := func() {
		for i, rec := range e.records {
			rec.Read = prev[i]
		}
		e.reconcile()
	}

	res, err := e.mutator.MarkAllRead(ctx)
	if err != nil {
		restore()
		e.log.Warn().Err(err).Msg("mark-all request failed, using fallback")
		return e.submitFallback(ctx, e.fallbackMarkAll)
	}
	if !res.OK {
		restore()
		return nil
	}

	e.serverUnread = res.Count
	e.reconcile()
	return nil
}

func (e *Engine) fallbackMarkAll(ctx context.Context) error {
	return e.fallback.SubmitMarkAll(ctx)
}

// submitFallback runs the full-page submission and then re-derives truth
// from the upstream store, the moral equivalent of the page reload the
// fallback implies.
func (e *Engine) submitFallback(ctx context.Context, submit func(context.Context) error) error {
	if e.fallback == nil {
		return ErrNoFallback
	}
	if err := submit(ctx); err != nil {
		return err
	}
	if e.loader == nil {
		return nil
	}
	return e.refresh(ctx)
}

func (e *Engine) refresh(ctx context.Context) error {
	if e.loader == nil {
		return ErrNoLoader
	}
	page, err := e.loader.Load(ctx)
	if err != nil {
		return err
	}
	e.reset(page)
	return nil
}
