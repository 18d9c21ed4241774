package feed

import "strings"

// Filter selects which records are visible.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterRecent Filter = "recent"
	FilterTask   Filter = "task"
	FilterNote   Filter = "note"
	FilterOther  Filter = "other"
)

// Filters lists the selectable filters in display order.
var Filters = []Filter{FilterAll, FilterUnread, FilterRecent, FilterTask, FilterNote, FilterOther}

// ValidFilter reports whether f is one of the known filters.
func ValidFilter(f Filter) bool {
	switch f {
	case FilterAll, FilterUnread, FilterRecent, FilterTask, FilterNote, FilterOther:
		return true
	}
	return false
}

// FilterState is the client-side view state: the active filter and the free
// text search query. It is owned by a single engine instance, initialized to
// {all, ""}, and never persisted.
type FilterState struct {
	Active Filter
	Query  string
}

// DefaultFilterState returns the initial state.
func DefaultFilterState() FilterState {
	return FilterState{Active: FilterAll}
}

// IsDefault reports whether the state is the initial one.
func (fs FilterState) IsDefault() bool {
	return fs.Active == FilterAll && strings.TrimSpace(fs.Query) == ""
}

// Matches evaluates the filter predicate for one item: the active filter
// ANDed with a case-insensitive substring match of the search query against
// the item's search blob. Total over all items and states.
func (fs FilterState) Matches(item *Item) bool {
	var ok bool
	switch fs.Active {
	case FilterUnread:
		ok = item.Unread()
	case FilterRecent:
		ok = item.Class.Tag == DayToday || item.Class.Tag == DayYesterday
	case FilterTask, FilterNote, FilterOther:
		ok = string(item.Category) == string(fs.Active)
	default:
		ok = true
	}
	if !ok {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(fs.Query))
	if query == "" {
		return true
	}
	return strings.Contains(item.Blob, query)
}
