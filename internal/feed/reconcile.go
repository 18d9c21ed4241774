package feed

import "fmt"

// Empty-state copy.
const (
	emptyBaseTitle     = "You’re all caught up"
	emptyBaseMessage   = "When new activity arrives, it will appear here automatically."
	emptyFilterTitle   = "No notifications match"
	emptyFilterMessage = "Clear filters or adjust your search to see more updates."
)

// BucketView is the reconciled display state of one bucket.
type BucketView struct {
	Bucket       *Bucket
	VisibleCount int
	// Hidden iff no item in the bucket passes the current filter.
	Hidden bool
	// CountLabel is the formatted visible count ("1 update", "3 updates").
	CountLabel string
}

// EmptyState describes the placeholder shown when nothing is visible.
type EmptyState struct {
	Title   string
	Message string
	// ShowReset is set when records exist but none match the filter; the
	// reset affordance restores the default filter state.
	ShowReset bool
}

// ViewModel is the full reconciled display state: per-bucket visibility and
// counts, the aggregate visible count, and the empty-state descriptor when
// nothing is visible.
type ViewModel struct {
	Buckets []BucketView
	// Visible maps record id to whether it passes the current filter.
	Visible      map[int64]bool
	VisibleCount int
	// MatchLabel is the aggregate count noun with plural agreement.
	MatchLabel string
	Empty      *EmptyState
}

// CountLabel formats a visible count with singular/plural agreement.
func CountLabel(n int) string {
	if n == 1 {
		return "1 update"
	}
	return fmt.Sprintf("%d updates", n)
}

// Reconcile recomputes the visible set and all display counts for the
// current filter state. It is a full synchronous recompute on every call;
// record sets are bounded to one page, so no incremental diffing is done.
func Reconcile(f *Feed, fs FilterState) ViewModel {
	vm := ViewModel{
		Buckets: make([]BucketView, 0, len(f.Buckets)),
		Visible: make(map[int64]bool, len(f.Items)),
	}

	for _, bucket := range f.Buckets {
		visible := 0
		for _, item := range bucket.Items {
			show := fs.Matches(item)
			vm.Visible[item.Record.ID] = show
			if show {
				visible++
			}
		}
		vm.VisibleCount += visible
		vm.Buckets = append(vm.Buckets, BucketView{
			Bucket:       bucket,
			VisibleCount: visible,
			Hidden:       visible == 0,
			CountLabel:   CountLabel(visible),
		})
	}

	if n := vm.VisibleCount; n == 1 {
		vm.MatchLabel = "update"
	} else {
		vm.MatchLabel = "updates"
	}

	switch {
	case len(f.Items) == 0:
		vm.Empty = &EmptyState{Title: emptyBaseTitle, Message: emptyBaseMessage}
	case vm.VisibleCount == 0:
		vm.Empty = &EmptyState{Title: emptyFilterTitle, Message: emptyFilterMessage, ShowReset: true}
	}

	return vm
}
