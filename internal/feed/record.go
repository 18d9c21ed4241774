// Package feed implements notification feed aggregation: day bucketing,
// search indexing, filter predicates, view reconciliation, and the
// optimistic read-state mutation flow.
package feed

import "strings"

// Category is the coarse grouping derived from a record's type key prefix.
type Category string

const (
	CategoryTask  Category = "task"
	CategoryNote  Category = "note"
	CategoryOther Category = "other"
)

// Record is a single notification as supplied by the upstream store.
// Records arrive newest-first and already paginated; the feed engine never
// re-sorts them. CreatedAt is kept raw so a malformed value degrades to the
// unknown bucket instead of failing upstream.
type Record struct {
	ID        int64  `json:"id" db:"id"`
	Type      string `json:"type" db:"type"`
	Title     string `json:"title" db:"title"`
	Body      string `json:"body" db:"body"`
	URL       string `json:"url" db:"url"`
	CreatedAt string `json:"created_at" db:"created_at"`
	Read      bool   `json:"is_read" db:"is_read"`
}

// Presentation is the label/icon pair a type key resolves to.
type Presentation struct {
	Label string
	Icon  string
}

const genericIcon = "🔔"

var typePresentation = map[string]Presentation{
	"task.assigned":   {Label: "Task assignment", Icon: "🧭"},
	"task.unassigned": {Label: "Task reassigned", Icon: "🔁"},
	"task.updated":    {Label: "Task updated", Icon: "🛠️"},
	"note.shared":     {Label: "Note shared", Icon: "🗂️"},
	"note.comment":    {Label: "New note comment", Icon: "💬"},
}

// PresentationFor resolves the label and icon for a type key. Unmapped keys
// derive a label by humanizing the key and fall back to the generic icon.
func PresentationFor(typeKey string) Presentation {
	if p, ok := typePresentation[typeKey]; ok {
		return p
	}
	return Presentation{Label: humanizeType(typeKey), Icon: genericIcon}
}

// humanizeType turns a key like "deploy.finished" into "Deploy Finished".
func humanizeType(typeKey string) string {
	if typeKey == "" {
		typeKey = "general"
	}
	replaced := strings.NewReplacer(".", " ", "_", " ").Replace(typeKey)
	words := strings.Fields(replaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CategoryFor derives the coarse category from a type key prefix.
func CategoryFor(typeKey string) Category {
	switch {
	case strings.HasPrefix(typeKey, "task"):
		return CategoryTask
	case strings.HasPrefix(typeKey, "note"):
		return CategoryNote
	default:
		return CategoryOther
	}
}
