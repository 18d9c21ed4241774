package feed

import "strings"

// Normalize collapses runs of whitespace to single spaces, trims, and
// case-folds. Total: never fails, empty in means empty out.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// SearchBlob builds the matchable text for one record: its display title,
// body, and resolved type label, normalized.
func SearchBlob(title, body, label string) string {
	return Normalize(title + " " + body + " " + label)
}
