// Package store provides SQLite persistence for notifications.
package store

import (
	"context"
	"errors"

	"github.com/notifeed/notifeed/internal/feed"
)

// Store errors.
var (
	ErrNotFound = errors.New("notification not found")
)

// Store defines the persistence interface for the notification feed. Pages
// are newest-first and fixed size; the unread count is computed over the
// whole feed, independent of pagination.
type Store interface {
	// ListPage returns one page of a user's notifications, newest first.
	ListPage(ctx context.Context, userID int64, limit, offset int) ([]feed.Record, error)

	// UnreadCount returns the user's total unread count across all pages.
	UnreadCount(ctx context.Context, userID int64) (int, error)

	// SetRead marks one notification read or unread. Returns ErrNotFound
	// if the user has no notification with that id.
	SetRead(ctx context.Context, userID, id int64, read bool) error

	// MarkAllRead marks every notification of the user as read.
	MarkAllRead(ctx context.Context, userID int64) error

	// Insert adds a notification and returns its id.
	Insert(ctx context.Context, userID int64, rec feed.Record) (int64, error)

	Close() error
}
