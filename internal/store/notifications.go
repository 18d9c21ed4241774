package store

import (
	"context"
	"database/sql"

	"github.com/notifeed/notifeed/internal/feed"
)

// notificationRow is the database shape of one notification. created_at is
// nullable; a NULL or malformed value is passed through raw and degrades to
// the unknown bucket downstream.
type notificationRow struct {
	ID        int64          `db:"id"`
	Type      string         `db:"type"`
	Title     string         `db:"title"`
	Body      string         `db:"body"`
	URL       string         `db:"url"`
	CreatedAt sql.NullString `db:"created_at"`
	Read      bool           `db:"is_read"`
}

func (r notificationRow) toRecord() feed.Record {
	return feed.Record{
		ID:        r.ID,
		Type:      r.Type,
		Title:     r.Title,
		Body:      r.Body,
		URL:       r.URL,
		CreatedAt: r.CreatedAt.String,
		Read:      r.Read,
	}
}

// ListPage returns one page of a user's notifications, newest first.
// Timestamps sort lexically (ISO-8601 text); rows without one sort last.
func (s *SQLiteStore) ListPage(ctx context.Context, userID int64, limit, offset int) ([]feed.Record, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, type, title, body, url, created_at, is_read
		FROM notifications
		WHERE user_id = ?
		ORDER BY (created_at IS NULL), created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	records := make([]feed.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

// UnreadCount returns the user's total unread count across all pages.
func (s *SQLiteStore) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0",
		userID,
	)
	return count, err
}

// SetRead marks one notification read or unread.
func (s *SQLiteStore) SetRead(ctx context.Context, userID, id int64, read bool) error {
	return withBusyRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			"UPDATE notifications SET is_read = ? WHERE user_id = ? AND id = ?",
			read, userID, id,
		)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkAllRead marks every notification of the user as read.
func (s *SQLiteStore) MarkAllRead(ctx context.Context, userID int64) error {
	return withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			"UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0",
			userID,
		)
		return err
	})
}

// Insert adds a notification and returns its id. An empty CreatedAt is
// stored as NULL.
func (s *SQLiteStore) Insert(ctx context.Context, userID int64, rec feed.Record) (int64, error) {
	createdAt := sql.NullString{String: rec.CreatedAt, Valid: rec.CreatedAt != ""}

	var id int64
	err := withBusyRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO notifications (user_id, type, title, body, url, created_at, is_read)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, rec.Type, rec.Title, rec.Body, rec.URL, createdAt, rec.Read,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}
