package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const feedBody = `{
	"records": [
		{"id": 1, "type": "task.assigned", "title": "Fix login flow", "body": "", "url": "", "created_at": "2026-02-10 14:00:00", "is_read": false}
	],
	"unread_total": 4,
	"csrf_token": "tok-1"
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 7, 5*time.Second)
}

func TestLoadFeedStoresToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/feed", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("user_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedBody))
	}))

	resp, err := c.LoadFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	require.Equal(t, int64(1), resp.Records[0].ID)
	require.Equal(t, 4, resp.UnreadTotal)
	require.Equal(t, "tok-1", resp.CSRFToken)
	require.Equal(t, "tok-1", c.csrfToken)
}

func TestLoadFeedErrorStatuses(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.LoadFeed(context.Background())
	require.ErrorContains(t, err, "status 500")
}

func TestLoadFeedMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))

	_, err := c.LoadFeed(context.Background())
	require.ErrorContains(t, err, "decoding feed response")
}

func TestToggleReadSendsFormWithToken(t *testing.T) {
	var got url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/feed" {
			w.Write([]byte(feedBody))
			return
		}
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/notifications", r.URL.Path)
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.NoError(t, r.ParseForm())
		got = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "count": 3}`))
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	res, err := c.ToggleRead(context.Background(), 42, true)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, 3, res.Count)

	require.Equal(t, "mark_read", got.Get("action"))
	require.Equal(t, "42", got.Get("id"))
	require.Equal(t, "tok-1", got.Get("csrf_token"))
	require.Equal(t, "7", got.Get("user_id"))
}

func TestToggleReadUnreadAction(t *testing.T) {
	var action string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/feed" {
			w.Write([]byte(feedBody))
			return
		}
		require.NoError(t, r.ParseForm())
		action = r.PostForm.Get("action")
		w.Write([]byte(`{"ok": true, "count": 5}`))
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	_, err = c.ToggleRead(context.Background(), 42, false)
	require.NoError(t, err)
	require.Equal(t, "mark_unread", action)
}

func TestMutationWithoutTokenFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.ToggleRead(context.Background(), 1, true)
	require.ErrorIs(t, err, ErrNoToken)

	_, err = c.MarkAllRead(context.Background())
	require.ErrorIs(t, err, ErrNoToken)

	err = c.SubmitToggle(context.Background(), 1, true)
	require.ErrorIs(t, err, ErrNoToken)
}

func TestMutationErrorStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/feed" {
			w.Write([]byte(feedBody))
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	_, err = c.ToggleRead(context.Background(), 1, true)
	require.ErrorContains(t, err, "status 403")
}

func TestMutationMalformedReply(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/feed" {
			w.Write([]byte(feedBody))
			return
		}
		w.Write([]byte("ok"))
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	_, err = c.MarkAllRead(context.Background())
	require.ErrorContains(t, err, "decoding mutation response")
}

func TestFallbackSubmission(t *testing.T) {
	var accept, action string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/feed":
			w.Write([]byte(feedBody))
			return
		case "/":
			// Target of the post-submission redirect.
			w.WriteHeader(http.StatusOK)
			return
		}
		accept = r.Header.Get("Accept")
		require.Empty(t, r.Header.Get("X-Requested-With"))
		require.NoError(t, r.ParseForm())
		action = r.PostForm.Get("action")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.SubmitMarkAll(context.Background()))
	require.Equal(t, "text/html", accept)
	require.Equal(t, "mark_all_read", action)
}

func TestFallbackSubmissionErrorStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/feed" {
			w.Write([]byte(feedBody))
			return
		}
		http.Error(w, "bad token", http.StatusForbidden)
	}))

	_, err := c.LoadFeed(context.Background())
	require.NoError(t, err)

	err = c.SubmitToggle(context.Background(), 1, true)
	require.ErrorContains(t, err, "status 403")
}
