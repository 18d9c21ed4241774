package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notifeed/notifeed/internal/feed"
	"github.com/notifeed/notifeed/internal/logging"
	"github.com/notifeed/notifeed/internal/store"
)

// Mutation endpoint actions (the contract consumed by MutationClient).
const (
	actionMarkRead    = "mark_read"
	actionMarkUnread  = "mark_unread"
	actionMarkAllRead = "mark_all_read"
)

// feedPayload is the GET /api/feed response: one page of records, the
// unread total computed over the whole feed, and a fresh anti-forgery
// token for subsequent mutations.
type feedPayload struct {
	feed.Page
	CSRFToken string `json:"csrf_token"`
}

// mutationReply is the POST /api/notifications response. Count is the
// authoritative remaining-unread total after the mutation.
type mutationReply struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

func (s *Server) handleFeed(c *gin.Context) {
	userID, ok := parseID(c.Query("user_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	ctx := c.Request.Context()
	records, err := s.store.ListPage(ctx, userID, s.cfg.PageSize, (page-1)*s.cfg.PageSize)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("listing feed page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing feed"})
		return
	}
	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("counting unread")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "counting unread"})
		return
	}

	c.JSON(http.StatusOK, feedPayload{
		Page:      feed.Page{Records: records, UnreadTotal: unread},
		CSRFToken: s.csrf.Issue(),
	})
}

// handleMutation serves both the JSON path and the full-page fallback: a
// request without an Accept of application/json gets a redirect instead of
// a JSON body, matching what a plain form submission expects.
func (s *Server) handleMutation(c *gin.Context) {
	wantsJSON := strings.Contains(c.GetHeader("Accept"), "application/json")
	s.log.Debug().Interface("form", logging.RedactValues(flattenForm(c))).Msg("mutation received")

	if !s.csrf.Validate(c.PostForm("csrf_token")) {
		s.log.Warn().Str("remote", c.ClientIP()).Msg("mutation with invalid csrf token")
		s.reply(c, wantsJSON, http.StatusForbidden, mutationReply{})
		return
	}

	userID, ok := parseID(c.PostForm("user_id"))
	if !ok {
		s.reply(c, wantsJSON, http.StatusBadRequest, mutationReply{})
		return
	}

	ctx := c.Request.Context()
	action := c.PostForm("action")

	var err error
	switch action {
	case actionMarkRead, actionMarkUnread:
		var id int64
		id, ok = parseID(c.PostForm("id"))
		if !ok {
			s.reply(c, wantsJSON, http.StatusBadRequest, mutationReply{})
			return
		}
		err = s.store.SetRead(ctx, userID, id, action == actionMarkRead)
	case actionMarkAllRead:
		err = s.store.MarkAllRead(ctx, userID)
	default:
		s.reply(c, wantsJSON, http.StatusBadRequest, mutationReply{})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		s.reply(c, wantsJSON, http.StatusNotFound, mutationReply{})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Int64("user_id", userID).Msg("applying mutation")
		s.reply(c, wantsJSON, http.StatusInternalServerError, mutationReply{})
		return
	}

	count, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("counting unread after mutation")
		s.reply(c, wantsJSON, http.StatusInternalServerError, mutationReply{})
		return
	}

	s.log.Debug().Str("action", action).Int64("user_id", userID).Int("count", count).Msg("mutation applied")
	s.reply(c, wantsJSON, http.StatusOK, mutationReply{OK: true, Count: count})
}

// reply renders the JSON body for script clients or a redirect back to the
// feed for plain form submissions.
func (s *Server) reply(c *gin.Context, wantsJSON bool, status int, body mutationReply) {
	if wantsJSON {
		c.JSON(status, body)
		return
	}
	if status == http.StatusOK {
		c.Redirect(http.StatusSeeOther, "/api/feed?user_id="+c.PostForm("user_id"))
		return
	}
	c.String(status, http.StatusText(status))
}

// flattenForm takes the first value of each form field for logging.
func flattenForm(c *gin.Context) map[string]string {
	if err := c.Request.ParseForm(); err != nil {
		return nil
	}
	out := make(map[string]string, len(c.Request.PostForm))
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
