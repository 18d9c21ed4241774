package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notifeed/notifeed/internal/feed"
)

// filterLabels are the display names for the filter bar.
var filterLabels = map[feed.Filter]string{
	feed.FilterAll:    "All",
	feed.FilterUnread: "Unread",
	feed.FilterRecent: "Recent",
	feed.FilterTask:   "Tasks",
	feed.FilterNote:   "Notes",
	feed.FilterOther:  "Other",
}

// View renders the whole browser.
func (m *Model) View() string {
	if !m.loaded {
		if m.lastErr != nil {
			return errStyle.Render("Could not load the feed: "+m.lastErr.Error()) + "\n" +
				helpStyle.Render("q quit")
		}
		return m.spin.View() + "Loading notifications…"
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderFeed())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderHeader() string {
	s := m.snap.summary
	title := titleStyle.Render("Notifications")
	stats := statStyle.Render(fmt.Sprintf(
		"today %d · week %d · listed %d", s.Today, s.Week, s.Total,
	))
	unread := unreadBadgeStyle.Render(fmt.Sprintf("%d unread", m.snap.unread))
	if m.snap.unread == 0 {
		unread = statStyle.Render("0 unread")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", unread, "  ", stats)
}

func (m *Model) renderFilterBar() string {
	parts := make([]string, 0, len(feed.Filters))
	for _, f := range feed.Filters {
		label := filterLabels[f]
		if f == m.snap.filter.Active {
			parts = append(parts, filterActiveStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderFeed() string {
	if m.snap.vm.Empty != nil {
		return m.renderEmpty(m.snap.vm.Empty)
	}

	items := m.itemRows()
	selected := -1
	if len(items) > 0 && m.cursor < len(items) {
		selected = items[m.cursor]
	}

	var b strings.Builder
	for i, r := range m.snap.rows {
		if r.header {
			header := bucketHeaderStyle.Render(r.title)
			if r.dateLabel != "" && r.dateLabel != r.title {
				header += " " + bucketCountStyle.Render(r.dateLabel)
			}
			b.WriteString(header)
			b.WriteString("  ")
			b.WriteString(bucketCountStyle.Render(r.countLabel))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderItem(r, i == selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statStyle.Render(fmt.Sprintf(
		"Showing %d %s", m.snap.vm.VisibleCount, m.snap.vm.MatchLabel,
	)))
	return b.String()
}

func (m *Model) renderItem(r row, selected bool) string {
	status := "Read"
	lineStyle := readStyle
	if r.unread {
		status = "Unread"
		lineStyle = unreadStyle
	}

	line := fmt.Sprintf("%s %s", r.icon, lineStyle.Render(r.itemTitle))
	line += " " + badgeStyle.Render("["+r.badge+"]")
	if r.unread {
		line += " " + unreadBadgeStyle.Render("●")
	} else {
		line += " " + statStyle.Render(status)
	}
	if r.timeDisplay != "" {
		line += "  " + timeStyle.Render(r.timeDisplay)
	}

	if selected {
		return selectedStyle.Render("› " + line)
	}
	return "  " + line
}

func (m *Model) renderEmpty(empty *feed.EmptyState) string {
	var b strings.Builder
	b.WriteString("📭 ")
	b.WriteString(emptyTitleStyle.Render(empty.Title))
	b.WriteString("\n")
	b.WriteString(emptyMsgStyle.Render(empty.Message))
	if empty.ShowReset {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc reset filters"))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.confirming {
		return confirmStyle.Render("Mark all notifications as read? (y/n)")
	}
	if m.busy {
		return m.spin.View() + statStyle.Render("Working…")
	}

	help := "a/u/r/t/n/o filter · / search · enter toggle read · A mark all · R refresh · q quit"
	if m.lastErr != nil {
		return errStyle.Render(m.lastErr.Error()) + "\n" + helpStyle.Render(help)
	}
	return helpStyle.Render(help)
}
