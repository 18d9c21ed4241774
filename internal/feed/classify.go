package feed

import (
	"fmt"
	"time"
)

// DayTag is the coarse temporal category of a record's calendar day.
type DayTag string

const (
	DayToday     DayTag = "today"
	DayYesterday DayTag = "yesterday"
	DayWeek      DayTag = "week"
	DayOlder     DayTag = "older"
)

// UnknownBucketKey groups records whose timestamp is absent or unparsable.
const UnknownBucketKey = "unknown"

const absoluteDateFormat = "Jan 2, 2006"

// Classification is the full temporal derivation for one record.
type Classification struct {
	// BucketKey is the calendar day ("2006-01-02") or UnknownBucketKey.
	BucketKey string
	// Label is the bucket heading: Today, Yesterday, a weekday name, an
	// absolute date, or "Earlier" for the unknown bucket.
	Label string
	Tag   DayTag
	// DateLabel is the absolute date shown under Today/Yesterday/weekday
	// headings; empty for the unknown bucket.
	DateLabel string
	// WithinWeek reports whether the timestamp falls in the trailing
	// 7-day window starting at midnight six days ago.
	WithinWeek bool

	// TimeAttr is the RFC3339 form for machine consumption.
	TimeAttr string
	// TimeDisplay combines wall-clock time and the relative form.
	TimeDisplay string
	// Relative is the "Ns/Nm/Nh/Nd ago" form, or an absolute date once
	// the record is a week old.
	Relative string
}

// timestampLayouts are tried in order when parsing a raw record timestamp.
// Layouts without a zone are interpreted in now's location; the record and
// the viewer are assumed to share a timezone, no conversion is performed.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw record timestamp. ok is false for empty or
// malformed values; callers degrade to the unknown bucket, never error.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify maps a raw timestamp and a reference now into its day bucket and
// formatted time forms. It is total: any input yields a valid classification.
func Classify(raw string, now time.Time) Classification {
	out := Classification{
		BucketKey: UnknownBucketKey,
		Label:     "Earlier",
		Tag:       DayOlder,
	}

	ts, ok := ParseTimestamp(raw, now.Location())
	if !ok {
		return out
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -6)

	out.BucketKey = ts.Format("2006-01-02")
	out.DateLabel = ts.Format(absoluteDateFormat)
	out.TimeAttr = ts.Format(time.RFC3339)
	out.Relative = RelativeTime(ts, now)
	out.TimeDisplay = ts.Format("3:04 PM")
	if out.Relative != "" {
		out.TimeDisplay += " · " + out.Relative
	}

	switch {
	case !ts.Before(todayStart):
		out.Label = "Today"
		out.Tag = DayToday
	case !ts.Before(yesterdayStart):
		out.Label = "Yesterday"
		out.Tag = DayYesterday
	case !ts.Before(weekStart):
		out.Label = ts.Format("Monday")
		out.Tag = DayWeek
	default:
		out.Label = ts.Format(absoluteDateFormat)
		out.Tag = DayOlder
	}

	out.WithinWeek = !ts.Before(weekStart)
	return out
}

// RelativeTime renders a human elapsed-time string. Thresholds are
// monotonic: seconds under a minute, minutes under an hour, hours under a
// day, days under a week, then the absolute date. Negative elapsed time
// (clock skew) clamps to zero.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return ts.Format(absoluteDateFormat)
	}
}
