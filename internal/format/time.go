package format

import (
	"fmt"
	"time"
)

// RelativeTime formats t relative to now.
func RelativeTime(t time.Time) string {
	return RelativeTimeFrom(t, time.Now())
}

// RelativeTimeFrom formats t relative to now: "just now", "30s ago",
// "5m ago", "3h ago", "yesterday", "2d ago", and the date from a week on.
func RelativeTimeFrom(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < 10*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// LastOpened formats a unix timestamp, rendering 0 as "-".
func LastOpened(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return RelativeTime(time.Unix(unix, 0))
}
