package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

// RelativeTime renders a timestamp the way people talk about it:
// "3 days ago", "in 2 weeks", "now".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// FormatDate renders an absolute timestamp for logs and summaries.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
