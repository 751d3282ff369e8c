package ui

import (
	"github.com/dustin/go-humanize"
	"github.com/nissyi-gh/actionlist/internal/model"
)

// RelativeDate describes date relative to today, e.g. "today",
// "3 days ago" or "1 week from now". Unparseable dates are returned as is.
func RelativeDate(date, today string) string {
	if date == "" {
		return ""
	}
	if date == today {
		return "today"
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	t, err := model.ParseDate(today)
	if err != nil {
		return date
	}
	return humanize.RelTime(d, t, "ago", "from now")
}
