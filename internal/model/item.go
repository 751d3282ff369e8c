package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for every date field.
const DateLayout = "2006-01-02"

// Unassigned is the project label given to items created without one.
const Unassigned = "Unassigned"

// Item is a single action item.
type Item struct {
	ID            int64   `json:"id" yaml:"id"`
	Text          string  `json:"text" yaml:"text"`
	Project       string  `json:"project" yaml:"project"`
	DateAdded     string  `json:"dateAdded" yaml:"dateAdded"`
	ScheduledFor  *string `json:"scheduledFor" yaml:"scheduledFor"`
	DateCompleted *string `json:"dateCompleted" yaml:"dateCompleted"`
	IsCompleted   bool    `json:"isCompleted" yaml:"isCompleted"`
	Notes         string  `json:"notes" yaml:"notes"`
}

// IsScheduled returns true if the item has a scheduled date.
func (it Item) IsScheduled() bool {
	return it.ScheduledFor != nil && *it.ScheduledFor != ""
}

// IsScheduledToday returns true if the item is scheduled for the given day.
func (it Item) IsScheduledToday(today string) bool {
	return it.IsScheduled() && *it.ScheduledFor == today
}

// IsOverdue returns true if the item is still open and its scheduled date is before today.
func (it Item) IsOverdue(today string) bool {
	if it.IsCompleted || !it.IsScheduled() {
		return false
	}
	return *it.ScheduledFor < today
}

// Matches reports whether the item passes the filter.
func (it Item) Matches(f Filter) bool {
	if f.Project != "" && it.Project != f.Project {
		return false
	}
	term := strings.ToLower(f.Search)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Text), term) ||
		strings.Contains(strings.ToLower(it.Notes), term) ||
		strings.Contains(strings.ToLower(it.Project), term)
}

// Clone returns a deep copy so that date pointers are never shared.
func (it Item) Clone() Item {
	out := it
	out.ScheduledFor = cloneDate(it.ScheduledFor)
	out.DateCompleted = cloneDate(it.DateCompleted)
	return out
}

func cloneDate(d *string) *string {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Date returns a pointer to d, or nil for an empty string.
func Date(d string) *string {
	if d == "" {
		return nil
	}
	return &d
}

// DateValue dereferences an optional date, returning "" when absent.
func DateValue(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}

// Today formats t as a local calendar date.
func Today(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
