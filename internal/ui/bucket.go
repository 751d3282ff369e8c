package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/nissyi-gh/actionlist/internal/model"
)

// bucketItems converts one bucket of the view into list rows.
func bucketItems(v model.View, b model.Bucket, today string) []list.Item {
	items := v.Bucket(b)
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = ActionItem{Item: it, Today: today}
	}
	return out
}

func nextBucket(b model.Bucket, step int) model.Bucket {
	n := len(model.Buckets)
	return model.Buckets[((int(b)+step)%n+n)%n]
}

// renderTabs draws the bucket tab bar with item counts.
func renderTabs(v model.View, active model.Bucket) string {
	tabs := make([]string, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		label := fmt.Sprintf(" %s (%d) ", b, len(v.Bucket(b)))
		if b == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// renderFilter describes the active search and project filter, if any.
func renderFilter(f model.Filter) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Search))
	}
	if f.Project != "" {
		parts = append(parts, "project: "+f.Project)
	}
	if len(parts) == 0 {
		return statusStyle.Render("all items")
	}
	return filterStyle.Render(strings.Join(parts, "  "))
}

// nextProject cycles the project filter through "" (all) and each known project.
func nextProject(current string, projects []string) string {
	options := append([]string{""}, projects...)
	for i, p := range options {
		if p == current {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}
