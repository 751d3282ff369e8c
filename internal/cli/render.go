package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/actionlist/internal/model"
	"github.com/nissyi-gh/actionlist/internal/ui"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func renderView(v model.View, today string) string {
	var b strings.Builder
	for i, bucket := range model.Buckets {
		if i > 0 {
			b.WriteString("\n")
		}
		items := v.Bucket(bucket)
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", bucket, len(items))))
		b.WriteString("\n")
		if len(items) == 0 {
			b.WriteString("  " + dimStyle.Render(bucket.EmptyText()) + "\n")
			continue
		}
		for _, it := range items {
			b.WriteString(renderLine(it, bucket, today))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderLine(it model.Item, bucket model.Bucket, today string) string {
	parts := []string{
		fmt.Sprintf("  #%-4d", it.ID),
		it.Text,
		projectStyle.Render("[" + it.Project + "]"),
	}
	switch bucket {
	case model.BucketScheduled:
		parts = append(parts, dateLabel(it, today))
	case model.BucketUnscheduled:
		parts = append(parts, dimStyle.Render("added "+ui.RelativeDate(it.DateAdded, today)))
	case model.BucketCompleted:
		parts = append(parts, dimStyle.Render("done "+ui.RelativeDate(model.DateValue(it.DateCompleted), today)))
	}
	return strings.Join(parts, " ")
}

func dateLabel(it model.Item, today string) string {
	d := model.DateValue(it.ScheduledFor)
	label := d + " (" + ui.RelativeDate(d, today) + ")"
	switch {
	case it.IsOverdue(today):
		return overdueStyle.Render(label)
	case it.IsScheduledToday(today):
		return todayStyle.Render(label)
	}
	return dimStyle.Render(label)
}

func renderDetail(it model.Item, today string) string {
	var b strings.Builder
	status := "open"
	if it.IsCompleted {
		status = "completed " + model.DateValue(it.DateCompleted)
	}
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("#%d %s", it.ID, it.Text)))
	fmt.Fprintf(&b, "Project:   %s\n", it.Project)
	fmt.Fprintf(&b, "Added:     %s (%s)\n", it.DateAdded, ui.RelativeDate(it.DateAdded, today))
	if it.IsScheduled() {
		fmt.Fprintf(&b, "Scheduled: %s\n", dateLabel(it, today))
	}
	fmt.Fprintf(&b, "Status:    %s\n", status)
	if notes := ui.RenderMarkdown(it.Notes, 80); notes != "" {
		fmt.Fprintf(&b, "\n%s\n", notes)
	}
	return b.String()
}
