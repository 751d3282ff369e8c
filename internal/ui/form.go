package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/actionlist/internal/model"
)

type formField int

const (
	fieldText formField = iota
	fieldProject
	fieldDate
	fieldNotes
	fieldCount
)

// itemForm edits the four user-supplied fields of an item.
type itemForm struct {
	editing  bool
	editID   int64
	text     textinput.Model
	project  textinput.Model
	date     dateInput
	notes    textarea.Model
	focus    formField
	projects []string
}

type formValues struct {
	Text         string
	Project      string
	ScheduledFor string
	Notes        string
}

func newItemForm() itemForm {
	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.CharLimit = 256

	project := textinput.New()
	project.Placeholder = model.Unassigned
	project.CharLimit = 64
	project.ShowSuggestions = true

	notes := textarea.New()
	notes.Placeholder = "Notes (markdown)..."
	notes.CharLimit = 4096
	notes.SetHeight(6)

	return itemForm{
		text:    text,
		project: project,
		date:    newDateInput(),
		notes:   notes,
	}
}

// reset prepares an empty form for a new item.
func (f *itemForm) reset(projects []string) tea.Cmd {
	f.editing = false
	f.editID = 0
	f.text.Reset()
	f.project.Reset()
	f.date.Reset()
	f.notes.Reset()
	f.setProjects(projects)
	return f.focusField(fieldText)
}

// load fills the form from an existing item.
func (f *itemForm) load(it model.Item, projects []string) tea.Cmd {
	cmd := f.reset(projects)
	f.editing = true
	f.editID = it.ID
	f.text.SetValue(it.Text)
	if it.Project != model.Unassigned {
		f.project.SetValue(it.Project)
	}
	if it.IsScheduled() {
		f.date.SetValue(*it.ScheduledFor)
	}
	f.notes.SetValue(it.Notes)
	return cmd
}

func (f *itemForm) setProjects(projects []string) {
	f.projects = projects
	f.project.SetSuggestions(projects)
}

func (f *itemForm) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.text.Width = w
	f.project.Width = w
	f.notes.SetWidth(w)
}

func (f *itemForm) focusField(ff formField) tea.Cmd {
	f.focus = ff
	f.text.Blur()
	f.project.Blur()
	f.date.Blur()
	f.notes.Blur()

	switch ff {
	case fieldText:
		return f.text.Focus()
	case fieldProject:
		return f.project.Focus()
	case fieldDate:
		f.date.Focus()
		return nil
	case fieldNotes:
		return f.notes.Focus()
	}
	return nil
}

func (f itemForm) Update(msg tea.Msg) (itemForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			switch {
			case f.focus == fieldProject && f.acceptSuggestion():
				return f, nil
			case f.focus == fieldDate && !f.date.AtLast():
				break
			default:
				return f, f.focusField((f.focus + 1) % fieldCount)
			}
		case "shift+tab":
			if f.focus == fieldDate && !f.date.AtFirst() {
				break
			}
			prev := (f.focus + fieldCount - 1) % fieldCount
			cmd := f.focusField(prev)
			if prev == fieldDate {
				cmd = f.date.focusField(partDay)
			}
			return f, cmd
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	case fieldProject:
		f.project, cmd = f.project.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldNotes:
		f.notes, cmd = f.notes.Update(msg)
	}
	return f, cmd
}

// acceptSuggestion completes the project field to the first known project
// it is a prefix of. It reports whether anything changed.
func (f *itemForm) acceptSuggestion() bool {
	s := suggestProject(f.project.Value(), f.projects)
	if s == "" || s == f.project.Value() {
		return false
	}
	f.project.SetValue(s)
	f.project.CursorEnd()
	return true
}

func suggestProject(prefix string, projects []string) string {
	if prefix == "" {
		return ""
	}
	lower := strings.ToLower(prefix)
	for _, p := range projects {
		if strings.HasPrefix(strings.ToLower(p), lower) {
			return p
		}
	}
	return ""
}

// values returns the entered fields. A blank date means unscheduled.
func (f itemForm) values(now time.Time) (formValues, error) {
	v := formValues{
		Text:    f.text.Value(),
		Project: strings.TrimSpace(f.project.Value()),
		Notes:   f.notes.Value(),
	}
	if !f.date.IsEmpty() {
		d, err := f.date.Value(now)
		if err != nil {
			return formValues{}, err
		}
		v.ScheduledFor = d
	}
	return v, nil
}

func (f itemForm) View() string {
	label := func(ff formField, s string) string {
		if f.focus == ff {
			return focusLabelStyle.Render(s)
		}
		return statusStyle.Render(s)
	}
	return strings.Join([]string{
		label(fieldText, "Action item"),
		f.text.View(),
		"",
		label(fieldProject, "Project"),
		f.project.View(),
		"",
		label(fieldDate, "Scheduled for (leave blank for none)"),
		f.date.View(),
		"",
		label(fieldNotes, "Notes"),
		f.notes.View(),
	}, "\n")
}
