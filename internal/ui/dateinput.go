package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/actionlist/internal/model"
)

const (
	partYear = iota
	partMonth
	partDay
	partCount
)

var errDayRequired = errors.New("scheduled date needs at least a day")

// dateInput is a three-part YYYY / MM / DD entry for the scheduled date.
type dateInput struct {
	parts  [partCount]textinput.Model
	active int
}

func newDateInput() dateInput {
	specs := [partCount]struct {
		placeholder string
		width       int
	}{
		{"YYYY", 4},
		{"MM", 2},
		{"DD", 2},
	}

	var d dateInput
	for i, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = s.width
		ti.Width = s.width + 2
		ti.Validate = digitsOnly
		d.parts[i] = ti
	}
	return d
}

func digitsOnly(s string) error {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return errors.New("digits only")
		}
	}
	return nil
}

func (d *dateInput) Focus() {
	d.focusField(partYear)
}

func (d *dateInput) Blur() {
	for i := range d.parts {
		d.parts[i].Blur()
	}
}

func (d *dateInput) Reset() {
	for i := range d.parts {
		d.parts[i].Reset()
	}
	d.active = partYear
}

// SetValue splits a YYYY-MM-DD string across the three parts.
func (d *dateInput) SetValue(date string) {
	pieces := strings.SplitN(date, "-", partCount)
	for i := range d.parts {
		v := ""
		if i < len(pieces) {
			v = pieces[i]
		}
		d.parts[i].SetValue(v)
	}
}

func (d *dateInput) IsEmpty() bool {
	for _, p := range d.parts {
		if strings.TrimSpace(p.Value()) != "" {
			return false
		}
	}
	return true
}

// AtFirst and AtLast report whether the year or the day part is active.
func (d dateInput) AtFirst() bool { return d.active == partYear }
func (d dateInput) AtLast() bool  { return d.active == partDay }

// Value assembles the date. A blank year or month takes now's; the day is required.
func (d *dateInput) Value(now time.Time) (string, error) {
	year := strings.TrimSpace(d.parts[partYear].Value())
	month := strings.TrimSpace(d.parts[partMonth].Value())
	day := strings.TrimSpace(d.parts[partDay].Value())

	if day == "" {
		return "", errDayRequired
	}
	if year == "" {
		year = strconv.Itoa(now.Year())
	}
	if month == "" {
		month = strconv.Itoa(int(now.Month()))
	}

	date := zeroPad(year, 4) + "-" + zeroPad(month, 2) + "-" + zeroPad(day, 2)
	if _, err := model.ParseDate(date); err != nil {
		return "", fmt.Errorf("invalid date %s", date)
	}
	return date, nil
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func (d *dateInput) focusField(idx int) tea.Cmd {
	d.active = idx
	var cmd tea.Cmd
	for i := range d.parts {
		if i == idx {
			cmd = d.parts[i].Focus()
			continue
		}
		d.parts[i].Blur()
	}
	return cmd
}

func (d dateInput) Update(msg tea.Msg) (dateInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "right", "-":
			if d.active < partDay {
				return d, d.focusField(d.active + 1)
			}
			return d, nil
		case "shift+tab", "left":
			if d.active > partYear {
				return d, d.focusField(d.active - 1)
			}
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.parts[d.active], cmd = d.parts[d.active].Update(msg)
	return d, cmd
}

func (d dateInput) View() string {
	views := make([]string, len(d.parts))
	for i, p := range d.parts {
		views[i] = p.View()
	}
	return strings.Join(views, " - ")
}
