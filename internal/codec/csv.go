package codec

import (
	"strconv"
	"strings"

	"github.com/nissyi-gh/actionlist/internal/model"
)

// CSVHeader is the fixed header row of the tabular format.
var CSVHeader = []string{
	"ID",
	"Action Item",
	"Project",
	"Date Added",
	"Scheduled For",
	"Date Completed",
	"Is Completed",
	"Notes",
}

// Column positions of the tabular format.
const (
	colID = iota
	colText
	colProject
	colDateAdded
	colScheduledFor
	colDateCompleted
	colIsCompleted
	colNotes
)

// EncodeCSV renders items as comma-separated text, header first, in collection order.
// Free-text cells are always quoted; rows are joined by a single newline.
func EncodeCSV(items []model.Item) string {
	rows := make([]string, 0, len(items)+1)
	rows = append(rows, strings.Join(CSVHeader, ","))
	for _, it := range items {
		rows = append(rows, strings.Join([]string{
			strconv.FormatInt(it.ID, 10),
			quote(it.Text),
			quote(it.Project),
			it.DateAdded,
			model.DateValue(it.ScheduledFor),
			model.DateValue(it.DateCompleted),
			strconv.FormatBool(it.IsCompleted),
			quote(it.Notes),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// DecodeCSV parses text produced by EncodeCSV (or a compatible spreadsheet export).
// The first row is treated as a header and discarded. Missing ids are generated
// counting up from the largest id in the file; a missing date added becomes today.
// Nothing is returned unless the whole input parses.
func DecodeCSV(text, today string) ([]model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Line: 1, Err: errEmptyInput}
	}

	lines := strings.Split(text, "\n")
	items := make([]model.Item, 0, len(lines)-1)
	missingID := make([]int, 0)

	var (
		record    string
		startLine int
		pending   bool
	)
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if !pending {
			if strings.TrimSpace(line) == "" {
				continue
			}
			record = line
			startLine = i + 1
		} else {
			record += "\n" + line
		}

		// A trailing \r ends the record only outside quotes.
		fields, state := scanRecord(strings.TrimSuffix(record, "\r"))
		if state == stateQuoted {
			pending = true
			continue
		}
		pending = false

		it, ok := itemFromFields(fields, today)
		if !ok {
			missingID = append(missingID, len(items))
		}
		items = append(items, it)
	}
	if pending {
		return nil, &ParseError{Line: startLine, Err: errUnterminatedQuote}
	}

	assignIDs(items, missingID)
	return items, nil
}

func itemFromFields(fields []string, today string) (model.Item, bool) {
	cell := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	id, ok := leadingInt(cell(colID))
	it := model.Item{
		ID:            id,
		Text:          cell(colText),
		Project:       cell(colProject),
		DateAdded:     cell(colDateAdded),
		ScheduledFor:  model.Date(cell(colScheduledFor)),
		DateCompleted: model.Date(cell(colDateCompleted)),
		IsCompleted:   cell(colIsCompleted) == "true",
		Notes:         cell(colNotes),
	}
	if it.DateAdded == "" {
		it.DateAdded = today
	}
	return it, ok && id != 0
}

// leadingInt reads the integer prefix of s, so "1746450000000.42" yields 1746450000000.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func assignIDs(items []model.Item, missing []int) {
	if len(missing) == 0 {
		return
	}
	var next int64
	for _, it := range items {
		if it.ID > next {
			next = it.ID
		}
	}
	for _, idx := range missing {
		next++
		items[idx].ID = next
	}
}
