package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nissyi-gh/actionlist/internal/model"
)

const today = "2025-06-10"

func sampleItems() []model.Item {
	return []model.Item{
		{
			ID:           1,
			Text:         "Pay bills",
			Project:      model.Unassigned,
			DateAdded:    "2025-05-05",
			ScheduledFor: model.Date("2025-06-01"),
			Notes:        `He said "hi"`,
		},
		{
			ID:            2,
			Text:          "Write report, part 2",
			Project:       `Work "Q3"`,
			DateAdded:     "2025-05-06",
			DateCompleted: model.Date("2025-05-07"),
			IsCompleted:   true,
			Notes:         "",
		},
		{
			ID:        1746450000000,
			Text:      "Multi-line",
			Project:   "Home",
			DateAdded: "2025-05-08",
			Notes:     "first line\nsecond, line\n\nfourth",
		},
	}
}

func TestEncodeCSV(t *testing.T) {
	got := EncodeCSV(sampleItems()[:2])
	want := strings.Join([]string{
		"ID,Action Item,Project,Date Added,Scheduled For,Date Completed,Is Completed,Notes",
		`1,"Pay bills","Unassigned",2025-05-05,2025-06-01,,false,"He said ""hi"""`,
		`2,"Write report, part 2","Work ""Q3""",2025-05-06,,2025-05-07,true,""`,
	}, "\n")
	if got != want {
		t.Fatalf("EncodeCSV mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeCSVEmpty(t *testing.T) {
	got := EncodeCSV(nil)
	if got != strings.Join(CSVHeader, ",") {
		t.Fatalf("expected header only, got %q", got)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	items := sampleItems()
	decoded, err := DecodeCSV(EncodeCSV(items), today)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if !reflect.DeepEqual(decoded, items) {
		t.Fatalf("round trip mismatch\ngot:  %+v\nwant: %+v", decoded, items)
	}
}

func TestDecodeCSVKeepsCarriageReturnInQuotes(t *testing.T) {
	input := strings.Join(CSVHeader, ",") + "\r\n" +
		`1,"a","P",2025-01-01,,,false,"line 1` + "\r\n" + `line 2"` + "\r\n" +
		`2,"b","P",2025-01-01,,,false,"plain"` + "\r\n"

	items, err := DecodeCSV(input, today)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Notes != "line 1\r\nline 2" {
		t.Errorf("quoted CRLF: got %q", items[0].Notes)
	}
	if items[1].Notes != "plain" {
		t.Errorf("record CRLF must be dropped: got %q", items[1].Notes)
	}
}

func TestDecodeCSVDefaults(t *testing.T) {
	input := "ID,Action Item,Project,Date Added,Scheduled For,Date Completed,Is Completed,Notes\r\n" +
		`7,"Has id","P",2025-01-01,,,TRUE,"n"` + "\r\n" +
		"\r\n" +
		`,"No id",,,,,,` + "\r\n" +
		`abc,"Bad id"` + "\r\n" +
		`0,"Zero id","X",2025-01-02,2025-02-02,,true`

	items, err := DecodeCSV(input, today)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	if items[0].ID != 7 || items[0].IsCompleted {
		t.Errorf("row 1: got id=%d completed=%v, want id=7 completed=false", items[0].ID, items[0].IsCompleted)
	}
	if items[1].ID != 8 || items[2].ID != 9 || items[3].ID != 10 {
		t.Errorf("generated ids: got %d, %d, %d, want 8, 9, 10", items[1].ID, items[2].ID, items[3].ID)
	}
	if items[1].DateAdded != today {
		t.Errorf("missing date added: got %q, want %q", items[1].DateAdded, today)
	}
	if items[1].ScheduledFor != nil || items[1].DateCompleted != nil {
		t.Errorf("empty dates must decode as absent")
	}
	if items[1].Project != "" {
		t.Errorf("empty project must stay empty, got %q", items[1].Project)
	}
	if items[2].Text != "Bad id" || items[2].Notes != "" {
		t.Errorf("short row: got text=%q notes=%q", items[2].Text, items[2].Notes)
	}
	if !items[3].IsCompleted || model.DateValue(items[3].ScheduledFor) != "2025-02-02" {
		t.Errorf("row 4: got %+v", items[3])
	}
}

func TestDecodeCSVFractionalID(t *testing.T) {
	input := "header\n1746450000000.4321,\"x\",\"p\",2025-01-01,,,false,\"\""
	items, err := DecodeCSV(input, today)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if items[0].ID != 1746450000000 {
		t.Fatalf("expected integer prefix id, got %d", items[0].ID)
	}
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	items, err := DecodeCSV(strings.Join(CSVHeader, ",")+"\n\n", today)
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantLine int
	}{
		{name: "empty", input: "  \n ", wantErr: errEmptyInput, wantLine: 1},
		{
			name:     "unterminated quote",
			input:    "header\n1,\"ok\",\"p\",2025-01-01,,,false,\"\"\n2,\"broken,\"p\"",
			wantErr:  errUnterminatedQuote,
			wantLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := DecodeCSV(tt.input, today)
			if err == nil {
				t.Fatalf("expected error, got %d items", len(items))
			}
			if items != nil {
				t.Errorf("expected no items on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Line != tt.wantLine {
				t.Errorf("expected ParseError at line %d, got %v", tt.wantLine, err)
			}
		})
	}
}

func TestScanRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    string
		want      []string
		wantState scanState
	}{
		{name: "bare", record: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "quoted comma", record: `1,"a, b",c`, want: []string{"1", "a, b", "c"}},
		{name: "doubled quote", record: `"say ""hi""",x`, want: []string{`say "hi"`, "x"}},
		{name: "empty quoted", record: `"",""`, want: []string{"", ""}},
		{name: "trailing empty field", record: "a,", want: []string{"a", ""}},
		{name: "open quote", record: `1,"abc`, want: []string{"1", "abc"}, wantState: stateQuoted},
		{name: "quote mid field", record: `ab"c,d"e`, want: []string{"abc,de"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, state := scanRecord(tt.record)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fields: got %q, want %q", got, tt.want)
			}
			if state != tt.wantState {
				t.Errorf("state: got %v, want %v", state, tt.wantState)
			}
		})
	}
}
