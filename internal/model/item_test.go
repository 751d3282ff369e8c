package model

import "testing"

func TestItemMatches(t *testing.T) {
	item := Item{Text: "Pay Bills", Project: "Home", Notes: "Electricity and water"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter", filter: Filter{}, want: true},
		{name: "text case-insensitive", filter: Filter{Search: "pay b"}, want: true},
		{name: "notes", filter: Filter{Search: "WATER"}, want: true},
		{name: "project substring", filter: Filter{Search: "hom"}, want: true},
		{name: "no match", filter: Filter{Search: "groceries"}, want: false},
		{name: "project exact", filter: Filter{Project: "Home"}, want: true},
		{name: "project must be exact", filter: Filter{Project: "home"}, want: false},
		{name: "search and project", filter: Filter{Search: "bills", Project: "Work"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := item.Matches(tt.filter); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestItemScheduleHelpers(t *testing.T) {
	today := "2025-06-10"

	unscheduled := Item{}
	if unscheduled.IsScheduled() || unscheduled.IsOverdue(today) {
		t.Fatalf("expected unscheduled item to be neither scheduled nor overdue")
	}

	past := Item{ScheduledFor: Date("2025-06-01")}
	if !past.IsOverdue(today) {
		t.Errorf("expected past item to be overdue")
	}
	past.IsCompleted = true
	if past.IsOverdue(today) {
		t.Errorf("completed item must not be overdue")
	}

	now := Item{ScheduledFor: Date(today)}
	if !now.IsScheduledToday(today) || now.IsOverdue(today) {
		t.Errorf("expected item scheduled today to be today and not overdue")
	}
}

func TestCloneDoesNotShareDates(t *testing.T) {
	orig := Item{ScheduledFor: Date("2025-01-01"), DateCompleted: Date("2025-01-02")}
	cp := orig.Clone()
	*cp.ScheduledFor = "2030-01-01"
	*cp.DateCompleted = "2030-01-02"
	if *orig.ScheduledFor != "2025-01-01" || *orig.DateCompleted != "2025-01-02" {
		t.Fatalf("clone shares date pointers with original")
	}
}

func TestDateHelpers(t *testing.T) {
	if Date("") != nil {
		t.Errorf("Date(\"\") should be nil")
	}
	if DateValue(nil) != "" {
		t.Errorf("DateValue(nil) should be empty")
	}
	if DateValue(Date("2025-05-05")) != "2025-05-05" {
		t.Errorf("DateValue round trip failed")
	}
	if _, err := ParseDate("2025-13-01"); err == nil {
		t.Errorf("expected invalid month to fail")
	}
}
