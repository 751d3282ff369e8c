package repo

import (
	"fmt"
	"sort"

	"github.com/nissyi-gh/actionlist/internal/model"
)

// The helpers below never modify their input slice; each returns a fresh collection.

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func appendItem(items []model.Item, it model.Item) []model.Item {
	out := make([]model.Item, 0, len(items)+1)
	out = append(out, items...)
	return append(out, it)
}

func updateItem(items []model.Item, id int64, fn func(*model.Item) error) ([]model.Item, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	out := make([]model.Item, len(items))
	copy(out, items)
	it := items[idx].Clone()
	if err := fn(&it); err != nil {
		return nil, err
	}
	out[idx] = it
	return out, nil
}

func removeItem(items []model.Item, id int64) ([]model.Item, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, false
	}
	out := make([]model.Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

func indexOf(items []model.Item, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func maxID(items []model.Item) int64 {
	var m int64
	for _, it := range items {
		if it.ID > m {
			m = it.ID
		}
	}
	return m
}

func projects(items []model.Item) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range items {
		if it.Project == "" || it.Project == model.Unassigned {
			continue
		}
		if _, ok := seen[it.Project]; ok {
			continue
		}
		seen[it.Project] = struct{}{}
		out = append(out, it.Project)
	}
	sort.Strings(out)
	return out
}

func buildView(items []model.Item, f model.Filter) model.View {
	v := model.View{
		Scheduled:   []model.Item{},
		Unscheduled: []model.Item{},
		Completed:   []model.Item{},
	}
	for _, it := range items {
		if !it.Matches(f) {
			continue
		}
		switch {
		case it.IsCompleted:
			v.Completed = append(v.Completed, it.Clone())
		case it.IsScheduled():
			v.Scheduled = append(v.Scheduled, it.Clone())
		default:
			v.Unscheduled = append(v.Unscheduled, it.Clone())
		}
	}

	sort.SliceStable(v.Scheduled, func(i, j int) bool {
		return *v.Scheduled[i].ScheduledFor < *v.Scheduled[j].ScheduledFor
	})
	sort.SliceStable(v.Unscheduled, func(i, j int) bool {
		return v.Unscheduled[i].DateAdded > v.Unscheduled[j].DateAdded
	})
	sort.SliceStable(v.Completed, func(i, j int) bool {
		return model.DateValue(v.Completed[i].DateCompleted) > model.DateValue(v.Completed[j].DateCompleted)
	})
	return v
}

func defaultItems() []model.Item {
	return []model.Item{
		{
			ID:           1,
			Text:         "Have some coffee and read the news",
			Project:      "Morning routine",
			DateAdded:    "2025-05-05",
			ScheduledFor: model.Date("2025-05-05"),
			Notes:        "Accompany coffee with a healthy breakfast",
		},
		{
			ID:           2,
			Text:         "Complete this part of the important work project",
			Project:      "Important work project",
			DateAdded:    "2025-05-05",
			ScheduledFor: model.Date("2025-05-05"),
			Notes:        "Keep these dependencies in mind while completing this part: dependency 1 and dependency 2",
		},
		{
			ID:           3,
			Text:         "Exercise",
			Project:      "Healthy body and mind",
			DateAdded:    "2025-05-05",
			ScheduledFor: model.Date("2025-05-05"),
			Notes:        "Exercise for today is a boxing class",
		},
	}
}
