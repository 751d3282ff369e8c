package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nissyi-gh/actionlist/internal/logging"
	"github.com/nissyi-gh/actionlist/internal/model"
)

func newTestStore(t *testing.T) *KVStore {
	t.Helper()
	s, err := Open(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestLoadWithoutSavedData(t *testing.T) {
	s := newTestStore(t)

	items, ok := s.Load()
	if ok {
		t.Fatalf("expected no saved data")
	}
	if items != nil {
		t.Fatalf("expected nil items, got %v", items)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := []model.Item{
		{ID: 1, Text: "Exercise", Project: "Health", DateAdded: "2025-05-05", ScheduledFor: model.Date("2025-05-05")},
		{ID: 2, Text: "Done thing", Project: model.Unassigned, DateAdded: "2025-05-01", DateCompleted: model.Date("2025-05-02"), IsCompleted: true, Notes: `quote "x"`},
	}
	if !s.Save(want) {
		t.Fatalf("save failed")
	}

	got, ok := s.Load()
	if !ok {
		t.Fatalf("expected saved data")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\ngot:  %+v\nwant: %+v", got, want)
	}

	raw, err := s.Get(ItemsKey)
	if err != nil {
		t.Fatalf("get raw value: %v", err)
	}
	if raw[0] != '[' {
		t.Fatalf("expected a JSON array under %s, got %q", ItemsKey, raw)
	}
	saved, err := s.LastSaved()
	if err != nil {
		t.Fatalf("LastSaved: %v", err)
	}
	if d := time.Since(saved); d < -time.Minute || d > time.Minute {
		t.Fatalf("expected a recent save time, got %v", saved)
	}
}

func TestLastSavedWithoutSave(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LastSaved(); !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue, got %v", err)
	}
}

func TestLastIDRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.LoadLastID(); ok {
		t.Fatalf("expected no last id in a fresh store")
	}
	if !s.SaveLastID(41) || !s.SaveLastID(42) {
		t.Fatalf("SaveLastID failed")
	}
	if id, ok := s.LoadLastID(); !ok || id != 42 {
		t.Fatalf("LoadLastID = %d, %v; want 42, true", id, ok)
	}

	if err := s.Set(LastIDKey, "forty"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := s.LoadLastID(); ok {
		t.Fatalf("unparsable last id must report ok=false")
	}
}

func TestSaveReplacesWholeCollection(t *testing.T) {
	s := newTestStore(t)

	s.Save([]model.Item{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}})
	s.Save([]model.Item{{ID: 3, Text: "c"}})

	got, ok := s.Load()
	if !ok || len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only the latest snapshot, got %+v", got)
	}
}

func TestSaveEmptyCollection(t *testing.T) {
	s := newTestStore(t)

	if !s.Save(nil) {
		t.Fatalf("save failed")
	}
	got, ok := s.Load()
	if !ok {
		t.Fatalf("an empty saved collection is still saved data")
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestLoadCorruptValueDegrades(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(ItemsKey, "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	items, ok := s.Load()
	if ok || items != nil {
		t.Fatalf("expected corrupt data to load as no data, got %v, %v", items, ok)
	}
}

func TestSaveAfterCloseReportsFailure(t *testing.T) {
	s, err := Open(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	_ = s.Close()

	if s.Save([]model.Item{{ID: 1, Text: "a"}}) {
		t.Fatalf("expected save on closed store to fail")
	}
	if _, ok := s.Load(); ok {
		t.Fatalf("expected load on closed store to report no data")
	}
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrNoValue) {
		t.Fatalf("expected ErrNoValue, got %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "actionlist.db")

	s, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Save([]model.Item{{ID: 5, Text: "persist me", Project: "P", DateAdded: "2025-01-01"}})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	items, ok := reopened.Load()
	if !ok || len(items) != 1 || items[0].Text != "persist me" {
		t.Fatalf("expected persisted item, got %+v (ok=%v)", items, ok)
	}
}

func TestDefaultDBPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dir, "actionlist", "actionlist.db")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
