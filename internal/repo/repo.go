// Package repo owns the in-memory action item collection, applies mutations
// and derives the bucketed views shown to the user.
package repo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/actionlist/internal/model"
)

var (
	ErrEmptyText   = errors.New("action item text is required")
	ErrNotFound    = errors.New("action item not found")
	ErrDuplicateID = errors.New("duplicate action item id")
	ErrInvalidDate = errors.New("scheduled date must be YYYY-MM-DD")
)

// Persister saves and restores full collection snapshots.
type Persister interface {
	Load() ([]model.Item, bool)
	Save(items []model.Item) bool
}

// IDKeeper is implemented by persisters that also remember the highest id
// handed out, so ids of deleted items are not reused after a restart.
type IDKeeper interface {
	LoadLastID() (int64, bool)
	SaveLastID(id int64) bool
}

// NewItem holds the user-supplied fields of an item being created.
type NewItem struct {
	Text         string
	Project      string
	ScheduledFor string
	Notes        string
}

// Edit holds the replacement values for an item's editable fields.
type Edit struct {
	Text         string
	Project      string
	ScheduledFor string
	Notes        string
}

// Options configures a Repository.
type Options struct {
	Now          func() time.Time
	Logger       *log.Logger
	SeedDefaults bool
}

// Repository is the single owner of the item collection. Every mutation
// replaces the collection and saves a full snapshot.
type Repository struct {
	mu         sync.Mutex
	items      []model.Item
	lastID     int64
	savedID    int64
	store      Persister
	now        func() time.Time
	logger     *log.Logger
	lastSaveOK bool
}

// New hydrates a repository from store. When nothing is saved the collection
// starts with the sample items (if SeedDefaults) or empty.
func New(store Persister, opts Options) *Repository {
	r := &Repository{
		store:      store,
		now:        opts.Now,
		logger:     opts.Logger,
		lastSaveOK: true,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	items, ok := store.Load()
	switch {
	case ok:
		r.logger.Debug("loaded items", "count", len(items))
	case opts.SeedDefaults:
		items = defaultItems()
		r.logger.Info("no saved items, starting with sample items", "count", len(items))
	default:
		items = []model.Item{}
	}
	r.items = cloneItems(items)
	r.lastID = maxID(r.items)
	if keeper, ok := store.(IDKeeper); ok {
		if id, ok := keeper.LoadLastID(); ok {
			r.savedID = id
			if id > r.lastID {
				r.lastID = id
			}
		}
	}
	return r
}

func (r *Repository) today() string {
	return model.Today(r.now())
}

// commit installs next as the collection and saves it. Callers hold r.mu.
func (r *Repository) commit(next []model.Item) {
	r.items = next
	r.lastSaveOK = r.store.Save(cloneItems(next))
	if keeper, ok := r.store.(IDKeeper); ok && r.lastID > r.savedID {
		if keeper.SaveLastID(r.lastID) {
			r.savedID = r.lastID
		} else {
			r.lastSaveOK = false
		}
	}
	if !r.lastSaveOK {
		r.logger.Warn("changes kept in memory but not saved", "count", len(next))
	}
}

// SaveOK reports whether the most recent save succeeded.
func (r *Repository) SaveOK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSaveOK
}

// Add creates an item. Blank text is rejected and nothing is created.
func (r *Repository) Add(in NewItem) (model.Item, error) {
	if strings.TrimSpace(in.Text) == "" {
		return model.Item{}, ErrEmptyText
	}
	scheduled, err := scheduledDate(in.ScheduledFor)
	if err != nil {
		return model.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	it := model.Item{
		ID:           r.lastID,
		Text:         in.Text,
		Project:      projectOrDefault(in.Project),
		DateAdded:    r.today(),
		ScheduledFor: scheduled,
		Notes:        in.Notes,
	}
	r.commit(appendItem(r.items, it))
	r.logger.Debug("added item", "id", it.ID)
	return it.Clone(), nil
}

// Complete marks an item completed today. Completing again restamps the date.
func (r *Repository) Complete(id int64) error {
	today := r.today()
	return r.update(id, func(it *model.Item) error {
		it.IsCompleted = true
		it.DateCompleted = model.Date(today)
		return nil
	})
}

// Restore moves a completed item back to the active buckets.
func (r *Repository) Restore(id int64) error {
	return r.update(id, func(it *model.Item) error {
		it.IsCompleted = false
		it.DateCompleted = nil
		return nil
	})
}

// Edit replaces text, project, scheduled date and notes of one item.
// An empty scheduled date unschedules the item.
func (r *Repository) Edit(id int64, e Edit) error {
	if strings.TrimSpace(e.Text) == "" {
		return ErrEmptyText
	}
	return r.update(id, func(it *model.Item) error {
		// An imported date that was never valid may be kept as is.
		scheduled := it.ScheduledFor
		if d := strings.TrimSpace(e.ScheduledFor); d != model.DateValue(it.ScheduledFor) {
			var err error
			if scheduled, err = scheduledDate(d); err != nil {
				return err
			}
		}
		it.Text = e.Text
		it.Project = projectOrDefault(e.Project)
		it.ScheduledFor = scheduled
		it.Notes = e.Notes
		return nil
	})
}

// Delete removes an item from whichever bucket it is in.
func (r *Repository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, ok := removeItem(r.items, id)
	if !ok {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	r.commit(next)
	r.logger.Debug("deleted item", "id", id)
	return nil
}

// scheduledDate trims s and checks it is a calendar date. Blank means unscheduled.
func scheduledDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if _, err := model.ParseDate(s); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return model.Date(s), nil
}

func (r *Repository) update(id int64, fn func(*model.Item) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := updateItem(r.items, id, fn)
	if err != nil {
		return err
	}
	r.commit(next)
	return nil
}

// Replace swaps in a whole new collection, as an import does. Duplicate ids
// reject the collection and leave the current one untouched.
func (r *Repository) Replace(items []model.Item) error {
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("replace: id %d: %w", it.ID, ErrDuplicateID)
		}
		seen[it.ID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneItems(items)
	if id := maxID(next); id > r.lastID {
		r.lastID = id
	}
	r.commit(next)
	r.logger.Info("replaced items", "count", len(next))
	return nil
}

// Get returns the item with the given id.
func (r *Repository) Get(id int64) (model.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return model.Item{}, false
}

// Items returns a copy of the collection in insertion order.
func (r *Repository) Items() []model.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneItems(r.items)
}

// Len returns the number of items.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Projects returns the known project names, sorted, without the sentinel.
func (r *Repository) Projects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return projects(r.items)
}

// View derives the filtered and sorted buckets. It is recomputed on every call.
func (r *Repository) View(f model.Filter) model.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return buildView(r.items, f)
}

// Today returns the repository's notion of the current local date.
func (r *Repository) Today() string {
	return r.today()
}

func projectOrDefault(p string) string {
	if strings.TrimSpace(p) == "" {
		return model.Unassigned
	}
	return p
}
