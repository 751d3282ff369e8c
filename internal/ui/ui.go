// Package ui is the interactive terminal front end: three item buckets, a
// detail pane, search, project filter, the add/edit form and file transfer.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/actionlist/internal/model"
	"github.com/nissyi-gh/actionlist/internal/repo"
	"github.com/nissyi-gh/actionlist/internal/transfer"
)

type appState int

const (
	stateList appState = iota
	stateSearch
	stateForm
	stateConfirm
	stateImport
)

var errNotSaved = errors.New("changes are kept for this session but could not be saved")

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	projectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	filterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	focusLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true)
	detailStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
	notesBoxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))
)

type keyMap struct {
	NextBucket key.Binding
	PrevBucket key.Binding
	Search     key.Binding
	Project    key.Binding
	Add        key.Binding
	Edit       key.Binding
	Complete   key.Binding
	Restore    key.Binding
	Delete     key.Binding
	Export     key.Binding
	Copy       key.Binding
	Import     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextBucket: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next bucket")),
		PrevBucket: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev bucket")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Project:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Add:        key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Complete:   key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x", "complete")),
		Restore:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Export:     key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy csv")),
		Import:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{
		k.NextBucket, k.Search, k.Project, k.Add, k.Edit, k.Complete,
		k.Restore, k.Delete, k.Export, k.Copy, k.Import,
	}
}

// Options configures the TUI.
type Options struct {
	ExportDir string
	Logger    *log.Logger
}

// Model is the top-level BubbleTea model for the action list TUI.
type Model struct {
	state     appState
	repo      *repo.Repository
	opts      Options
	keys      keyMap
	list      list.Model
	bucket    model.Bucket
	filter    model.Filter
	view      model.View
	projects  []string
	search    textinput.Model
	pathInput textinput.Model
	form      itemForm
	now       func() time.Time
	copy      func(transfer.Format, []model.Item) error
	notice    string
	err       error
	width     int
	height    int
}

type itemsLoadedMsg struct {
	view     model.View
	projects []string
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(r *repo.Repository, opts Options) error {
	p := tea.NewProgram(New(r, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// New creates a new TUI model.
func New(r *repo.Repository, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	keys := newKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Search, keys.NextBucket}
	}
	l.AdditionalFullHelpKeys = keys.bindings

	search := textinput.New()
	search.Placeholder = "Search text, notes, project..."
	search.Prompt = "/ "
	search.CharLimit = 128

	path := textinput.New()
	path.Placeholder = "path/to/action-items.csv"
	path.CharLimit = 1024

	return Model{
		state:     stateList,
		repo:      r,
		opts:      opts,
		keys:      keys,
		list:      l,
		bucket:    model.BucketScheduled,
		search:    search,
		pathInput: path,
		form:      newItemForm(),
		now:       time.Now,
		copy:      transfer.CopyToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadItems
}

func (m Model) loadItems() tea.Msg {
	return itemsLoadedMsg{
		view:     m.repo.View(m.filter),
		projects: m.repo.Projects(),
	}
}

// refresh re-derives the view synchronously after a change.
func (m Model) refresh() Model {
	return m.apply(m.loadItems().(itemsLoadedMsg))
}

func (m Model) apply(msg itemsLoadedMsg) Model {
	m.view = msg.view
	m.projects = msg.projects
	if m.filter.Project != "" && !contains(m.projects, m.filter.Project) {
		m.filter.Project = ""
		m.view = m.repo.View(m.filter)
	}
	return m.showBucket()
}

func (m Model) showBucket() Model {
	idx := m.list.Index()
	items := bucketItems(m.view, m.bucket, m.repo.Today())
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.list.Select(idx)
	return m
}

func (m Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(ActionItem)
	if !ok {
		return model.Item{}, false
	}
	return it.Item, true
}

// afterChange records the outcome of a mutation and refreshes the view.
func (m Model) afterChange(err error, notice string) Model {
	switch {
	case err != nil:
		m.err = err
		m.notice = ""
	case !m.repo.SaveOK():
		m.err = errNotSaved
		m.notice = notice
	default:
		m.err = nil
		m.notice = notice
	}
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		m.list.SetSize(leftWidth, msg.Height-v-3)
		m.form.setWidth(contentWidth - 4)
		m.search.Width = contentWidth - 4
		m.pathInput.Width = contentWidth - 4
		return m, nil

	case itemsLoadedMsg:
		return m.apply(msg), nil
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateImport:
		return m.updateImport(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.NextBucket):
		m.bucket = nextBucket(m.bucket, 1)
		m.list.ResetSelected()
		return m.showBucket(), nil
	case key.Matches(keyMsg, m.keys.PrevBucket):
		m.bucket = nextBucket(m.bucket, -1)
		m.list.ResetSelected()
		return m.showBucket(), nil
	case key.Matches(keyMsg, m.keys.Search):
		m.state = stateSearch
		m.search.SetValue(m.filter.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(keyMsg, m.keys.Project):
		m.filter.Project = nextProject(m.filter.Project, m.projects)
		m.list.ResetSelected()
		return m.refresh(), nil
	case key.Matches(keyMsg, m.keys.Add):
		m.state = stateForm
		m.err = nil
		return m, m.form.reset(m.projects)
	case key.Matches(keyMsg, m.keys.Edit):
		if it, ok := m.selected(); ok {
			m.state = stateForm
			m.err = nil
			return m, m.form.load(it, m.projects)
		}
	case key.Matches(keyMsg, m.keys.Complete):
		if it, ok := m.selected(); ok {
			err := m.repo.Complete(it.ID)
			return m.afterChange(err, fmt.Sprintf("Completed #%d", it.ID)), nil
		}
	case key.Matches(keyMsg, m.keys.Restore):
		if it, ok := m.selected(); ok && it.IsCompleted {
			err := m.repo.Restore(it.ID)
			return m.afterChange(err, fmt.Sprintf("Restored #%d", it.ID)), nil
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.state = stateConfirm
			return m, nil
		}
	case key.Matches(keyMsg, m.keys.Export):
		return m.export(), nil
	case key.Matches(keyMsg, m.keys.Copy):
		items := m.repo.Items()
		if err := m.copy(transfer.FormatCSV, items); err != nil {
			m.err = err
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.notice = fmt.Sprintf("Copied %d items to the clipboard", len(items))
		return m, nil
	case key.Matches(keyMsg, m.keys.Import):
		m.state = stateImport
		m.pathInput.Reset()
		return m, m.pathInput.Focus()
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.state = stateList
			m.search.Blur()
			return m, nil
		case "esc":
			m.state = stateList
			m.search.Blur()
			m.search.Reset()
			m.filter.Search = ""
			return m.refresh(), nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.filter.Search {
		m.filter.Search = m.search.Value()
		m.list.ResetSelected()
		m = m.refresh()
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			return m.submitForm()
		case "enter":
			if m.form.focus != fieldNotes {
				return m.submitForm()
			}
		case "esc":
			m.state = stateList
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	v, err := m.form.values(m.now())
	if err != nil {
		m.err = err
		return m, nil
	}

	if !m.form.editing {
		it, err := m.repo.Add(repo.NewItem{
			Text:         v.Text,
			Project:      v.Project,
			ScheduledFor: v.ScheduledFor,
			Notes:        v.Notes,
		})
		if err != nil {
			m.err = err
			return m, nil
		}
		m.state = stateList
		m.opts.Logger.Debug("added item from tui", "id", it.ID)
		return m.afterChange(nil, fmt.Sprintf("Added #%d", it.ID)), nil
	}

	id := m.form.editID
	err = m.repo.Edit(id, repo.Edit{
		Text:         v.Text,
		Project:      v.Project,
		ScheduledFor: v.ScheduledFor,
		Notes:        v.Notes,
	})
	if errors.Is(err, repo.ErrEmptyText) || errors.Is(err, repo.ErrInvalidDate) {
		m.err = err
		return m, nil
	}
	m.state = stateList
	return m.afterChange(err, fmt.Sprintf("Updated #%d", id)), nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			m.state = stateList
			if it, ok := m.selected(); ok {
				err := m.repo.Delete(it.ID)
				return m.afterChange(err, fmt.Sprintf("Deleted #%d", it.ID)), nil
			}
			return m, nil
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			path := strings.TrimSpace(m.pathInput.Value())
			m.state = stateList
			m.pathInput.Blur()
			if path == "" {
				return m, nil
			}
			n, err := transfer.Import(m.repo, path, m.repo.Today())
			if err != nil {
				m.opts.Logger.Warn("import failed", "path", path, "err", err)
			} else {
				m.opts.Logger.Info("imported items", "path", path, "count", n)
			}
			return m.afterChange(err, fmt.Sprintf("Imported %d items", n)), nil
		case "esc":
			m.state = stateList
			m.pathInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// export writes the whole collection as CSV and JSON into the export dir.
func (m Model) export() Model {
	items := m.repo.Items()
	today := m.repo.Today()
	var paths []string
	for _, f := range []transfer.Format{transfer.FormatCSV, transfer.FormatJSON} {
		path, err := transfer.Export(m.opts.ExportDir, f, items, today)
		if err != nil {
			m.opts.Logger.Error("export failed", "format", f, "err", err)
			m.err = err
			m.notice = ""
			return m
		}
		paths = append(paths, path)
	}
	m.opts.Logger.Info("exported items", "paths", paths, "count", len(items))
	m.err = nil
	m.notice = "Exported to " + strings.Join(paths, ", ")
	return m
}

func (m Model) renderDetail(width int) string {
	it, ok := m.selected()
	if !ok {
		return statusStyle.Render("Nothing selected.")
	}
	today := m.repo.Today()

	var b strings.Builder
	b.WriteString(titleStyle.Render(it.Text))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "project:    %s\n", projectStyle.Render(it.Project))
	fmt.Fprintf(&b, "added:      %s (%s)\n", it.DateAdded, RelativeDate(it.DateAdded, today))
	if it.IsScheduled() {
		label := fmt.Sprintf("scheduled:  %s (%s)", *it.ScheduledFor, RelativeDate(*it.ScheduledFor, today))
		if it.IsOverdue(today) {
			label = errorStyle.Render(label)
		}
		b.WriteString(label + "\n")
	}
	if it.IsCompleted {
		d := model.DateValue(it.DateCompleted)
		fmt.Fprintf(&b, "completed:  %s (%s)\n", d, RelativeDate(d, today))
	}

	notes := statusStyle.Render("(no notes)")
	if rendered := RenderMarkdown(it.Notes, width-6); rendered != "" {
		notes = rendered
	}
	b.WriteString("\n" + notesBoxStyle.Render(notes))
	return b.String()
}

func (m Model) footer() string {
	switch {
	case m.err != nil:
		return "\n" + errorStyle.Render("Error: "+m.err.Error())
	case m.notice != "":
		return "\n" + noticeStyle.Render(m.notice)
	}
	return ""
}

func (m Model) View() string {
	switch m.state {
	case stateForm:
		header := "New Action Item"
		if m.form.editing {
			header = fmt.Sprintf("Edit #%d", m.form.editID)
		}
		return appStyle.Render(
			titleStyle.Render(header) + "\n\n" +
				m.form.View() + "\n\n" +
				statusStyle.Render("tab: next field • enter/ctrl+s: save • esc: cancel") +
				m.footer(),
		)
	case stateConfirm:
		it, _ := m.selected()
		return appStyle.Render(
			confirmStyle.Render("Delete Action Item?") + "\n\n" +
				"  " + it.Text + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				m.footer(),
		)
	case stateImport:
		return appStyle.Render(
			titleStyle.Render("Import") + "\n\n" +
				"Replaces every action item with the contents of a .csv, .json or .yaml file.\n\n" +
				m.pathInput.View() + "\n\n" +
				statusStyle.Render("enter: import • esc: cancel") +
				m.footer(),
		)
	}

	h, v := appStyle.GetFrameSize()
	contentWidth := m.width - h
	contentHeight := m.height - v - 3
	leftWidth := contentWidth * 60 / 100
	rightWidth := contentWidth - leftWidth

	header := renderTabs(m.view, m.bucket) + "\n"
	if m.state == stateSearch {
		header += m.search.View()
	} else {
		header += renderFilter(m.filter)
	}

	leftPane := m.list.View()
	if len(m.list.Items()) == 0 {
		leftPane = lipgloss.NewStyle().Width(leftWidth).Render(statusStyle.Render(m.bucket.EmptyText()))
	}
	rightPane := detailStyle.
		Width(rightWidth).
		Height(contentHeight).
		Render(m.renderDetail(rightWidth))
	content := header + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	return appStyle.Render(content + m.footer())
}

func contains(names []string, s string) bool {
	for _, v := range names {
		if v == s {
			return true
		}
	}
	return false
}
