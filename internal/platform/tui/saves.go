package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilequest/internal/storage"
)

// Saves screen layout constants
const (
	minWidthForSidebar = 116 // Minimum width to show the gather totals sidebar
	sidebarWidth       = 28
)

// SavesKeyMap defines the key bindings for the saves screen.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SavesModel lists the save slots of one namespace.
type SavesModel struct {
	store     storage.Store
	namespace string
	saves     []storage.SaveRecord
	totals    []storage.GatherTotal
	table     table.Model
	help      help.Model
	keys      SavesKeyMap
	width     int
	height    int
	err       error
	confirm   bool // Delete pressed once; a second press deletes
	selected  *storage.SaveRecord
	goingBack bool
	quitting  bool
}

// NewSavesModel loads the saves visible under namespace.
func NewSavesModel(store storage.Store, namespace string, width, height int) SavesModel {
	h := help.New()
	h.Width = width

	m := SavesModel{
		store:     store,
		namespace: namespace,
		help:      h,
		keys:      DefaultSavesKeyMap(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// ListSaves returns the saves under namespace, with the namespace prefix
// left on the slot names.
func ListSaves(store storage.Store, namespace string) ([]storage.SaveRecord, error) {
	if store == nil {
		return nil, nil
	}
	all, err := store.ListSaves()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		return all, nil
	}
	prefix := namespacePrefix(namespace)
	var mine []storage.SaveRecord
	for _, rec := range all {
		if strings.HasPrefix(rec.Slot, prefix) {
			mine = append(mine, rec)
		}
	}
	return mine, nil
}

func (m SavesModel) displaySlot(slot string) string {
	if m.namespace == "" {
		return slot
	}
	return strings.TrimPrefix(slot, namespacePrefix(m.namespace))
}

func (m *SavesModel) showSidebar() bool {
	return m.width >= minWidthForSidebar
}

// createTable creates a new table with columns sized to the window.
func (m *SavesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Slot", Width: 24},
		{Title: "Player", Width: 12},
		{Title: "Map", Width: 10},
		{Title: "Total", Width: 6},
		{Title: "Saved", Width: 12},
	}

	tableWidth := m.width - 6
	if m.showSidebar() {
		tableWidth -= sidebarWidth + 4
	}
	if extra := tableWidth - 72; extra > 0 {
		columns[0].Width += min(extra, 14)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload reads the slot list from the store.
func (m *SavesModel) reload() {
	m.saves, m.err = ListSaves(m.store, m.namespace)
	m.updateTableRows()
	m.table.GotoTop()
	m.loadTotals()
}

func (m *SavesModel) updateTableRows() {
	rows := make([]table.Row, len(m.saves))
	for i, s := range m.saves {
		rows[i] = table.Row{
			m.displaySlot(s.Slot),
			s.Player,
			s.Map,
			fmt.Sprintf("%d", s.TotalLevel),
			s.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// loadTotals loads the gather totals of the highlighted slot.
func (m *SavesModel) loadTotals() {
	m.totals = nil
	rec, ok := m.current()
	if !ok || m.store == nil {
		return
	}
	totals, err := m.store.GatherTotals(rec.Slot)
	if err == nil {
		m.totals = totals
	}
}

func (m *SavesModel) current() (storage.SaveRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.saves) {
		return storage.SaveRecord{}, false
	}
	return m.saves[i], true
}

// Init initializes the saves model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the saves screen.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Delete) {
			m.confirm = false
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Load):
			if rec, ok := m.current(); ok {
				m.selected = &rec
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			rec, ok := m.current()
			if !ok {
				return m, nil
			}
			if !m.confirm {
				m.confirm = true
				return m, nil
			}
			m.confirm = false
			if err := m.store.DeleteSave(rec.Slot); err != nil {
				m.err = err
				return m, nil
			}
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.loadTotals()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the saves screen.
func (m SavesModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SAVED GAMES"), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar() && len(m.saves) > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", boxStyle.Width(sidebarWidth).Render(m.renderTotals()))
	}
	b.WriteString(content)
	b.WriteString("\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	switch {
	case m.err != nil:
		b.WriteString(statusStyle.Render("Error: " + m.err.Error()))
	case m.confirm:
		if rec, ok := m.current(); ok {
			b.WriteString(statusStyle.Render(fmt.Sprintf("Press d again to delete %q.", m.displaySlot(rec.Slot))))
		}
	}
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SavesModel) renderTableContent() string {
	if len(m.saves) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No saved games yet.\nPress ctrl+s while playing to save.")
	}
	return m.table.View()
}

// renderTotals renders what the highlighted slot has gathered.
func (m SavesModel) renderTotals() string {
	var b strings.Builder
	b.WriteString("Gathered\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))
	b.WriteString("\n")
	if len(m.totals) == 0 {
		b.WriteString("nothing yet")
		return b.String()
	}
	for _, t := range m.totals {
		fmt.Fprintf(&b, "%-14s %4d\n", truncateText(t.Item, 14), t.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Selected returns the slot chosen to continue, or nil.
func (m SavesModel) Selected() *storage.SaveRecord {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to the title.
func (m SavesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SavesModel) IsQuitting() bool {
	return m.quitting
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
