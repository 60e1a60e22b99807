package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tilequest/internal/storage"
)

type screen int

const (
	screenTitle screen = iota
	screenSaves
	screenGame
)

// SessionModel manages the full flow: title -> saves -> game -> title.
// It is the top-level model both locally and over SSH.
type SessionModel struct {
	opts     Options
	screen   screen
	title    TitleModel
	saves    SavesModel
	game     *Model
	err      error // Last failure to start a game, shown on the title
	quitting bool
}

// NewSessionModel creates a session. With opts.Slot set it goes straight
// into that slot's game.
func NewSessionModel(opts Options) (SessionModel, error) {
	m := SessionModel{opts: opts}
	if opts.Slot == "" {
		m.showTitle()
		return m, nil
	}

	slot := opts.storageSlot(opts.Slot)
	var rec *storage.SaveRecord
	if opts.Store != nil {
		loaded, err := opts.Store.LoadGame(slot)
		switch {
		case err == nil:
			rec = &loaded
		case !errors.Is(err, storage.ErrNotFound):
			return SessionModel{}, err
		}
	}
	game, err := NewModel(opts, slot, rec)
	if err != nil {
		return SessionModel{}, err
	}
	m.game = &game
	m.screen = screenGame
	return m, nil
}

func (m *SessionModel) showTitle() {
	saves, _ := ListSaves(m.opts.Store, m.opts.Namespace)
	m.title = NewTitleModel(m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH, len(saves) > 0)
	m.screen = screenTitle
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenGame {
		return m.game.Init()
	}
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenSaves:
		return m.updateSaves(msg)
	default:
		return m.updateTitle(msg)
	}
}

func (m SessionModel) updateTitle(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.title.Update(msg)
	if title, ok := next.(TitleModel); ok {
		m.title = title
	}

	switch m.title.Choice() {
	case TitleQuit:
		m.quitting = true
		return m, tea.Quit
	case TitleContinue:
		m.saves = NewSavesModel(m.opts.Store, m.opts.Namespace, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.screen = screenSaves
		return m, nil
	case TitleNewGame:
		slot := m.opts.storageSlot(newSlotName(time.Now()))
		return m.startGame(slot, nil)
	}
	return m, cmd
}

func (m SessionModel) updateSaves(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.saves.Update(msg)
	if saves, ok := next.(SavesModel); ok {
		m.saves = saves
	}

	switch {
	case m.saves.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.saves.IsGoingBack():
		m.showTitle()
		return m, nil
	case m.saves.Selected() != nil:
		rec := *m.saves.Selected()
		return m.startGame(rec.Slot, &rec)
	}
	return m, cmd
}

func (m SessionModel) startGame(slot string, rec *storage.SaveRecord) (tea.Model, tea.Cmd) {
	game, err := NewModel(m.opts, slot, rec)
	if err != nil {
		m.opts.logger().Error("cannot start game", "slot", slot, "error", err)
		m.err = err
		m.showTitle()
		return m, nil
	}
	m.err = nil
	m.game = &game
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = &game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game = nil
		m.showTitle()
		// The tick already in flight lands on the title and ends the loop.
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenSaves:
		return m.saves.View()
	}
	view := m.title.View()
	if m.err != nil {
		view += "\n" + centerText("Error: "+m.err.Error(), m.opts.Runtime.ScreenW)
	}
	return view
}

// Screen reports which screen is showing, for tests.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenGame:
		return "game"
	case screenSaves:
		return "saves"
	default:
		return "title"
	}
}

// newSlotName names a fresh save slot after its start time. The random
// suffix keeps sessions started in the same second apart.
func newSlotName(t time.Time) string {
	return t.Format("2006-01-02-150405") + "-" + uuid.NewString()[:6]
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	model, err := NewSessionModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
