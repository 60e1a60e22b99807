package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilequest/internal/config"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/quest"
	"github.com/vovakirdan/tilequest/internal/skills"
	"github.com/vovakirdan/tilequest/internal/storage"
	"github.com/vovakirdan/tilequest/internal/world"
)

// Options configures a play session.
type Options struct {
	// Store persists saves. Nil disables saving.
	Store   storage.Store
	Config  config.QuestConfig
	Maps    map[string]world.MapFile // nil means the built-in maps
	Runtime core.RuntimeConfig
	// Namespace prefixes every slot name, keeping SSH users apart.
	Namespace string
	// Slot skips the title screen: it is continued if saved, otherwise a
	// new game starts in it.
	Slot   string
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// storageSlot returns the slot name as stored.
func (o Options) storageSlot(slot string) string {
	return namespacePrefix(o.Namespace) + slot
}

// namespacePrefix returns the slot prefix for a namespace. The namespace is
// path-escaped so no prefix can nest inside another.
func namespacePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return url.PathEscape(namespace) + "/"
}

// Model is the Bubble Tea model running one game.
type Model struct {
	game       *quest.Game
	screen     *core.Screen
	store      storage.Store
	slot       string // storage slot, namespaced
	config     core.RuntimeConfig
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
}

// NewModel starts a game in slot. A non-nil rec is restored instead of
// starting fresh.
func NewModel(opts Options, slot string, rec *storage.SaveRecord) (Model, error) {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	game, err := quest.New(quest.Options{Config: opts.Config, Maps: opts.Maps})
	if err != nil {
		return Model{}, err
	}

	if rec != nil {
		var save quest.SaveGame
		if err := json.Unmarshal(rec.Data, &save); err != nil {
			return Model{}, fmt.Errorf("tui: slot %q: %w", rec.Slot, err)
		}
		if err := game.Restore(save, cfg); err != nil {
			if game.Player() == nil {
				return Model{}, fmt.Errorf("tui: slot %q: %w", rec.Slot, err)
			}
			// Partially restored; keep playing and say what was lost.
			opts.logger().Warn("save restored with problems", "slot", rec.Slot, "error", err)
			game.Notify("Some saved objects could not be restored.")
		}
	} else {
		game.Reset(cfg)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		slot:       slot,
		config:     cfg,
		logger:     opts.logger(),
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.game.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.autosave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionSave:
		if err := m.Save(); err != nil {
			m.game.Notify("Save failed.")
			m.logger.Error("save failed", "slot", m.slot, "error", err)
		} else {
			m.game.Notify("Game saved.")
		}
		return m, nil
	case action == core.ActionBack && m.gameState.Paused:
		m.autosave()
		m.backToMenu = true
		return m, nil
	}

	m.keyMapper.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.recordEvents(result.Events)

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

func (m Model) recordEvents(events []core.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case core.EventGatherDone:
			if m.store != nil {
				//nolint:errcheck // Best-effort log, game continues regardless
				m.store.RecordGather(storage.GatherRecord{
					Slot:  m.slot,
					Skill: ev.Skill,
					Item:  ev.Item,
					XP:    ev.XP,
				})
			}
		case core.EventLevelUp:
			m.logger.Info("level up", "slot", m.slot, "skill", ev.Skill, "text", ev.Text)
		case core.EventMapChange:
			m.logger.Debug("map change", "slot", m.slot, "map", m.game.MapID())
		}
	}
}

// Save writes the game to its slot.
func (m Model) Save() error {
	if m.store == nil {
		return errors.New("tui: no save storage")
	}
	rec, err := saveRecord(m.slot, m.game)
	if err != nil {
		return err
	}
	if _, err := m.store.SaveGame(rec); err != nil {
		return err
	}
	m.logger.Info("game saved", "slot", m.slot, "map", rec.Map, "ticks", rec.Ticks)
	return nil
}

func (m Model) autosave() {
	if m.store == nil {
		return
	}
	if err := m.Save(); err != nil {
		m.logger.Error("autosave failed", "slot", m.slot, "error", err)
	}
}

func saveRecord(slot string, g *quest.Game) (storage.SaveRecord, error) {
	save := g.Save()
	data, err := json.Marshal(save)
	if err != nil {
		return storage.SaveRecord{}, fmt.Errorf("tui: encode save: %w", err)
	}
	rec := storage.SaveRecord{
		Slot:  slot,
		Map:   save.Map,
		Ticks: save.Ticks,
		Data:  data,
	}
	if p := g.Player(); p != nil {
		rec.Player = p.Name
		for _, s := range skills.All() {
			rec.TotalLevel += p.Skills.Level(s)
		}
	}
	return rec, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Game returns the running game.
func (m Model) Game() *quest.Game {
	return m.game
}

// Slot returns the storage slot name.
func (m Model) Slot() string {
	return m.slot
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the title.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}
