// Package gather implements resource gathering as a tick-driven state
// machine. A Session is started against one object, advanced once per game
// tick, and reports what happened through events.
package gather

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/tilequest/internal/config"
	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/entity"
	"github.com/vovakirdan/tilequest/internal/skills"
	"github.com/vovakirdan/tilequest/internal/world"
)

// State is where a session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateGathering
	StateDone
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateGathering:
		return "gathering"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Reason explains why gathering could not start or stopped early.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonDepleted      Reason = "depleted"
	ReasonTooFar        Reason = "too_far"
	ReasonLevelTooLow   Reason = "level_too_low"
	ReasonNoTool        Reason = "no_tool"
	ReasonInventoryFull Reason = "inventory_full"
)

// EventKind classifies session events.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventYield     EventKind = "yield"
	EventLevelUp   EventKind = "level_up"
	EventDepleted  EventKind = "depleted"
	EventFailed    EventKind = "failed"
	EventCancelled EventKind = "cancelled"
)

// Event is something the player should hear about.
type Event struct {
	Kind    EventKind
	Object  world.OccupantID
	Skill   skills.Skill
	Item    string
	XP      int
	LevelUp skills.LevelUp
	Reason  Reason
	Text    string
}

// Target is the object being gathered from.
type Target struct {
	ID       world.OccupantID
	Pos      core.Point
	Def      content.ObjectDef
	Depleted bool
}

// Session is one gathering interaction between a character and a target.
type Session struct {
	actor   *entity.Character
	target  Target
	cfg     config.GatheringConfig
	catalog *content.Catalog

	state     State
	reason    Reason
	tier      int
	interval  int
	countdown int
	attempts  int
	yields    int
}

// Start checks whether actor can gather from target. On success the session
// is in StateGathering and the returned event is EventStarted; otherwise the
// session is nil and the event is EventFailed with the reason.
func Start(actor *entity.Character, target Target, cfg config.GatheringConfig) (*Session, Event) {
	catalog := actor.Catalog()
	def := target.Def

	if target.Depleted {
		return nil, failed(target, ReasonDepleted, fmt.Sprintf("The %s has nothing left to give.", displayName(def)))
	}
	if !InReach(actor, target.Pos) {
		return nil, failed(target, ReasonTooFar, fmt.Sprintf("You need to stand next to the %s.", displayName(def)))
	}
	if lvl := actor.Skills.Level(def.Skill); lvl < def.Level {
		return nil, failed(target, ReasonLevelTooLow,
			fmt.Sprintf("You need level %d %s to gather from the %s.", def.Level, def.Skill, displayName(def)))
	}

	tier := 0
	if def.ToolType != "" {
		tier = actor.ToolTier(def.ToolType)
		if tier == 0 {
			return nil, failed(target, ReasonNoTool, fmt.Sprintf("You need a %s to do that.", toolNoun(def.ToolType)))
		}
	}
	if !actor.Inventory.CanAccept(def.Yield) {
		return nil, failed(target, ReasonInventoryFull, "Your inventory is too full to hold any more.")
	}

	interval := max(1, cfg.AttemptTicks-tier*cfg.TierSpeedBonus)
	s := &Session{
		actor:     actor,
		target:    target,
		cfg:       cfg,
		catalog:   catalog,
		state:     StateGathering,
		tier:      tier,
		interval:  interval,
		countdown: interval,
	}
	return s, Event{
		Kind:   EventStarted,
		Object: target.ID,
		Skill:  def.Skill,
		Text:   startText(def),
	}
}

// InReach reports whether the actor can touch p: adjacent, or directly in
// front of them.
func InReach(actor *entity.Character, p core.Point) bool {
	return core.Manhattan(actor.Pos, p) == 1 || actor.FacingTile() == p
}

// Chance returns the per-attempt success probability.
func Chance(cfg config.GatheringConfig, level int, def content.ObjectDef, tier int) float64 {
	c := cfg.BaseChance +
		float64(level-def.Level)*cfg.PerLevel +
		float64(tier)*cfg.TierBonus -
		def.Difficulty
	return core.ClampF(c, cfg.MinChance, cfg.MaxChance)
}

// Step advances the session by one tick. It returns nil until an attempt is
// made.
func (s *Session) Step(rng *rand.Rand) []Event {
	if s.state != StateGathering {
		return nil
	}
	s.countdown--
	if s.countdown > 0 {
		return nil
	}
	s.countdown = s.interval
	s.attempts++

	def := s.target.Def
	level := s.actor.Skills.Level(def.Skill)
	if rng.Float64() >= Chance(s.cfg, level, def, s.tier) {
		return nil
	}

	var events []Event
	if _, err := s.actor.Inventory.Add(def.Yield, 1); err != nil {
		s.finish(StateFailed, ReasonInventoryFull)
		return []Event{failed(s.target, ReasonInventoryFull, "Your inventory is too full to hold any more.")}
	}
	s.yields++

	xp := int(math.Round(float64(def.XP) * s.cfg.XPMultiplier))
	events = append(events, Event{
		Kind:   EventYield,
		Object: s.target.ID,
		Skill:  def.Skill,
		Item:   def.Yield,
		XP:     xp,
		Text:   fmt.Sprintf("You get some %s.", lower(s.catalog.ItemName(def.Yield))),
	})
	if up, ok := s.actor.Skills.AddXP(def.Skill, xp); ok {
		events = append(events, Event{
			Kind:    EventLevelUp,
			Skill:   def.Skill,
			LevelUp: up,
			Text:    fmt.Sprintf("Congratulations, your %s level is now %d.", def.Skill, up.To),
		})
	}

	if def.DepleteChance > 0 && rng.Float64() < def.DepleteChance {
		s.target.Depleted = true
		s.finish(StateDone, ReasonDepleted)
		return append(events, Event{
			Kind:   EventDepleted,
			Object: s.target.ID,
			Skill:  def.Skill,
			Text:   depletedText(def),
		})
	}

	if !s.actor.Inventory.CanAccept(def.Yield) {
		s.finish(StateFailed, ReasonInventoryFull)
		events = append(events, failed(s.target, ReasonInventoryFull, "Your inventory is too full to hold any more."))
	}
	return events
}

// Cancel stops the session, typically because the player moved away.
func (s *Session) Cancel() []Event {
	if s.state != StateGathering {
		return nil
	}
	s.finish(StateCancelled, ReasonNone)
	return []Event{{Kind: EventCancelled, Object: s.target.ID, Skill: s.target.Def.Skill}}
}

func (s *Session) finish(state State, reason Reason) {
	s.state = state
	s.reason = reason
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Reason returns why the session ended, if it ended early.
func (s *Session) Reason() Reason { return s.reason }

// Active reports whether the session is still gathering.
func (s *Session) Active() bool { return s.state == StateGathering }

// Target returns the object being gathered.
func (s *Session) Target() Target { return s.target }

// Attempts returns how many attempts have been rolled.
func (s *Session) Attempts() int { return s.attempts }

// Yields returns how many items the session produced.
func (s *Session) Yields() int { return s.yields }

// Interval returns the ticks between attempts.
func (s *Session) Interval() int { return s.interval }

// Progress returns how far the current attempt has come, from 0 to 1.
func (s *Session) Progress() float64 {
	if s.interval <= 0 {
		return 0
	}
	return float64(s.interval-s.countdown) / float64(s.interval)
}

func failed(target Target, reason Reason, text string) Event {
	return Event{
		Kind:   EventFailed,
		Object: target.ID,
		Skill:  target.Def.Skill,
		Reason: reason,
		Text:   text,
	}
}
