// Package skills tracks gathering experience and converts it to levels using
// the classic 99-level experience curve.
package skills

import (
	"fmt"
	"math"
	"sort"
)

// Skill names a trainable skill.
type Skill string

const (
	Woodcutting Skill = "woodcutting"
	Mining      Skill = "mining"
	Fishing     Skill = "fishing"
)

const (
	MaxLevel = 99
	MaxXP    = 200_000_000
)

// All returns every known skill in display order.
func All() []Skill {
	return []Skill{Woodcutting, Mining, Fishing}
}

// Valid reports whether s is a known skill.
func Valid(s Skill) bool {
	for _, k := range All() {
		if k == s {
			return true
		}
	}
	return false
}

// xpTable[L] is the total experience required to reach level L.
var xpTable = buildXPTable()

func buildXPTable() [MaxLevel + 1]int {
	var table [MaxLevel + 1]int
	points := 0.0
	for lvl := 1; lvl < MaxLevel; lvl++ {
		points += math.Floor(float64(lvl) + 300*math.Pow(2, float64(lvl)/7))
		table[lvl+1] = int(math.Floor(points / 4))
	}
	return table
}

// XPForLevel returns the total experience needed to reach level.
// Levels outside [1, 99] are clamped.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return xpTable[level]
}

// LevelForXP returns the level reached with xp total experience.
func LevelForXP(xp int) int {
	// First level whose requirement exceeds xp, minus one.
	i := sort.Search(MaxLevel, func(i int) bool {
		return xpTable[i+1] > xp
	})
	return max(1, i)
}

// LevelUp describes a level change caused by AddXP.
type LevelUp struct {
	Skill Skill
	From  int
	To    int
}

func (l LevelUp) String() string {
	return fmt.Sprintf("%s level %d", l.Skill, l.To)
}

// Set holds experience for every skill of one character.
type Set struct {
	xp map[Skill]int
}

// NewSet returns a set with every skill at level 1.
func NewSet() *Set {
	return &Set{xp: make(map[Skill]int)}
}

// XP returns the total experience in a skill.
func (s *Set) XP(skill Skill) int {
	return s.xp[skill]
}

// Level returns the current level in a skill.
func (s *Set) Level(skill Skill) int {
	return LevelForXP(s.xp[skill])
}

// AddXP adds experience and reports a level change, if one happened.
// Negative amounts are ignored.
func (s *Set) AddXP(skill Skill, amount int) (LevelUp, bool) {
	if amount <= 0 {
		return LevelUp{}, false
	}
	before := s.Level(skill)
	s.xp[skill] = min(MaxXP, s.xp[skill]+amount)
	after := s.Level(skill)
	if after == before {
		return LevelUp{}, false
	}
	return LevelUp{Skill: skill, From: before, To: after}, true
}

// SetXP overwrites the experience of a skill, used when restoring saves.
func (s *Set) SetXP(skill Skill, xp int) {
	s.xp[skill] = max(0, min(MaxXP, xp))
}

// Snapshot returns a copy of all experience values keyed by skill name.
func (s *Set) Snapshot() map[string]int {
	out := make(map[string]int, len(s.xp))
	for k, v := range s.xp {
		out[string(k)] = v
	}
	return out
}
