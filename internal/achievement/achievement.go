// Package achievement tracks unlockable achievements and the statistics they
// are checked against.
package achievement

import (
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
)

// Achievement is one unlockable goal. Unlocked never goes back to false.
type Achievement struct {
	catalog.AchievementDef
	Unlocked bool
}

type entry struct {
	Achievement
	check Predicate
}

// Engine owns the achievement set and the statistics record.
type Engine struct {
	list     []*entry
	byID     map[string]*entry
	stats    *Stats
	triggers []Trigger
}

// NewEngine builds the achievement set from the catalog copy. Conditions for
// ids missing from the catalog are dropped.
func NewEngine(cat *catalog.Catalog) *Engine {
	e := &Engine{
		byID:     map[string]*entry{},
		stats:    NewStats(),
		triggers: defaultTriggers,
	}
	for _, def := range cat.Achievements {
		en := &entry{Achievement: Achievement{AchievementDef: def}}
		e.list = append(e.list, en)
		e.byID[def.ID] = en
	}
	for _, r := range rules {
		if en, ok := e.byID[r.id]; ok {
			en.check = r.check
		}
	}
	return e
}

func (e *Engine) Stats() *Stats {
	return e.stats
}

// Restore loads persisted unlocks and statistics. Unknown ids are ignored and
// a nil stats record resets to defaults.
func (e *Engine) Restore(unlocked map[string]bool, stats *Stats) {
	for id, ok := range unlocked {
		if en, found := e.byID[id]; found && ok {
			en.Unlocked = true
		}
	}
	if stats == nil {
		stats = NewStats()
	}
	stats.ensureSets()
	e.stats = stats
}

// Check unlocks every locked achievement whose condition holds and returns
// the newly unlocked ones.
func (e *Engine) Check(state *models.PlayerState) []Achievement {
	var unlocked []Achievement
	for _, en := range e.list {
		if en.Unlocked || en.check == nil {
			continue
		}
		if en.check(e.stats, state) {
			en.Unlocked = true
			unlocked = append(unlocked, en.Achievement)
		}
	}
	return unlocked
}

// Unlock unlocks id directly. It reports false for unknown or already
// unlocked ids.
func (e *Engine) Unlock(id string) (Achievement, bool) {
	en, ok := e.byID[id]
	if !ok || en.Unlocked {
		return Achievement{}, false
	}
	en.Unlocked = true
	return en.Achievement, true
}

// Evaluate runs the trigger table against an action context.
func (e *Engine) Evaluate(ctx ActionContext) []Achievement {
	var unlocked []Achievement
	for _, t := range e.triggers {
		if !t.When(ctx) {
			continue
		}
		if a, ok := e.Unlock(t.Achievement); ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

func (e *Engine) Get(id string) (Achievement, bool) {
	en, ok := e.byID[id]
	if !ok {
		return Achievement{}, false
	}
	return en.Achievement, true
}

// All returns the achievements in catalog order.
func (e *Engine) All() []Achievement {
	out := make([]Achievement, len(e.list))
	for i, en := range e.list {
		out[i] = en.Achievement
	}
	return out
}

// UnlockedMap is the persisted form of the unlock state.
func (e *Engine) UnlockedMap() map[string]bool {
	out := make(map[string]bool, len(e.list))
	for _, en := range e.list {
		if en.Unlocked {
			out[en.ID] = true
		}
	}
	return out
}

func (e *Engine) Count() (unlocked, total int) {
	for _, en := range e.list {
		if en.Unlocked {
			unlocked++
		}
	}
	return unlocked, len(e.list)
}
