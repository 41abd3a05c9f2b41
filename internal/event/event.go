// Package event selects and resolves ambient and monthly story events.
//
// Resolution never touches player state directly. It returns an Outcome that
// the progression engine applies.
package event

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/random"
)

// Outcome is the declarative result of a resolved event.
type Outcome struct {
	EventID            string
	Title              string
	Message            string
	Delta              models.Delta
	FirstCourseMastery float64
	Achievements       []string
	Records            []RecordCall
	Flags              []catalog.Flag
	StudyBoost         float64
	ExamBonus          float64
}

type RecordCall struct {
	Record catalog.Record
	Amount int
}

// Engine holds the event catalogs and the set of once-events already seen in
// the current playthrough.
type Engine struct {
	ambient     []catalog.AmbientEvent
	quickHeal   catalog.AmbientEvent
	stories     []catalog.StoryEvent
	storyChance float64
	triggered   map[string]bool
	rng         random.Source
	logger      *slog.Logger
}

func NewEngine(cat *catalog.Catalog, rng random.Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ambient:     cat.Ambient,
		quickHeal:   cat.QuickHeal,
		stories:     cat.Stories,
		storyChance: cat.Settings.StoryChance,
		triggered:   map[string]bool{},
		rng:         rng,
		logger:      logger,
	}
}

// RollAmbient walks the ambient catalog in order and fires the first event
// whose condition holds and whose probability draw succeeds. A sickness event
// is replaced by the quick recovery event when sickImmune is set.
func (e *Engine) RollAmbient(state *models.PlayerState, sickImmune bool) (Outcome, bool) {
	for _, ev := range e.ambient {
		if !conditionHolds(ev.When, state) {
			continue
		}
		if e.rng.Float64() >= ev.Probability {
			continue
		}
		if ev.Sickness && sickImmune && e.quickHeal.ID != "" {
			e.logger.Debug("ambient event substituted", "event_id", ev.ID, "with", e.quickHeal.ID)
			ev = e.quickHeal
		}
		return ambientOutcome(ev), true
	}
	return Outcome{}, false
}

func ambientOutcome(ev catalog.AmbientEvent) Outcome {
	out := Outcome{
		EventID:            ev.ID,
		Title:              ev.Title,
		Message:            ev.Text,
		Delta:              ev.Effects,
		FirstCourseMastery: ev.FirstCourseMastery,
	}
	if ev.Achievement != "" {
		out.Achievements = append(out.Achievements, ev.Achievement)
	}
	if ev.Record != "" {
		out.Records = append(out.Records, RecordCall{Record: ev.Record, Amount: ev.RecordAmount})
	}
	return out
}

func conditionHolds(c catalog.Condition, st *models.PlayerState) bool {
	if !catalog.InMonth(c.Months, st.Month) {
		return false
	}
	if !catalog.InMonth(c.Years, st.Year) {
		return false
	}
	if c.Campus != "" && c.Campus != st.Campus {
		return false
	}
	if c.ExamSeason && !models.IsExamSeason(st.Month) {
		return false
	}
	if c.NightOnly && st.LastAction != "selfStudy" && st.LastAction != "research" {
		return false
	}
	if c.AfterClass && st.LastAction != "attendClass" {
		return false
	}
	if c.InRelationship && !st.InRelationship {
		return false
	}
	if st.Charm < c.MinCharm {
		return false
	}
	return true
}

// Eligible lists the story events that may fire this month.
func (e *Engine) Eligible(state *models.PlayerState) []catalog.StoryEvent {
	var out []catalog.StoryEvent
	for _, ev := range e.stories {
		if ev.Once && e.triggered[ev.ID] {
			continue
		}
		if !catalog.InMonth(ev.Months, state.Month) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// RollStory applies the monthly trigger chance and then picks one eligible
// event by weight.
func (e *Engine) RollStory(state *models.PlayerState) (catalog.StoryEvent, bool) {
	if e.rng.Float64() >= e.storyChance {
		return catalog.StoryEvent{}, false
	}
	candidates := e.Eligible(state)
	if len(candidates) == 0 {
		return catalog.StoryEvent{}, false
	}
	return e.pick(candidates, state.College), true
}

func (e *Engine) pick(candidates []catalog.StoryEvent, college string) catalog.StoryEvent {
	total := 0.0
	for _, ev := range candidates {
		total += ev.EffectiveWeight(college)
	}
	r := e.rng.Float64() * total
	for _, ev := range candidates {
		r -= ev.EffectiveWeight(college)
		if r <= 0 {
			return ev
		}
	}
	return candidates[len(candidates)-1]
}

func (e *Engine) Story(id string) (catalog.StoryEvent, bool) {
	for _, ev := range e.stories {
		if ev.ID == id {
			return ev, true
		}
	}
	return catalog.StoryEvent{}, false
}

// Resolve applies option index of ev. A chance special draws once to pick
// its success or failure branch.
func (e *Engine) Resolve(ev catalog.StoryEvent, option int) (Outcome, error) {
	if option < 0 || option >= len(ev.Options) {
		return Outcome{}, fmt.Errorf("event %s: option %d out of range", ev.ID, option)
	}
	opt := ev.Options[option]
	out := Outcome{
		EventID: ev.ID,
		Title:   ev.Title,
		Message: opt.Message,
		Delta:   opt.Effects,
	}
	if opt.Achievement != "" {
		out.Achievements = append(out.Achievements, opt.Achievement)
	}
	if opt.Record != "" {
		out.Records = append(out.Records, RecordCall{Record: opt.Record, Amount: 1})
	}

	switch sp := opt.Special.(type) {
	case nil:
	case catalog.ChanceSpecial:
		branch := sp.Failure
		if e.rng.Float64() < sp.Probability {
			branch = sp.Success
		}
		out.Delta = out.Delta.Add(branch.Effects)
		if branch.Message != "" {
			out.Message = joinMessage(out.Message, branch.Message)
		}
		if branch.Achievement != "" {
			out.Achievements = append(out.Achievements, branch.Achievement)
		}
		if branch.Flag != "" {
			out.Flags = append(out.Flags, branch.Flag)
		}
	case catalog.MasterySpecial:
		out.Delta.Mastery += sp.Amount
	case catalog.StudyBoostSpecial:
		out.StudyBoost = sp.Multiplier
	case catalog.ExamBonusSpecial:
		out.ExamBonus = sp.Amount
	default:
		return Outcome{}, fmt.Errorf("event %s: unhandled special %T", ev.ID, sp)
	}

	if ev.Once {
		e.MarkTriggered(ev.ID)
	}
	return out, nil
}

func joinMessage(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func (e *Engine) MarkTriggered(id string) {
	e.triggered[id] = true
}

// Triggered returns the once-event ids seen so far, sorted.
func (e *Engine) Triggered() []string {
	out := make([]string, 0, len(e.triggered))
	for id := range e.triggered {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Restore replaces the triggered set, for example when a save is loaded or a
// new playthrough starts.
func (e *Engine) Restore(ids []string) {
	e.triggered = make(map[string]bool, len(ids))
	for _, id := range ids {
		e.triggered[id] = true
	}
}
