package progression

import (
	"context"
	"math"

	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
)

// Action names, as stored in PlayerState.LastAction.
const (
	ActionAttendClass   = "attendClass"
	ActionSelfStudy     = "selfStudy"
	ActionClub          = "club"
	ActionVolunteer     = "volunteer"
	ActionPartTime      = "parttime"
	ActionCompetition   = "competition"
	ActionResearch      = "research"
	ActionBath          = "bath"
	ActionEat           = "eat"
	ActionEntertainment = "entertainment"
	ActionDate          = "date"
	ActionRest          = "rest"
	ActionRun           = "run"
	ActionThesis        = "thesis"
)

var rushAllowed = map[string]bool{
	ActionAttendClass: true,
	ActionSelfStudy:   true,
	ActionRest:        true,
	ActionBath:        true,
	ActionEat:         true,
}

// StudyMode selects how study effort is spread over the courses.
type StudyMode string

const (
	StudyAll     StudyMode = "all"
	StudyFocused StudyMode = "focused"
	StudyRetake  StudyMode = "retake"
)

type gainRates struct {
	all, focus, rest, retake float64
}

var (
	attendRates = gainRates{all: 3, focus: 8, rest: 1.5, retake: 10}
	studyRates  = gainRates{all: 5, focus: 11, rest: 1.5, retake: 15}
)

// perform runs one player action. An error from fn is returned as a
// rejection and the state is rolled back to before the call.
func (e *Engine) perform(ctx context.Context, action string, fn func() error) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.begin(action); err != nil {
		return nil, err
	}
	// Senior year only has the thesis loop.
	if e.st.ThesisMode && action != ActionThesis {
		return nil, reject(action, ErrNotAvailable)
	}
	if e.st.ExamRushMode && !rushAllowed[action] {
		return nil, reject(action, ErrRushModeLocked)
	}
	if err := e.attempt(fn); err != nil {
		return nil, reject(action, err)
	}
	e.st.LastAction = action
	e.st.ActionsThisTurn++
	e.normalize()
	e.stats().RecordSan(e.st.San)
	e.logger.Debug("action", "action", action, "year", e.st.Year, "month", e.st.Month)
	return e.finish(ctx), nil
}

// attempt runs fn against the live state and restores a snapshot when it
// fails.
func (e *Engine) attempt(fn func() error) error {
	snap := e.st.Clone()
	if err := fn(); err != nil {
		e.st = snap
		e.discard()
		return err
	}
	return nil
}

// spend deducts energy and money after checking both.
func (e *Engine) spend(energy, money int) error {
	if e.st.Energy < energy {
		return ErrInsufficientEnergy
	}
	if e.st.Money < money {
		return ErrInsufficientMoney
	}
	e.st.Energy -= energy
	e.st.Money -= money
	return nil
}

// difficultyFactor makes harder courses yield less mastery per effort.
func difficultyFactor(difficulty float64) float64 {
	return 1 - (difficulty-0.5)*0.3
}

func monthMultiplier(month int) float64 {
	if models.IsExamMonth(month) {
		return 4
	}
	return 2
}

func (e *Engine) checkStudyTarget(mode StudyMode, courseID string) error {
	st := e.st
	switch mode {
	case StudyAll, "":
		if len(st.CurrentCourses) == 0 {
			return ErrNoCourses
		}
	case StudyFocused:
		if len(st.CurrentCourses) == 0 {
			return ErrNoCourses
		}
		for _, c := range st.CurrentCourses {
			if c.ID == courseID {
				return nil
			}
		}
		return ErrUnknownChoice
	case StudyRetake:
		for _, c := range st.RetakeCourses {
			if c.ID == courseID {
				return nil
			}
		}
		if len(st.RetakeCourses) == 0 {
			return ErrNoCourses
		}
		return ErrUnknownChoice
	default:
		return ErrUnknownChoice
	}
	return nil
}

// consumeBoost returns the pending story boost and clears it.
func (e *Engine) consumeBoost() float64 {
	b := e.st.StudyBoost
	e.st.StudyBoost = 0
	if b <= 0 {
		return 1
	}
	return b
}

// gainMastery spreads a study gain according to mode.
func (e *Engine) gainMastery(mode StudyMode, courseID string, r gainRates, factor float64, inClass bool) {
	st := e.st
	mult := st.StudyEfficiency * monthMultiplier(st.Month) * factor
	logic := e.mods.Multiplier(catalog.ModLogicGrowth)

	add := func(c *models.Course, base float64) {
		g := base * mult * difficultyFactor(c.Difficulty)
		if c.Logic && logic > 1 {
			if inClass {
				g *= 0.5
			} else {
				g *= 1.5
				if e.rng.Float64() < 0.3 {
					g *= 1.5
				}
			}
		}
		c.AddMastery(g)
		if inClass {
			c.AttendCount++
		} else {
			c.StudyCount++
		}
	}

	switch mode {
	case StudyRetake:
		for i := range st.RetakeCourses {
			if st.RetakeCourses[i].ID == courseID {
				add(&st.RetakeCourses[i], r.retake)
			}
		}
	case StudyFocused:
		for i := range st.CurrentCourses {
			base := r.rest
			if st.CurrentCourses[i].ID == courseID {
				base = r.focus
			}
			add(&st.CurrentCourses[i], base)
		}
	default:
		for i := range st.CurrentCourses {
			add(&st.CurrentCourses[i], r.all)
		}
	}
}

// AttendClass goes to lectures. courseID names the focused or retake course
// and is ignored in StudyAll mode.
func (e *Engine) AttendClass(ctx context.Context, mode StudyMode, courseID string) (*Report, error) {
	return e.perform(ctx, ActionAttendClass, func() error {
		if err := e.checkStudyTarget(mode, courseID); err != nil {
			return err
		}
		cost := max(1, 2+int(e.mods.Number(catalog.ModAttendClassEnergy)))
		if err := e.spend(cost, 0); err != nil {
			return err
		}

		factor := e.consumeBoost()
		if p := e.mods.Number(catalog.ModLateChance); p > 0 {
			late := e.rng.Float64() < p
			e.stats().RecordLate(late)
			if late {
				factor *= 0.5
				e.logf("Late again. You slip in through the back door and miss half the lecture.")
			}
		}
		e.gainMastery(mode, courseID, attendRates, factor, true)
		e.stats().RecordAttendClass()
		e.logf("You sat through the lectures.")
		return nil
	})
}

// SelfStudy studies at a study location.
func (e *Engine) SelfStudy(ctx context.Context, locationID string, mode StudyMode, courseID string) (*Report, error) {
	return e.perform(ctx, ActionSelfStudy, func() error {
		st := e.st
		loc, ok := e.cat.StudyLocation(locationID)
		if !ok {
			return ErrUnknownChoice
		}
		if loc.College != "" && loc.College != st.College {
			return ErrNotAvailable
		}
		if loc.Requires != "" && !e.mods.Flag(loc.Requires) {
			return ErrNotAvailable
		}
		if err := e.checkStudyTarget(mode, courseID); err != nil {
			return err
		}
		cost := 3
		if st.HardCourseDebuff {
			cost = int(math.Ceil(3 * 1.2))
		}
		if err := e.spend(cost, 0); err != nil {
			return err
		}

		st.San -= loc.SanLoss
		if n := int(e.mods.Number(catalog.ModNightStudySanLoss)); n > 0 && models.IsExamMonth(st.Month) {
			st.San -= n
			e.stats().RecordMidnightStudy()
		}
		factor := orDefault(loc.MasteryBonus, 1) * e.consumeBoost()
		if loc.LostChance > 0 && e.rng.Float64() < loc.LostChance {
			factor *= 0.5
			st.San -= 3
			e.stats().RecordMainBuildingLost()
			e.logf("You got lost in %s and spent an hour looking for the classroom.", loc.Name)
			e.trigger(achievement.ActionContext{Event: "mainBuildingLost"})
		}
		e.gainMastery(mode, courseID, studyRates, factor, false)

		e.stats().RecordVisitLocation(loc.ID)
		if loc.Special {
			e.stats().RecordSpecialBuilding(loc.ID)
		}
		switch loc.ID {
		case "pinge":
			e.stats().RecordPingeStudy()
		case "dong13":
			e.stats().RecordDong13Study()
			if e.rng.Float64() < 0.1 {
				e.unlock("dong13Legend")
			}
		case "starspace":
			e.stats().RecordStarspaceStudy()
		}
		if st.CareerPath == models.CareerAbroad {
			st.Career.Toefl = min(120, st.Career.Toefl+2)
			st.Career.Gre = min(100, st.Career.Gre+1)
		}
		e.logf("You studied at %s.", loc.Name)
		e.trigger(achievement.ActionContext{Action: achievement.ActionSelfStudy, Target: loc.ID})
		return nil
	})
}

// Research works in a lab. It opens in the second year.
func (e *Engine) Research(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionResearch, func() error {
		st := e.st
		if st.Year < 2 {
			return ErrNotAvailable
		}
		cost := 3
		if st.InnovationPort {
			cost = int(math.Ceil(3 * 1.5))
		}
		if err := e.spend(cost, 0); err != nil {
			return err
		}
		st.San -= 3
		st.ResearchExp++
		if st.CareerPath == models.CareerPostgrad {
			if st.ResearchExp >= 5 && !st.Career.Advisor {
				st.Career.Advisor = true
				e.logf("A professor agrees to take you as a graduate student.")
			}
			st.Career.Dachuang = math.Min(1, st.Career.Dachuang+0.1)
		}

		switch {
		case st.ResearchExp >= 10 && e.rng.Float64() < 0.2:
			st.Papers++
			st.Social += 20
			e.post("Undergraduate publishes a paper", true)
			e.logf("Your paper was accepted!")
		case st.ResearchExp >= 5 && e.rng.Float64() < 0.3:
			st.Social += 5
			e.logf("Your experiment finally worked.")
		default:
			e.logf("Another long day in the lab.")
		}
		return nil
	})
}
