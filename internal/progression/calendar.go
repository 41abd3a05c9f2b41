package progression

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/flavor"
	"github.com/tatianab/xjtu-sim/internal/models"
)

const (
	pendingStory  = "story"
	pendingFlavor = "flavor"

	innovationPort = "innovationPort"
)

// NextTurn ends the month. It settles the month, resolves at most one
// event and advances the calendar. When the event needs a choice the
// advance waits for Choose.
func (e *Engine) NextTurn(ctx context.Context) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.begin("nextTurn"); err != nil {
		return nil, err
	}
	e.settleMonth()
	if e.resolveTurnEvent(ctx) {
		return e.finish(ctx), nil
	}
	e.advance()
	return e.finish(ctx), nil
}

// Choose answers the pending event and completes the advance.
func (e *Engine) Choose(ctx context.Context, option int) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.st
	switch {
	case st == nil:
		return nil, reject("choose", ErrNoGame)
	case st.GameOver:
		return nil, reject("choose", ErrGameOver)
	case st.Pending == nil:
		return nil, reject("choose", ErrNotAvailable)
	}
	p := st.Pending
	if option < 0 || option >= len(p.Options) {
		return nil, reject("choose", ErrUnknownChoice)
	}

	switch p.Source {
	case pendingFlavor:
		st.Pending = nil
		e.apply(p.FlavorDelta)
		e.logf("%s", p.Text)
		if p.FlavorAchievement != "" {
			e.unlock(p.FlavorAchievement)
		}
	default:
		ev, ok := e.events.Story(p.EventID)
		if !ok {
			e.logger.Warn("pending event missing from catalog", "event_id", p.EventID)
			st.Pending = nil
			break
		}
		out, err := e.events.Resolve(ev, option)
		if err != nil {
			return nil, reject("choose", ErrUnknownChoice)
		}
		st.Pending = nil
		e.applyOutcome(out)
	}
	e.advance()
	return e.finish(ctx), nil
}

// settleMonth applies the month-end bookkeeping before the event roll.
func (e *Engine) settleMonth() {
	st := e.st
	exhausted := st.Energy <= 0
	e.stats().RecordExhaustion(exhausted)
	if exhausted && st.ActionsThisTurn >= 3 {
		e.stats().RecordFullDay()
	}

	eff := e.mods.Multiplier(catalog.ModMoneyEfficiency)
	allowance := int(math.Floor(float64(st.MonthlyMoney) * eff))
	st.Money += allowance
	if eff > 1 {
		e.stats().RecordEarnings(allowance)
	}

	if models.IsExamMonth(st.Month) {
		st.San -= 10
	}
	if e.mods.Multiplier(catalog.ModSummerSanMultiplier) > 1 && st.Month >= 6 && st.Month <= 8 {
		st.San -= 2
		e.logf("The summer heat in the dorm is brutal.")
	}
	if required := int(e.mods.Number(catalog.ModVolunteerRequired)); required > 0 && st.Month == 8 && st.VolunteerYear < required {
		st.Social -= 30
		e.logf("You missed the volunteer hours required by the college this year.")
	}
	if e.mods.Number(catalog.ModNightStudySanLoss) > 0 && models.IsExamMonth(st.Month) && e.rng.Float64() < 0.5 {
		st.Charm -= 5
		e.logf("The exam season cost you some hair.")
	}
	e.normalize()
}

// resolveTurnEvent picks the event of the turn: a flavor event, then a
// story event, then an ambient event. It reports whether a choice is now
// pending.
func (e *Engine) resolveTurnEvent(ctx context.Context) bool {
	st := e.st
	if e.flavor != nil && e.rng.Float64() < e.flavorChance {
		res, err := e.fetchFlavor(ctx)
		if err == nil {
			st.Pending = &models.PendingEvent{
				Source:            pendingFlavor,
				EventID:           "flavor-" + uuid.NewString(),
				Title:             "Campus moment",
				Text:              res.Text,
				Options:           []string{"Carry on"},
				FlavorDelta:       res.Delta,
				FlavorAchievement: res.Achievement,
			}
			return true
		}
		e.logger.Warn("flavor event failed, using local events", "error", err)
	}

	if ev, ok := e.events.RollStory(st); ok {
		options := make([]string, len(ev.Options))
		for i, opt := range ev.Options {
			options[i] = opt.Text
		}
		st.Pending = &models.PendingEvent{
			Source:  pendingStory,
			EventID: ev.ID,
			Title:   ev.Title,
			Text:    ev.Text,
			Options: options,
		}
		e.logger.Debug("story event", "event_id", ev.ID)
		return true
	}

	if out, ok := e.events.RollAmbient(st, e.mods.Flag(catalog.ModSickImmunity)); ok {
		e.applyOutcome(out)
	}
	return false
}

func (e *Engine) fetchFlavor(ctx context.Context) (*flavor.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.flavorTimeout)
	defer cancel()
	return e.flavor.Generate(ctx, flavor.Summarize(e.st, e.college.Name))
}

// advance moves the calendar one month and starts the next turn.
func (e *Engine) advance() {
	st := e.st
	e.advanceMonth()
	if st.GameOver {
		return
	}
	st.ActionsThisTurn = 0
	if st.InRelationship {
		st.San++
		st.Money -= 50
	}
	e.normalize()
	e.stats().RecordSan(st.San)
	e.checkGameOver()
}

func (e *Engine) advanceMonth() {
	st := e.st
	st.Month++
	st.TotalMonths++
	e.decay()
	if st.Month > 12 {
		st.Month = 1
	}
	st.Energy = st.MaxEnergy
	st.WinterBreakOpen = false
	st.ExamRushOffered = false
	e.logf("Year %d, month %d.", st.Year, st.Month)

	switch st.Month {
	case 2:
		e.resolveMakeups()
		if !st.ThesisMode {
			e.loadCourses()
		}
		e.valentine()
		if st.Year == 3 && st.CareerPath == models.CareerNone {
			e.logf("Time to think about life after graduation. Pick a career path.")
		}
	case 7:
		e.summerTerm()
	case 9:
		e.resolveMakeups()
		e.startYear()
		if st.GameOver {
			return
		}
	case 12:
		if st.Year <= 3 {
			st.WinterBreakOpen = true
			e.logf("Winter break is coming. Decide how to spend it.")
		}
	}

	if st.Month == 5 || st.Month == 10 {
		e.physicalTest()
	}
	if models.IsExamMonth(st.Month) {
		e.resolveExams()
		if st.GameOver {
			return
		}
	}
	if (st.Month == 5 || st.Month == 11) && len(st.CurrentCourses) > 0 {
		st.ExamRushOffered = true
		e.logf("Exams are next month. You can switch to exam rush mode.")
	}
}

func (e *Engine) valentine() {
	st := e.st
	if st.InRelationship {
		st.San += 10
		e.logf("Valentine's Day with your partner.")
		return
	}
	st.San -= 10
	e.post("Another Valentine's Day alone in the library", false)
	e.logf("Valentine's Day alone.")
	e.trigger(achievement.ActionContext{Event: "valentineSingle"})
}

// summerTerm runs the one-shot summer practice course and skips July.
func (e *Engine) summerTerm() {
	st := e.st
	if sc, ok := e.cat.SummerCourse(st.Year); ok {
		san := sc.San
		if m := e.mods.Multiplier(catalog.ModSummerSanMultiplier); m > 1 {
			san = int(math.Floor(float64(san) / m))
			e.stats().RecordPengkangTaichi()
		}
		st.San -= san
		st.Energy -= sc.Energy
		st.PracticeCredits += sc.Credits
		e.logf("Summer term: %s completed, %d practice credits.", sc.Name, sc.Credits)
	}
	st.Month = 8
}

func (e *Engine) startYear() {
	st := e.st
	st.ExamRushMode = false
	st.Year++
	st.VolunteerYear = 0
	st.HardCourseDebuff = false
	st.BiddingOpen = false

	switch {
	case st.Year > 4:
		if st.ThesisProgress >= 100 {
			e.endGame(models.EndingNone)
			return
		}
		e.logf("The thesis deadline has passed without a finished thesis.")
		e.endGame(models.EndingDropout)
	case st.Year == 4:
		st.InnovationPort = true
		st.ThesisMode = true
		st.Campus = innovationPort
		e.stats().RecordVisitCampus(innovationPort)
		e.logf("Senior year. Everyone moves to the Innovation Port to work on the thesis.")
	default:
		e.loadCourses()
		st.BiddingOpen = true
		e.logf("A new academic year begins. Course bidding is open.")
	}
}

func (e *Engine) physicalTest() {
	st := e.st
	if st.MaxEnergy >= 12 && st.RunsThisMonth >= 3 {
		e.logf("You passed the physical test.")
	} else {
		st.Social -= 5
		st.San -= 10
		e.logf("You failed the physical test.")
		e.trigger(achievement.ActionContext{Event: "physicalTestFail"})
	}
	st.RunsThisMonth = 0
}

// checkGameOver ends the game on a terminal condition.
func (e *Engine) checkGameOver() bool {
	st := e.st
	if st.GameOver {
		return true
	}
	switch {
	case st.San <= 0:
		e.logf("Your sanity gave out.")
		e.endGame(models.EndingDropout)
	case st.FailedCourses > maxFailedCourses:
		e.logf("Too many failed courses to graduate.")
		e.endGame(models.EndingDropout)
	default:
		return false
	}
	return true
}

// Classify maps a final state to its ending, checked in priority order.
func Classify(st *models.PlayerState) models.Ending {
	switch {
	case st.GPA >= 4.0 && st.Social >= 95 && st.NationalScholarship:
		return models.EndingExcellent
	case st.WestwardPath:
		return models.EndingWestward
	case st.GPA >= 3.5 && st.Social >= 80:
		return models.EndingPostgraduate
	case st.GPA >= 2.0:
		return models.EndingNormal
	}
	return models.EndingDropout
}

// endGame ends the playthrough. EndingNone classifies the current state.
func (e *Engine) endGame(ending models.Ending) {
	st := e.st
	if st.GameOver {
		return
	}
	if ending == models.EndingNone {
		ending = Classify(st)
	}
	st.GameOver = true
	st.Ending = ending
	st.Pending = nil
	if ending != models.EndingDropout {
		e.unlock("graduation")
	}
	e.logf("The end: %s.", ending)
	e.logger.Info("game over", "playthrough_id", st.PlaythroughID, "ending", string(ending), "year", st.Year, "month", st.Month)
}
