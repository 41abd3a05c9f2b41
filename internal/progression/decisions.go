package progression

import (
	"context"

	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/models"
)

// thesisDecisions stay open during the senior year thesis loop.
var thesisDecisions = map[string]bool{
	"chooseCareer":             true,
	achievement.ActionWestward: true,
}

// decide runs a one-off choice. Choices are not actions: they ignore exam
// rush and do not count toward the turn.
func (e *Engine) decide(ctx context.Context, name string, fn func() error) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.begin(name); err != nil {
		return nil, err
	}
	if e.st.ThesisMode && !thesisDecisions[name] {
		return nil, reject(name, ErrNotAvailable)
	}
	if err := e.attempt(fn); err != nil {
		return nil, reject(name, err)
	}
	return e.finish(ctx), nil
}

// WinterBreak picks the winter break activity. It is offered in December of
// the first three years.
func (e *Engine) WinterBreak(ctx context.Context, activityID string) (*Report, error) {
	return e.decide(ctx, achievement.ActionWinterBreak, func() error {
		st := e.st
		if !st.WinterBreakOpen {
			return ErrNotAvailable
		}
		act, ok := e.cat.WinterActivity(activityID)
		if !ok {
			return ErrUnknownChoice
		}
		if st.Year < act.MinYear {
			return ErrNotAvailable
		}
		d := act.EffectsFor(st.College)
		if st.Money < act.MinMoney || st.Money+d.Money < 0 {
			return ErrInsufficientMoney
		}
		st.WinterBreakOpen = false
		e.apply(d)
		e.logf("Winter break: %s.", act.Name)
		e.trigger(achievement.ActionContext{Action: achievement.ActionWinterBreak, Target: act.ID})
		return nil
	})
}

// Bids splits 100 bidding points over the course kinds.
type Bids struct {
	Hard     int
	Interest int
	Easy     int
}

// BidCourses places the yearly course bids.
func (e *Engine) BidCourses(ctx context.Context, b Bids) (*Report, error) {
	return e.decide(ctx, "bidCourses", func() error {
		st := e.st
		if !st.BiddingOpen {
			return ErrNotAvailable
		}
		if b.Hard < 0 || b.Interest < 0 || b.Easy < 0 || b.Hard+b.Interest+b.Easy != 100 {
			return ErrUnknownChoice
		}
		st.BiddingOpen = false
		switch {
		case b.Hard >= 50:
			st.HardCourseDebuff = true
			e.logf("You won seats in the hardest courses. Self-study will be more tiring this year.")
		case b.Interest >= 50:
			st.San += 5
			e.logf("You got into the courses you actually like.")
		case b.Easy >= 50:
			e.logf("An easy schedule this year.")
		default:
			e.logf("A balanced schedule this year.")
		}
		return nil
	})
}

// ChooseCareer commits to a career path from the spring of the third year.
func (e *Engine) ChooseCareer(ctx context.Context, path models.CareerPath) (*Report, error) {
	return e.decide(ctx, "chooseCareer", func() error {
		st := e.st
		if st.CareerPath != models.CareerNone {
			return ErrNotAvailable
		}
		if st.Year < 3 || (st.Year == 3 && st.Semester() == models.SemesterFall) {
			return ErrNotAvailable
		}
		switch path {
		case models.CareerPostgrad:
			e.logf("You will aim for graduate school. Find an advisor.")
		case models.CareerAbroad:
			e.logf("You will apply abroad. Start on the language tests.")
		case models.CareerJob:
			e.logf("You will look for a job. Internships first.")
		default:
			return ErrUnknownChoice
		}
		st.CareerPath = path
		st.Career = models.CareerProgress{}
		return nil
	})
}

// CommitWestward signs the westward service pledge.
func (e *Engine) CommitWestward(ctx context.Context) (*Report, error) {
	return e.decide(ctx, achievement.ActionWestward, func() error {
		st := e.st
		if st.WestwardPath || st.Year < 3 || st.Reputation < 60 {
			return ErrNotAvailable
		}
		st.WestwardPath = true
		e.post("Student pledges to serve in the west after graduation", true)
		e.logf("You signed the westward pledge.")
		e.trigger(achievement.ActionContext{Action: achievement.ActionWestward})
		return nil
	})
}

// EnterExamRush locks the month to study and rest until the exams.
func (e *Engine) EnterExamRush(ctx context.Context) (*Report, error) {
	return e.decide(ctx, "examRush", func() error {
		st := e.st
		if !st.ExamRushOffered || st.ExamRushMode {
			return ErrNotAvailable
		}
		st.ExamRushMode = true
		e.logf("Exam rush mode: only studying, resting, eating and bathing until the exams.")
		return nil
	})
}

// ThesisTask is one action of the senior year thesis loop.
type ThesisTask string

const (
	ThesisWork    ThesisTask = "work"
	ThesisMeeting ThesisTask = "meeting"
	ThesisRest    ThesisTask = "rest"
	ThesisCity    ThesisTask = "city"
)

type thesisCost struct {
	energy, money, progress, san int
	line                         string
}

var thesisTasks = map[ThesisTask]thesisCost{
	ThesisWork:    {energy: 3, progress: 10, san: -5, line: "A long day on the thesis."},
	ThesisMeeting: {energy: 2, progress: 5, san: -3, line: "Your advisor had a few suggestions."},
	ThesisRest:    {energy: 1, money: 50, san: 10, line: "A quiet break at the Innovation Port."},
	ThesisCity:    {energy: 1, money: 80, san: 15, line: "The long bus ride into the city was worth it."},
}

// Thesis works on the senior thesis. A finished thesis ends the game.
func (e *Engine) Thesis(ctx context.Context, task ThesisTask) (*Report, error) {
	return e.perform(ctx, ActionThesis, func() error {
		st := e.st
		if !st.ThesisMode {
			return ErrNotAvailable
		}
		t, ok := thesisTasks[task]
		if !ok {
			return ErrUnknownChoice
		}
		if err := e.spend(t.energy, t.money); err != nil {
			return err
		}
		st.ThesisProgress = min(100, st.ThesisProgress+t.progress)
		st.San += t.san
		e.logf("%s Thesis progress %d%%.", t.line, st.ThesisProgress)
		e.normalize()

		switch {
		case st.San <= 0:
			e.endGame(models.EndingDropout)
		case st.ThesisProgress >= 100:
			e.logf("Your thesis is done and defended.")
			e.endGame(models.EndingNone)
		}
		return nil
	})
}
