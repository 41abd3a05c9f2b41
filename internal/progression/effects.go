package progression

import (
	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/event"
	"github.com/tatianab/xjtu-sim/internal/models"
)

// apply adds a declarative delta to the player. Mastery goes to every
// current course.
func (e *Engine) apply(d models.Delta) {
	st := e.st
	if d.GPA != 0 {
		st.AdjustGPA(d.GPA, e.unlimitedGPA())
	}
	st.San += d.San
	st.MaxEnergy += d.MaxEnergy
	st.Energy += d.Energy
	st.Social += d.Social
	st.Money += d.Money
	st.Charm += d.Charm
	st.Reputation += d.Reputation
	st.ResearchExp += d.ResearchExp
	st.StudyEfficiency += d.StudyEfficiency
	if d.Mastery != 0 {
		for i := range st.CurrentCourses {
			st.CurrentCourses[i].AddMastery(d.Mastery)
		}
	}
	e.normalize()
}

// applyOutcome is the single interpreter for resolved events.
func (e *Engine) applyOutcome(out event.Outcome) {
	st := e.st
	e.apply(out.Delta)
	if out.FirstCourseMastery != 0 && len(st.CurrentCourses) > 0 {
		st.CurrentCourses[0].AddMastery(out.FirstCourseMastery)
	}
	for _, r := range out.Records {
		e.stats().Record(r.Record, r.Amount, e.monthKey())
		if r.Record == catalog.RecordBreakup {
			e.endRelationship()
		}
	}
	for _, f := range out.Flags {
		switch f {
		case catalog.FlagLoveInterest:
			if !st.InRelationship {
				st.RelationshipStage = models.StageCrush
			}
		case catalog.FlagBreakup:
			if st.InRelationship {
				e.stats().RecordBreakup()
				e.endRelationship()
			}
		}
	}
	if out.StudyBoost > 0 {
		st.StudyBoost = out.StudyBoost
	}
	st.ExamBonus += out.ExamBonus

	switch {
	case out.Title != "" && out.Message != "":
		e.logf("%s: %s", out.Title, out.Message)
	case out.Title != "":
		e.logf("%s", out.Title)
	case out.Message != "":
		e.logf("%s", out.Message)
	}
	for _, id := range out.Achievements {
		e.unlock(id)
	}
	e.trigger(achievement.ActionContext{Event: out.EventID})
	e.logger.Debug("event applied", "event_id", out.EventID, "year", st.Year, "month", st.Month)
}

func (e *Engine) endRelationship() {
	if !e.st.InRelationship {
		return
	}
	e.st.InRelationship = false
	e.st.RelationshipStage = models.StageBrokeUp
}

// post adds a campus BBS post. Praise lifts reputation; gossip costs more
// and counts as a scandal.
func (e *Engine) post(text string, positive bool) {
	st := e.st
	prefix := "[praise] "
	if positive {
		st.Reputation += 5
	} else {
		prefix = "[gossip] "
		st.Reputation -= 10
		st.Scandals++
	}
	st.Reputation = models.ClampInt(st.Reputation, 0, 100)
	st.BBS = append([]string{prefix + text}, st.BBS...)
	if limit := e.cat.Settings.BBSLimit; limit > 0 && len(st.BBS) > limit {
		st.BBS = st.BBS[:limit]
	}
}

var loveRules = map[string]func(st *models.PlayerState) bool{
	"qianxuesen": func(st *models.PlayerState) bool {
		return (st.GPA >= 3.5 && st.CompetitionWins >= 1) || st.ResearchExp >= 10
	},
	"nanyang": func(st *models.PlayerState) bool {
		return (st.Reputation >= 50 && st.PartTimeCount >= 5) || st.Social >= 70
	},
	"pengkang": func(st *models.PlayerState) bool {
		return (st.MaxEnergy >= 12 && st.RunCount >= 15) || (st.Reputation >= 60 && st.VolunteerHours >= 3)
	},
	"wenzhi": func(st *models.PlayerState) bool {
		return (st.ClubCount >= 10 && st.Reputation >= 55) || (st.San >= 85 && st.Social >= 75)
	},
	"zhongying": func(st *models.PlayerState) bool {
		return (st.VolunteerYear >= 20 && st.Reputation >= 65) || st.Social >= 80
	},
	"lizhi": func(st *models.PlayerState) bool {
		return (st.CompetitionWins >= 2 && st.GPA >= 3.4) || st.Papers >= 1
	},
	"chongshi": func(st *models.PlayerState) bool {
		return (st.ClubCount >= 8 && st.Reputation >= 50) ||
			(st.Social >= 65 && st.ClubCount+st.PartTimeCount+st.CompetitionCount >= 15)
	},
	"zonglian": func(st *models.PlayerState) bool {
		return (st.GPA >= 3.3 && st.VolunteerHours >= 5) || (st.Reputation >= 70 && st.Social >= 70)
	},
	"qide": func(st *models.PlayerState) bool {
		return (st.Money >= 5000 && st.Reputation >= 60) || (st.PartTimeCount >= 15 && st.Social >= 70)
	},
}

// loveOpen reports whether dating is available. Colleges without a rule
// are always open.
func (e *Engine) loveOpen() bool {
	if e.st.LoveUnlocked {
		return true
	}
	rule, ok := loveRules[e.st.College]
	return !ok || rule(e.st)
}

func (e *Engine) checkLove() {
	if e.st.LoveUnlocked || e.st.GameOver {
		return
	}
	if e.loveOpen() {
		e.st.LoveUnlocked = true
		e.logf("Someone has caught your eye. Dating is now possible.")
	}
}
