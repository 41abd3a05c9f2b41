package progression

import (
	"context"
	"math"

	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
)

const (
	costVolunteer     = 2
	costPartTime      = 4
	costCompetition   = 4
	costBath          = 1
	costEntertainment = 1
	costDate          = 2
	costRest          = 1
	costRun           = 1
)

func (e *Engine) Club(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionClub, func() error {
		st := e.st
		cost := max(1, 2+int(e.mods.Number(catalog.ModSocialEnergyCost)))
		if err := e.spend(cost, 0); err != nil {
			return err
		}
		st.San += 3
		st.Social += int(math.Round(5 * st.SocialEfficiency))
		st.ClubCount++
		e.logf("The club meeting ran late, but everyone had fun.")
		return nil
	})
}

func (e *Engine) Volunteer(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionVolunteer, func() error {
		st := e.st
		if err := e.spend(costVolunteer, 0); err != nil {
			return err
		}
		gain := 8 * st.SocialEfficiency * e.mods.Multiplier(catalog.ModVolunteerEfficiency)
		st.Social += int(math.Round(gain))
		st.VolunteerHours++
		st.VolunteerYear++
		e.logf("You volunteered for a few hours.")
		if e.rng.Float64() < 0.15 {
			st.San += 5
			st.Social += 3
			e.logf("Someone you helped came back to thank you.")
		}
		return nil
	})
}

func (e *Engine) PartTime(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionPartTime, func() error {
		st := e.st
		if err := e.spend(costPartTime, 0); err != nil {
			return err
		}
		base := 60 + e.rng.Intn(80)
		income := int(math.Floor(float64(base) * e.mods.Multiplier(catalog.ModMoneyEfficiency)))
		st.Money += income
		st.San -= 3
		st.PartTimeCount++
		e.stats().RecordPartTimeEarning(income)
		e.stats().RecordEarnings(income)
		e.logf("A part-time shift paid %d yuan.", income)

		if st.CareerPath == models.CareerJob {
			st.Career.Internship = math.Min(3, st.Career.Internship+0.3)
			st.Career.Interview = min(100, st.Career.Interview+5)
			if !st.Career.Offer && st.Career.Internship >= 3 && st.Career.Interview >= 80 {
				st.Career.Offer = true
				e.post("Senior lands a job offer", true)
				e.logf("You received a job offer!")
			}
		}
		return nil
	})
}

func winChance(difficulty string, gpa float64) float64 {
	base := 0.3
	switch difficulty {
	case "easy":
		base = 0.5
	case "hard":
		base = 0.2
	}
	return models.ClampFloat(base+(gpa-3)*0.1, 0.1, 0.8)
}

// Competition enters a contest from the catalog.
func (e *Engine) Competition(ctx context.Context, id string) (*Report, error) {
	return e.perform(ctx, ActionCompetition, func() error {
		st := e.st
		comp, ok := e.cat.Competition(id)
		if !ok {
			return ErrUnknownChoice
		}
		if err := e.spend(costCompetition, 0); err != nil {
			return err
		}
		st.San += comp.San
		st.CompetitionCount++
		if e.rng.Float64() >= winChance(comp.Difficulty, st.GPA) {
			st.Social += 2
			e.logf("No prize at the %s this time.", comp.Name)
			return nil
		}
		st.CompetitionWins++
		st.Social += comp.Social
		st.Charm += comp.Charm
		if comp.GPA != 0 {
			st.AdjustGPA(comp.GPA, e.unlimitedGPA())
		}
		switch st.CareerPath {
		case models.CareerPostgrad:
			st.Career.CompetitionPoints += 10
		case models.CareerAbroad:
			st.Career.Toefl = min(120, st.Career.Toefl+comp.Toefl)
		}
		e.post("Student wins the "+comp.Name, true)
		e.logf("You won a prize at the %s!", comp.Name)
		return nil
	})
}

func (e *Engine) Bath(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionBath, func() error {
		st := e.st
		if err := e.spend(costBath, 0); err != nil {
			return err
		}
		if m := e.mods.Multiplier(catalog.ModBathSanMultiplier); m > 1 {
			st.San += int(8 * m)
			e.stats().RecordWenzhiBath()
			e.logf("The college bathhouse is as good as they say.")
			return nil
		}
		st.San += 8
		if e.rng.Float64() < 0.2 {
			minutes := 10 + e.rng.Intn(60)
			st.San -= 3
			e.stats().RecordBathQueue(minutes)
			e.logf("You queued %d minutes for a shower.", minutes)
			return nil
		}
		e.logf("A hot shower washes the day away.")
		return nil
	})
}

func (e *Engine) Eat(ctx context.Context, mealID string) (*Report, error) {
	return e.perform(ctx, ActionEat, func() error {
		st := e.st
		meal, ok := e.cat.Meal(mealID)
		if !ok {
			return ErrUnknownChoice
		}
		if err := e.spend(0, meal.Cost); err != nil {
			return err
		}
		st.San += meal.San
		if meal.Canteen {
			e.stats().RecordCanteen(meal.ID)
		}
		if st.Money < 10 {
			e.stats().RecordPoorMeal()
			e.logf("That was your last decent meal for a while.")
		}
		e.logf("You ate at %s.", meal.Name)
		return nil
	})
}

func (e *Engine) Entertainment(ctx context.Context, id string) (*Report, error) {
	return e.perform(ctx, ActionEntertainment, func() error {
		st := e.st
		ent, ok := e.cat.Entertainment(id)
		if !ok {
			return ErrUnknownChoice
		}
		price := ent.Cost
		if st.InnovationPort {
			price *= 2
		}
		energy := costEntertainment
		if ent.Campus != "" && ent.Campus != st.Campus {
			energy += int(e.mods.Number(catalog.ModCrossCampusEnergy))
		}
		if err := e.spend(energy, price); err != nil {
			return err
		}
		st.San += ent.San
		if ent.SeasonBonus != 0 && catalog.InMonth(ent.BonusMonths, st.Month) {
			st.San += ent.SeasonBonus
		}
		e.stats().RecordVisitCampus(ent.Campus)
		if ent.Special {
			e.stats().RecordSpecialBuilding(ent.ID)
		}
		e.logf("You spent some time at %s.", ent.Name)
		e.trigger(achievement.ActionContext{Action: achievement.ActionEntertainment, Target: ent.ID})
		return nil
	})
}

func dateChance(charm int, bonus float64) float64 {
	return math.Min(0.9, math.Min(0.5, float64(charm)/200)+bonus)
}

// Date goes out at a date spot. Dating opens per college; see loveRules.
func (e *Engine) Date(ctx context.Context, spotID string) (*Report, error) {
	return e.perform(ctx, ActionDate, func() error {
		st := e.st
		spot, ok := e.cat.DateSpot(spotID)
		if !ok {
			return ErrUnknownChoice
		}
		if !e.loveOpen() || !catalog.InMonth(spot.Months, st.Month) {
			return ErrNotAvailable
		}
		if err := e.spend(costDate, spot.Cost); err != nil {
			return err
		}
		st.San += spot.San
		if spot.Special {
			e.stats().RecordSpecialBuilding(spot.ID)
		}

		if st.InRelationship {
			e.applyDateDelta(e.college.DateUpkeep)
			e.logf("A quiet date at %s.", spot.Name)
		} else if e.rng.Float64() < dateChance(st.Charm, e.mods.Number(catalog.ModDateChanceBonus)) {
			st.InRelationship = true
			st.RelationshipStage = models.StageDating
			e.applyDateDelta(e.college.DateReward)
			e.logf("The date at %s went well. You are now a couple!", spot.Name)
		} else {
			st.Charm += 5
			st.RelationshipStage = models.StageCrush
			e.logf("The date at %s was awkward, but you learned something.", spot.Name)
		}
		e.trigger(achievement.ActionContext{Action: achievement.ActionDate, Target: spot.ID})
		return nil
	})
}

func (e *Engine) applyDateDelta(d models.Delta) {
	if d.StudyEfficiency != 0 {
		d.StudyEfficiency = math.Min(2, e.st.StudyEfficiency+d.StudyEfficiency) - e.st.StudyEfficiency
	}
	e.apply(d)
}

func (e *Engine) Rest(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionRest, func() error {
		if err := e.spend(costRest, 0); err != nil {
			return err
		}
		e.st.San += 5
		e.logf("You slept in.")
		return nil
	})
}

// Run goes for a campus run. Runs count toward the physical test and slowly
// raise max energy.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	return e.perform(ctx, ActionRun, func() error {
		st := e.st
		if err := e.spend(costRun, 0); err != nil {
			return err
		}
		st.RunsThisMonth++
		st.RunCount++
		e.stats().RecordRun()

		switch r := e.rng.Float64(); {
		case r < 0.1:
			st.RunsThisMonth--
			e.logf("You forgot to start the run tracker. This one does not count.")
		case r < 0.15:
			st.San += 2
			e.post("Someone proposed on the running track", true)
			e.logf("You witnessed a proposal on the track.")
		case r < 0.2:
			st.StaminaProgress += 0.3
			e.logf("You ran like a star today.")
			e.trigger(achievement.ActionContext{Event: "starRunner"})
		default:
			if st.RunsThisMonth >= 3 {
				st.StaminaProgress += 0.2
			}
			e.logf("A steady run around the track.")
		}

		limit := e.cat.Settings.MaxEnergyCap
		for st.StaminaProgress >= 1 {
			st.StaminaProgress--
			if st.MaxEnergy < limit {
				st.MaxEnergy++
				e.logf("Your stamina improved. Max energy is now %d.", st.MaxEnergy)
			}
		}
		return nil
	})
}
