package progression

import (
	"math"

	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
)

var gradeLadder = []struct {
	min   float64
	grade string
	point float64
}{
	{95, "A+", 4.3},
	{90, "A", 4.0},
	{85, "A-", 3.7},
	{80, "B+", 3.3},
	{75, "B", 3.0},
	{70, "B-", 2.7},
	{65, "C+", 2.3},
	{60, "C", 2.0},
	{55, "C-", 1.7},
	{50, "D", 1.0},
}

// ScoreToGrade maps an exam score to its letter grade.
func ScoreToGrade(score float64) string {
	for _, g := range gradeLadder {
		if score >= g.min {
			return g.grade
		}
	}
	return "F"
}

// GradePoint returns the grade point of a letter grade.
func GradePoint(grade string) float64 {
	for _, g := range gradeLadder {
		if g.grade == grade {
			return g.point
		}
	}
	return 0
}

const (
	retakeGradePoint = 1.0
	makeupGradePoint = 1.0
	makeupFloor      = 40
	maxFailedCourses = 5
)

// decayAmount is the monthly mastery loss of a course.
func decayAmount(c models.Course) float64 {
	d := 4 + math.Max(0, (c.Difficulty-0.5)*10)
	switch {
	case c.Mastery >= 80:
		d *= 1.25
	case c.Mastery < 50:
		d *= 0.7
	}
	if c.DecayRate > 0 {
		d *= c.DecayRate
	}
	return d
}

func (e *Engine) decay() {
	st := e.st
	for i := range st.CurrentCourses {
		st.CurrentCourses[i].AddMastery(-decayAmount(st.CurrentCourses[i]))
	}
	for i := range st.RetakeCourses {
		st.RetakeCourses[i].AddMastery(-decayAmount(st.RetakeCourses[i]))
	}
}

func newCourse(def catalog.CourseDef, mastery float64) models.Course {
	return models.Course{
		ID:            def.ID,
		Name:          def.Name,
		Credits:       def.Credits,
		Difficulty:    def.Difficulty,
		Mastery:       models.ClampFloat(mastery, 0, 100),
		Type:          def.Type,
		IsCollegeCore: def.Core,
		Logic:         def.Logic,
		DecayRate:     def.DecayRate,
	}
}

// loadCourses replaces the current courses with the load of the current
// year and semester.
func (e *Engine) loadCourses() {
	st := e.st
	sem := st.Semester()
	defs := e.cat.SemesterCourses(st.Year, sem)
	initial := e.mods.Number(catalog.ModInitialMastery)

	var courses []models.Course
	var pe *catalog.CourseDef
	for i, def := range defs {
		if def.Type == models.CoursePE {
			if pe == nil {
				pe = &defs[i]
			}
			continue
		}
		if len(courses) < e.cat.Settings.CoursesPerSemester {
			courses = append(courses, newCourse(def, initial))
		}
	}
	if e.mods.Number(catalog.ModExtraCourses) > 0 {
		if def, ok := e.cat.EliteCourse(st.Year, sem); ok {
			c := newCourse(def, initial)
			if c.DecayRate == 0 {
				c.DecayRate = 1.5
			}
			courses = append(courses, c)
		}
	}
	if pe != nil && st.Year <= 2 {
		c := newCourse(*pe, 20)
		c.Difficulty = 0.3
		courses = append(courses, c)
	}
	st.CurrentCourses = courses
	if len(courses) > 0 {
		e.logf("%d courses this semester.", len(courses))
	}
}

func removeCourse(list []models.Course, id string) []models.Course {
	out := list[:0]
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func hasCourse(list []models.Course, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

// examScore draws the final score of a course.
func (e *Engine) examScore(c models.Course) float64 {
	r := e.rng.Float64()
	score := models.ClampFloat(c.Mastery+(r-0.5+e.st.ExamBonus)*20, 0, 100)
	if c.Logic {
		if g := e.mods.Multiplier(catalog.ModLogicGrowth); g > 1 {
			score = math.Min(100, score*g)
		}
	}
	return score
}

// resolveExams grades every current and retake course.
func (e *Engine) resolveExams() {
	st := e.st
	if len(st.CurrentCourses) == 0 && len(st.RetakeCourses) == 0 {
		return
	}
	type sitting struct {
		course models.Course
		retake bool
	}
	var sittings []sitting
	for _, c := range st.CurrentCourses {
		sittings = append(sittings, sitting{course: c})
	}
	for _, c := range st.RetakeCourses {
		sittings = append(sittings, sitting{course: c, retake: true})
	}

	var semPoints, semCredits float64
	failures := 0
	gpaEff := e.mods.Multiplier(catalog.ModGPAEfficiency)

	for _, s := range sittings {
		c := s.course
		score := e.examScore(c)
		passed := score >= st.FailThreshold
		res := ExamResult{
			CourseID: c.ID,
			Name:     c.Name,
			Score:    score,
			Credits:  c.Credits,
			Passed:   passed,
			Retake:   s.retake,
		}

		if passed {
			point := retakeGradePoint
			res.Grade = "P"
			if !s.retake {
				res.Grade = ScoreToGrade(score)
				point = GradePoint(res.Grade)
				if gpaEff > 1 {
					point = math.Min(4.3, point*gpaEff)
				}
			}
			res.GradePoint = point
			credits := float64(c.Credits)
			st.TotalCredits += credits
			st.TotalGradePoints += point * credits
			semPoints += point * credits
			semCredits += credits
			if s.retake {
				st.RetakeCourses = removeCourse(st.RetakeCourses, c.ID)
			}
		} else {
			res.Grade = "F"
			failures++
			st.FailedCourses++
			if c.IsCollegeCore {
				st.Social -= 5
				e.logf("Failing the core course %s hurts your standing in the college.", c.Name)
			}
			if !s.retake && !hasCourse(st.RetakeCourses, c.ID) {
				retake := c
				retake.Mastery = 0
				retake.AttendCount = 0
				retake.StudyCount = 0
				st.RetakeCourses = append(st.RetakeCourses, retake)
				if c.Type == models.CourseMajor {
					makeup := c
					makeup.Mastery = math.Max(makeupFloor, score)
					st.MakeupCourses = append(st.MakeupCourses, makeup)
				}
			}
		}
		e.stats().RecordExamResult(c.ID, score, passed, c.AttendCount > 0)
		e.exams = append(e.exams, res)
		e.trigger(achievement.ActionContext{Action: achievement.ActionExam, HasExamScore: true, LastExamScore: score})
	}
	e.trigger(achievement.ActionContext{Action: achievement.ActionExam, ExamFailures: failures})

	st.RecomputeGPA(e.unlimitedGPA())
	e.stats().RecordGPA(st.GPA)
	if semCredits > 0 {
		st.SemesterGPA = semPoints / semCredits
		e.stats().RecordSemesterGPA(st.SemesterGPA)
	}
	e.logf("Exams are over: %d passed, %d failed. GPA %.2f.", len(sittings)-failures, failures, st.GPA)

	st.CurrentCourses = nil
	st.ExamBonus = 0
	st.ExamRushMode = false

	if threshold := e.mods.Number(catalog.ModGPAThreshold); threshold > 0 && semCredits > 0 {
		if st.GPA < threshold {
			st.GPAWarnings++
			if st.GPAWarnings >= 2 {
				e.logf("A second semester below the GPA line. You are removed from the elite track.")
				e.endGame(models.EndingDropout)
				return
			}
			e.logf("Warning: your GPA is below %.1f. One more semester like this and you are out.", threshold)
		} else {
			st.GPAWarnings = 0
		}
	}

	if st.Month == 6 && !st.NationalScholarship && st.GPA >= 4.0 && st.Social >= 95 {
		st.NationalScholarship = true
		st.Money += 10000
		e.post("National scholarship awarded", true)
		e.logf("You won the national scholarship!")
	}
}

// resolveMakeups runs the deferred make-up exams of the previous semester.
func (e *Engine) resolveMakeups() {
	st := e.st
	if len(st.MakeupCourses) == 0 {
		return
	}
	for _, c := range st.MakeupCourses {
		r := e.rng.Float64()
		score := models.ClampFloat(c.Mastery+(r-0.3)*15, 0, 100)
		passed := score >= st.FailThreshold
		res := ExamResult{
			CourseID: c.ID,
			Name:     c.Name,
			Score:    score,
			Credits:  c.Credits,
			Passed:   passed,
			Makeup:   true,
			Grade:    "F",
		}
		if passed {
			res.Grade = "D"
			res.GradePoint = makeupGradePoint
			st.TotalCredits += float64(c.Credits)
			st.TotalGradePoints += makeupGradePoint * float64(c.Credits)
			st.RetakeCourses = removeCourse(st.RetakeCourses, c.ID)
			st.FailedCourses = max(0, st.FailedCourses-1)
			e.logf("Make-up exam for %s passed.", c.Name)
		} else {
			e.logf("Make-up exam for %s failed. The course stays on your retake list.", c.Name)
		}
		e.exams = append(e.exams, res)
	}
	st.MakeupCourses = nil
	st.RecomputeGPA(e.unlimitedGPA())
}
