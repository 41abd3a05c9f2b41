package models

import "math"

// Semester is the part of the academic year a month belongs to.
type Semester string

const (
	SemesterFall   Semester = "fall"
	SemesterSpring Semester = "spring"
	SemesterSummer Semester = "summer"
)

// SemesterOf maps a calendar month to its semester: 9-1 fall, 2-6 spring, 7-8 summer.
func SemesterOf(month int) Semester {
	switch {
	case month >= 2 && month <= 6:
		return SemesterSpring
	case month == 7 || month == 8:
		return SemesterSummer
	default:
		return SemesterFall
	}
}

// IsExamMonth reports whether exams are held when the calendar enters month.
func IsExamMonth(month int) bool {
	return month == 1 || month == 6
}

// IsExamSeason covers the months around the exams, including the summer term.
func IsExamSeason(month int) bool {
	switch month {
	case 12, 1, 6, 7:
		return true
	}
	return false
}

type CourseType string

const (
	CourseMajor   CourseType = "major"
	CourseGeneral CourseType = "general"
	CoursePE      CourseType = "pe"
)

// Course is a single enrolled course. Mastery is the only input to the exam score.
type Course struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Credits       int        `json:"credits" yaml:"credits"`
	Difficulty    float64    `json:"difficulty" yaml:"difficulty"`
	Mastery       float64    `json:"mastery" yaml:"mastery"`
	AttendCount   int        `json:"attendCount" yaml:"attend_count"`
	StudyCount    int        `json:"studyCount" yaml:"study_count"`
	Type          CourseType `json:"type" yaml:"type"`
	IsCollegeCore bool       `json:"isCollegeCore" yaml:"is_college_core"`
	Logic         bool       `json:"logic,omitempty" yaml:"logic,omitempty"`
	DecayRate     float64    `json:"decayRate,omitempty" yaml:"decay_rate,omitempty"`
}

// AddMastery applies delta and keeps mastery inside [0,100].
func (c *Course) AddMastery(delta float64) {
	c.Mastery = ClampFloat(c.Mastery+delta, 0, 100)
}

type Ending string

const (
	EndingNone         Ending = ""
	EndingExcellent    Ending = "excellent"
	EndingWestward     Ending = "westward"
	EndingPostgraduate Ending = "postgraduate"
	EndingNormal       Ending = "normal"
	EndingDropout      Ending = "dropout"
)

type CareerPath string

const (
	CareerNone     CareerPath = ""
	CareerPostgrad CareerPath = "postgrad"
	CareerAbroad   CareerPath = "abroad"
	CareerJob      CareerPath = "job"
)

type RelationshipStage string

const (
	StageSingle  RelationshipStage = "single"
	StageCrush   RelationshipStage = "crush"
	StageDating  RelationshipStage = "dating"
	StageBrokeUp RelationshipStage = "broke_up"
)

// CareerProgress holds the path-specific progress counters. Only the fields of
// the chosen path move.
type CareerProgress struct {
	Advisor           bool    `json:"advisor" yaml:"advisor"`
	Dachuang          float64 `json:"dachuang" yaml:"dachuang"`
	CompetitionPoints int     `json:"competitionPoints" yaml:"competition_points"`
	Toefl             int     `json:"toefl" yaml:"toefl"`
	Gre               int     `json:"gre" yaml:"gre"`
	Internship        float64 `json:"internship" yaml:"internship"`
	Interview         int     `json:"interview" yaml:"interview"`
	Offer             bool    `json:"offer" yaml:"offer"`
}

// Delta is a declarative change to the player's attributes. Mastery is applied
// to every current course.
type Delta struct {
	GPA             float64 `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	San             int     `json:"san,omitempty" yaml:"san,omitempty"`
	Energy          int     `json:"energy,omitempty" yaml:"energy,omitempty"`
	MaxEnergy       int     `json:"maxEnergy,omitempty" yaml:"max_energy,omitempty"`
	Social          int     `json:"social,omitempty" yaml:"social,omitempty"`
	Money           int     `json:"money,omitempty" yaml:"money,omitempty"`
	Charm           int     `json:"charm,omitempty" yaml:"charm,omitempty"`
	Reputation      int     `json:"reputation,omitempty" yaml:"reputation,omitempty"`
	Mastery         float64 `json:"mastery,omitempty" yaml:"mastery,omitempty"`
	ResearchExp     int     `json:"researchExp,omitempty" yaml:"research_exp,omitempty"`
	StudyEfficiency float64 `json:"studyEfficiency,omitempty" yaml:"study_efficiency,omitempty"`
}

// Add returns the field-wise sum of d and o.
func (d Delta) Add(o Delta) Delta {
	return Delta{
		GPA:             d.GPA + o.GPA,
		San:             d.San + o.San,
		Energy:          d.Energy + o.Energy,
		MaxEnergy:       d.MaxEnergy + o.MaxEnergy,
		Social:          d.Social + o.Social,
		Money:           d.Money + o.Money,
		Charm:           d.Charm + o.Charm,
		Reputation:      d.Reputation + o.Reputation,
		Mastery:         d.Mastery + o.Mastery,
		ResearchExp:     d.ResearchExp + o.ResearchExp,
		StudyEfficiency: d.StudyEfficiency + o.StudyEfficiency,
	}
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

// PendingEvent is an event waiting for the player to pick an option. It is
// part of the saved state so a reload resumes at the same choice.
type PendingEvent struct {
	Source  string   `json:"source" yaml:"source"` // "story" or "flavor"
	EventID string   `json:"eventId" yaml:"event_id"`
	Title   string   `json:"title" yaml:"title"`
	Text    string   `json:"text" yaml:"text"`
	Options []string `json:"options" yaml:"options"`

	FlavorDelta       Delta  `json:"flavorDelta,omitempty" yaml:"flavor_delta,omitempty"`
	FlavorAchievement string `json:"flavorAchievement,omitempty" yaml:"flavor_achievement,omitempty"`
}

// PlayerState is the full record of one playthrough.
type PlayerState struct {
	PlaythroughID string `json:"playthroughId" yaml:"playthrough_id"`
	Background    string `json:"background" yaml:"background"`
	College       string `json:"college" yaml:"college"`
	Campus        string `json:"campus" yaml:"campus"`

	GPA        float64 `json:"gpa" yaml:"gpa"`
	San        int     `json:"san" yaml:"san"`
	Energy     int     `json:"energy" yaml:"energy"`
	MaxEnergy  int     `json:"maxEnergy" yaml:"max_energy"`
	Social     int     `json:"social" yaml:"social"`
	Money      int     `json:"money" yaml:"money"`
	Charm      int     `json:"charm" yaml:"charm"`
	Reputation int     `json:"reputation" yaml:"reputation"`

	StudyEfficiency  float64 `json:"studyEfficiency" yaml:"study_efficiency"`
	SocialEfficiency float64 `json:"socialEfficiency" yaml:"social_efficiency"`
	MonthlyMoney     int     `json:"monthlyMoney" yaml:"monthly_money"`
	FailThreshold    float64 `json:"failThreshold" yaml:"fail_threshold"`

	Year        int `json:"year" yaml:"year"`
	Month       int `json:"month" yaml:"month"`
	TotalMonths int `json:"totalMonths" yaml:"total_months"`

	CurrentCourses   []Course `json:"currentCourses" yaml:"current_courses"`
	RetakeCourses    []Course `json:"retakeCourses" yaml:"retake_courses"`
	MakeupCourses    []Course `json:"makeupCourses" yaml:"makeup_courses"`
	FailedCourses    int      `json:"failedCourses" yaml:"failed_courses"`
	TotalCredits     float64  `json:"totalCredits" yaml:"total_credits"`
	TotalGradePoints float64  `json:"totalGradePoints" yaml:"total_grade_points"`
	// PracticeCredits are pass/fail summer credits kept out of the GPA sums.
	PracticeCredits  int      `json:"practiceCredits" yaml:"practice_credits"`
	SemesterGPA      float64  `json:"semesterGpa" yaml:"semester_gpa"`
	GPAWarnings      int      `json:"gpaWarnings" yaml:"gpa_warnings"`

	InRelationship    bool              `json:"inRelationship" yaml:"in_relationship"`
	RelationshipStage RelationshipStage `json:"relationshipStage" yaml:"relationship_stage"`
	LoveUnlocked      bool              `json:"loveUnlocked" yaml:"love_unlocked"`
	CareerPath        CareerPath        `json:"careerPath" yaml:"career_path"`
	Career            CareerProgress    `json:"career" yaml:"career"`
	WestwardPath      bool              `json:"westwardPath" yaml:"westward_path"`

	NationalScholarship bool `json:"nationalScholarship" yaml:"national_scholarship"`
	ThesisMode          bool `json:"thesisMode" yaml:"thesis_mode"`
	ThesisProgress      int  `json:"thesisProgress" yaml:"thesis_progress"`
	InnovationPort      bool `json:"innovationPort" yaml:"innovation_port"`

	ExamRushMode      bool    `json:"examRushMode" yaml:"exam_rush_mode"`
	ExamRushOffered   bool    `json:"examRushOffered" yaml:"exam_rush_offered"`
	HardCourseDebuff  bool    `json:"hardCourseDebuff" yaml:"hard_course_debuff"`
	BiddingOpen       bool    `json:"biddingOpen" yaml:"bidding_open"`
	WinterBreakOpen   bool    `json:"winterBreakOpen" yaml:"winter_break_open"`
	StudyBoost        float64 `json:"studyBoost,omitempty" yaml:"study_boost,omitempty"`
	ExamBonus         float64 `json:"examBonus,omitempty" yaml:"exam_bonus,omitempty"`
	ActionsThisTurn   int     `json:"actionsThisTurn" yaml:"actions_this_turn"`
	LastAction        string  `json:"lastAction" yaml:"last_action"`
	StaminaProgress   float64 `json:"staminaProgress" yaml:"stamina_progress"`
	RunsThisMonth     int     `json:"runsThisMonth" yaml:"runs_this_month"`
	VolunteerHours    int     `json:"volunteerHours" yaml:"volunteer_hours"`
	VolunteerYear     int     `json:"volunteerYear" yaml:"volunteer_year"`
	ResearchExp       int     `json:"researchExp" yaml:"research_exp"`
	Papers            int     `json:"papers" yaml:"papers"`
	CompetitionWins   int     `json:"competitionWins" yaml:"competition_wins"`
	ClubCount         int     `json:"clubCount" yaml:"club_count"`
	PartTimeCount     int     `json:"partTimeCount" yaml:"part_time_count"`
	CompetitionCount  int     `json:"competitionCount" yaml:"competition_count"`
	RunCount          int     `json:"runCount" yaml:"run_count"`
	Scandals          int     `json:"scandals" yaml:"scandals"`

	BBS []string `json:"bbs" yaml:"bbs"`

	Pending  *PendingEvent `json:"pending,omitempty" yaml:"pending,omitempty"`
	GameOver bool          `json:"gameOver" yaml:"game_over"`
	Ending   Ending        `json:"ending" yaml:"ending"`
}

// Semester reports the semester of the current month.
func (s *PlayerState) Semester() Semester {
	return SemesterOf(s.Month)
}

// Clone returns a copy that shares no slices with s.
func (s *PlayerState) Clone() *PlayerState {
	c := *s
	c.CurrentCourses = append([]Course(nil), s.CurrentCourses...)
	c.RetakeCourses = append([]Course(nil), s.RetakeCourses...)
	c.MakeupCourses = append([]Course(nil), s.MakeupCourses...)
	c.BBS = append([]string(nil), s.BBS...)
	if s.Pending != nil {
		p := *s.Pending
		p.Options = append([]string(nil), s.Pending.Options...)
		c.Pending = &p
	}
	return &c
}

// Course returns the current or retake course with the given id.
func (s *PlayerState) Course(id string) *Course {
	for i := range s.CurrentCourses {
		if s.CurrentCourses[i].ID == id {
			return &s.CurrentCourses[i]
		}
	}
	for i := range s.RetakeCourses {
		if s.RetakeCourses[i].ID == id {
			return &s.RetakeCourses[i]
		}
	}
	return nil
}

// RecomputeGPA derives gpa from the running sums. The 4.3 cap is lifted when
// unlimited is set.
func (s *PlayerState) RecomputeGPA(unlimited bool) {
	if s.TotalCredits <= 0 {
		return
	}
	gpa := s.TotalGradePoints / s.TotalCredits
	if !unlimited {
		gpa = math.Min(gpa, 4.3)
	}
	s.GPA = gpa
}

// AdjustGPA shifts gpa by delta while keeping it equal to the running sums.
func (s *PlayerState) AdjustGPA(delta float64, unlimited bool) {
	if s.TotalCredits <= 0 {
		s.GPA = math.Max(0, s.GPA+delta)
		if !unlimited {
			s.GPA = math.Min(s.GPA, 4.3)
		}
		return
	}
	s.TotalGradePoints = math.Max(0, s.TotalGradePoints+delta*s.TotalCredits)
	s.RecomputeGPA(unlimited)
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
