package achievement

type TriggerCategory string

const (
	CategoryCollegeSpecific TriggerCategory = "collegeSpecific"
	CategoryCampusEggs      TriggerCategory = "campusEggs"
	CategoryExamHardcore    TriggerCategory = "examHardcore"
	CategoryDailyLife       TriggerCategory = "dailyLife"
	CategoryComprehensive   TriggerCategory = "comprehensive"
)

// ActionContext describes the action or event that just happened. Target is
// the chosen location, activity or option id.
type ActionContext struct {
	Action         string
	Target         string
	Event          string
	College        string
	Month          int
	InRelationship bool
	ExamSeason     bool
	HasExamScore   bool
	LastExamScore  float64
	ExamFailures   int
}

// Trigger unlocks Achievement when When holds for an action context.
type Trigger struct {
	ID          string
	Category    TriggerCategory
	Achievement string
	When        func(ActionContext) bool
}

func examScoreIn(lo, hi float64) func(ActionContext) bool {
	return func(c ActionContext) bool {
		return c.HasExamScore && c.LastExamScore >= lo && c.LastExamScore < hi
	}
}

func actionTarget(action, target string) func(ActionContext) bool {
	return func(c ActionContext) bool {
		return c.Action == action && c.Target == target
	}
}

func eventIs(ids ...string) func(ActionContext) bool {
	return func(c ActionContext) bool {
		for _, id := range ids {
			if c.Event == id {
				return true
			}
		}
		return false
	}
}

// Action names used by the triggers.
const (
	ActionSelfStudy     = "selfStudy"
	ActionEntertainment = "entertainment"
	ActionDate          = "date"
	ActionWinterBreak   = "winterBreak"
	ActionWestward      = "chooseWestward"
	ActionExam          = "exam"
)

var defaultTriggers = []Trigger{
	{"pinge_exam_season", CategoryCollegeSpecific, "pingeExpert", func(c ActionContext) bool {
		return c.ExamSeason && actionTarget(ActionSelfStudy, "pinge")(c)
	}},
	{"dong13_exam_season", CategoryCollegeSpecific, "dong13Legend", func(c ActionContext) bool {
		return c.ExamSeason && actionTarget(ActionSelfStudy, "dong13")(c)
	}},
	{"elite_tech_camp", CategoryCollegeSpecific, "techCampExcellent", func(c ActionContext) bool {
		return c.College == "qianxuesen" && actionTarget(ActionWinterBreak, "tech_camp")(c)
	}},

	{"xingqing_park", CategoryCampusEggs, "xingqingPark", actionTarget(ActionEntertainment, "xingqing")},
	{"wutong_cafe", CategoryCampusEggs, "xiaozi", actionTarget(ActionEntertainment, "wutong")},
	{"sakura_date", CategoryCampusEggs, "sakuraSpeed", actionTarget(ActionDate, "sakura")},
	{"sakura_alone", CategoryCampusEggs, "lonelySakura", func(c ActionContext) bool {
		return !c.InRelationship && eventIs("cherryBlossom")(c)
	}},
	{"main_building_lost", CategoryCampusEggs, "warFog", eventIs("mainBuildingLost")},

	{"score_59", CategoryExamHardcore, "teacher59", examScoreIn(59, 60)},
	{"score_60", CategoryExamHardcore, "teacherSave", examScoreIn(60, 61)},
	{"double_fail", CategoryExamHardcore, "doubleKill", func(c ActionContext) bool {
		return c.Action == ActionExam && c.ExamFailures >= 2
	}},

	{"coffee", CategoryDailyLife, "luckinFan", eventIs("luckinCoffee", "luckinAddiction")},
	{"home_for_winter", CategoryDailyLife, "homecoming", actionTarget(ActionWinterBreak, "stay_home")},
	{"star_runner", CategoryDailyLife, "marathonRunner", eventIs("starRunner")},
	{"valentine_single", CategoryDailyLife, "valentineSingle", eventIs("valentineSingle")},

	{"fitness_fail", CategoryComprehensive, "physicalTestFail", eventIs("physicalTestFail")},
	{"go_west", CategoryComprehensive, "westwardRide", func(c ActionContext) bool { return c.Action == ActionWestward }},
}
