package achievement

import "github.com/tatianab/xjtu-sim/internal/models"

// Predicate reports whether an achievement's condition holds.
type Predicate func(s *Stats, st *models.PlayerState) bool

type rule struct {
	id    string
	check Predicate
}

// nearGraduation is the last stretch of the final year.
func nearGraduation(st *models.PlayerState) bool {
	return st.Year == 4 && st.Month >= 6 && st.Month <= 8
}

func graduated(st *models.PlayerState) bool {
	if st.Year == 4 && (st.Month == 7 || st.Month == 8) {
		return true
	}
	return st.GameOver && st.Ending != models.EndingNone && st.Ending != models.EndingDropout
}

// rules pairs polled achievements with their conditions. Achievements that
// only unlock through events or triggers have no entry here.
var rules = []rule{
	// academic
	{"noFail", func(s *Stats, st *models.PlayerState) bool { return nearGraduation(st) && st.FailedCourses == 0 }},
	{"perfectScore", func(s *Stats, st *models.PlayerState) bool { return s.PerfectScoreCourses > 0 }},
	{"allSixty", func(s *Stats, st *models.PlayerState) bool { return s.SixtyScoreCourses >= 5 }},
	{"noClass", func(s *Stats, st *models.PlayerState) bool {
		return s.AttendClassCount == 0 && s.ExamPassedWithoutClass > 0
	}},
	{"copyright", func(s *Stats, st *models.PlayerState) bool { return s.ExperimentReport }},
	{"nationalScholarship", func(s *Stats, st *models.PlayerState) bool { return st.NationalScholarship }},
	{"scholar", func(s *Stats, st *models.PlayerState) bool { return st.TotalCredits > 0 && st.GPA >= 4.0 }},
	{"qianPerfect", func(s *Stats, st *models.PlayerState) bool { return s.BestSemesterGPA >= 4.3 }},

	// campus and daily life
	{"runner", func(s *Stats, st *models.PlayerState) bool { return s.RunDays >= 120 }},
	{"helpRoommate", func(s *Stats, st *models.PlayerState) bool { return s.HelpRoommateCount > 50 }},
	{"fourCampus", func(s *Stats, st *models.PlayerState) bool { return s.CampusVisited.Len() >= 4 }},
	{"allCanteen", func(s *Stats, st *models.PlayerState) bool { return s.CanteenVisited.Len() >= 8 }},
	{"explorer", func(s *Stats, st *models.PlayerState) bool { return s.SpecialBuildingsVisited.Len() >= 5 }},
	{"bathhouse", func(s *Stats, st *models.PlayerState) bool { return s.BathQueueMax > 30 }},
	{"luckinLover", func(s *Stats, st *models.PlayerState) bool { return s.LuckinVisited.Len() >= 5 }},
	{"firstGold", func(s *Stats, st *models.PlayerState) bool { return s.PartTimeEarnings > 5000 }},
	{"fullDay", func(s *Stats, st *models.PlayerState) bool { return s.FullDays > 0 }},
	{"midnight", func(s *Stats, st *models.PlayerState) bool { return s.MidnightStudy > 0 }},
	{"poorMeal", func(s *Stats, st *models.PlayerState) bool { return s.PoorMeals > 0 }},
	{"cardKeeper", func(s *Stats, st *models.PlayerState) bool { return nearGraduation(st) && s.CardLost == 0 }},
	{"cupid", func(s *Stats, st *models.PlayerState) bool {
		return nearGraduation(st) && st.InRelationship && s.Breakups == 0
	}},

	// colleges
	{"pengkangTaichi", func(s *Stats, st *models.PlayerState) bool {
		return st.College == "pengkang" && s.PengkangTaichi >= 10
	}},
	{"wenzhiBath", func(s *Stats, st *models.PlayerState) bool { return s.WenzhiBath >= 50 }},
	{"zhongyingPinge", func(s *Stats, st *models.PlayerState) bool { return s.ZhongyingPinge >= 100 }},
	{"nanyang13f", func(s *Stats, st *models.PlayerState) bool { return s.Dong13Study >= 30 }},
	{"chongshiLove", func(s *Stats, st *models.PlayerState) bool {
		return st.College == "chongshi" && st.InRelationship
	}},
	{"lizhiStarspace", func(s *Stats, st *models.PlayerState) bool { return s.LizhiStarspace >= 50 }},
	{"zonglianHeal", func(s *Stats, st *models.PlayerState) bool { return s.QuickHeal >= 5 }},
	{"qideRich", func(s *Stats, st *models.PlayerState) bool {
		return st.College == "qide" && s.TotalEarnings >= 5000
	}},
	{"collegeVisitor", func(s *Stats, st *models.PlayerState) bool { return s.CollegesPlayed.Len() >= 3 }},
	{"lateKing", func(s *Stats, st *models.PlayerState) bool { return s.ConsecutiveLate >= 30 }},

	// events
	{"stolenLunch", func(s *Stats, st *models.PlayerState) bool { return s.TakeoutStolen > 0 }},
	{"stolenBike", func(s *Stats, st *models.PlayerState) bool { return s.BikeStolen > 0 }},
	{"cardLost", func(s *Stats, st *models.PlayerState) bool { return s.CardLost >= 3 }},
	{"animalMessenger", func(s *Stats, st *models.PlayerState) bool { return s.FedAnimals > 0 }},
	{"president", func(s *Stats, st *models.PlayerState) bool { return s.MetPresident }},
	{"infiniteLoop", func(s *Stats, st *models.PlayerState) bool { return s.BoughtOldBooks && s.SoldOldBooks }},

	// comprehensive
	{"graduation", func(s *Stats, st *models.PlayerState) bool { return graduated(st) }},
	{"secondWestward", func(s *Stats, st *models.PlayerState) bool { return st.Year == 4 && st.InnovationPort }},
	{"socialite", func(s *Stats, st *models.PlayerState) bool { return st.Social >= 90 }},
	{"campusStar", func(s *Stats, st *models.PlayerState) bool { return st.Reputation >= 90 }},
	{"infamous", func(s *Stats, st *models.PlayerState) bool { return st.Scandals >= 3 }},
	{"competitionMaster", func(s *Stats, st *models.PlayerState) bool { return st.CompetitionWins >= 3 }},
	{"researcher", func(s *Stats, st *models.PlayerState) bool { return st.Papers >= 1 }},
	{"jobOffer", func(s *Stats, st *models.PlayerState) bool { return st.Career.Offer }},
	{"postgradSuccess", func(s *Stats, st *models.PlayerState) bool { return st.Career.Advisor }},
}
