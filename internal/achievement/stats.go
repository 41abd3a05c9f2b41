package achievement

import (
	"encoding/json"
	"sort"

	"github.com/tatianab/xjtu-sim/internal/catalog"
)

// Set is a string set that serializes as a sorted JSON array.
type Set map[string]struct{}

// Add inserts v and reports whether it was new.
func (s Set) Add(v string) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) Len() int { return len(s) }

func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Set, len(list))
	for _, v := range list {
		out[v] = struct{}{}
	}
	*s = out
	return nil
}

// Stats accumulates the statistics achievements are checked against. It
// outlives a single playthrough. Fields are written only by the Record*
// methods below.
type Stats struct {
	FailedCoursesList      []string `json:"failedCoursesList"`
	PerfectScoreCourses    int      `json:"perfectScoreCourses"`
	SixtyScoreCourses      int      `json:"sixtyScoreCourses"`
	AttendClassCount       int      `json:"attendClassCount"`
	ExamPassedWithoutClass int      `json:"examPassedWithoutClass"`
	BestSemesterGPA        float64  `json:"bestSemesterGpa"`
	HighestGPA             float64  `json:"highestGpa"`

	VisitedLocations        Set `json:"visitedLocations"`
	CampusVisited           Set `json:"campusVisited"`
	CanteenVisited          Set `json:"canteenVisited"`
	LuckinVisited           Set `json:"luckinVisited"`
	SpecialBuildingsVisited Set `json:"specialBuildingsVisited"`
	CollegesPlayed          Set `json:"collegesPlayed"`

	RunDays           int  `json:"runDays"`
	HelpRoommateCount int  `json:"helpRoommateCount"`
	PengkangTaichi    int  `json:"pengkangTaichi"`
	WenzhiBath        int  `json:"wenzhiBath"`
	ZhongyingPinge    int  `json:"zhongyingPinge"`
	Dong13Study       int  `json:"dong13Study"`
	LizhiStarspace    int  `json:"lizhiStarspace"`
	QuickHeal         int  `json:"quickHeal"`
	TotalEarnings     int  `json:"totalEarnings"`
	PartTimeEarnings  int  `json:"partTimeEarnings"`
	BathQueueMax      int  `json:"bathQueueMax"`
	TakeoutStolen     int  `json:"takeoutStolen"`
	BikeStolen        int  `json:"bikeStolen"`
	CardLost          int  `json:"cardLost"`
	FedAnimals        int  `json:"fedAnimals"`
	ConsecutiveLate   int  `json:"consecutiveLate"`
	FullDays          int  `json:"fullDays"`
	MidnightStudy     int  `json:"midnightStudy"`
	Breakups          int  `json:"breakups"`
	PoorMeals         int  `json:"poorMeals"`
	MainBuildingLost  int  `json:"mainBuildingLost"`
	MetPresident      bool `json:"metPresident"`
	BoughtOldBooks    bool `json:"boughtOldBooks"`
	SoldOldBooks      bool `json:"soldOldBooks"`
	ExperimentReport  bool `json:"experimentReportSelected"`

	LowestSan             int `json:"lowestSan"`
	ConsecutiveExhaustion int `json:"consecutiveExhaustion"`
}

func NewStats() *Stats {
	s := &Stats{LowestSan: 100}
	s.ensureSets()
	return s
}

// ensureSets fills sets that were absent from a decoded record.
func (s *Stats) ensureSets() {
	for _, set := range []*Set{
		&s.VisitedLocations,
		&s.CampusVisited,
		&s.CanteenVisited,
		&s.LuckinVisited,
		&s.SpecialBuildingsVisited,
		&s.CollegesPlayed,
	} {
		if *set == nil {
			*set = Set{}
		}
	}
}

// DecodeStats parses a stored record, filling defaults for missing fields.
func DecodeStats(data []byte) (*Stats, error) {
	s := NewStats()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.ensureSets()
	return s, nil
}

func (s *Stats) RecordAttendClass() {
	s.AttendClassCount++
}

// RecordExamResult tracks one graded course. attended reports whether the
// course was ever attended in class.
func (s *Stats) RecordExamResult(courseID string, score float64, passed, attended bool) {
	if !passed {
		s.FailedCoursesList = append(s.FailedCoursesList, courseID)
		return
	}
	if score >= 100 {
		s.PerfectScoreCourses++
	}
	if score >= 60 && score < 61 {
		s.SixtyScoreCourses++
	}
	if !attended {
		s.ExamPassedWithoutClass++
	}
}

func (s *Stats) RecordSemesterGPA(gpa float64) {
	if gpa > s.BestSemesterGPA {
		s.BestSemesterGPA = gpa
	}
}

func (s *Stats) RecordGPA(gpa float64) {
	if gpa > s.HighestGPA {
		s.HighestGPA = gpa
	}
}

func (s *Stats) RecordVisitLocation(id string) {
	s.VisitedLocations.Add(id)
}

func (s *Stats) RecordVisitCampus(id string) {
	if id != "" {
		s.CampusVisited.Add(id)
	}
}

func (s *Stats) RecordCanteen(id string) {
	s.CanteenVisited.Add(id)
}

func (s *Stats) RecordSpecialBuilding(id string) {
	s.SpecialBuildingsVisited.Add(id)
}

func (s *Stats) RecordCollegePlayed(id string) {
	s.CollegesPlayed.Add(id)
}

// RecordLuckinVisit counts distinct months with a coffee run.
func (s *Stats) RecordLuckinVisit(monthKey string) {
	s.LuckinVisited.Add(monthKey)
}

func (s *Stats) RecordRun() {
	s.RunDays++
}

func (s *Stats) RecordHelpRoommate() {
	s.HelpRoommateCount++
}

func (s *Stats) RecordPengkangTaichi() {
	s.PengkangTaichi++
}

func (s *Stats) RecordWenzhiBath() {
	s.WenzhiBath++
}

func (s *Stats) RecordPingeStudy() {
	s.ZhongyingPinge++
}

func (s *Stats) RecordDong13Study() {
	s.Dong13Study++
}

func (s *Stats) RecordStarspaceStudy() {
	s.LizhiStarspace++
}

func (s *Stats) RecordQuickHeal() {
	s.QuickHeal++
}

func (s *Stats) RecordEarnings(amount int) {
	s.TotalEarnings += amount
}

func (s *Stats) RecordPartTimeEarning(amount int) {
	s.PartTimeEarnings += amount
}

func (s *Stats) RecordBathQueue(minutes int) {
	if minutes > s.BathQueueMax {
		s.BathQueueMax = minutes
	}
}

func (s *Stats) RecordTakeoutStolen() {
	s.TakeoutStolen++
}

func (s *Stats) RecordBikeStolen() {
	s.BikeStolen++
}

func (s *Stats) RecordCardLost() {
	s.CardLost++
}

func (s *Stats) RecordFedAnimal() {
	s.FedAnimals++
}

// RecordLate tracks lateness to class; on time resets the streak.
func (s *Stats) RecordLate(late bool) {
	if late {
		s.ConsecutiveLate++
		return
	}
	s.ConsecutiveLate = 0
}

func (s *Stats) RecordFullDay() {
	s.FullDays++
}

func (s *Stats) RecordMidnightStudy() {
	s.MidnightStudy++
}

func (s *Stats) RecordBreakup() {
	s.Breakups++
}

func (s *Stats) RecordPoorMeal() {
	s.PoorMeals++
}

func (s *Stats) RecordMainBuildingLost() {
	s.MainBuildingLost++
}

func (s *Stats) RecordMetPresident() {
	s.MetPresident = true
}

func (s *Stats) RecordOldBookBought() {
	s.BoughtOldBooks = true
}

func (s *Stats) RecordOldBookSold() {
	s.SoldOldBooks = true
}

func (s *Stats) RecordExperimentReport() {
	s.ExperimentReport = true
}

func (s *Stats) RecordSan(san int) {
	if san < s.LowestSan {
		s.LowestSan = san
	}
}

// RecordExhaustion tracks months that ended with no energy left.
func (s *Stats) RecordExhaustion(exhausted bool) {
	if exhausted {
		s.ConsecutiveExhaustion++
		return
	}
	s.ConsecutiveExhaustion = 0
}

// Record dispatches a content-declared record. monthKey identifies the
// current month for per-month sets.
func (s *Stats) Record(r catalog.Record, amount int, monthKey string) {
	switch r {
	case catalog.RecordCardLost:
		s.RecordCardLost()
	case catalog.RecordTakeoutStolen:
		s.RecordTakeoutStolen()
	case catalog.RecordBikeStolen:
		s.RecordBikeStolen()
	case catalog.RecordMetPresident:
		s.RecordMetPresident()
	case catalog.RecordLuckinVisit:
		s.RecordLuckinVisit(monthKey)
	case catalog.RecordHelpRoommate:
		s.RecordHelpRoommate()
	case catalog.RecordPartTimeEarning:
		s.RecordPartTimeEarning(amount)
	case catalog.RecordBreakup:
		s.RecordBreakup()
	case catalog.RecordQuickHeal:
		s.RecordQuickHeal()
	case catalog.RecordFedAnimal:
		s.RecordFedAnimal()
	case catalog.RecordExperimentReport:
		s.RecordExperimentReport()
	case catalog.RecordOldBookBought:
		s.RecordOldBookBought()
	case catalog.RecordOldBookSold:
		s.RecordOldBookSold()
	}
}
