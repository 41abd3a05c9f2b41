package catalog

import (
	"fmt"

	"github.com/tatianab/xjtu-sim/internal/models"
	"gopkg.in/yaml.v3"
)

// Record names a statistics recorder that content may invoke.
type Record string

const (
	RecordCardLost         Record = "cardLost"
	RecordTakeoutStolen    Record = "takeoutStolen"
	RecordBikeStolen       Record = "bikeStolen"
	RecordMetPresident     Record = "metPresident"
	RecordLuckinVisit      Record = "luckinVisit"
	RecordHelpRoommate     Record = "helpRoommate"
	RecordPartTimeEarning  Record = "partTimeEarning"
	RecordBreakup          Record = "breakup"
	RecordQuickHeal        Record = "quickHeal"
	RecordFedAnimal        Record = "fedAnimal"
	RecordExperimentReport Record = "experimentReport"
	RecordOldBookBought    Record = "oldBookBought"
	RecordOldBookSold      Record = "oldBookSold"
)

var knownRecords = map[Record]bool{
	RecordCardLost:         true,
	RecordTakeoutStolen:    true,
	RecordBikeStolen:       true,
	RecordMetPresident:     true,
	RecordLuckinVisit:      true,
	RecordHelpRoommate:     true,
	RecordPartTimeEarning:  true,
	RecordBreakup:          true,
	RecordQuickHeal:        true,
	RecordFedAnimal:        true,
	RecordExperimentReport: true,
	RecordOldBookBought:    true,
	RecordOldBookSold:      true,
}

// Flag is a state flag an event branch can raise.
type Flag string

const (
	FlagLoveInterest Flag = "loveInterest"
	FlagBreakup      Flag = "breakup"
)

// Condition gates an ambient event. Zero fields do not constrain.
type Condition struct {
	Months         []int  `yaml:"months"`
	Years          []int  `yaml:"years"`
	Campus         string `yaml:"campus"`
	ExamSeason     bool   `yaml:"exam_season"`
	NightOnly      bool   `yaml:"night_only"`
	AfterClass     bool   `yaml:"after_class"`
	InRelationship bool   `yaml:"in_relationship"`
	MinCharm       int    `yaml:"min_charm"`
}

type AmbientEvent struct {
	ID           string       `yaml:"id"`
	Title        string       `yaml:"title"`
	Text         string       `yaml:"text"`
	Probability  float64      `yaml:"probability"`
	Effects      models.Delta `yaml:"effects"`
	Achievement  string       `yaml:"achievement"`
	Record       Record       `yaml:"record"`
	RecordAmount int          `yaml:"record_amount"`
	When         Condition    `yaml:"when"`
	// Sickness marks the event a sick-immune college replaces with the quick
	// recovery event.
	Sickness bool `yaml:"sickness"`
	// FirstCourseMastery is added to the first current course only.
	FirstCourseMastery float64 `yaml:"first_course_mastery"`
}

// Branch is one side of a chance special.
type Branch struct {
	Effects     models.Delta `yaml:"effects"`
	Message     string       `yaml:"message"`
	Achievement string       `yaml:"achievement"`
	Flag        Flag         `yaml:"flag"`
}

// Special is the optional extra resolution attached to a story option. It is
// one of ChanceSpecial, MasterySpecial, StudyBoostSpecial or ExamBonusSpecial.
type Special interface {
	special()
}

// ChanceSpecial applies Success with the given probability, Failure otherwise.
type ChanceSpecial struct {
	Probability float64
	Success     Branch
	Failure     Branch
}

// MasterySpecial adds Amount to every current course.
type MasterySpecial struct {
	Amount float64
}

// StudyBoostSpecial multiplies the gain of the next study action.
type StudyBoostSpecial struct {
	Multiplier float64
}

// ExamBonusSpecial shifts the random draw of the next exam.
type ExamBonusSpecial struct {
	Amount float64
}

func (ChanceSpecial) special()     {}
func (MasterySpecial) special()    {}
func (StudyBoostSpecial) special() {}
func (ExamBonusSpecial) special()  {}

type StoryOption struct {
	Text        string
	Message     string
	Effects     models.Delta
	Achievement string
	Record      Record
	Special     Special
}

type specialNode struct {
	Type        string  `yaml:"type"`
	Probability float64 `yaml:"probability"`
	Success     Branch  `yaml:"success"`
	Failure     Branch  `yaml:"failure"`
	Amount      float64 `yaml:"amount"`
	Multiplier  float64 `yaml:"multiplier"`
}

func (o *StoryOption) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Text        string       `yaml:"text"`
		Message     string       `yaml:"message"`
		Effects     models.Delta `yaml:"effects"`
		Achievement string       `yaml:"achievement"`
		Record      Record       `yaml:"record"`
		Special     *specialNode `yaml:"special"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*o = StoryOption{
		Text:        raw.Text,
		Message:     raw.Message,
		Effects:     raw.Effects,
		Achievement: raw.Achievement,
		Record:      raw.Record,
	}
	if raw.Special == nil {
		return nil
	}
	switch raw.Special.Type {
	case "chance":
		if raw.Special.Probability < 0 || raw.Special.Probability > 1 {
			return fmt.Errorf("line %d: chance probability %v out of range", value.Line, raw.Special.Probability)
		}
		o.Special = ChanceSpecial{
			Probability: raw.Special.Probability,
			Success:     raw.Special.Success,
			Failure:     raw.Special.Failure,
		}
	case "mastery":
		o.Special = MasterySpecial{Amount: raw.Special.Amount}
	case "studyBoost":
		o.Special = StudyBoostSpecial{Multiplier: raw.Special.Multiplier}
	case "examBonus":
		o.Special = ExamBonusSpecial{Amount: raw.Special.Amount}
	default:
		return fmt.Errorf("line %d: unknown special type %q", value.Line, raw.Special.Type)
	}
	return nil
}

type StoryEvent struct {
	ID           string             `yaml:"id"`
	Title        string             `yaml:"title"`
	Text         string             `yaml:"text"`
	Weight       float64            `yaml:"weight"`
	Once         bool               `yaml:"once"`
	Months       []int              `yaml:"months"`
	CollegeBoost map[string]float64 `yaml:"college_boost"`
	Options      []StoryOption      `yaml:"options"`
}

// EffectiveWeight is the base weight scaled by the boost for college.
func (e StoryEvent) EffectiveWeight(college string) float64 {
	w := e.Weight
	if w == 0 {
		w = 1
	}
	if boost, ok := e.CollegeBoost[college]; ok {
		w *= boost
	}
	return w
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// InMonth reports whether an event restricted to months may fire in month.
func InMonth(months []int, month int) bool {
	return len(months) == 0 || containsInt(months, month)
}
