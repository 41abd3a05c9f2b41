// Package catalog holds the read-only game content: backgrounds, colleges,
// courses, places, events and achievement copy.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/tatianab/xjtu-sim/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var content embed.FS

type Settings struct {
	CoursesPerSemester int     `yaml:"courses_per_semester"`
	StoryChance        float64 `yaml:"story_chance"`
	MaxEnergyCap       int     `yaml:"max_energy_cap"`
	BBSLimit           int     `yaml:"bbs_limit"`
}

type Background struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Description      string  `yaml:"description"`
	GPA              float64 `yaml:"gpa"`
	San              int     `yaml:"san"`
	Social           int     `yaml:"social"`
	Money            int     `yaml:"money"`
	StudyEfficiency  float64 `yaml:"study_efficiency"`
	SocialEfficiency float64 `yaml:"social_efficiency"`
	MonthlyMoney     int     `yaml:"monthly_money"`
	FailThreshold    float64 `yaml:"fail_threshold"`
}

type College struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Campus      string    `yaml:"campus"`
	Modifiers   Modifiers `yaml:"modifiers"`
	// DateReward applies on a successful first date.
	DateReward models.Delta `yaml:"date_reward"`
	// DateUpkeep applies on later dates while in a relationship.
	DateUpkeep models.Delta `yaml:"date_upkeep"`
}

type CourseDef struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Credits    int               `yaml:"credits"`
	Difficulty float64           `yaml:"difficulty"`
	Type       models.CourseType `yaml:"type"`
	Core       bool              `yaml:"core"`
	Logic      bool              `yaml:"logic"`
	DecayRate  float64           `yaml:"decay_rate"`
}

type SummerCourse struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Credits int    `yaml:"credits"`
	Energy  int    `yaml:"energy"`
	San     int    `yaml:"san"`
}

type YearCourses struct {
	Year        int          `yaml:"year"`
	Fall        []CourseDef  `yaml:"fall"`
	Spring      []CourseDef  `yaml:"spring"`
	EliteFall   *CourseDef   `yaml:"elite_fall"`
	EliteSpring *CourseDef   `yaml:"elite_spring"`
	Summer      SummerCourse `yaml:"summer"`
}

type StudyLocation struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	MasteryBonus float64  `yaml:"mastery_bonus"`
	SanLoss      int      `yaml:"san_loss"`
	LostChance   float64  `yaml:"lost_chance"`
	College      string   `yaml:"college"`
	Requires     Modifier `yaml:"requires"`
	Special      bool     `yaml:"special"`
}

type Entertainment struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Cost        int    `yaml:"cost"`
	San         int    `yaml:"san"`
	Campus      string `yaml:"campus"`
	SeasonBonus int    `yaml:"season_bonus"`
	BonusMonths []int  `yaml:"bonus_months"`
	Special     bool   `yaml:"special"`
}

type DateSpot struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Cost    int    `yaml:"cost"`
	San     int    `yaml:"san"`
	Months  []int  `yaml:"months"`
	Special bool   `yaml:"special"`
}

type Meal struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Cost    int    `yaml:"cost"`
	San     int    `yaml:"san"`
	Canteen bool   `yaml:"canteen"`
}

type Competition struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Difficulty string  `yaml:"difficulty"`
	Social     int     `yaml:"social"`
	GPA        float64 `yaml:"gpa"`
	San        int     `yaml:"san"`
	Charm      int     `yaml:"charm"`
	Toefl      int     `yaml:"toefl"`
}

// WinterActivity is one winter break option. CollegeEffects replaces Effects
// for the listed colleges.
type WinterActivity struct {
	ID             string                  `yaml:"id"`
	Name           string                  `yaml:"name"`
	MinYear        int                     `yaml:"min_year"`
	MinMoney       int                     `yaml:"min_money"`
	Effects        models.Delta            `yaml:"effects"`
	CollegeEffects map[string]models.Delta `yaml:"college_effects"`
}

// EffectsFor returns the effects of the activity for a college.
func (w WinterActivity) EffectsFor(college string) models.Delta {
	if d, ok := w.CollegeEffects[college]; ok {
		return d
	}
	return w.Effects
}

type AchievementDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Hidden      bool   `yaml:"hidden"`
}

// Catalog is the full content set. It is never mutated after Load.
type Catalog struct {
	Settings         Settings         `yaml:"settings"`
	Backgrounds      []Background     `yaml:"backgrounds"`
	Colleges         []College        `yaml:"colleges"`
	Years            []YearCourses    `yaml:"years"`
	StudyLocations   []StudyLocation  `yaml:"study_locations"`
	Entertainments   []Entertainment  `yaml:"entertainments"`
	DateSpots        []DateSpot       `yaml:"date_spots"`
	Meals            []Meal           `yaml:"meals"`
	Competitions     []Competition    `yaml:"competitions"`
	WinterActivities []WinterActivity `yaml:"winter_activities"`
	Ambient          []AmbientEvent   `yaml:"ambient_events"`
	QuickHeal        AmbientEvent     `yaml:"quick_heal"`
	Stories          []StoryEvent     `yaml:"story_events"`
	Achievements     []AchievementDef `yaml:"achievements"`
}

// Default loads the content embedded in the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load decodes every .yaml file at the root of fsys into one catalog. Each
// file contributes its own top-level sections.
func Load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no content files found")
	}
	c := &Catalog{}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) applyDefaults() {
	if c.Settings.CoursesPerSemester == 0 {
		c.Settings.CoursesPerSemester = 2
	}
	if c.Settings.StoryChance == 0 {
		c.Settings.StoryChance = 0.6
	}
	if c.Settings.MaxEnergyCap == 0 {
		c.Settings.MaxEnergyCap = 15
	}
	if c.Settings.BBSLimit == 0 {
		c.Settings.BBSLimit = 20
	}
}

func (c *Catalog) validate() error {
	seen := map[string]bool{}
	unique := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		key := kind + "/" + id
		if seen[key] {
			return fmt.Errorf("duplicate %s %q", kind, id)
		}
		seen[key] = true
		return nil
	}
	for _, b := range c.Backgrounds {
		if err := unique("background", b.ID); err != nil {
			return err
		}
	}
	for _, col := range c.Colleges {
		if err := unique("college", col.ID); err != nil {
			return err
		}
	}
	for _, ev := range c.Ambient {
		if err := unique("ambient event", ev.ID); err != nil {
			return err
		}
		if ev.Probability < 0 || ev.Probability > 1 {
			return fmt.Errorf("ambient event %q: probability %v out of range", ev.ID, ev.Probability)
		}
		if ev.Record != "" && !knownRecords[ev.Record] {
			return fmt.Errorf("ambient event %q: unknown record %q", ev.ID, ev.Record)
		}
	}
	for _, ev := range c.Stories {
		if err := unique("story event", ev.ID); err != nil {
			return err
		}
		if len(ev.Options) < 2 {
			return fmt.Errorf("story event %q: needs at least two options", ev.ID)
		}
		for i, opt := range ev.Options {
			if opt.Record != "" && !knownRecords[opt.Record] {
				return fmt.Errorf("story event %q option %d: unknown record %q", ev.ID, i, opt.Record)
			}
		}
	}
	for _, a := range c.Achievements {
		if err := unique("achievement", a.ID); err != nil {
			return err
		}
	}
	for _, loc := range c.StudyLocations {
		if loc.Requires != "" && !knownModifiers[loc.Requires] {
			return fmt.Errorf("study location %q: unknown modifier %q", loc.ID, loc.Requires)
		}
	}
	return nil
}

func (c *Catalog) Background(id string) (Background, bool) {
	for _, b := range c.Backgrounds {
		if b.ID == id {
			return b, true
		}
	}
	return Background{}, false
}

func (c *Catalog) College(id string) (College, bool) {
	for _, col := range c.Colleges {
		if col.ID == id {
			return col, true
		}
	}
	return College{}, false
}

func (c *Catalog) year(year int) (YearCourses, bool) {
	for _, y := range c.Years {
		if y.Year == year {
			return y, true
		}
	}
	return YearCourses{}, false
}

// SemesterCourses lists the catalog courses of a year and semester in order.
func (c *Catalog) SemesterCourses(year int, sem models.Semester) []CourseDef {
	y, ok := c.year(year)
	if !ok {
		return nil
	}
	switch sem {
	case models.SemesterFall:
		return y.Fall
	case models.SemesterSpring:
		return y.Spring
	}
	return nil
}

// EliteCourse returns the extra course of the elite track, if any.
func (c *Catalog) EliteCourse(year int, sem models.Semester) (CourseDef, bool) {
	y, ok := c.year(year)
	if !ok {
		return CourseDef{}, false
	}
	var def *CourseDef
	switch sem {
	case models.SemesterFall:
		def = y.EliteFall
	case models.SemesterSpring:
		def = y.EliteSpring
	}
	if def == nil {
		return CourseDef{}, false
	}
	return *def, true
}

func (c *Catalog) SummerCourse(year int) (SummerCourse, bool) {
	y, ok := c.year(year)
	if !ok || y.Summer.ID == "" {
		return SummerCourse{}, false
	}
	return y.Summer, true
}

func (c *Catalog) StudyLocation(id string) (StudyLocation, bool) {
	for _, l := range c.StudyLocations {
		if l.ID == id {
			return l, true
		}
	}
	return StudyLocation{}, false
}

func (c *Catalog) Entertainment(id string) (Entertainment, bool) {
	for _, e := range c.Entertainments {
		if e.ID == id {
			return e, true
		}
	}
	return Entertainment{}, false
}

func (c *Catalog) DateSpot(id string) (DateSpot, bool) {
	for _, d := range c.DateSpots {
		if d.ID == id {
			return d, true
		}
	}
	return DateSpot{}, false
}

func (c *Catalog) Meal(id string) (Meal, bool) {
	for _, m := range c.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return Meal{}, false
}

func (c *Catalog) Competition(id string) (Competition, bool) {
	for _, comp := range c.Competitions {
		if comp.ID == id {
			return comp, true
		}
	}
	return Competition{}, false
}

func (c *Catalog) WinterActivity(id string) (WinterActivity, bool) {
	for _, w := range c.WinterActivities {
		if w.ID == id {
			return w, true
		}
	}
	return WinterActivity{}, false
}

func (c *Catalog) Achievement(id string) (AchievementDef, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementDef{}, false
}
