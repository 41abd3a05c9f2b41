// Package progression runs a playthrough: player actions, the monthly
// calendar, exams and endings. It owns the player state and drives the
// achievement and event engines.
package progression

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/event"
	"github.com/tatianab/xjtu-sim/internal/flavor"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/random"
)

const (
	DefaultFlavorChance  = 0.4
	DefaultFlavorTimeout = 8 * time.Second
)

// Persister stores the records of a playthrough. *store.Repository
// implements it.
type Persister interface {
	SaveState(ctx context.Context, st *models.PlayerState) error
	LoadState(ctx context.Context) (*models.PlayerState, bool)
	ClearState(ctx context.Context) error
	SaveTriggered(ctx context.Context, ids []string) error
	LoadTriggered(ctx context.Context) []string
	SaveAchievements(ctx context.Context, unlocked map[string]bool) error
	LoadAchievements(ctx context.Context) map[string]bool
	SaveStats(ctx context.Context, s *achievement.Stats) error
	LoadStats(ctx context.Context) *achievement.Stats
}

// Notifier receives unlocks and log lines as they happen. It must not call
// back into the engine.
type Notifier interface {
	AchievementUnlocked(a achievement.Achievement)
	EventResolved(line string)
}

type Options struct {
	Catalog      *catalog.Catalog
	Achievements *achievement.Engine
	Events       *event.Engine
	Store        Persister
	// Flavor is optional. FlavorChance is the share of turns that try it.
	Flavor        flavor.Provider
	FlavorChance  float64
	FlavorTimeout time.Duration
	Random        random.Source
	Notifier      Notifier
	Logger        *slog.Logger
}

// ExamResult is one graded course.
type ExamResult struct {
	CourseID   string
	Name       string
	Score      float64
	Grade      string
	GradePoint float64
	Credits    int
	Passed     bool
	Retake     bool
	Makeup     bool
}

// Report collects what happened during one call.
type Report struct {
	Lines    []string
	Unlocked []achievement.Achievement
	Exams    []ExamResult
	Pending  *models.PendingEvent
	// Ending is set when the call ended the game.
	Ending models.Ending
}

type Engine struct {
	mu sync.Mutex

	cat           *catalog.Catalog
	ach           *achievement.Engine
	events        *event.Engine
	store         Persister
	flavor        flavor.Provider
	flavorChance  float64
	flavorTimeout time.Duration
	rng           random.Source
	notify        Notifier
	logger        *slog.Logger

	st      *models.PlayerState
	college catalog.College
	mods    catalog.Modifiers

	lines    []string
	unlocked []achievement.Achievement
	exams    []ExamResult
}

// New builds an engine and restores the cross-playthrough achievement
// records from the store.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("progression: catalog is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Random
	if rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		rng = random.New(seed)
	}
	ach := opts.Achievements
	if ach == nil {
		ach = achievement.NewEngine(opts.Catalog)
	}
	events := opts.Events
	if events == nil {
		events = event.NewEngine(opts.Catalog, rng, logger)
	}
	chance := opts.FlavorChance
	if chance == 0 {
		chance = DefaultFlavorChance
	}
	timeout := opts.FlavorTimeout
	if timeout == 0 {
		timeout = DefaultFlavorTimeout
	}

	e := &Engine{
		cat:           opts.Catalog,
		ach:           ach,
		events:        events,
		store:         opts.Store,
		flavor:        opts.Flavor,
		flavorChance:  chance,
		flavorTimeout: timeout,
		rng:           rng,
		notify:        opts.Notifier,
		logger:        logger,
	}
	if e.store != nil {
		e.ach.Restore(e.store.LoadAchievements(ctx), e.store.LoadStats(ctx))
	}
	return e, nil
}

// NewGame starts a playthrough. Achievements and statistics carry over.
func (e *Engine) NewGame(ctx context.Context, backgroundID, collegeID string) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bg, ok := e.cat.Background(backgroundID)
	if !ok {
		return nil, reject("newGame", ErrUnknownChoice)
	}
	col, ok := e.cat.College(collegeID)
	if !ok {
		return nil, reject("newGame", ErrUnknownChoice)
	}
	mods := col.Modifiers

	st := &models.PlayerState{
		PlaythroughID:     uuid.NewString(),
		Background:        bg.ID,
		College:           col.ID,
		Campus:            col.Campus,
		GPA:               3.0 + bg.GPA,
		San:               80 + bg.San,
		Energy:            10,
		MaxEnergy:         10,
		Social:            60 + bg.Social + int(mods.Number(catalog.ModSocialInit)),
		Money:             1000 + bg.Money,
		Charm:             50 + int(mods.Number(catalog.ModCharmInit)),
		Reputation:        50,
		StudyEfficiency:   orDefault(bg.StudyEfficiency, 1),
		SocialEfficiency:  orDefault(bg.SocialEfficiency, 1),
		MonthlyMoney:      bg.MonthlyMoney,
		FailThreshold:     orDefault(bg.FailThreshold, 60),
		Year:              1,
		Month:             9,
		RelationshipStage: models.StageSingle,
		BiddingOpen:       true,
	}
	if e.store != nil {
		if err := e.store.ClearState(ctx); err != nil {
			e.logger.Error("clear previous save", "error", err)
		}
	}
	e.st = st
	e.college = col
	e.mods = mods
	e.events.Restore(nil)
	e.loadCourses()

	e.stats().RecordCollegePlayed(col.ID)
	e.stats().RecordVisitCampus(col.Campus)
	e.logf("Welcome to %s. Your first autumn begins.", col.Name)
	e.logger.Info("new game", "playthrough_id", st.PlaythroughID, "background", bg.ID, "college", col.ID)
	return e.finish(ctx), nil
}

// Resume loads the saved playthrough. It reports false when there is none.
func (e *Engine) Resume(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return false
	}
	st, ok := e.store.LoadState(ctx)
	if !ok {
		return false
	}
	col, ok := e.cat.College(st.College)
	if !ok {
		e.logger.Warn("saved game has unknown college", "college", st.College)
		return false
	}
	e.st = st
	e.college = col
	e.mods = col.Modifiers
	e.events.Restore(e.store.LoadTriggered(ctx))
	e.logger.Info("game resumed", "playthrough_id", st.PlaythroughID, "year", st.Year, "month", st.Month)
	return true
}

// State returns a copy of the player state, or nil before a game starts.
func (e *Engine) State() *models.PlayerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return nil
	}
	return e.st.Clone()
}

func (e *Engine) College() catalog.College {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.college
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Achievements returns the achievements in catalog order.
func (e *Engine) Achievements() []achievement.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ach.All()
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func (e *Engine) stats() *achievement.Stats {
	return e.ach.Stats()
}

func (e *Engine) monthKey() string {
	return fmt.Sprintf("y%dm%d", e.st.Year, e.st.Month)
}

func (e *Engine) unlimitedGPA() bool {
	return e.mods.Flag(catalog.ModGPANoLimit)
}

// logf records a player-facing log line for the current call.
func (e *Engine) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.lines = append(e.lines, line)
	if e.notify != nil {
		e.notify.EventResolved(line)
	}
}

func (e *Engine) announce(a achievement.Achievement) {
	e.unlocked = append(e.unlocked, a)
	e.logger.Info("achievement unlocked", "achievement_id", a.ID)
	if e.notify != nil {
		e.notify.AchievementUnlocked(a)
	}
}

// unlock unlocks an achievement by id. Unknown ids are ignored.
func (e *Engine) unlock(id string) {
	a, ok := e.ach.Unlock(id)
	if !ok {
		e.logger.Debug("achievement not unlocked", "achievement_id", id)
		return
	}
	e.announce(a)
}

// trigger evaluates the contextual trigger table.
func (e *Engine) trigger(c achievement.ActionContext) {
	c.College = e.st.College
	c.Month = e.st.Month
	c.InRelationship = e.st.InRelationship
	c.ExamSeason = models.IsExamSeason(e.st.Month)
	for _, a := range e.ach.Evaluate(c) {
		e.announce(a)
	}
}

func (e *Engine) begin(action string) error {
	switch {
	case e.st == nil:
		return reject(action, ErrNoGame)
	case e.st.GameOver:
		return reject(action, ErrGameOver)
	case e.st.Pending != nil:
		return reject(action, ErrEventPending)
	}
	return nil
}

func (e *Engine) discard() {
	e.lines, e.unlocked, e.exams = nil, nil, nil
}

// finish normalizes the state, polls achievements, saves and hands back
// the report of the call.
func (e *Engine) finish(ctx context.Context) *Report {
	e.normalize()
	e.checkLove()
	for _, a := range e.ach.Check(e.st) {
		e.announce(a)
	}
	e.save(ctx)

	rep := &Report{
		Lines:    e.lines,
		Unlocked: e.unlocked,
		Exams:    e.exams,
	}
	if e.st.Pending != nil {
		p := *e.st.Pending
		rep.Pending = &p
	}
	if e.st.GameOver {
		rep.Ending = e.st.Ending
	}
	e.discard()
	return rep
}

// save writes every record. Failures are logged and never fail the call.
func (e *Engine) save(ctx context.Context) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveState(ctx, e.st); err != nil {
		e.logger.Error("autosave failed", "record", "game_state", "error", err)
	}
	if err := e.store.SaveTriggered(ctx, e.events.Triggered()); err != nil {
		e.logger.Error("autosave failed", "record", "triggered_events", "error", err)
	}
	if err := e.store.SaveAchievements(ctx, e.ach.UnlockedMap()); err != nil {
		e.logger.Error("autosave failed", "record", "achievements", "error", err)
	}
	if err := e.store.SaveStats(ctx, e.stats()); err != nil {
		e.logger.Error("autosave failed", "record", "achievement_stats", "error", err)
	}
}

// normalize keeps every attribute inside its range.
func (e *Engine) normalize() {
	st := e.st
	st.MaxEnergy = models.ClampInt(st.MaxEnergy, 1, e.cat.Settings.MaxEnergyCap)
	st.Energy = models.ClampInt(st.Energy, 0, st.MaxEnergy)
	st.San = models.ClampInt(st.San, 0, 100)
	st.Social = models.ClampInt(st.Social, 0, 100)
	st.Charm = models.ClampInt(st.Charm, 0, 100)
	st.Reputation = models.ClampInt(st.Reputation, 0, 100)
	if st.Money < 0 {
		st.Money = 0
	}
	if st.GPA < 0 {
		st.GPA = 0
	}
	if st.StudyEfficiency < 0.1 {
		st.StudyEfficiency = 0.1
	}
}
