// Command simulate plays a whole playthrough with a fixed policy and prints
// the log. With the same seed it replays the same game, which makes it a
// quick regression check for balance changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/config"
	"github.com/tatianab/xjtu-sim/internal/flavor"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/progression"
	"github.com/tatianab/xjtu-sim/internal/random"
	"github.com/tatianab/xjtu-sim/internal/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxTurns bounds a run in case the policy gets stuck.
const maxTurns = 120

func main() {
	var (
		background = flag.String("background", "normal", "background id")
		college    = flag.String("college", "nanyang", "college id")
		seed       = flag.Int64("seed", 1, "random seed")
		quiet      = flag.Bool("quiet", false, "only print the summary")
		useFlavor  = flag.Bool("flavor", false, "use generated events when GEMINI_API_KEY is set")
	)
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cat, err := catalog.Default()
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}

	var provider flavor.Provider
	if *useFlavor && cfg.FlavorEnabled() {
		g, err := flavor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, nil)
		if err != nil {
			log.Fatalf("Failed to create flavor provider: %v", err)
		}
		defer g.Close()
		provider = g
	}

	eng, err := progression.New(ctx, progression.Options{
		Catalog:       cat,
		Store:         store.NewRepository(store.NewMemory(), "simulate", logger),
		Flavor:        provider,
		FlavorChance:  cfg.FlavorChance,
		FlavorTimeout: cfg.FlavorTimeout,
		Random:        random.New(*seed),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	var out io.Writer = os.Stdout
	if *quiet {
		out = io.Discard
	}
	sim := &simulator{eng: eng, out: out, printer: message.NewPrinter(language.English)}
	if err := sim.play(ctx, *background, *college); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	sim.summary(os.Stdout)
}

type simulator struct {
	eng     *progression.Engine
	out     io.Writer
	printer *message.Printer
	turns   int
}

func (s *simulator) print(rep *progression.Report) {
	for _, line := range rep.Lines {
		fmt.Fprintln(s.out, "  "+line)
	}
	for _, ex := range rep.Exams {
		fmt.Fprintf(s.out, "  exam %-28s %5.1f %s\n", ex.Name, ex.Score, ex.Grade)
	}
	for _, a := range rep.Unlocked {
		fmt.Fprintf(s.out, "  ACHIEVEMENT %s %s\n", a.Icon, a.Name)
	}
}

// try runs one step and reports whether it was accepted. Rejections are
// expected; the policy simply moves on.
func (s *simulator) try(name string, fn func() (*progression.Report, error)) bool {
	rep, err := fn()
	if err != nil {
		if progression.IsRejection(err) {
			return false
		}
		fmt.Fprintf(s.out, "  %s: %v\n", name, err)
		return false
	}
	fmt.Fprintf(s.out, "> %s\n", name)
	s.print(rep)
	return true
}

func (s *simulator) play(ctx context.Context, background, college string) error {
	rep, err := s.eng.NewGame(ctx, background, college)
	if err != nil {
		return err
	}
	s.print(rep)

	for s.turns = 0; s.turns < maxTurns; s.turns++ {
		st := s.eng.State()
		if st.GameOver {
			return nil
		}
		if st.Pending != nil {
			s.try("choose 1", func() (*progression.Report, error) { return s.eng.Choose(ctx, 0) })
			continue
		}
		s.printer.Fprintf(s.out, "--- Year %d, month %d | GPA %.2f SAN %d money %d ---\n",
			st.Year, st.Month, st.GPA, st.San, st.Money)
		s.decide(ctx, st)
		s.act(ctx)
		if s.eng.State().GameOver {
			return nil
		}
		if !s.try("next", func() (*progression.Report, error) { return s.eng.NextTurn(ctx) }) {
			return errors.New("next turn rejected")
		}
	}
	return fmt.Errorf("no ending after %d turns", maxTurns)
}

// decide answers the open one-off choices.
func (s *simulator) decide(ctx context.Context, st *models.PlayerState) {
	if st.BiddingOpen {
		s.try("bid 30/40/30", func() (*progression.Report, error) {
			return s.eng.BidCourses(ctx, progression.Bids{Hard: 30, Interest: 40, Easy: 30})
		})
	}
	if st.WinterBreakOpen {
		activity := "learning"
		if st.San < 50 {
			activity = "stay_home"
		}
		s.try("winter "+activity, func() (*progression.Report, error) { return s.eng.WinterBreak(ctx, activity) })
	}
	if st.CareerPath == models.CareerNone && st.Year == 3 {
		s.try("career postgrad", func() (*progression.Report, error) { return s.eng.ChooseCareer(ctx, models.CareerPostgrad) })
	}
	if st.ExamRushOffered && !st.ExamRushMode {
		s.try("exam rush", func() (*progression.Report, error) { return s.eng.EnterExamRush(ctx) })
	}
}

// act spends the month's energy.
func (s *simulator) act(ctx context.Context) {
	for range 12 {
		st := s.eng.State()
		if st.GameOver || st.Energy == 0 {
			return
		}
		if !s.step(ctx, st) {
			return
		}
	}
}

func (s *simulator) step(ctx context.Context, st *models.PlayerState) bool {
	e := s.eng
	switch {
	case st.ThesisMode && st.San <= 25:
		return s.try("thesis rest", func() (*progression.Report, error) { return e.Thesis(ctx, progression.ThesisRest) })
	case st.ThesisMode:
		return s.try("thesis work", func() (*progression.Report, error) { return e.Thesis(ctx, progression.ThesisWork) })
	case st.San < 35:
		return s.try("bath", func() (*progression.Report, error) { return e.Bath(ctx) }) ||
			s.try("rest", func() (*progression.Report, error) { return e.Rest(ctx) })
	case st.Money < 200 && !st.ExamRushMode:
		return s.try("work", func() (*progression.Report, error) { return e.PartTime(ctx) })
	case st.RunsThisMonth < 3 && (st.Month == 4 || st.Month == 9) && !st.ExamRushMode:
		return s.try("run", func() (*progression.Report, error) { return e.Run(ctx) })
	case len(st.RetakeCourses) > 0 && st.Energy >= 3:
		id := st.RetakeCourses[0].ID
		return s.try("study retake "+id, func() (*progression.Report, error) {
			return e.SelfStudy(ctx, "library", progression.StudyRetake, id)
		})
	case len(st.CurrentCourses) > 0 && st.ActionsThisTurn%2 == 0:
		return s.try("class", func() (*progression.Report, error) { return e.AttendClass(ctx, progression.StudyAll, "") })
	case len(st.CurrentCourses) > 0 && st.Energy >= 3:
		return s.try("study library", func() (*progression.Report, error) {
			return e.SelfStudy(ctx, "library", progression.StudyAll, "")
		})
	case !st.ExamRushMode:
		return s.try("club", func() (*progression.Report, error) { return e.Club(ctx) }) ||
			s.try("volunteer", func() (*progression.Report, error) { return e.Volunteer(ctx) })
	}
	return s.try("rest", func() (*progression.Report, error) { return e.Rest(ctx) })
}

func (s *simulator) summary(w io.Writer) {
	st := s.eng.State()
	if st == nil {
		return
	}
	unlocked := 0
	for _, a := range s.eng.Achievements() {
		if a.Unlocked {
			unlocked++
		}
	}
	p := s.printer
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "College:      %s\n", st.College)
	fmt.Fprintf(w, "Ending:       %s (year %d, month %d, %d turns)\n", st.Ending, st.Year, st.Month, s.turns)
	fmt.Fprintf(w, "GPA:          %.2f over %.0f credits\n", st.GPA, st.TotalCredits)
	fmt.Fprintf(w, "Failed:       %d\n", st.FailedCourses)
	p.Fprintf(w, "Money:        %d yuan\n", st.Money)
	fmt.Fprintf(w, "SAN / Social: %d / %d\n", st.San, st.Social)
	fmt.Fprintf(w, "Achievements: %d\n", unlocked)
}
