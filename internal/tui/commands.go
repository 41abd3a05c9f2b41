package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/progression"
)

var errUsage = errors.New("unknown command, type help for the list")

const helpText = `Actions:
  class [focus <course> | retake <course>]     attend lectures
  study <place> [focus <course> | retake <course>]
  club | volunteer | work | research | bath | rest | run
  compete <id> | eat <meal> | fun <id> | date <spot>
  thesis work|meeting|rest|city
Turn:
  next                 end the month
  choose <n>           answer the current event
Decisions:
  winter <activity> | bid <hard> <interest> <easy> | career postgrad|abroad|job
  westward | rush
Other: help, /restart, /quit`

// studyTarget reads the optional "focus <id>" or "retake <id>" suffix.
func studyTarget(args []string) (progression.StudyMode, string, error) {
	if len(args) == 0 {
		return progression.StudyAll, "", nil
	}
	if len(args) != 2 {
		return "", "", errUsage
	}
	switch args[0] {
	case "focus":
		return progression.StudyFocused, args[1], nil
	case "retake":
		return progression.StudyRetake, args[1], nil
	}
	return "", "", errUsage
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	return args[0], nil
}

// dispatch runs one typed command against the engine.
func dispatch(ctx context.Context, eng *progression.Engine, line string) (*progression.Report, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, errUsage
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "class":
		mode, id, err := studyTarget(args)
		if err != nil {
			return nil, err
		}
		return eng.AttendClass(ctx, mode, id)
	case "study":
		if len(args) == 0 {
			return nil, errUsage
		}
		mode, id, err := studyTarget(args[1:])
		if err != nil {
			return nil, err
		}
		return eng.SelfStudy(ctx, args[0], mode, id)
	case "club":
		return eng.Club(ctx)
	case "volunteer":
		return eng.Volunteer(ctx)
	case "work":
		return eng.PartTime(ctx)
	case "research":
		return eng.Research(ctx)
	case "bath":
		return eng.Bath(ctx)
	case "rest":
		return eng.Rest(ctx)
	case "run":
		return eng.Run(ctx)
	case "compete", "eat", "fun", "date", "thesis", "winter", "career":
		arg, err := oneArg(args)
		if err != nil {
			return nil, err
		}
		switch cmd {
		case "compete":
			return eng.Competition(ctx, arg)
		case "eat":
			return eng.Eat(ctx, arg)
		case "fun":
			return eng.Entertainment(ctx, arg)
		case "date":
			return eng.Date(ctx, arg)
		case "thesis":
			return eng.Thesis(ctx, progression.ThesisTask(arg))
		case "winter":
			return eng.WinterBreak(ctx, arg)
		default:
			return eng.ChooseCareer(ctx, models.CareerPath(arg))
		}
	case "next":
		return eng.NextTurn(ctx)
	case "choose":
		arg, err := oneArg(args)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errUsage
		}
		return eng.Choose(ctx, n-1)
	case "bid":
		if len(args) != 3 {
			return nil, errUsage
		}
		var v [3]int
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return nil, errUsage
			}
			v[i] = n
		}
		return eng.BidCourses(ctx, progression.Bids{Hard: v[0], Interest: v[1], Easy: v[2]})
	case "westward":
		return eng.CommitWestward(ctx)
	case "rush":
		return eng.EnterExamRush(ctx)
	}
	return nil, errUsage
}

// describeError turns a rejection into a player-facing line.
func describeError(err error) string {
	switch {
	case errors.Is(err, progression.ErrInsufficientEnergy):
		return "You are too tired for that."
	case errors.Is(err, progression.ErrInsufficientMoney):
		return "You cannot afford that."
	case errors.Is(err, progression.ErrRushModeLocked):
		return "Exam rush: only study, rest, meals and baths until the exams."
	case errors.Is(err, progression.ErrEventPending):
		return "Answer the current event first (choose <n>)."
	case errors.Is(err, progression.ErrNoCourses):
		return "There are no courses to study for."
	case errors.Is(err, progression.ErrGameOver):
		return "The game is over. Type /restart to play again."
	case errors.Is(err, progression.ErrNotAvailable):
		return "That is not possible right now."
	case errors.Is(err, progression.ErrUnknownChoice):
		return "There is no such option."
	case errors.Is(err, errUsage):
		return errUsage.Error()
	}
	return fmt.Sprintf("Error: %v", err)
}
