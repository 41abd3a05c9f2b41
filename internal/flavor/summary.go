package flavor

import (
	"fmt"
	"strings"

	"github.com/tatianab/xjtu-sim/internal/models"
)

var yearNames = map[int]string{1: "a freshman", 2: "a sophomore", 3: "a junior", 4: "a senior"}

var lastActionNames = map[string]string{
	"attendClass":   "just walked out of a lecture",
	"selfStudy":     "just left the library",
	"rest":          "slept in the dorm all day",
	"entertainment": "just came back from a day out",
	"date":          "just came back from a date",
	"club":          "just left a club meeting",
	"parttime":      "just finished a part-time shift",
	"research":      "just left the lab",
}

// Summarize describes the player in a few plain sentences for the prompt.
func Summarize(st *models.PlayerState, collegeName string) string {
	year, ok := yearNames[st.Year]
	if !ok {
		year = "a student past the fourth year"
	}
	if collegeName == "" {
		collegeName = "an unknown college"
	}

	gpaDesc := "hopeless and close to dropping out"
	switch {
	case st.GPA >= 3.8:
		gpaDesc = "top of the class"
	case st.GPA >= 3.0:
		gpaDesc = "doing fine"
	case st.GPA >= 2.0:
		gpaDesc = "dancing on the passing line"
	}

	sanDesc := "in good spirits"
	switch {
	case st.San < 20:
		sanDesc = "falling apart late at night"
	case st.San < 50:
		sanDesc = "under a lot of pressure"
	}

	doing, ok := lastActionNames[st.LastAction]
	if !ok {
		doing = "on the way to class"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The player is %s at %s. It is month %d.\n", year, collegeName, st.Month)
	fmt.Fprintf(&b, "Grades: GPA %.2f (%s).\n", st.GPA, gpaDesc)
	fmt.Fprintf(&b, "Mood: SAN %d (%s).\n", st.San, sanDesc)
	fmt.Fprintf(&b, "Money: %d yuan.\n", st.Money)
	fmt.Fprintf(&b, "Right now: %s.", doing)
	if st.InRelationship {
		b.WriteString("\nThey are in a relationship.")
	}
	return b.String()
}
