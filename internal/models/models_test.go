package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestPlayerStateYAML(t *testing.T) {
	st := &PlayerState{
		PlaythroughID: "p1",
		College:       "lizhi",
		GPA:           3.4,
		Year:          2,
		Month:         3,
		CurrentCourses: []Course{
			{ID: "digital", Name: "Digital Logic", Credits: 3, Difficulty: 0.75, Mastery: 42, Logic: true},
		},
		Pending: &PendingEvent{
			Source:  "story",
			EventID: "lostCard",
			Options: []string{"Report it", "Ignore it"},
		},
		BBS: []string{"[praise] Student wins the Programming Contest"},
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var st2 PlayerState
	if err := yaml.Unmarshal(data, &st2); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}

	if st2.CurrentCourses[0].Mastery != 42 {
		t.Errorf("Expected mastery 42, got %v", st2.CurrentCourses[0].Mastery)
	}
	if st2.Pending == nil || len(st2.Pending.Options) != 2 {
		t.Errorf("Expected pending event with 2 options, got %+v", st2.Pending)
	}
}

func TestSemesterOf(t *testing.T) {
	want := map[int]Semester{
		9: SemesterFall, 12: SemesterFall, 1: SemesterFall,
		2: SemesterSpring, 6: SemesterSpring,
		7: SemesterSummer, 8: SemesterSummer,
	}
	for month, sem := range want {
		assert.Equal(t, sem, SemesterOf(month), "month %d", month)
	}
}

func TestExamCalendar(t *testing.T) {
	for month := 1; month <= 12; month++ {
		if IsExamMonth(month) {
			assert.True(t, IsExamSeason(month), "exam month %d is in exam season", month)
		}
	}
	assert.True(t, IsExamSeason(12))
	assert.False(t, IsExamMonth(12))
	assert.False(t, IsExamSeason(9))
}

func TestAddMasteryClamps(t *testing.T) {
	c := Course{Mastery: 95}
	c.AddMastery(10)
	assert.Equal(t, 100.0, c.Mastery)
	c.AddMastery(-250)
	assert.Equal(t, 0.0, c.Mastery)
}

func TestGPAFollowsRunningSums(t *testing.T) {
	st := &PlayerState{GPA: 3.0}

	// Before any credits the adjustment applies directly.
	st.AdjustGPA(0.2, false)
	assert.InDelta(t, 3.2, st.GPA, 1e-9)

	st.TotalCredits = 10
	st.TotalGradePoints = 35
	st.RecomputeGPA(false)
	assert.InDelta(t, 3.5, st.GPA, 1e-9)

	st.AdjustGPA(0.1, false)
	assert.InDelta(t, 36.0, st.TotalGradePoints, 1e-9)
	assert.InDelta(t, st.TotalGradePoints/st.TotalCredits, st.GPA, 1e-9)

	st.TotalGradePoints = 46
	st.RecomputeGPA(false)
	assert.Equal(t, 4.3, st.GPA)
	st.RecomputeGPA(true)
	assert.InDelta(t, 4.6, st.GPA, 1e-9)
}

func TestCloneSharesNothing(t *testing.T) {
	st := &PlayerState{
		CurrentCourses: []Course{{ID: "a", Mastery: 10}},
		BBS:            []string{"x"},
		Pending:        &PendingEvent{Options: []string{"ok"}},
	}
	c := st.Clone()
	c.CurrentCourses[0].Mastery = 90
	c.BBS[0] = "y"
	c.Pending.Options[0] = "no"

	assert.Equal(t, 10.0, st.CurrentCourses[0].Mastery)
	assert.Equal(t, "x", st.BBS[0])
	assert.Equal(t, "ok", st.Pending.Options[0])
	assert.Equal(t, st.CurrentCourses[0].ID, st.Course("a").ID)
	assert.Nil(t, st.Course("b"))
}

func TestDeltaAdd(t *testing.T) {
	d := Delta{San: 5, Money: -50}.Add(Delta{San: -2, Mastery: 3})
	assert.Equal(t, Delta{San: 3, Money: -50, Mastery: 3}, d)
	assert.True(t, Delta{}.IsZero())
	assert.False(t, d.IsZero())
}
