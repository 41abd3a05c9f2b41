package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/random"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Settings: catalog.Settings{StoryChance: 0.6},
		Ambient: []catalog.AmbientEvent{
			{ID: "winterOnly", Probability: 1, When: catalog.Condition{Months: []int{12}}},
			{ID: "sick", Probability: 0.5, Sickness: true, Effects: models.Delta{San: -8}},
			{ID: "cat", Probability: 0.5, Effects: models.Delta{San: 5}, Record: catalog.RecordFedAnimal},
		},
		QuickHeal: catalog.AmbientEvent{ID: "quickHeal", Effects: models.Delta{San: 2}, Record: catalog.RecordQuickHeal},
		Stories: []catalog.StoryEvent{
			{
				ID:     "a",
				Weight: 1,
				Options: []catalog.StoryOption{
					{Text: "risk", Effects: models.Delta{Energy: -1}, Special: catalog.ChanceSpecial{
						Probability: 0.5,
						Success:     catalog.Branch{Effects: models.Delta{San: 5}, Achievement: "casablanca"},
						Failure:     catalog.Branch{Effects: models.Delta{San: -10}},
					}},
					{Text: "safe", Effects: models.Delta{Social: 1}},
				},
			},
			{
				ID:           "b",
				Weight:       1,
				Once:         true,
				CollegeBoost: map[string]float64{"zhongying": 3},
				Options: []catalog.StoryOption{
					{Text: "boost", Special: catalog.StudyBoostSpecial{Multiplier: 1.5}},
					{Text: "luck", Special: catalog.ExamBonusSpecial{Amount: 0.05}},
					{Text: "learn", Special: catalog.MasterySpecial{Amount: 3}},
				},
			},
			{
				ID:      "summer",
				Weight:  1,
				Months:  []int{7},
				Options: []catalog.StoryOption{{Text: "x"}, {Text: "y"}},
			},
		},
	}
}

func TestRollAmbientFirstEligibleSuccessWins(t *testing.T) {
	state := &models.PlayerState{Month: 10}
	// winterOnly is skipped by its condition, sick fails its draw, cat succeeds.
	e := NewEngine(testCatalog(), random.NewScripted(0.9, 0.1), nil)

	out, ok := e.RollAmbient(state, false)
	require.True(t, ok)
	assert.Equal(t, "cat", out.EventID)
	assert.Equal(t, 5, out.Delta.San)
	assert.Equal(t, []RecordCall{{Record: catalog.RecordFedAnimal}}, out.Records)
}

func TestRollAmbientNone(t *testing.T) {
	e := NewEngine(testCatalog(), random.NewScripted(0.9, 0.9), nil)
	_, ok := e.RollAmbient(&models.PlayerState{Month: 10}, false)
	assert.False(t, ok)
}

func TestSickImmunitySubstitutesQuickHeal(t *testing.T) {
	state := &models.PlayerState{Month: 10}

	e := NewEngine(testCatalog(), random.NewScripted(0.1), nil)
	out, ok := e.RollAmbient(state, false)
	require.True(t, ok)
	assert.Equal(t, "sick", out.EventID)

	e = NewEngine(testCatalog(), random.NewScripted(0.1), nil)
	out, ok = e.RollAmbient(state, true)
	require.True(t, ok)
	assert.Equal(t, "quickHeal", out.EventID)
	assert.Equal(t, 2, out.Delta.San)
	assert.Equal(t, catalog.RecordQuickHeal, out.Records[0].Record)
}

func TestOnceEventIsNeverEligibleAgain(t *testing.T) {
	e := NewEngine(testCatalog(), random.NewScripted(), nil)
	state := &models.PlayerState{Month: 3}

	var before []string
	for _, ev := range e.Eligible(state) {
		before = append(before, ev.ID)
	}
	assert.Equal(t, []string{"a", "b"}, before)

	e.MarkTriggered("b")
	for _, ev := range e.Eligible(state) {
		assert.NotEqual(t, "b", ev.ID)
	}
	assert.Equal(t, []string{"b"}, e.Triggered())

	e.Restore(nil)
	assert.Len(t, e.Eligible(state), 2)
}

func TestRollStoryGateAndWeights(t *testing.T) {
	state := &models.PlayerState{Month: 3, College: "zhongying"}

	e := NewEngine(testCatalog(), random.NewScripted(0.6), nil)
	_, ok := e.RollStory(state)
	assert.False(t, ok, "draw at the trigger chance does not fire")

	// total weight is 1 + 3; 0.3*4 = 1.2 passes the first event.
	e = NewEngine(testCatalog(), random.NewScripted(0.1, 0.3), nil)
	ev, ok := e.RollStory(state)
	require.True(t, ok)
	assert.Equal(t, "b", ev.ID)

	state.College = "nanyang"
	e = NewEngine(testCatalog(), random.NewScripted(0.1, 0.3), nil)
	ev, ok = e.RollStory(state)
	require.True(t, ok)
	assert.Equal(t, "a", ev.ID)
}

func TestResolveChance(t *testing.T) {
	cat := testCatalog()

	e := NewEngine(cat, random.NewScripted(0.2), nil)
	out, err := e.Resolve(cat.Stories[0], 0)
	require.NoError(t, err)
	assert.Equal(t, models.Delta{Energy: -1, San: 5}, out.Delta)
	assert.Equal(t, []string{"casablanca"}, out.Achievements)

	e = NewEngine(cat, random.NewScripted(0.7), nil)
	out, err = e.Resolve(cat.Stories[0], 0)
	require.NoError(t, err)
	assert.Equal(t, models.Delta{Energy: -1, San: -10}, out.Delta)
	assert.Empty(t, out.Achievements)
}

func TestResolveSpecials(t *testing.T) {
	cat := testCatalog()
	e := NewEngine(cat, random.NewScripted(), nil)

	out, err := e.Resolve(cat.Stories[1], 0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, out.StudyBoost)
	assert.Contains(t, e.Triggered(), "b")

	out, err = e.Resolve(cat.Stories[1], 1)
	require.NoError(t, err)
	assert.Equal(t, 0.05, out.ExamBonus)

	out, err = e.Resolve(cat.Stories[1], 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.Delta.Mastery)

	_, err = e.Resolve(cat.Stories[1], 3)
	assert.Error(t, err)
}

func TestConditionHolds(t *testing.T) {
	tests := []struct {
		name  string
		cond  catalog.Condition
		state models.PlayerState
		want  bool
	}{
		{"empty", catalog.Condition{}, models.PlayerState{Month: 5}, true},
		{"exam season", catalog.Condition{ExamSeason: true}, models.PlayerState{Month: 12}, true},
		{"not exam season", catalog.Condition{ExamSeason: true}, models.PlayerState{Month: 11}, false},
		{"campus", catalog.Condition{Campus: "innovationPort"}, models.PlayerState{Campus: "xingqing"}, false},
		{"year", catalog.Condition{Years: []int{3, 4}}, models.PlayerState{Year: 3}, true},
		{"after class", catalog.Condition{AfterClass: true}, models.PlayerState{LastAction: "attendClass"}, true},
		{"night", catalog.Condition{NightOnly: true}, models.PlayerState{LastAction: "rest"}, false},
		{"relationship", catalog.Condition{InRelationship: true}, models.PlayerState{}, false},
		{"charm", catalog.Condition{MinCharm: 50}, models.PlayerState{Charm: 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditionHolds(tt.cond, &tt.state))
		})
	}
}
