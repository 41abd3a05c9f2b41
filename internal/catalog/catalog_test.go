package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/models"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Colleges, 9)
	assert.Len(t, c.Backgrounds, 4)
	assert.Equal(t, 2, c.Settings.CoursesPerSemester)
	assert.Equal(t, 0.6, c.Settings.StoryChance)

	nanyang, ok := c.College("nanyang")
	require.True(t, ok)
	assert.Equal(t, 1.15, nanyang.Modifiers.Multiplier(ModGPAEfficiency))
	assert.Equal(t, 1.0, nanyang.Modifiers.Multiplier(ModMoneyEfficiency))

	qxs, ok := c.College("qianxuesen")
	require.True(t, ok)
	assert.True(t, qxs.Modifiers.Flag(ModGPANoLimit))
	assert.False(t, nanyang.Modifiers.Flag(ModGPANoLimit))

	fall := c.SemesterCourses(1, models.SemesterFall)
	require.NotEmpty(t, fall)
	assert.Equal(t, "math1", fall[0].ID)
	assert.Nil(t, c.SemesterCourses(4, models.SemesterFall))

	elite, ok := c.EliteCourse(1, models.SemesterFall)
	require.True(t, ok)
	assert.Equal(t, 1.3, elite.DecayRate)

	_, ok = c.SummerCourse(4)
	assert.False(t, ok)
	assert.Equal(t, "quickHeal", c.QuickHeal.ID)
}

func TestStorySpecialsDecodeToVariants(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	byID := map[string]StoryEvent{}
	for _, ev := range c.Stories {
		byID[ev.ID] = ev
	}

	gate := byID["noCardEntry"].Options[1].Special
	chance, ok := gate.(ChanceSpecial)
	require.True(t, ok)
	assert.Equal(t, 0.5, chance.Probability)
	assert.Equal(t, "casablanca", chance.Success.Achievement)

	boost, ok := byID["luckyLibrarySeat"].Options[0].Special.(StudyBoostSpecial)
	require.True(t, ok)
	assert.Equal(t, 1.5, boost.Multiplier)

	bonus, ok := byID["goddessBlessing"].Options[0].Special.(ExamBonusSpecial)
	require.True(t, ok)
	assert.Equal(t, 0.05, bonus.Amount)
	assert.True(t, byID["goddessBlessing"].Once)

	assert.Equal(t, 2.0, byID["volunteerUrgent"].EffectiveWeight("zhongying"))
	assert.Equal(t, 1.0, byID["volunteerUrgent"].EffectiveWeight("nanyang"))
}

func TestLoadRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{
			name: "unknown modifier",
			file: "colleges:\n  - id: x\n    modifiers:\n      flying: 2\n",
		},
		{
			name: "unknown special",
			file: "story_events:\n  - id: e\n    options:\n      - text: a\n        special: {type: teleport}\n      - text: b\n",
		},
		{
			name: "single option story",
			file: "story_events:\n  - id: e\n    options:\n      - text: a\n",
		},
		{
			name: "unknown record",
			file: "ambient_events:\n  - id: a\n    probability: 0.1\n    record: nope\n",
		},
		{
			name: "duplicate college",
			file: "colleges:\n  - id: x\n  - id: x\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fstest.MapFS{"bad.yaml": {Data: []byte(tt.file)}})
			assert.Error(t, err)
		})
	}
}

func TestModifierBooleansAndDefaults(t *testing.T) {
	fsys := fstest.MapFS{"c.yaml": {Data: []byte("colleges:\n  - id: x\n    modifiers:\n      sickImmunity: true\n      gpaNoLimit: false\n      logicGrowth: 1.2\n")}}
	c, err := Load(fsys)
	require.NoError(t, err)
	col, ok := c.College("x")
	require.True(t, ok)
	assert.True(t, col.Modifiers.Flag(ModSickImmunity))
	assert.False(t, col.Modifiers.Flag(ModGPANoLimit))
	assert.Equal(t, 1.2, col.Modifiers.Number(ModLogicGrowth))
	assert.Equal(t, 0.0, col.Modifiers.Number(ModLateChance))
	assert.Equal(t, []Modifier{ModLogicGrowth, ModSickImmunity}, col.Modifiers.Keys())
}
