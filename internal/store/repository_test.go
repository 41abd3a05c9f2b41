package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/models"
)

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemory(), "", nil)
	assert.Equal(t, DefaultSlot, repo.Slot())

	_, ok := repo.LoadState(ctx)
	assert.False(t, ok)
	assert.Nil(t, repo.LoadStats(ctx))
	assert.Empty(t, repo.LoadAchievements(ctx))
	assert.Empty(t, repo.LoadTriggered(ctx))

	st := &models.PlayerState{Year: 2, Month: 3, GPA: 3.4, College: "nanyang"}
	require.NoError(t, repo.SaveState(ctx, st))
	require.NoError(t, repo.SaveTriggered(ctx, []string{"campusLove"}))
	require.NoError(t, repo.SaveAchievements(ctx, map[string]bool{"rooftop": true}))
	stats := achievement.NewStats()
	stats.RecordVisitCampus("yanta")
	require.NoError(t, repo.SaveStats(ctx, stats))

	loaded, ok := repo.LoadState(ctx)
	require.True(t, ok)
	assert.Equal(t, st.College, loaded.College)
	assert.Equal(t, 3.4, loaded.GPA)
	assert.Equal(t, []string{"campusLove"}, repo.LoadTriggered(ctx))
	assert.Equal(t, map[string]bool{"rooftop": true}, repo.LoadAchievements(ctx))
	assert.True(t, repo.LoadStats(ctx).CampusVisited.Has("yanta"))
}

func TestRepositoryCorruptRecordsLoadAsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Put(ctx, "current/game_state", []byte("{not json")))
	require.NoError(t, mem.Put(ctx, "meta/achievement_stats", []byte("[1,2")))
	require.NoError(t, mem.Put(ctx, "meta/achievements", []byte("null-ish")))

	repo := NewRepository(mem, "current", nil)
	_, ok := repo.LoadState(ctx)
	assert.False(t, ok)
	assert.Nil(t, repo.LoadStats(ctx))
	assert.NotNil(t, repo.LoadAchievements(ctx))
}

func TestRepositorySlotsAndClear(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := NewRepository(mem, "a", nil)
	b := NewRepository(mem, "b", nil)
	st := &models.PlayerState{Year: 1, Month: 9}
	require.NoError(t, a.SaveState(ctx, st))
	require.NoError(t, b.SaveState(ctx, st))
	require.NoError(t, a.SaveAchievements(ctx, map[string]bool{"rooftop": true}))

	slots, err := a.Slots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, slots)

	require.NoError(t, a.ClearState(ctx))
	_, ok := a.LoadState(ctx)
	assert.False(t, ok)
	assert.Equal(t, map[string]bool{"rooftop": true}, b.LoadAchievements(ctx))

	slots, err = b.Slots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, slots)
}
