package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/models"
	"github.com/tatianab/xjtu-sim/internal/progression"
	"github.com/tatianab/xjtu-sim/internal/random"
	"github.com/tatianab/xjtu-sim/internal/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newSimulator(t *testing.T, seed int64, out io.Writer) *simulator {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	eng, err := progression.New(t.Context(), progression.Options{
		Catalog: cat,
		Store:   store.NewRepository(store.NewMemory(), "simulate", nil),
		Random:  random.New(seed),
	})
	require.NoError(t, err)
	return &simulator{eng: eng, out: out, printer: message.NewPrinter(language.English)}
}

func TestPlaythroughReachesEnding(t *testing.T) {
	for _, college := range []string{"nanyang", "qianxuesen", "zhongying"} {
		t.Run(college, func(t *testing.T) {
			sim := newSimulator(t, 7, io.Discard)
			require.NoError(t, sim.play(t.Context(), "normal", college))

			st := sim.eng.State()
			assert.True(t, st.GameOver)
			assert.NotEqual(t, models.EndingNone, st.Ending)
			assert.LessOrEqual(t, st.Year, 5)
		})
	}
}

func TestSameSeedSameGame(t *testing.T) {
	var a, b bytes.Buffer
	simA := newSimulator(t, 42, &a)
	simB := newSimulator(t, 42, &b)
	require.NoError(t, simA.play(t.Context(), "rich", "qide"))
	require.NoError(t, simB.play(t.Context(), "rich", "qide"))

	stA, stB := simA.eng.State(), simB.eng.State()
	assert.Equal(t, stA.Ending, stB.Ending)
	assert.Equal(t, stA.GPA, stB.GPA)
	assert.Equal(t, stA.Money, stB.Money)
}

func TestSummaryFormatsMoney(t *testing.T) {
	sim := newSimulator(t, 1, io.Discard)
	_, err := sim.eng.NewGame(t.Context(), "rich", "qide")
	require.NoError(t, err)

	var buf bytes.Buffer
	sim.summary(&buf)
	assert.Contains(t, buf.String(), "3,000 yuan")
	assert.Contains(t, buf.String(), "qide")
}
