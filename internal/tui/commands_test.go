package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/progression"
	"github.com/tatianab/xjtu-sim/internal/random"
)

func newEngine(t *testing.T, inbox *Inbox) *progression.Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	cat.Ambient = nil
	cat.Stories = nil
	opts := progression.Options{Catalog: cat, Random: random.NewScripted()}
	if inbox != nil {
		opts.Notifier = inbox
	}
	eng, err := progression.New(t.Context(), opts)
	require.NoError(t, err)
	return eng
}

func TestDispatch(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.NewGame(t.Context(), "normal", "zhongying")
	require.NoError(t, err)

	tests := []struct {
		line    string
		wantErr error
	}{
		{"class", nil},
		{"class focus math1", nil},
		{"study pinge", nil},
		{"study library retake math1", progression.ErrNoCourses},
		{"eat canteen", nil},
		{"fun nowhere", progression.ErrUnknownChoice},
		{"bid 40 40 20", nil},
		{"thesis work", progression.ErrNotAvailable},
		{"choose 1", progression.ErrNotAvailable},
		{"dance", errUsage},
		{"class focus", errUsage},
		{"bid 1 two 3", errUsage},
		{"", errUsage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := dispatch(t.Context(), eng, tt.line)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	st := eng.State()
	assert.Equal(t, "eat", st.LastAction)
	assert.False(t, st.BiddingOpen)
}

func TestDispatchNextTurn(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.NewGame(t.Context(), "normal", "chongshi")
	require.NoError(t, err)

	rep, err := dispatch(t.Context(), eng, "NEXT")
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Lines)
	assert.Equal(t, 10, eng.State().Month)
}

func TestDescribeError(t *testing.T) {
	eng := newEngine(t, nil)
	_, err := eng.Rest(t.Context())
	assert.Contains(t, describeError(err), "Error:")

	_, err = eng.NewGame(t.Context(), "normal", "chongshi")
	require.NoError(t, err)
	_, err = eng.PartTime(t.Context())
	require.NoError(t, err)
	_, err = eng.PartTime(t.Context())
	require.NoError(t, err)
	_, err = eng.PartTime(t.Context())
	assert.Equal(t, "You are too tired for that.", describeError(err))
}

func TestInboxCollectsUnlocks(t *testing.T) {
	inbox := NewInbox(nil)
	eng := newEngine(t, inbox)
	_, err := eng.NewGame(t.Context(), "normal", "chongshi")
	require.NoError(t, err)
	inbox.Drain()

	// October brings the physical test, which a fresh student fails.
	_, err = eng.NextTurn(t.Context())
	require.NoError(t, err)

	toasts := inbox.Drain()
	require.NotEmpty(t, toasts)
	assert.Contains(t, toasts[0], "Achievement unlocked")
	assert.Empty(t, inbox.Drain())
}

func TestModelFlow(t *testing.T) {
	inbox := NewInbox(nil)
	eng := newEngine(t, inbox)

	var m tea.Model = NewModel(eng, inbox)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Backgrounds")

	cmd := m.(model).startGame("normal lizhi")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(cmd())
	mm := m.(model)
	require.Equal(t, statePlaying, mm.state)
	require.NotNil(t, mm.snapshot)
	assert.Equal(t, "lizhi", mm.snapshot.College)
	assert.Contains(t, mm.gameLog, "Welcome")

	m, _ = m.Update(mm.run("rest")())
	assert.Contains(t, m.(model).gameLog, "You slept in.")

	m, _ = m.Update(mm.run("date dinner")())
	assert.Contains(t, m.(model).gameLog, "not possible")
	assert.Contains(t, m.View(), "GPA")
}
