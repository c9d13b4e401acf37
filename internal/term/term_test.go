package term

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/internal/game"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/scramble"
	"github.com/robalobadob/twistle/internal/theme"
)

type fakeSource struct {
	mu    sync.Mutex
	fails int
}

func (f *fakeSource) Fetch(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("offline")
	}
	return []byte(`[{"daily_theme":"Animals","theme_reflection":"Small and great.","daily_words":{"cat":"meows","dog":"barks"}}]`), nil
}

func (f *fakeSource) String() string { return "fake" }

func testModel(t *testing.T, fails int) (model, score.Store) {
	t.Helper()
	scores := score.NewMemory().For("term")
	day1 := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	m := newModel(Options{
		Catalog: theme.NewCatalog(&fakeSource{fails: fails}, time.Second),
		Scores:  scores,
		Game:    game.Config{TickEvery: time.Hour},
		Machine: []game.Option{
			game.WithSource(scramble.New(9)),
			game.WithClock(func() time.Time { return day1 }),
		},
	})
	t.Cleanup(m.machine.Stop)
	return m, scores
}

func step(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(model)
	require.True(t, ok)
	return got, cmd
}

func typeWord(t *testing.T, m model, word string) model {
	t.Helper()
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(word)})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestPlayThroughToResults(t *testing.T) {
	m, scores := testModel(t, 0)
	assert.Contains(t, m.View(), "Loading")

	m, _ = step(t, m, m.Init()())
	require.Equal(t, screenPlay, m.screen)
	view := m.View()
	assert.Contains(t, view, "Animals")
	assert.Contains(t, view, "Time: 30s")

	m = typeWord(t, m, "cat")
	assert.Equal(t, 1, m.machine.Session().WordIndex)
	assert.Equal(t, "", m.input)

	m = typeWord(t, m, "cow")
	assert.Contains(t, m.View(), game.MsgTryAgain)

	m = typeWord(t, m, "DOG")
	require.Equal(t, screenResults, m.screen)
	n, err := scores.ReadLastScore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	view = m.View()
	assert.Contains(t, view, "Your score: 2")
	assert.Contains(t, view, "I scored 2/2 in today's Twistle!")
	assert.Contains(t, view, "Small and great.")

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHintAndBackspace(t *testing.T) {
	m, _ := testModel(t, 0)
	m, _ = step(t, m, m.Init()())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Contains(t, m.View(), "Hint: meows")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cax")})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ca", m.input)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, game.ErrBoostUsed.Error(), m.status)
}

func TestLoadFailureCanBeRetried(t *testing.T) {
	m, _ := testModel(t, 1)
	m, _ = step(t, m, m.Init()())
	require.Equal(t, screenError, m.screen)
	assert.Contains(t, m.View(), "Could not start")

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.Equal(t, screenLoading, m.screen)
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())
	assert.Equal(t, screenPlay, m.screen)
}

func TestDisplayNotifiesProgram(t *testing.T) {
	d := newDisplay()
	got := make(chan tea.Msg, 4)
	d.attach(func(msg tea.Msg) { got <- msg })

	d.Show(game.SlotTimer, "Time: 3s")
	select {
	case msg := <-got:
		assert.IsType(t, refreshMsg{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh sent")
	}
	assert.Equal(t, "Time: 3s", d.slot(game.SlotTimer))
}

func TestSpaced(t *testing.T) {
	assert.Equal(t, "T A C", spaced("tac"))
	assert.Equal(t, "", spaced(""))
}
