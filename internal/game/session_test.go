package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/internal/theme"
)

func begun(t *testing.T, cfg Config, words ...string) Session {
	t.Helper()
	th := theme.Theme{Name: "T"}
	for _, w := range words {
		th.Words = append(th.Words, theme.Word{Text: w})
	}
	s, err := NewSession(th, cfg)
	require.NoError(t, err)
	return Begin(s, "xx")
}

func TestNewSessionRejectsEmptyTheme(t *testing.T) {
	s, err := NewSession(theme.Theme{Name: "Empty"}, Config{})
	assert.ErrorIs(t, err, theme.ErrEmptyTheme)
	assert.Equal(t, StateFailed, s.State)
}

func TestBeginResetsRound(t *testing.T) {
	s := begun(t, Config{WordTime: 12, ShuffleLimit: 3}, "alpha")
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 12, s.TimeRemaining)
	assert.Equal(t, 3, s.ShufflesLeft)
	assert.Equal(t, "xx", s.Scrambled)
}

func TestTickExpires(t *testing.T) {
	s := begun(t, Config{WordTime: 2}, "alpha")
	s, expired := Tick(s)
	assert.False(t, expired)
	assert.Equal(t, 1, s.TimeRemaining)
	s, expired = Tick(s)
	assert.True(t, expired)
	assert.Equal(t, 0, s.TimeRemaining)

	s = Next(s, false)
	assert.Equal(t, StateFinished, s.State)
	_, expired = Tick(s)
	assert.False(t, expired, "finished sessions ignore ticks")
}

func TestGuessOnlyCountsExactMatch(t *testing.T) {
	s := begun(t, Config{}, "river", "lake")
	s, out := Guess(s, "rivers")
	assert.Equal(t, OutcomeRetry, out)
	assert.Equal(t, 0, s.WordIndex)
	assert.Equal(t, 0, s.CorrectCount)

	s, out = Guess(s, "RIVER\n")
	assert.Equal(t, OutcomeCorrect, out)
	assert.Equal(t, 1, s.WordIndex)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, StatePlaying, s.State)
}

func TestNextDoesNotShareResults(t *testing.T) {
	s := begun(t, Config{}, "a", "b", "c")
	s1 := Next(s, true)
	s2 := Next(s, false)
	require.Len(t, s1.Results, 1)
	require.Len(t, s2.Results, 1)
	assert.True(t, s1.Results[0].Solved)
	assert.False(t, s2.Results[0].Solved)
}

func TestMissFeedback(t *testing.T) {
	cases := []struct {
		guess, target, want string
	}{
		{"", "cat", MsgTryAgain},
		{"act", "cat", MsgWrongOrder},
		{"cot", "cat", MsgTryAgain},
		{"plant", "planet", MsgClose},
		{"plxxet", "planet", MsgTryAgain},
		{"astronaul", "astronaut", MsgClose},
		{"banana", "planet", MsgTryAgain},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MissFeedback(c.guess, c.target), "%q vs %q", c.guess, c.target)
	}
}

func TestBoostAndReshuffleLimits(t *testing.T) {
	s := begun(t, Config{TimeBoost: 5, ShuffleLimit: 1}, "alpha")
	s, err := Boost(s)
	require.NoError(t, err)
	assert.Equal(t, 35, s.TimeRemaining)
	_, err = Boost(s)
	assert.ErrorIs(t, err, ErrBoostUsed)

	s, err = Reshuffled(s, "hplaa")
	require.NoError(t, err)
	assert.Equal(t, "hplaa", s.Scrambled)
	_, err = Reshuffled(s, "aahlp")
	assert.ErrorIs(t, err, ErrNoShuffles)
}

func TestRestartKeepsShuffleAllowance(t *testing.T) {
	s := begun(t, Config{ShuffleLimit: 2}, "alpha")
	s, err := Reshuffled(s, "hplaa")
	require.NoError(t, err)
	s.TimeRemaining = 3

	s = Restart(s, "aahlp")
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, "aahlp", s.Scrambled)
	assert.Equal(t, 30, s.TimeRemaining)
	assert.Equal(t, 1, s.ShufflesLeft)
}

func TestDisabledBoost(t *testing.T) {
	s := begun(t, Config{TimeBoost: -1}, "alpha")
	_, err := Boost(s)
	assert.ErrorIs(t, err, ErrBoostUsed)
}

func TestTimerText(t *testing.T) {
	assert.Equal(t, "Time: 30s", TimerText(30))
	assert.Equal(t, "Time: 0s", TimerText(0))
}
