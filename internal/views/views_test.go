package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/internal/game"
)

func TestPlaceholdersRender(t *testing.T) {
	want := map[string]string{
		"leaderboard": "No leaderboard data yet.",
		"stats":       "Stats coming soon!",
		"settings":    "Settings coming soon!",
		"help":        "Help content coming soon!",
	}
	assert.Equal(t, []string{"help", "leaderboard", "settings", "stats"}, Names())
	for name, msg := range want {
		v, err := Placeholder(name)
		require.NoError(t, err)
		assert.Equal(t, msg, v.Message)
		assert.NotEmpty(t, v.Title)
	}

	_, err := Placeholder("profile")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestResults(t *testing.T) {
	assert.Equal(t, Results{Score: 3, Message: "Your score: 3"}, NewResults(3))
}

func TestResultsWithRound(t *testing.T) {
	r := &game.Result{
		Score: 1, Total: 2, Theme: "Animals", Reflection: "Small and great.",
		Date: "2026-10-01", ShareID: "a1b2c3d4",
		Words: []game.WordResult{{Word: "cat", Solved: true, Seconds: 4}, {Word: "dog", Seconds: 30}},
	}
	v := NewResults(1).WithRound(r)
	assert.Equal(t, "Your score: 1", v.Message)
	assert.Equal(t, "Animals", v.Theme)
	assert.Equal(t, "Small and great.", v.Reflection)
	assert.Equal(t, "a1b2c3d4", v.ShareID)
	assert.Equal(t, "I scored 1/2 in today's Twistle!", v.ShareText)
	assert.Equal(t, r.Words, v.Words)

	r.Words[0].Word = "cow"
	assert.Equal(t, "cat", v.Words[0].Word)

	assert.Equal(t, NewResults(0), NewResults(0).WithRound(nil))
}
