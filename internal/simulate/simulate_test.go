package simulate

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayersWithinBounds(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	players, err := Players(Options{Count: 200, From: from, To: to, Seed: 42})
	require.NoError(t, err)
	require.Len(t, players, 200)
	for _, p := range players {
		assert.NotEmpty(t, p.Name)
		assert.False(t, goaway.IsProfane(p.Name), p.Name)
		assert.GreaterOrEqual(t, p.Score, 0)
		assert.LessOrEqual(t, p.Score, MaxScore)
		assert.False(t, p.Date.Before(from), p.Date)
		assert.False(t, p.Date.After(to), p.Date)
	}
}

func TestPlayersDeterministicForSeed(t *testing.T) {
	a, err := Players(Options{Count: 5, Seed: 7})
	require.NoError(t, err)
	b, err := Players(Options{Count: 5, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlayersDefaults(t *testing.T) {
	players, err := Players(Options{Seed: 1})
	require.NoError(t, err)
	assert.Len(t, players, 100)
}

func TestPlayersRejectsInvertedRange(t *testing.T) {
	_, err := Players(Options{
		From: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrRange)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	day := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, WriteJSON(&buf, []Player{{Name: "Ada Lovelace", Score: 7, Date: day}}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Ada Lovelace", out[0]["name"])
	assert.EqualValues(t, 7, out[0]["score"])
	assert.Equal(t, "2025-01-02T03:04:05Z", out[0]["date"])
}
