package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/internal/scramble"
	"github.com/robalobadob/twistle/internal/theme"
)

var themes = []theme.Theme{{Name: "A"}, {Name: "B"}, {Name: "C"}}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-02-09", DateKey(time.Date(2026, 2, 9, 23, 59, 0, 0, time.UTC)))
}

func TestPickDaily(t *testing.T) {
	p := Picker{}
	for day, want := range map[int]string{1: "A", 2: "B", 3: "C", 4: "A", 31: "A"} {
		got, err := p.Pick(themes, time.Date(2026, 1, day, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, want, got.Name, "day %d", day)
	}
}

func TestPickRandom(t *testing.T) {
	p := Picker{Random: true, Src: scramble.New(5)}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := p.Pick(themes, time.Now())
		require.NoError(t, err)
		seen[got.Name] = true
	}
	assert.Len(t, seen, 3)
}

func TestPickEmpty(t *testing.T) {
	_, err := Picker{}.Pick(nil, time.Now())
	assert.ErrorIs(t, err, theme.ErrEmptyThemeList)
	_, err = Picker{Random: true}.Pick(nil, time.Now())
	assert.ErrorIs(t, err, theme.ErrEmptyThemeList)
}
