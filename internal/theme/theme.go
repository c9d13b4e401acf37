// internal/theme/theme.go
//
// Daily themes: a named, ordered list of target words with hints.
//
// Selection is deterministic by calendar day: day d (1–31) maps to
// themes[(d-1) mod len(themes)], so every day resolves to a theme whatever
// the list length. An empty list is an error the caller must handle.
package theme

import (
	"errors"
	"math/rand/v2"
	"time"
)

var (
	// ErrEmptyThemeList is returned when no themes are available to select from.
	ErrEmptyThemeList = errors.New("theme: no themes available")
	// ErrEmptyTheme is returned when a theme has no words to play.
	ErrEmptyTheme = errors.New("theme: theme has no words")
	// ErrMalformed is returned when theme data cannot be parsed.
	ErrMalformed = errors.New("theme: malformed theme data")
	// ErrLoad wraps failures to fetch theme data from a source.
	ErrLoad = errors.New("theme: load failed")
)

// Word is a target word and its hint.
type Word struct {
	Text string `json:"word"`
	Hint string `json:"hint"`
}

// Theme is an immutable, named collection of words in play order.
type Theme struct {
	Name       string `json:"name"`
	Reflection string `json:"reflection,omitempty"`
	Words      []Word `json:"words"`
}

// Validate reports ErrEmptyTheme when t has nothing to play.
func (t Theme) Validate() error {
	if len(t.Words) == 0 {
		return ErrEmptyTheme
	}
	return nil
}

// Select returns the theme for a day of the month.
// Any integer day is accepted; it wraps cyclically over the list.
func Select(themes []Theme, day int) (Theme, error) {
	n := len(themes)
	if n == 0 {
		return Theme{}, ErrEmptyThemeList
	}
	return themes[Index(day, n)], nil
}

// Index maps a day of the month onto 0..n-1.
func Index(day, n int) int {
	if n <= 0 {
		return 0
	}
	i := (day - 1) % n
	if i < 0 {
		i += n
	}
	return i
}

// Today selects the theme for the local calendar day of now.
func Today(themes []Theme, now time.Time) (Theme, error) {
	return Select(themes, now.Day())
}

// Intn is satisfied by *rand.Rand and the scramble sources.
type Intn interface {
	IntN(n int) int
}

// Random picks any theme; used when random mode is enabled.
// A nil src uses the global math/rand/v2 generator.
func Random(themes []Theme, src Intn) (Theme, error) {
	if len(themes) == 0 {
		return Theme{}, ErrEmptyThemeList
	}
	if src == nil {
		return themes[rand.IntN(len(themes))], nil
	}
	return themes[src.IntN(len(themes))], nil
}
