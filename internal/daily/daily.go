// internal/daily/daily.go
//
// Resolves "today's puzzle": the date key a session belongs to and the
// theme it plays. Daily mode is deterministic by day of month; random mode
// (TWISTLE_RANDOM_MODE=true) picks any theme each session.
package daily

import (
	"time"

	"github.com/robalobadob/twistle/internal/theme"
)

// DateKey returns YYYY-MM-DD in t's location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Picker chooses the theme for a new session.
type Picker struct {
	Random bool
	Src    theme.Intn // used only in random mode; nil means math/rand/v2
}

// Pick returns the theme for now. Errors with theme.ErrEmptyThemeList when
// themes is empty.
func (p Picker) Pick(themes []theme.Theme, now time.Time) (theme.Theme, error) {
	if p.Random {
		return theme.Random(themes, p.Src)
	}
	return theme.Today(themes, now)
}
