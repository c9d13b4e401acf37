// Package views holds the fixed content of the secondary screens: the
// results line and the placeholder pages that are not built yet.
package views

import (
	"errors"
	"fmt"
	"sort"

	"github.com/robalobadob/twistle/internal/game"
)

// ErrUnknownView is returned by Placeholder for names it does not know.
var ErrUnknownView = errors.New("views: unknown view")

// View is a static page.
type View struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var placeholders = map[string]View{
	"leaderboard": {Name: "leaderboard", Title: "Leaderboard", Message: "No leaderboard data yet."},
	"stats":       {Name: "stats", Title: "Stats", Message: "Stats coming soon!"},
	"settings":    {Name: "settings", Title: "Settings", Message: "Settings coming soon!"},
	"help":        {Name: "help", Title: "Help", Message: "Help content coming soon!"},
}

// Placeholder returns the named placeholder view.
func Placeholder(name string) (View, error) {
	v, ok := placeholders[name]
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return v, nil
}

// Names lists the placeholder views in sorted order.
func Names() []string {
	out := make([]string, 0, len(placeholders))
	for k := range placeholders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Results is the results page. Score is the last recorded score, read from
// the store; the remaining fields describe the session that just completed
// and are empty when there is none.
type Results struct {
	Score      int               `json:"score"`
	Message    string            `json:"message"`
	Theme      string            `json:"theme,omitempty"`
	Reflection string            `json:"reflection,omitempty"`
	Date       string            `json:"date,omitempty"`
	ShareID    string            `json:"shareId,omitempty"`
	ShareText  string            `json:"shareText,omitempty"`
	Words      []game.WordResult `json:"words,omitempty"`
}

// NewResults renders the results line for a stored score.
func NewResults(score int) Results {
	return Results{Score: score, Message: fmt.Sprintf("Your score: %d", score)}
}

// WithRound adds the per-word breakdown, reflection and share line of a
// completed session. A nil result leaves v unchanged.
func (v Results) WithRound(r *game.Result) Results {
	if r == nil {
		return v
	}
	v.Theme = r.Theme
	v.Reflection = r.Reflection
	v.Date = r.Date
	v.ShareID = r.ShareID
	v.ShareText = r.ShareText()
	v.Words = append([]game.WordResult(nil), r.Words...)
	return v
}
