// internal/game/session.go
//
// Session is the explicit state of one play-through. Every transition here
// is a pure function: it takes a Session and returns the next one, with no
// timers, I/O or randomness. Machine (machine.go) owns a Session and applies
// the side effects around these transitions.
//
// Invariants:
//   - 0 <= WordIndex <= len(Theme.Words)
//   - the session is done exactly when WordIndex == len(Theme.Words)
//   - CorrectCount <= WordIndex
package game

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/robalobadob/twistle/internal/theme"
)

// Session is the state of one play-through.
type Session struct {
	State         State
	Theme         theme.Theme
	WordIndex     int
	CorrectCount  int
	TimeRemaining int
	Budget        int // seconds granted to the current word, boosts included
	Scrambled     string
	Feedback      string
	HintShown     bool
	ShufflesLeft  int
	BoostUsed     bool
	Results       []WordResult

	cfg Config
}

// NewSession prepares a session over t. The first round is not begun yet.
func NewSession(t theme.Theme, cfg Config) (Session, error) {
	if err := t.Validate(); err != nil {
		return Session{State: StateFailed, Theme: t, cfg: cfg.withDefaults()}, err
	}
	return Session{State: StateLoading, Theme: t, cfg: cfg.withDefaults()}, nil
}

// Done reports whether every word has been played.
func (s Session) Done() bool { return s.WordIndex >= len(s.Theme.Words) }

// Current returns the word in play.
func (s Session) Current() (theme.Word, bool) {
	if s.WordIndex < 0 || s.Done() {
		return theme.Word{}, false
	}
	return s.Theme.Words[s.WordIndex], true
}

// Begin enters the round for WordIndex with the given scrambled letters:
// full timer, cleared feedback and hint, fresh shuffle allowance.
// A session with no words left becomes Finished instead.
func Begin(s Session, scrambled string) Session {
	if s.Done() {
		s.State = StateFinished
		s.Scrambled = ""
		return s
	}
	s.State = StatePlaying
	s.Scrambled = scrambled
	s.TimeRemaining = s.cfg.WordTime
	s.Budget = s.cfg.WordTime
	s.Feedback = ""
	s.HintShown = false
	s.ShufflesLeft = max(s.cfg.ShuffleLimit, 0)
	return s
}

// Restart re-enters the current round after a retry. It behaves like Begin
// except that the word's remaining shuffle allowance carries over.
func Restart(s Session, scrambled string) Session {
	left := s.ShufflesLeft
	s = Begin(s, scrambled)
	if s.State == StatePlaying {
		s.ShufflesLeft = left
	}
	return s
}

// Tick consumes one time unit. expired is true when the round ran out of
// time; the caller must then advance with Next(s, false).
func Tick(s Session) (next Session, expired bool) {
	if s.State != StatePlaying {
		return s, false
	}
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
	}
	return s, s.TimeRemaining <= 0
}

// Guess evaluates a submission against the current word. Both sides are
// trimmed and lower-cased. A miss leaves the round (and its timer) as is and
// sets a retry message; a hit counts the word and advances.
func Guess(s Session, guess string) (Session, Outcome) {
	w, ok := s.Current()
	if s.State != StatePlaying || !ok {
		return s, ""
	}
	g := Normalize(guess)
	target := Normalize(w.Text)
	if g == target {
		s.CorrectCount++
		return Next(s, true), OutcomeCorrect
	}
	s.Feedback = MissFeedback(g, target)
	return s, OutcomeRetry
}

// Next records the current round and moves WordIndex forward by one.
// It is the only transition that changes WordIndex. The caller begins the
// following round (or finishes) afterwards.
func Next(s Session, solved bool) Session {
	w, ok := s.Current()
	if !ok {
		return s
	}
	used := s.Budget - s.TimeRemaining
	if used < 0 {
		used = 0
	}
	s.Results = append(append([]WordResult(nil), s.Results...), WordResult{Word: w.Text, Solved: solved, Seconds: used})
	s.WordIndex++
	s.Scrambled = ""
	s.Feedback = ""
	s.HintShown = false
	if s.Done() {
		s.State = StateFinished
	}
	return s
}

// Boost adds the configured bonus seconds to the current round, once per session.
func Boost(s Session) (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if s.BoostUsed || s.cfg.TimeBoost <= 0 {
		return s, ErrBoostUsed
	}
	s.BoostUsed = true
	s.TimeRemaining += s.cfg.TimeBoost
	s.Budget += s.cfg.TimeBoost
	return s, nil
}

// Reshuffled swaps in a new arrangement, spending one shuffle.
func Reshuffled(s Session, scrambled string) (Session, error) {
	if s.State != StatePlaying {
		return s, ErrNotPlaying
	}
	if s.ShufflesLeft <= 0 {
		return s, ErrNoShuffles
	}
	s.ShufflesLeft--
	s.Scrambled = scrambled
	return s, nil
}

// Normalize trims surrounding whitespace and lower-cases.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MissFeedback picks the retry message for a wrong (normalized) guess.
func MissFeedback(guess, target string) string {
	if guess == "" {
		return MsgTryAgain
	}
	if sortLetters(guess) == sortLetters(target) {
		return MsgWrongOrder
	}
	if levenshtein.ComputeDistance(guess, target) <= closeLimit(len([]rune(target))) {
		return MsgClose
	}
	return MsgTryAgain
}

// closeLimit is the edit distance still counted as a near miss.
func closeLimit(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 7:
		return 1
	default:
		return 2
	}
}

func sortLetters(s string) string {
	rs := []rune(s)
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}
