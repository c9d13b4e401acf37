// internal/game/types.go
//
// Core type definitions for the round state machine.
// Defines:
//   - State: coarse session state (loading/playing/finished/failed).
//   - Slot: named display areas the machine writes to.
//   - Outcome: result of submitting a guess.
//   - Config: per-session tunables.
//   - WordResult / Result / Snapshot: what the outside world can observe.

package game

import (
	"errors"
	"fmt"
	"time"
)

// State is the coarse lifecycle of a session.
type State string

const (
	StateLoading  State = "loading"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
	StateFailed   State = "failed"
)

// Slot names a display area in the presentation layer.
type Slot string

const (
	SlotTheme     Slot = "theme"
	SlotScrambled Slot = "scrambled"
	SlotFeedback  Slot = "feedback"
	SlotTimer     Slot = "timer"
	SlotHint      Slot = "hint"
)

// Outcome reports what a guess did.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct" // word solved, moved on
	OutcomeRetry   Outcome = "retry"   // wrong, same word, timer keeps running
)

// Feedback messages.
const (
	MsgTryAgain     = "Try again!"
	MsgClose        = "So close! Try again!"
	MsgWrongOrder   = "Right letters, wrong order!"
	MsgNoShuffles   = "No shuffles left for this word."
	MsgBoostApplied = "Time boosted!"
)

var (
	// ErrNotPlaying is returned for round actions outside an active round.
	ErrNotPlaying = errors.New("game: no round in progress")
	// ErrFinished is returned for round actions after the session ended.
	ErrFinished = errors.New("game: session finished")
	// ErrNoShuffles is returned when the per-word shuffle allowance is spent.
	ErrNoShuffles = errors.New("game: no shuffles remaining")
	// ErrBoostUsed is returned when the session's time boost was already spent.
	ErrBoostUsed = errors.New("game: time boost already used")
)

// Config holds session tunables. Zero fields fall back to DefaultConfig,
// except AutoHintAt where 0 means no automatic hint.
type Config struct {
	WordTime     int           // seconds per word
	TickEvery    time.Duration // length of one time unit
	ShuffleLimit int           // reshuffles allowed per word; negative disables
	TimeBoost    int           // seconds added by the one-off boost; negative disables
	AutoHintAt   int           // reveal the hint when this many seconds remain; 0 or negative disables
	RandomMode   bool          // pick a random theme instead of the day's theme
}

// DefaultConfig matches the classic game: 30 s per word, two shuffles,
// a 15 s boost and an automatic hint at 10 s.
func DefaultConfig() Config {
	return Config{
		WordTime:     30,
		TickEvery:    time.Second,
		ShuffleLimit: 2,
		TimeBoost:    15,
		AutoHintAt:   10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WordTime <= 0 {
		c.WordTime = d.WordTime
	}
	if c.TickEvery <= 0 {
		c.TickEvery = d.TickEvery
	}
	if c.ShuffleLimit == 0 {
		c.ShuffleLimit = d.ShuffleLimit
	}
	if c.TimeBoost == 0 {
		c.TimeBoost = d.TimeBoost
	}
	// Negative means off and stays negative.
	c.ShuffleLimit = max(c.ShuffleLimit, -1)
	c.TimeBoost = max(c.TimeBoost, -1)
	c.AutoHintAt = max(c.AutoHintAt, -1)
	return c
}

// WordResult records how a single round ended.
type WordResult struct {
	Word    string `json:"word"`
	Solved  bool   `json:"solved"`
	Seconds int    `json:"seconds"` // time spent on the word
}

// Result is handed to the display when a session completes.
type Result struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Theme      string       `json:"theme"`
	Reflection string       `json:"reflection,omitempty"`
	Date       string       `json:"date"`
	ShareID    string       `json:"shareId"`
	Words      []WordResult `json:"words"`
}

// ShareText is the copyable score line shown on the results view.
func (r Result) ShareText() string {
	return fmt.Sprintf("I scored %d/%d in today's Twistle!", r.Score, r.Total)
}

// Snapshot is a read-only view of a session for polling clients.
type Snapshot struct {
	State          State   `json:"state"`
	Theme          string  `json:"theme"`
	WordIndex      int     `json:"wordIndex"`
	WordCount      int     `json:"wordCount"`
	CorrectCount   int     `json:"correctCount"`
	TimeRemaining  int     `json:"timeRemaining"`
	Scrambled      string  `json:"scrambled"`
	Feedback       string  `json:"feedback"`
	Hint           string  `json:"hint,omitempty"`
	ShufflesLeft   int     `json:"shufflesLeft"`
	BoostAvailable bool    `json:"boostAvailable"`
	Error          string  `json:"error,omitempty"`
	Result         *Result `json:"result,omitempty"`
}

// TimerText renders the timer slot.
func TimerText(seconds int) string {
	return fmt.Sprintf("Time: %ds", seconds)
}
