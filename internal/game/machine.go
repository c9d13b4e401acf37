// internal/game/machine.go
//
// Machine drives one Session: it scrambles words, runs the per-word
// countdown, writes to the display and records the final score.
//
// Event model:
//   - Start/StartToday load a theme and begin the first round.
//   - Timer ticks arrive from the Scheduler on their own goroutine.
//   - Submit/Retry/RevealHint/Shuffle/Boost come from the player.
//
// All events are serialized by mu. Only one timer is live at a time:
// beginning a round (including Retry) stops the previous timer and bumps
// gen, and a tick carrying an old gen is dropped. That is what prevents two
// timers from decrementing the same round.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/daily"
	"github.com/robalobadob/twistle/internal/scramble"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/theme"
)

// Display is the presentation adapter the machine writes to.
// Calls are made while the machine holds its lock; implementations must not
// call back into the machine.
type Display interface {
	// Show replaces the text of a slot.
	Show(slot Slot, text string)
	// Completed signals the end of the session (navigate to results).
	Completed(r Result)
	// Failed signals a session that cannot be played.
	Failed(err error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithConfig overrides DefaultConfig.
func WithConfig(c Config) Option { return func(m *Machine) { m.cfg = c.withDefaults() } }

// WithScheduler replaces the real ticker (tests use a manual one).
func WithScheduler(s Scheduler) Option { return func(m *Machine) { m.sched = s } }

// WithSource sets the scrambling randomness.
func WithSource(src scramble.Source) Option { return func(m *Machine) { m.rng = src } }

// WithClock sets the time source used for daily selection and dates.
func WithClock(now func() time.Time) Option { return func(m *Machine) { m.now = now } }

// Machine is the round state machine for a single player.
type Machine struct {
	mu      sync.Mutex
	cfg     Config
	display Display
	scores  score.Store
	sched   Scheduler
	rng     scramble.Source
	now     func() time.Time

	s      Session
	timer  Timer
	gen    uint64
	err    error
	result *Result
}

// NewMachine builds an idle machine (state loading).
func NewMachine(d Display, scores score.Store, opts ...Option) *Machine {
	m := &Machine{
		cfg:     DefaultConfig(),
		display: d,
		scores:  scores,
		sched:   RealScheduler(),
		rng:     scramble.Default(),
		now:     time.Now,
		s:       Session{State: StateLoading},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// StartToday picks the day's theme (or a random one in random mode) and starts.
func (m *Machine) StartToday(themes []theme.Theme) error {
	picker := daily.Picker{Random: m.cfg.RandomMode, Src: m.rng}
	t, err := picker.Pick(themes, m.now())
	if err != nil {
		m.Fail(err)
		return err
	}
	return m.Start(t)
}

// Start resets the session to word 0 with score 0 over t and begins the
// first round. A theme without words fails with theme.ErrEmptyTheme.
func (m *Machine) Start(t theme.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimer()
	m.result = nil
	s, err := NewSession(t, m.cfg)
	if err != nil {
		m.s = s
		m.failLocked(fmt.Errorf("start %q: %w", t.Name, err))
		return err
	}
	m.s, m.err = s, nil
	log.Debug().Str("theme", t.Name).Int("words", len(t.Words)).Msg("session started")
	m.beginRound()
	return nil
}

// Fail puts the machine into the failed state, e.g. after a theme load error.
func (m *Machine) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimer()
	m.failLocked(err)
}

func (m *Machine) failLocked(err error) {
	m.s.State = StateFailed
	m.err = err
	m.display.Failed(err)
}

// Submit evaluates a guess for the current word.
func (m *Machine) Submit(guess string) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playingErr(); err != nil {
		return "", err
	}
	next, out := Guess(m.s, guess)
	m.s = next
	switch out {
	case OutcomeCorrect:
		m.beginRound()
	case OutcomeRetry:
		m.display.Show(SlotFeedback, m.s.Feedback)
	}
	return out, nil
}

// Retry restarts the current word: new scramble, full timer, same index and
// score. Shuffles already spent on the word stay spent.
func (m *Machine) Retry() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playingErr(); err != nil {
		return err
	}
	m.enterRound(Restart)
	return nil
}

// RevealHint shows the current word's hint in the hint slot and returns it.
func (m *Machine) RevealHint() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playingErr(); err != nil {
		return "", err
	}
	return m.revealHint(), nil
}

// Shuffle rearranges the current word's letters, guaranteed to differ from
// the arrangement on screen when the letters allow it.
func (m *Machine) Shuffle() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playingErr(); err != nil {
		return "", err
	}
	w, _ := m.s.Current()
	next, err := Reshuffled(m.s, scramble.Distinct(w.Text, m.s.Scrambled, m.rng, 8))
	if err != nil {
		m.s.Feedback = MsgNoShuffles
		m.display.Show(SlotFeedback, m.s.Feedback)
		return "", err
	}
	m.s = next
	m.display.Show(SlotScrambled, m.s.Scrambled)
	return m.s.Scrambled, nil
}

// Boost adds bonus time to the current word once per session.
func (m *Machine) Boost() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.playingErr(); err != nil {
		return 0, err
	}
	next, err := Boost(m.s)
	if err != nil {
		return 0, err
	}
	m.s = next
	m.s.Feedback = MsgBoostApplied
	m.display.Show(SlotTimer, TimerText(m.s.TimeRemaining))
	m.display.Show(SlotFeedback, m.s.Feedback)
	return m.s.TimeRemaining, nil
}

// UseScores redirects future score writes to st, e.g. after a guest signs in.
func (m *Machine) UseScores(st score.Store) {
	m.mu.Lock()
	m.scores = st
	m.mu.Unlock()
}

// Stop cancels the running timer without finishing the session.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimer()
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

// Snapshot returns the observable state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		State:          m.s.State,
		Theme:          m.s.Theme.Name,
		WordIndex:      m.s.WordIndex,
		WordCount:      len(m.s.Theme.Words),
		CorrectCount:   m.s.CorrectCount,
		TimeRemaining:  m.s.TimeRemaining,
		Scrambled:      m.s.Scrambled,
		Feedback:       m.s.Feedback,
		ShufflesLeft:   m.s.ShufflesLeft,
		BoostAvailable: m.s.State == StatePlaying && !m.s.BoostUsed && m.cfg.TimeBoost > 0,
		Result:         m.result,
	}
	if w, ok := m.s.Current(); ok && m.s.HintShown {
		snap.Hint = w.Hint
	}
	if m.err != nil {
		snap.Error = m.err.Error()
	}
	return snap
}

// ----------------------------------------------------------- internals ---

func (m *Machine) playingErr() error {
	switch m.s.State {
	case StatePlaying:
		return nil
	case StateFinished:
		return ErrFinished
	default:
		return ErrNotPlaying
	}
}

// beginRound enters the round at WordIndex, or finishes when none is left.
func (m *Machine) beginRound() { m.enterRound(Begin) }

func (m *Machine) enterRound(enter func(Session, string) Session) {
	m.stopTimer()
	w, ok := m.s.Current()
	if !ok {
		m.finish()
		return
	}
	m.s = enter(m.s, scramble.Word(w.Text, m.rng))

	m.display.Show(SlotTheme, m.s.Theme.Name)
	m.display.Show(SlotScrambled, m.s.Scrambled)
	m.display.Show(SlotFeedback, "")
	m.display.Show(SlotHint, "")
	m.display.Show(SlotTimer, TimerText(m.s.TimeRemaining))

	m.gen++
	gen := m.gen
	m.timer = m.sched.Every(m.cfg.TickEvery, func() { m.tick(gen) })
}

func (m *Machine) tick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || m.s.State != StatePlaying {
		return
	}
	next, expired := Tick(m.s)
	m.s = next
	m.display.Show(SlotTimer, TimerText(m.s.TimeRemaining))
	if expired {
		m.stopTimer()
		m.s = Next(m.s, false)
		m.beginRound()
		return
	}
	if m.cfg.AutoHintAt > 0 && m.s.TimeRemaining <= m.cfg.AutoHintAt && !m.s.HintShown {
		m.revealHint()
	}
}

func (m *Machine) revealHint() string {
	w, _ := m.s.Current()
	m.s.HintShown = true
	m.display.Show(SlotHint, w.Hint)
	return w.Hint
}

func (m *Machine) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

// finish stops the clock, persists the score and signals completion.
func (m *Machine) finish() {
	m.stopTimer()
	m.s.State = StateFinished

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.scores.RecordScore(ctx, m.s.CorrectCount); err != nil {
		log.Error().Err(err).Int("score", m.s.CorrectCount).Msg("record score")
	}

	r := Result{
		Score:      m.s.CorrectCount,
		Total:      len(m.s.Theme.Words),
		Theme:      m.s.Theme.Name,
		Reflection: m.s.Theme.Reflection,
		Date:       daily.DateKey(m.now()),
		ShareID:    uuid.NewString()[:8],
		Words:      append([]WordResult(nil), m.s.Results...),
	}
	m.result = &r
	log.Info().Str("theme", r.Theme).Int("score", r.Score).Int("total", r.Total).Msg("session finished")
	m.display.Completed(r)
}
