// Package term is the terminal front end: a bubbletea program that plays
// today's Twistle against the same round state machine as the web server.
package term

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/game"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/theme"
	"github.com/robalobadob/twistle/internal/views"
)

// Options wires the front end to its collaborators.
type Options struct {
	Catalog *theme.Catalog
	Scores  score.Store
	Game    game.Config
	Machine []game.Option
}

// Run starts the program and blocks until the player quits.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.disp.attach(p.Send)
	_, err := p.Run()
	m.machine.Stop()
	return err
}

// --- Styles ---
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	themeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	letterStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	timerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// --- Display adapter ---

// refreshMsg tells the program a slot changed.
type refreshMsg struct{}

// display is the game.Display for the terminal. The machine calls it while
// holding its lock, so it only records state and nudges the program from a
// separate goroutine.
type display struct {
	mu     sync.Mutex
	slots  map[game.Slot]string
	result *game.Result
	err    error
	send   func(tea.Msg)
}

func newDisplay() *display { return &display{slots: make(map[game.Slot]string)} }

func (d *display) attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	d.mu.Unlock()
}

func (d *display) Show(slot game.Slot, text string) {
	d.mu.Lock()
	d.slots[slot] = text
	d.mu.Unlock()
	d.notify()
}

func (d *display) Completed(r game.Result) {
	d.mu.Lock()
	d.result = &r
	d.mu.Unlock()
	d.notify()
}

func (d *display) Failed(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
	d.notify()
}

func (d *display) notify() {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()
	if send != nil {
		go send(refreshMsg{})
	}
}

func (d *display) slot(s game.Slot) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.slots[s]
}

func (d *display) outcome() (*game.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result, d.err
}

// --- Model ---

type screen int

const (
	screenLoading screen = iota
	screenPlay
	screenResults
	screenError
)

type themesLoadedMsg struct {
	themes []theme.Theme
	err    error
}

type model struct {
	opts    Options
	disp    *display
	machine *game.Machine

	screen    screen
	input     string
	status    string
	loadErr   error
	lastScore int
	result    *game.Result
}

func newModel(opts Options) model {
	if opts.Scores == nil {
		opts.Scores = score.NewMemory().For("terminal")
	}
	d := newDisplay()
	mopts := append([]game.Option{game.WithConfig(opts.Game)}, opts.Machine...)
	return model{
		opts:    opts,
		disp:    d,
		machine: game.NewMachine(d, opts.Scores, mopts...),
		screen:  screenLoading,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) loadCmd() tea.Cmd {
	cat := m.opts.Catalog
	return func() tea.Msg {
		if cat == nil {
			return themesLoadedMsg{err: theme.ErrEmptyThemeList}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		themes, err := cat.Themes(ctx)
		return themesLoadedMsg{themes: themes, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case themesLoadedMsg:
		if msg.err != nil {
			m.screen, m.loadErr = screenError, msg.err
			return m, nil
		}
		if err := m.machine.StartToday(msg.themes); err != nil {
			m.screen, m.loadErr = screenError, err
			return m, nil
		}
		m.screen, m.loadErr, m.status = screenPlay, nil, ""
		return m, nil

	case refreshMsg:
		return m.syncOutcome(), nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

// syncOutcome moves to the results screen once the session completed.
// The score shown is read back from the store, not taken from the session.
func (m model) syncOutcome() model {
	res, err := m.disp.outcome()
	if err != nil && m.screen == screenPlay {
		m.screen, m.loadErr = screenError, err
	}
	if res != nil && m.screen == screenPlay {
		n, rerr := m.opts.Scores.ReadLastScore(context.Background())
		if rerr != nil {
			log.Error().Err(rerr).Msg("read last score")
		}
		m.screen, m.lastScore, m.result = screenResults, n, res
	}
	return m
}

func (m model) updateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "ctrl+c", "esc":
		m.machine.Stop()
		return m, tea.Quit
	}

	switch m.screen {
	case screenError:
		switch k.String() {
		case "r":
			m.screen, m.loadErr = screenLoading, nil
			return m, m.loadCmd()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	case screenResults:
		switch k.String() {
		case "q", "enter":
			return m, tea.Quit
		}
		return m, nil
	case screenLoading:
		return m, nil
	}

	var err error
	switch k.Type {
	case tea.KeyEnter:
		guess := m.input
		m.input = ""
		_, err = m.machine.Submit(guess)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlR:
		err = m.machine.Retry()
	case tea.KeyCtrlT:
		_, err = m.machine.RevealHint()
	case tea.KeyCtrlS:
		_, err = m.machine.Shuffle()
	case tea.KeyCtrlB:
		_, err = m.machine.Boost()
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(k.Runes)
	}
	m.status = ""
	if err != nil {
		m.status = err.Error()
	}
	return m.syncOutcome(), nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TWISTLE"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenLoading:
		b.WriteString("Loading today's puzzle…")
	case screenError:
		fmt.Fprintf(&b, "%s\n\n", feedbackStyle.Render("Could not start: "+errText(m.loadErr)))
		b.WriteString(helpStyle.Render("r retry • q quit"))
	case screenResults:
		b.WriteString(m.resultsView())
	default:
		b.WriteString(m.playView())
	}
	return boxStyle.Render(b.String()) + "\n"
}

func (m model) playView() string {
	var b strings.Builder
	b.WriteString(themeStyle.Render(m.disp.slot(game.SlotTheme)))
	b.WriteString("\n\n")
	b.WriteString(letterStyle.Render(spaced(m.disp.slot(game.SlotScrambled))))
	b.WriteString("\n\n")

	timer := m.disp.slot(game.SlotTimer)
	if m.machine.Session().TimeRemaining <= 5 {
		b.WriteString(lowTimeStyle.Render(timer))
	} else {
		b.WriteString(timerStyle.Render(timer))
	}
	b.WriteString("\n")
	if h := m.disp.slot(game.SlotHint); h != "" {
		b.WriteString(hintStyle.Render("Hint: " + h))
	}
	b.WriteString("\n\n> " + m.input + "█\n\n")
	if fb := m.disp.slot(game.SlotFeedback); fb != "" {
		b.WriteString(feedbackStyle.Render(fb) + "\n")
	}
	if m.status != "" {
		b.WriteString(helpStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("enter submit • ctrl+r retry • ctrl+t hint • ctrl+s shuffle • ctrl+b +time • esc quit"))
	return b.String()
}

func (m model) resultsView() string {
	var b strings.Builder
	b.WriteString(views.NewResults(m.lastScore).Message)
	b.WriteString("\n")
	if r := m.result; r != nil {
		fmt.Fprintf(&b, "%s\n\n", themeStyle.Render(r.Theme))
		for _, w := range r.Words {
			mark := "✗"
			if w.Solved {
				mark = "✓"
			}
			fmt.Fprintf(&b, "  %s %-14s %2ds\n", mark, w.Word, w.Seconds)
		}
		if r.Reflection != "" {
			b.WriteString("\n" + hintStyle.Render(r.Reflection) + "\n")
		}
		fmt.Fprintf(&b, "\n%s  (#%s)\n\n", r.ShareText(), r.ShareID)
	}
	b.WriteString(helpStyle.Render("enter/q quit"))
	return b.String()
}

func spaced(s string) string {
	return strings.Join(strings.Split(strings.ToUpper(s), ""), " ")
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
