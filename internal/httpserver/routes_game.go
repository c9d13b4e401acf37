// internal/httpserver/routes_game.go
//
// HTTP routes for playing today's Twistle.
//   - POST /api/game/start   → load themes (retrying a failed load) and start today's session
//   - POST /api/game/guess   → {guess} → outcome + snapshot
//   - POST /api/game/retry   → rescramble the current word with a fresh timer
//   - POST /api/game/hint    → reveal the current word's hint
//   - POST /api/game/shuffle → rearrange the letters (limited per word)
//   - POST /api/game/boost   → extra time, once per session
//   - GET  /api/game/state   → current snapshot
//   - GET  /api/results      → last recorded score, plus the completed round
//   - GET  /api/{view}       → placeholder views
//
// Each player has at most one live session; starting again replaces it.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/game"
	"github.com/robalobadob/twistle/internal/store"
	"github.com/robalobadob/twistle/internal/theme"
	"github.com/robalobadob/twistle/internal/views"
)

// resultsPath is where clients navigate once a session completes.
const resultsPath = "/results"

// mountGame registers the game, results and placeholder routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/api/game/start", s.handleStart)
	r.Post("/api/game/guess", s.handleGuess)
	r.Post("/api/game/retry", s.handleRetry)
	r.Post("/api/game/hint", s.handleHint)
	r.Post("/api/game/shuffle", s.handleShuffle)
	r.Post("/api/game/boost", s.handleBoost)
	r.Get("/api/game/state", s.handleState)
	r.Get("/api/results", s.handleResults)
	r.Get("/api/{view}", s.handleView)
}

// gameRes is the common response of every game action.
type gameRes struct {
	Outcome  game.Outcome  `json:"outcome,omitempty"`
	Hint     string        `json:"hint,omitempty"`
	Navigate string        `json:"navigate,omitempty"`
	State    game.Snapshot `json:"state"`
}

func respond(w http.ResponseWriter, res gameRes) {
	if res.State.State == game.StateFinished {
		res.Navigate = resultsPath
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /api/game/start

// handleStart builds a fresh machine for the player and begins today's theme.
// A load failure answers 503 with retry=true; the next start tries again.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	pid := s.playerID(w, r)
	if s.catalog == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "themes_unavailable", "retry": true})
		return
	}
	themes, err := s.catalog.Themes(r.Context())
	if err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("start: themes unavailable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "themes_unavailable", "retry": true})
		return
	}

	feed := store.NewFeed()
	opts := append([]game.Option{game.WithConfig(s.cfg.Game)}, s.machine...)
	m := game.NewMachine(feed, s.scores.For(pid), opts...)
	sess := store.NewSession(pid, m, feed)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if err := m.StartToday(themes); err != nil {
		if errors.Is(err, theme.ErrEmptyThemeList) || errors.Is(err, theme.ErrEmptyTheme) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "empty_theme", "state": m.Snapshot()})
			return
		}
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}
	respond(w, gameRes{State: m.Snapshot()})
}

// -----------------------------------------------------------------------------
// actions

type guessReq struct {
	Guess string `json:"guess"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := sess.Machine.Submit(req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	respond(w, gameRes{Outcome: out, State: sess.Machine.Snapshot()})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Machine.Retry(); err != nil {
		writeGameError(w, err)
		return
	}
	respond(w, gameRes{State: sess.Machine.Snapshot()})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	hint, err := sess.Machine.RevealHint()
	if err != nil {
		writeGameError(w, err)
		return
	}
	respond(w, gameRes{Hint: hint, State: sess.Machine.Snapshot()})
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.Machine.Shuffle(); err != nil {
		writeGameError(w, err)
		return
	}
	respond(w, gameRes{State: sess.Machine.Snapshot()})
}

func (s *Server) handleBoost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.Machine.Boost(); err != nil {
		writeGameError(w, err)
		return
	}
	respond(w, gameRes{State: sess.Machine.Snapshot()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respond(w, gameRes{State: sess.Machine.Snapshot()})
}

// -----------------------------------------------------------------------------
// results + placeholders

// handleResults reads the persisted score. When the player's live session
// has completed, its per-word breakdown and share line are added.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	pid := s.playerID(w, r)
	n, err := s.scores.For(pid).ReadLastScore(r.Context())
	if err != nil {
		log.Error().Err(err).Str("player", pid).Msg("read last score")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	res := views.NewResults(n)
	if sess, err := s.sessions.Get(r.Context(), pid); err == nil {
		res = res.WithRound(sess.Machine.Snapshot().Result)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := views.Placeholder(chi.URLParam(r, "view"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// -----------------------------------------------------------------------------
// helpers

// session loads the player's live session or answers 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), s.playerID(w, r))
	if err != nil {
		writeError(w, http.StatusNotFound, "no_session")
		return nil, false
	}
	return sess, true
}

// writeGameError maps machine errors onto 409s.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrFinished):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "finished", "navigate": resultsPath})
	case errors.Is(err, game.ErrNotPlaying):
		writeError(w, http.StatusConflict, "not_playing")
	case errors.Is(err, game.ErrNoShuffles):
		writeError(w, http.StatusConflict, "no_shuffles")
	case errors.Is(err, game.ErrBoostUsed):
		writeError(w, http.StatusConflict, "boost_used")
	default:
		log.Error().Err(err).Msg("game action")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
