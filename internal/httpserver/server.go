// internal/httpserver/server.go
//
// HTTP server wiring for the Twistle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/health", "/api", the static front end ("/", "/results", "/static/*").
//   - Game endpoints (optional auth): /api/game/* plus the websocket feed.
//   - Results and placeholder views: /api/results, /api/{leaderboard,stats,settings,help}.
//   - Auth endpoints: /auth/*.
//   - Anonymous player cookie, so guests get their own session and score.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - A player is the logged-in user id, or the anonymous cookie id for guests.
//     Signing up or logging in hands the guest's score and live session to the account.
//   - Live sessions sit in the in-memory registry; only the last score is persisted.

package httpserver

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/account"
	"github.com/robalobadob/twistle/internal/game"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/store"
	"github.com/robalobadob/twistle/internal/theme"
	"github.com/robalobadob/twistle/internal/views"
)

// Config holds the server's tunables, usually read from the environment.
type Config struct {
	Game           game.Config
	CookieName     string        // auth cookie (COOKIE_NAME)
	ClientOrigin   string        // CORS origin (CLIENT_ORIGIN)
	Production     bool          // NODE_ENV=production: Secure + SameSite=None cookies
	RequestTimeout time.Duration // per-request bound for JSON routes
	SessionIdle    time.Duration // live sessions idle this long are dropped
}

func (c Config) withDefaults() Config {
	if c.CookieName == "" {
		c.CookieName = "twistle_token"
	}
	if c.ClientOrigin == "" {
		c.ClientOrigin = "http://localhost:5175"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.SessionIdle <= 0 {
		c.SessionIdle = 2 * time.Hour
	}
	return c
}

// Deps are the collaborators the server drives.
type Deps struct {
	Sessions *store.Memory
	Scores   score.Provider
	Catalog  *theme.Catalog
	Accounts *account.Repo
	Tokens   *account.Tokens
	Web      fs.FS         // static front end; nil disables it
	Machine  []game.Option // extra options for every machine (tests pass a scheduler)
}

// Server bundles router and collaborators.
type Server struct {
	r        *chi.Mux
	cfg      Config
	sessions *store.Memory
	scores   score.Provider
	catalog  *theme.Catalog
	accounts *account.Repo
	tokens   *account.Tokens
	web      fs.FS
	machine  []game.Option
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg.withDefaults(),
		sessions: d.Sessions,
		scores:   d.Scores,
		catalog:  d.Catalog,
		accounts: d.Accounts,
		tokens:   d.Tokens,
		web:      d.Web,
		machine:  d.Machine,
	}
	if s.sessions == nil {
		s.sessions = store.NewMemoryStore()
	}
	if s.scores == nil {
		s.scores = score.NewMemory()
	}
	if s.tokens == nil {
		s.tokens = account.NewTokens("", 0)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // one debug line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// JSON API, time-bounded.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.RequestTimeout))
		r.Use(jsonContentType)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"service": "twistle", "endpoints": endpoints()})
		})
		r.Get("/debug/themes", func(w http.ResponseWriter, r *http.Request) {
			out := map[string]any{"themes": 0, "words": 0}
			if s.catalog != nil {
				t, wc := s.catalog.Stats()
				out["themes"], out["words"] = t, wc
				if err := s.catalog.LastError(); err != nil {
					out["lastError"] = err.Error()
				}
			}
			_ = json.NewEncoder(w).Encode(out)
		})

		// Game endpoints: OPTIONAL AUTH (guests can play)
		s.mountGame(r.With(s.withOptionalAuth()))

		// Auth
		s.mountAuthRoutes(r)
	})

	// Websocket feed: long-lived, so outside the timeout group.
	s.r.With(s.withOptionalAuth()).Get("/api/game/ws", s.handleWS)

	// Browser front end.
	if s.web != nil {
		s.r.Get("/", s.page("index.html"))
		s.r.Get("/results", s.page("results.html"))
		s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.web))))
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr and sweeps idle sessions in the background.
func (s *Server) Start(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.sessions.RunSweeper(ctx, time.Minute, s.cfg.SessionIdle)
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// page serves one HTML file from the front end.
func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, s.web, name)
	}
}

// ------------------------------ players ------------------------------------

const anonCookieName = "twistle_anon"

// playerID is the score namespace and session key for this request:
// the user id when logged in, the anonymous cookie id otherwise.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// claimGuest hands the guest's last score and live session to the account
// that just signed up or logged in.
func (s *Server) claimGuest(w http.ResponseWriter, r *http.Request, userID string) {
	anonID := s.ensureAnonID(w, r)
	s.claimAnonScore(r.Context(), anonID, userID)

	sess, err := s.sessions.Move(r.Context(), anonID, userID)
	if err != nil {
		return
	}
	sess.Machine.UseScores(s.scores.For(userID))
	log.Debug().Str("user", userID).Msg("guest session moved to account")
}

// claimAnonScore moves a guest's last score to the account. The guest's
// record is reset to 0 afterwards so a later login cannot claim it again.
func (s *Server) claimAnonScore(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" || anonID == userID {
		return
	}
	anon := s.scores.For(anonID)
	n, err := anon.ReadLastScore(ctx)
	if err != nil || n == 0 {
		return
	}
	if err := s.scores.For(userID).RecordScore(ctx, n); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("claim anon score")
		return
	}
	if err := anon.RecordScore(ctx, 0); err != nil {
		log.Warn().Err(err).Str("anon", anonID).Msg("reset anon score")
	}
}

func (s *Server) sameSite() http.SameSite {
	if s.cfg.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// ------------------------------- util --------------------------------------

// endpoints lists the public API for GET /api.
func endpoints() []string {
	out := []string{
		"GET /health",
		"POST /api/game/start",
		"POST /api/game/{guess,retry,hint,shuffle,boost}",
		"GET /api/game/state",
		"GET /api/game/ws",
		"GET /api/results",
	}
	for _, name := range views.Names() {
		out = append(out, "GET /api/"+name)
	}
	return append(out, "POST /auth/{signup,login,logout}", "GET /auth/me")
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
