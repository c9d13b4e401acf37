package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/account"
)

// credentialsReq is the payload for signup and login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r)
		if me == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		_ = json.NewEncoder(w).Encode(me)
	})
}

// handleSignup creates a user, signs a JWT, sets the auth cookie and claims
// the guest's last score and live session.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.accounts.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case err != nil && isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimGuest(w, r, u.ID)
	writeJSON(w, http.StatusOK, u)
}

// handleLogin authenticates the user, sets the auth cookie and claims the
// guest's last score and live session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts_disabled")
		return
	}
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.accounts.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		if !errors.Is(err, account.ErrBadCredentials) {
			log.Error().Err(err).Msg("login")
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimGuest(w, r, u.ID)
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) issueToken(w http.ResponseWriter, u *account.User) bool {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)
	return true
}

func isValidationError(err error) bool {
	for _, v := range []error{
		account.ErrNameTooShort, account.ErrNameTooLong, account.ErrNameProfane,
		account.ErrNameRepeats, account.ErrNameCharacters, account.ErrPasswordLength,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
