package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/signetdash/signet/auth"
	"github.com/signetdash/signet/session"
)

const sessionCookieName = "signet_session"

// apiResponse is the envelope shape this surface answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// sessionView is the client-visible projection of the current session.
// Tokens never appear here.
type sessionView struct {
	User      session.Claims `json:"user"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionLoginHandler exchanges credentials for a signed session: it runs the
// single login round trip, mints the session token, establishes it as the
// process-current session, and sets it as the session cookie.
func (s *Server) SessionLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form loginForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			s.writeJSON(w, http.StatusBadRequest, apiResponse{Message: "malformed request body"})
			return
		}

		identity, err := s.auth.Authenticate(r.Context(), form.Email, form.Password)
		if err != nil {
			if errors.Is(err, auth.InvalidCredentialsErr) {
				s.writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "invalid credentials"})
				return
			}
			s.log.Error().Err(err).Msg("login failed")
			s.writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "login failed"})
			return
		}

		raw, err := s.assembler.Next("", identity)
		if err != nil {
			s.log.Error().Err(err).Msg("minting session failed")
			s.writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "login failed"})
			return
		}
		s.sessions.Establish(raw)

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    raw,
			Path:     "/",
			MaxAge:   int(s.config.SessionMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		sess := s.sessions.Current()
		s.writeJSON(w, http.StatusOK, apiResponse{
			Success: true,
			Data:    sessionView{User: sess.Claims, ExpiresAt: sess.ExpiresAt},
		})
	}
}

// SessionViewHandler returns the current session's client-visible view.
func (s *Server) SessionViewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		s.writeJSON(w, http.StatusOK, apiResponse{
			Success: true,
			Data:    sessionView{User: sess.Claims, ExpiresAt: sess.ExpiresAt},
		})
	}
}

// SessionSignOutHandler destroys the current session and clears the cookie.
func (s *Server) SessionSignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.SignOut()
		clearSessionCookie(w)
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true})
	}
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("encoding response failed")
	}
}
