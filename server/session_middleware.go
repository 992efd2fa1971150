package server

import (
	"context"
	"net/http"

	"github.com/signetdash/signet/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the reconstructed session for the request
const ContextKeySession ContextKey = "session"

// RequireSession is middleware that reconstructs the session on every
// request. An invalidated session is handed to the watchdog (which forces
// the global sign-out) before the request is rejected; an absent or expired
// session is rejected as anonymous.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := s.currentSession(r)

			if sess.Invalidated() {
				s.watchdog.Observe(sess)
				clearSessionCookie(w)
				s.writeJSON(w, http.StatusUnauthorized, apiResponse{
					Message: "session invalidated",
					Error:   loginRoute,
				})
				return
			}

			if !sess.Usable(session.NowTimeFunc()) {
				s.writeJSON(w, http.StatusUnauthorized, apiResponse{
					Message: "authentication required",
				})
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next(w, r.WithContext(ctx))
		}
	}
}

// currentSession prefers the process-current session and otherwise adopts a
// still-valid session cookie, e.g. after a process restart.
func (s *Server) currentSession(r *http.Request) *session.Session {
	if sess := s.sessions.Current(); sess != nil {
		return sess
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	if s.assembler.Reconstruct(cookie.Value) == nil {
		return nil
	}
	s.sessions.Establish(cookie.Value)
	return s.sessions.Current()
}

// SessionFromContext returns the session injected by RequireSession.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ContextKeySession).(*session.Session)
	return sess
}
