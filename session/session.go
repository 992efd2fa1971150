package session

import "time"

// InvalidationReason marks why a session must no longer authorize requests.
// A session carrying a reason is terminal: the only valid follow-up is a
// global sign-out and a fresh login.
type InvalidationReason string

const (
	// ReasonRefreshFailed is set when the backend-assisted token refresh
	// failed. It is the one reason that escalates to a forced sign-out.
	ReasonRefreshFailed InvalidationReason = "RefreshAccessTokenError"
)

// Claims holds the authenticated user's attributes. Claims are immutable for
// the session's lifetime; a role change requires a new session.
type Claims struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Sector string `json:"sector"`
}

// TokenPair holds the opaque bearer credentials issued by the backend
// identity service. The pair lives inside the session token only and is
// never handed to page-level code directly.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Identity is the output of a successful authentication: the claims and the
// token pair that a new session is minted from.
type Identity struct {
	Claims Claims
	Tokens TokenPair
}

// Session is the unit of authentication state visible to the rest of the
// system. It is a projection of a signed session token plus the in-memory
// invalidation marker, reconstructed on every read.
type Session struct {
	Claims             Claims
	Tokens             TokenPair
	IssuedAt           time.Time
	ExpiresAt          time.Time
	InvalidationReason InvalidationReason
}

// Invalidated reports whether the session carries an invalidation marker.
func (s *Session) Invalidated() bool {
	return s != nil && s.InvalidationReason != ""
}

// Usable reports whether the session may authorize a request at the given
// time: present, not invalidated, and not past its expiry.
func (s *Session) Usable(now time.Time) bool {
	return s != nil && s.InvalidationReason == "" && now.Before(s.ExpiresAt)
}
