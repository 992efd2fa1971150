package session

import "sync"

// Manager owns the process-wide current session: shared-read by every
// collaborator, written only by the establish and sign-out paths. It stores
// the raw signed token plus the invalidation marker; the Session view handed
// out is reconstructed on every read so callers always see the state that is
// current at the moment of the call.
type Manager struct {
	assembler *Assembler

	mu         sync.RWMutex
	raw        string
	reason     InvalidationReason
	barred     string
	generation uint64
	listeners  []func(InvalidationReason)
}

// NewManager creates a Manager with no current session.
func NewManager(assembler *Assembler) *Manager {
	return &Manager{
		assembler: assembler,
	}
}

// Establish replaces the current session with a freshly minted signed token
// and clears any invalidation marker left over from a previous session. A
// token that was previously invalidated is terminal and cannot be
// re-established.
func (m *Manager) Establish(raw string) {
	m.mu.Lock()
	if raw != "" && raw == m.barred {
		m.mu.Unlock()
		return
	}
	m.raw = raw
	m.reason = ""
	m.generation++
	m.mu.Unlock()
}

// Current reconstructs the session that is current at the moment of the
// call. Returns nil when no session is established or the stored token has
// expired or is malformed.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	raw, reason := m.raw, m.reason
	m.mu.RUnlock()

	session := m.assembler.Reconstruct(raw)
	if session == nil {
		return nil
	}
	session.InvalidationReason = reason
	return session
}

// Token returns the raw signed session token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw
}

// AuthHeader returns the bearer credential for the current session. The
// second return is false when no usable session exists: anonymous, expired,
// or carrying an invalidation marker.
func (m *Manager) AuthHeader() (string, bool) {
	session := m.Current()
	if !session.Usable(NowTimeFunc()) {
		return "", false
	}
	return "Bearer " + session.Tokens.AccessToken, true
}

// MarkInvalid flags the current session as terminal and notifies registered
// observers. The marker does not revoke the signed token at the backend; it
// only stops this process from authorizing further requests with it. Repeat
// calls for an already-marked or absent session are ignored.
func (m *Manager) MarkInvalid(reason InvalidationReason) {
	m.mu.Lock()
	if m.raw == "" || m.reason != "" {
		m.mu.Unlock()
		return
	}
	m.reason = reason
	listeners := make([]func(InvalidationReason), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(reason)
	}
}

// OnInvalidated registers an observer to be notified when the current
// session is marked invalid.
func (m *Manager) OnInvalidated(listener func(InvalidationReason)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, listener)
	m.mu.Unlock()
}

// SignOut destroys the current session, leaving the manager anonymous. If
// the session was signed out because of an invalidation, its token stays
// barred for the rest of the process lifetime.
func (m *Manager) SignOut() {
	m.mu.Lock()
	if m.reason != "" {
		m.barred = m.raw
	}
	m.raw = ""
	m.reason = ""
	m.mu.Unlock()
}

// Generation identifies the currently established session; it increments on
// every Establish. Used to deduplicate sign-out side effects.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// invalidated reports whether the currently established token carries an
// invalidation marker. Unlike Current it does not depend on the token still
// being reconstructable.
func (m *Manager) invalidated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw != "" && m.reason != ""
}
