package session

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Watchdog is the process-wide observer of session invalidation. When the
// current session is found carrying an invalidation marker it terminates the
// session and invokes the redirect hook that sends the user back to the
// unauthenticated entry point. It is the only component permitted to perform
// the destructive global sign-out.
//
// The sign-out fires at most once per established session, no matter how
// many observers report the same invalidation concurrently.
type Watchdog struct {
	manager   *Manager
	redirect  func()
	log       zerolog.Logger
	lastFired atomic.Uint64
}

// NewWatchdog creates a Watchdog bound to the manager and registers it as an
// invalidation observer. The redirect hook may be nil.
func NewWatchdog(manager *Manager, redirect func(), log zerolog.Logger) *Watchdog {
	w := &Watchdog{
		manager:  manager,
		redirect: redirect,
		log:      log,
	}
	manager.OnInvalidated(w.handle)
	return w
}

// Observe checks a session view for an invalidation marker. Any collaborator
// holding a session may call it; repeat observations of the same
// invalidation are harmless.
func (w *Watchdog) Observe(session *Session) {
	if !session.Invalidated() {
		return
	}
	w.handle(session.InvalidationReason)
}

func (w *Watchdog) handle(reason InvalidationReason) {
	// An observed view may be stale: only act if the currently active
	// session really carries the marker. A healthy session established
	// after the observed one must survive a laggard observer.
	if !w.manager.invalidated() {
		return
	}

	generation := w.manager.Generation()
	for {
		last := w.lastFired.Load()
		if last >= generation {
			return
		}
		if w.lastFired.CompareAndSwap(last, generation) {
			break
		}
	}

	w.log.Warn().Str("reason", string(reason)).Msg("session invalidated, forcing sign-out")
	w.manager.SignOut()
	if w.redirect != nil {
		w.redirect()
	}
}
