package session_test

import (
	"testing"
	"time"

	"github.com/signetdash/signet/session"
	"github.com/stretchr/testify/require"
)

func newManagerFixture(t *testing.T) (*session.Manager, *session.Assembler) {
	t.Helper()
	assembler := newAssembler()
	return session.NewManager(assembler), assembler
}

func establish(t *testing.T, manager *session.Manager, assembler *session.Assembler, identity session.Identity) {
	t.Helper()
	raw, err := assembler.Mint(identity.Claims, identity.Tokens)
	require.NoError(t, err)
	manager.Establish(raw)
}

func TestAuthHeaderForCurrentSession(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	header, ok := manager.AuthHeader()
	require.True(t, ok)
	require.Equal(t, "Bearer access-token-1", header)
}

func TestAuthHeaderAnonymous(t *testing.T) {
	manager, _ := newManagerFixture(t)

	header, ok := manager.AuthHeader()
	require.False(t, ok)
	require.Empty(t, header)
}

func TestAuthHeaderOmittedAfterExpiry(t *testing.T) {
	start := time.Now()
	freezeClock(t, start)

	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	session.NowTimeFunc = func() time.Time { return start.Add(25 * time.Hour) }

	_, ok := manager.AuthHeader()
	require.False(t, ok)
	require.Nil(t, manager.Current())
}

func TestAuthHeaderOmittedAfterInvalidation(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	manager.MarkInvalid(session.ReasonRefreshFailed)

	_, ok := manager.AuthHeader()
	require.False(t, ok)

	current := manager.Current()
	require.NotNil(t, current)
	require.Equal(t, session.ReasonRefreshFailed, current.InvalidationReason)
	require.True(t, current.Invalidated())
}

func TestCurrentReadsLatestEstablished(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	second := testIdentity()
	second.Claims.Email = "jane.doe@example.com"
	second.Tokens.AccessToken = "access-token-2"
	establish(t, manager, assembler, second)

	current := manager.Current()
	require.NotNil(t, current)
	require.Equal(t, "jane.doe@example.com", current.Claims.Email)

	header, ok := manager.AuthHeader()
	require.True(t, ok)
	require.Equal(t, "Bearer access-token-2", header)
}

func TestMarkInvalidNotifiesEachListenerOnce(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	first, second := 0, 0
	manager.OnInvalidated(func(session.InvalidationReason) { first++ })
	manager.OnInvalidated(func(session.InvalidationReason) { second++ })

	manager.MarkInvalid(session.ReasonRefreshFailed)
	manager.MarkInvalid(session.ReasonRefreshFailed)

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestMarkInvalidWithoutSessionIsIgnored(t *testing.T) {
	manager, _ := newManagerFixture(t)

	notified := 0
	manager.OnInvalidated(func(session.InvalidationReason) { notified++ })

	manager.MarkInvalid(session.ReasonRefreshFailed)
	require.Zero(t, notified)
	require.Nil(t, manager.Current())
}

func TestInvalidatedTokenCannotBeReestablished(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())
	raw := manager.Token()

	manager.MarkInvalid(session.ReasonRefreshFailed)
	manager.SignOut()

	manager.Establish(raw)
	require.Nil(t, manager.Current())

	// A freshly minted token is a new session and passes.
	establish(t, manager, assembler, testIdentity())
	require.NotNil(t, manager.Current())
}

func TestSignOutLeavesAnonymous(t *testing.T) {
	manager, assembler := newManagerFixture(t)
	establish(t, manager, assembler, testIdentity())

	manager.SignOut()

	require.Nil(t, manager.Current())
	require.Empty(t, manager.Token())
	_, ok := manager.AuthHeader()
	require.False(t, ok)
}
