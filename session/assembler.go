package session

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DefaultMaxAge is the validity window of a minted session token.
const DefaultMaxAge = 24 * time.Hour

// Assembler owns the signed-session representation: it mints tamper-evident
// session tokens from an authenticated identity and reconstructs the
// client-visible session view from a token on every request.
type Assembler struct {
	signer Signer
	maxAge time.Duration
}

// NewAssembler creates an Assembler signing with the given signer. A
// non-positive maxAge falls back to DefaultMaxAge.
func NewAssembler(signer Signer, maxAge time.Duration) *Assembler {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Assembler{
		signer: signer,
		maxAge: maxAge,
	}
}

// Mint embeds the claims and token pair into a signed session token with a
// fixed validity window. Claims and tokens are immutable for the token's
// lifetime; refreshing identity mints a new token.
func (a *Assembler) Mint(claims Claims, tokens TokenPair) (string, error) {
	now := NowTimeFunc()
	mapClaims := jwtlib.MapClaims{
		"sub":    claims.ID,
		"name":   claims.Name,
		"email":  claims.Email,
		"role":   claims.Role,
		"sector": claims.Sector,
		"at":     tokens.AccessToken,
		"rt":     tokens.RefreshToken,
		"iat":    now.Unix(),
		"exp":    now.Add(a.maxAge).Unix(),
		"jti":    uuid.New().String(),
	}

	signedToken, err := a.signer.Sign(mapClaims)
	if err != nil {
		return "", errors.Wrap(err, "[Assembler.Mint] signer.Sign")
	}
	return signedToken, nil
}

// Reconstruct projects a signed session token back into a Session. It is a
// pure read: malformed, tampered, or expired tokens yield a nil session
// (anonymous), never an error. Expiry is an ordinary state here, not an
// exceptional one.
func (a *Assembler) Reconstruct(raw string) *Session {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	token, err := jwtlib.ParseWithClaims(raw, jwtlib.MapClaims{}, a.signer.GetVerificationKey,
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil || !token.Valid {
		return nil
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil
	}

	sub, _ := mapClaims["sub"].(string)
	name, _ := mapClaims["name"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	sector, _ := mapClaims["sector"].(string)
	accessToken, _ := mapClaims["at"].(string)
	refreshToken, _ := mapClaims["rt"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	return &Session{
		Claims: Claims{
			ID:     sub,
			Name:   name,
			Email:  email,
			Role:   role,
			Sector: sector,
		},
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}
}

// Next is the session state transition: given the prior signed token and an
// optional freshly authenticated identity, it yields the token that should be
// current afterwards. A fresh identity always mints a new token; otherwise
// the prior token is revalidated and carried forward, collapsing to anonymous
// ("") once it is malformed or expired.
func (a *Assembler) Next(prior string, fresh *Identity) (string, error) {
	if fresh != nil {
		return a.Mint(fresh.Claims, fresh.Tokens)
	}
	if a.Reconstruct(prior) == nil {
		return "", nil
	}
	return prior, nil
}
