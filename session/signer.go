package session

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs session tokens and supplies the key to verify them when they
// are parsed back.
type Signer interface {
	Sign(claims jwtlib.MapClaims) (string, error)
	GetVerificationKey(token *jwtlib.Token) (any, error)
}

// HMACSigner implements Signer with symmetric HMAC-SHA256. Session tokens
// are minted and verified inside the same process, so a shared secret is all
// the trust needed.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates a signer keyed with the given secret.
func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Sign(claims jwtlib.MapClaims) (string, error) {
	signedToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner.Sign] sign token")
	}
	return signedToken, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("[HMACSigner.GetVerificationKey] unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
