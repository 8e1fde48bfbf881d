package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the synchronizer session to the student API.
type Claims struct {
	Session string `json:"session"`
	jwt.RegisteredClaims
}

// Signer issues short-lived HS256 bearer tokens for outbound requests.
type Signer struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	session string
	now     func() time.Time
}

// NewSigner returns nil when secret is empty; a nil Signer issues no tokens.
func NewSigner(secret, issuer, session string, ttl time.Duration) *Signer {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, session: session, now: time.Now}
}

// Token signs a fresh token. It returns "" for a nil Signer.
func (s *Signer) Token() (string, error) {
	if s == nil {
		return "", nil
	}
	issuedAt := s.now().UTC()
	claims := &Claims{
		Session: s.session,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   s.session,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a token issued with secret. The student API side uses the
// same check; tests use it to inspect outbound headers.
func Parse(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
