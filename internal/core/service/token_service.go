package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csemotors/dealership/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// accountClaims is the wire shape of the bearer token: the password-free
// account snapshot plus standard expiry claims.
type accountClaims struct {
	domain.Identity
	jwt.RegisteredClaims
}

// TokenService mints and validates HS256 bearer tokens carrying an account
// snapshot.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token embedding the identity snapshot, valid for the
// configured TTL. Pure computation; the caller sets the cookie.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	now := s.now().UTC()
	claims := accountClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a raw token. It returns ErrTokenExpired for a
// token past its expiry and ErrInvalidToken for every other failure
// (malformed, tampered signature, wrong algorithm). It never panics; both
// error kinds mean "not authenticated" to the caller.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	claims := &accountClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuedAt())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if !tkn.Valid || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return claims.Identity, nil
}
