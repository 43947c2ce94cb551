// Package auth holds the credential primitives of the server: password
// hashing and signed, expiring bearer tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/logicspark/logicspark/internal/common"
)

// Claims is the payload of an access token. Identity and Role are copied at
// issuance and never re-checked against the store.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

// SubjectID returns the account id the token was issued for.
func (c *Claims) SubjectID() string { return c.Subject }

// TokenIssuer mints and verifies HS256 tokens with a process-wide secret.
// It is immutable after construction and safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	return &TokenIssuer{secret: i.secret, now: now}
}

// Issue signs a token for the given account. IssuedAt is truncated to the
// second (the JWT NumericDate resolution) and ExpiresAt = IssuedAt + ttl.
func (i *TokenIssuer) Issue(subjectID, identity, role string, ttl time.Duration) (string, *Claims, error) {
	issuedAt := i.now().Truncate(time.Second)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Identity: identity,
		Role:     role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Verify checks the signature first and the expiry second. Any token that
// cannot be proven authentic, malformed ones included, fails with
// common.ErrBadSignature; a token used at or after ExpiresAt fails with
// common.ErrTokenExpired.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, errors.Join(common.ErrBadSignature, err)
	}

	if claims.ExpiresAt == nil || !i.now().Before(claims.ExpiresAt.Time) {
		return nil, common.ErrTokenExpired
	}

	return claims, nil
}
