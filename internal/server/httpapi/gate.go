package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the claims the admin gate admitted the request
// with.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authorize is the gate decision for one request: a missing token is
// common.ErrMissingToken, any verification failure common.ErrInvalidToken and
// a non-admin role common.ErrForbidden.
func authorize(verifier TokenVerifier, header string) (*auth.Claims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, common.ErrMissingToken
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrBadSignature) || errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrInvalidToken
		}
		return nil, errors.Join(common.ErrInvalidToken, err)
	}

	if claims.Role != common.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return claims, nil
}

// adminGate admits only requests carrying a valid admin token.
func (s *HTTPServer) adminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := authorize(s.tokens, r.Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			s.logger.Debug(r.Context(), "admin gate rejected request", "path", r.URL.Path, "reason", err)
			s.writeError(w, r, err, errorMessages{})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
