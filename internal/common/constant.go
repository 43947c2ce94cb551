package common

// Account roles carried in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName is echoed on every response for log correlation.
const RequestIDHeaderName = "X-Request-ID"
