package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// ClaimsFromContext returns the claims stored by the authentication
// middleware, or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// ContextWithClaims stores claims on a context. Exposed for handler tests.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// Middleware authenticates HTTP requests using Bearer tokens.
type Middleware struct {
	manager *JWTManager

	// Unauthorized is called when authentication fails. The server wires
	// this to its standard error envelope.
	Unauthorized func(w http.ResponseWriter, r *http.Request, err error)
}

// NewMiddleware creates authentication middleware backed by manager.
func NewMiddleware(manager *JWTManager) *Middleware {
	return &Middleware{
		manager: manager,
		Unauthorized: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		},
	}
}

// Authenticate requires a valid access token and stores its claims in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			m.Unauthorized(w, r, ErrInvalidToken)
			return
		}

		claims, err := m.manager.ValidateToken(token)
		if err != nil {
			m.Unauthorized(w, r, err)
			return
		}
		if claims.TokenType != TokenTypeAccess {
			m.Unauthorized(w, r, ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireProctor rejects authenticated requests whose role cannot view
// other users' data.
func (m *Middleware) RequireProctor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || !claims.Role.CanProctor() {
			m.Unauthorized(w, r, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
