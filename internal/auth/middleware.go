package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ContextKeyToken is the context key for the raw bearer token
	ContextKeyToken contextKey = "jwt_token"
	// ContextKeyIdentity is the context key for the resolved identity
	ContextKeyIdentity contextKey = "identity"
)

// Middleware resolves the caller's identity for every request
type Middleware struct {
	resolver   *IdentityResolver
	cookieName string
	logger     *logrus.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(resolver *IdentityResolver, cookieName string, logger *logrus.Logger) *Middleware {
	return &Middleware{
		resolver:   resolver,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Authenticate extracts a bearer token from the Authorization header, or
// from the auth cookie when no header is sent, and stores the resolved
// identity in the request context. Requests are never rejected here;
// anonymous callers proceed and resolvers apply their own requirements.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyToken, token)
		if id := m.resolver.Resolve(ctx, token); id != nil {
			m.logger.WithFields(logrus.Fields{
				"user": id.SubjectID,
				"role": id.Role,
			}).Debug("Resolved request identity")
			ctx = WithIdentity(ctx, id)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			m.logger.Debug("Ignoring malformed Authorization header")
			return ""
		}
		return strings.TrimSpace(token)
	}

	if m.cookieName != "" {
		if c, err := r.Cookie(m.cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// IdentityFromContext returns the request identity, or nil for anonymous callers
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(ContextKeyIdentity).(*Identity); ok {
		return id
	}
	return nil
}

// GetTokenFromContext extracts the bearer token from the request context
func GetTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(ContextKeyToken).(string); ok {
		return token
	}
	return ""
}
