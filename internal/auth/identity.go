package auth

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Identity is the authenticated subject of a request. A nil *Identity is anonymous.
type Identity struct {
	SubjectID string
	Email     string
	Role      models.Role
	Active    bool
}

// Authenticated reports whether id represents a signed-in, active user
func (id *Identity) Authenticated() bool {
	return id != nil && id.SubjectID != "" && id.Active
}

// IdentityResolver turns bearer tokens into identities
type IdentityResolver struct {
	tokens *TokenIssuer
	store  store.Store
	logger *logrus.Logger
}

// NewIdentityResolver creates an identity resolver
func NewIdentityResolver(tokens *TokenIssuer, st store.Store, logger *logrus.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, store: st, logger: logger}
}

// Resolve returns the identity behind token, or nil. Invalid, expired or
// malformed tokens, unknown subjects and inactive users all resolve to
// anonymous; the cause is logged and never returned.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) *Identity {
	if token == "" {
		return nil
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		r.logger.WithError(err).Debug("Rejected bearer token")
		return nil
	}

	user, err := store.Load[models.User](ctx, r.store, store.Users, claims.Subject)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", claims.Subject).Warn("Token subject could not be loaded")
		return nil
	}

	if !user.IsActive {
		r.logger.WithField("user_id", user.ID).Info("Token presented for deactivated account")
		return nil
	}

	return &Identity{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Active:    user.IsActive,
	}
}
