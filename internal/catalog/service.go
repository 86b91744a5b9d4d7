// Package catalog implements the novel platform's operations: accounts,
// catalogue entities, reviews and reader interactions. Every state change
// goes through a mutation.Pipeline.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/mutation"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Token lengths for opaque account tokens
const (
	RefreshTokenLength = 64
	AccountTokenLength = 32
)

// Options tunes account handling
type Options struct {
	BcryptCost int
	// TokenTTL bounds password reset and e-mail verification tokens
	TokenTTL time.Duration
}

// Service holds the dependencies shared by all operations
type Service struct {
	store   store.Store
	tokens  *auth.TokenIssuer
	counter *mutation.Counter
	opts    Options
	logger  *logrus.Logger
	now     func() time.Time
}

// New creates a catalog service
func New(st store.Store, tokens *auth.TokenIssuer, opts Options, logger *logrus.Logger) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Service{
		store:   st,
		tokens:  tokens,
		counter: mutation.NewCounter(st, logger),
		opts:    opts,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func newID() string { return uuid.NewString() }

// parseID validates a client-supplied id, returning a Validation error
func parseID(raw, label string) (string, error) {
	id, err := query.ParseID(raw, label)
	if err != nil {
		return "", apperr.Translate(err, true)
	}
	return id, nil
}

// fetch loads collection/id, mapping a miss to NotFound with msg
func fetch[T any](ctx context.Context, st store.Store, collection, id, msg string) (*T, error) {
	v, err := store.Load[T](ctx, st, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(msg)
	}
	return v, err
}

// fetchRaw parses rawID then fetches it
func fetchRaw[T any](ctx context.Context, st store.Store, collection, rawID, label, msg string) (*T, error) {
	id, err := parseID(rawID, label)
	if err != nil {
		return nil, err
	}
	return fetch[T](ctx, st, collection, id, msg)
}

// exists reports whether collection holds id
func exists(ctx context.Context, st store.Store, collection, id string) (bool, error) {
	return store.Exists(ctx, st, collection, query.Eq("id", id))
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
