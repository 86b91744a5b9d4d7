// Package mutation runs state-changing operations through a fixed sequence
// of stages: authorization, input validation, referential checks, then the
// write. A failing stage aborts the operation before anything is written.
package mutation

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Pipeline describes one mutation. Validate must not touch the store;
// Check may read it but must not write.
type Pipeline[T any] struct {
	// Public skips the authorization stage entirely
	Public   bool
	Require  auth.Requirement
	Validate func() error
	Check    func(ctx context.Context, id *auth.Identity) error
	Write    func(ctx context.Context, id *auth.Identity) (T, error)
}

// Run executes p's stages strictly in order
func Run[T any](ctx context.Context, id *auth.Identity, p Pipeline[T]) (T, error) {
	var zero T

	if !p.Public {
		checked, err := auth.Check(id, p.Require)
		if err != nil {
			return zero, err
		}
		id = checked
	}

	if p.Validate != nil {
		if err := p.Validate(); err != nil {
			return zero, err
		}
	}

	if p.Check != nil {
		if err := p.Check(ctx, id); err != nil {
			return zero, err
		}
	}

	return p.Write(ctx, id)
}

// Problems accumulates structural validation failures
type Problems []string

// Add records msg when bad is true
func (p *Problems) Add(bad bool, msg string) {
	if bad {
		*p = append(*p, msg)
	}
}

// Err returns a Validation error listing every problem, or nil
func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	return apperr.Validation(strings.Join(p, ", "))
}

// Counter applies denormalized counter adjustments after a primary write.
// Failures are logged and counted; the primary write stands.
type Counter struct {
	store  store.Store
	logger *logrus.Logger
}

// NewCounter creates a counter helper
func NewCounter(st store.Store, logger *logrus.Logger) *Counter {
	return &Counter{store: st, logger: logger}
}

// Adjust adds delta to collection/id's field
func (c *Counter) Adjust(ctx context.Context, collection, id, field string, delta int) {
	if err := c.store.Increment(ctx, collection, id, field, delta); err != nil {
		prometheus.CounterAdjustmentFailures.WithLabelValues(collection, field).Inc()
		c.logger.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
			"field":      field,
			"delta":      delta,
		}).Warn("Counter adjustment failed after write")
	}
}

// Do runs a best-effort side effect described by what
func (c *Counter) Do(ctx context.Context, collection, id, what string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		prometheus.CounterAdjustmentFailures.WithLabelValues(collection, what).Inc()
		c.logger.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Warnf("Post-write update %q failed", what)
	}
}
