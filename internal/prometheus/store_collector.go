package prometheus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// StoreCollector wraps a store.Store and records metrics for all operations
type StoreCollector struct {
	next store.Store
}

var _ store.Store = (*StoreCollector)(nil)

// NewStoreCollector creates a new instrumented wrapper around a store.Store
func NewStoreCollector(next store.Store) *StoreCollector {
	return &StoreCollector{next: next}
}

// recordOperation records duration and count for an operation. A miss is
// not counted as a failure.
func recordOperation(operation, collection string, start time.Time, err error) {
	success := "true"
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		success = "false"
	}

	OperationDuration.WithLabelValues(operation, collection, success).Observe(time.Since(start).Seconds())
	OperationsTotal.WithLabelValues(operation, collection, success).Inc()
}

// updatePoolMetrics updates connection pool gauges from stats
func updatePoolMetrics(stats *models.Stats) {
	if stats == nil {
		return
	}
	PoolSize.Set(float64(stats.PoolSize))
	PoolIdleConnections.Set(float64(stats.Available))
	PoolActiveConnections.Set(float64(stats.InUse))
	PoolTotalRequests.Set(float64(stats.TotalRequests))
}

// ═══════════════════════════════════════════════════════════════════════════
// READS
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	start := time.Now()
	doc, err := c.next.Get(ctx, collection, id)
	recordOperation("get", collection, start, err)
	return doc, err
}

func (c *StoreCollector) FindOne(ctx context.Context, collection string, where query.Predicate) (json.RawMessage, error) {
	start := time.Now()
	doc, err := c.next.FindOne(ctx, collection, where)
	recordOperation("find_one", collection, start, err)
	return doc, err
}

func (c *StoreCollector) Find(ctx context.Context, collection string, q query.Query) ([]json.RawMessage, error) {
	start := time.Now()
	docs, err := c.next.Find(ctx, collection, q)
	recordOperation("find", collection, start, err)
	return docs, err
}

func (c *StoreCollector) Count(ctx context.Context, collection string, where query.Predicate) (int, error) {
	start := time.Now()
	n, err := c.next.Count(ctx, collection, where)
	recordOperation("count", collection, start, err)
	return n, err
}

func (c *StoreCollector) Sum(ctx context.Context, collection string, where query.Predicate, field string) (int, error) {
	start := time.Now()
	n, err := c.next.Sum(ctx, collection, where, field)
	recordOperation("sum", collection, start, err)
	return n, err
}

// ═══════════════════════════════════════════════════════════════════════════
// WRITES
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) Insert(ctx context.Context, collection, id string, doc any) error {
	start := time.Now()
	err := c.next.Insert(ctx, collection, id, doc)
	recordOperation("insert", collection, start, err)
	return err
}

func (c *StoreCollector) Replace(ctx context.Context, collection, id string, doc any) error {
	start := time.Now()
	err := c.next.Replace(ctx, collection, id, doc)
	recordOperation("replace", collection, start, err)
	return err
}

func (c *StoreCollector) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := c.next.Delete(ctx, collection, id)
	recordOperation("delete", collection, start, err)
	return err
}

func (c *StoreCollector) DeleteWhere(ctx context.Context, collection string, where query.Predicate) (int, error) {
	start := time.Now()
	n, err := c.next.DeleteWhere(ctx, collection, where)
	recordOperation("delete_where", collection, start, err)
	return n, err
}

func (c *StoreCollector) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	start := time.Now()
	err := c.next.Set(ctx, collection, id, fields)
	recordOperation("set", collection, start, err)
	return err
}

func (c *StoreCollector) Increment(ctx context.Context, collection, id, field string, delta int) error {
	start := time.Now()
	err := c.next.Increment(ctx, collection, id, field, delta)
	recordOperation("increment", collection, start, err)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════

func (c *StoreCollector) HealthCheck(ctx context.Context) error {
	return c.next.HealthCheck(ctx)
}

func (c *StoreCollector) GetStats() *models.Stats {
	stats := c.next.GetStats()
	updatePoolMetrics(stats)
	return stats
}

func (c *StoreCollector) Close() error {
	return c.next.Close()
}
