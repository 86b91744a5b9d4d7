package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

// MemoryStore is a process-local Store used for development and tests
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memDoc
	logger      *logrus.Logger
	requests    atomic.Int64
	closed      atomic.Bool
}

type memDoc struct {
	id     string
	raw    json.RawMessage
	fields map[string]any
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	logger.Info("Using in-memory document store")
	return &MemoryStore{
		collections: make(map[string]map[string]*memDoc),
		logger:      logger,
	}
}

func newMemDoc(id string, doc any) (*memDoc, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	fields["id"] = id
	return encodeFields(id, fields)
}

func encodeFields(id string, fields map[string]any) (*memDoc, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return &memDoc{id: id, raw: b, fields: fields}, nil
}

func (m *MemoryStore) collection(name string) map[string]*memDoc {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]*memDoc)
		m.collections[name] = c
	}
	return c
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	m.requests.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(d.raw), nil
}

func (m *MemoryStore) FindOne(ctx context.Context, collection string, where query.Predicate) (json.RawMessage, error) {
	docs, err := m.Find(ctx, collection, query.Query{Where: where, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (m *MemoryStore) Find(ctx context.Context, collection string, q query.Query) ([]json.RawMessage, error) {
	m.requests.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.match(collection, q.Where)
	slices.SortStableFunc(matched, func(a, b *memDoc) int {
		for _, s := range q.Sort {
			if c := sortValues(a.fields[s.Field], b.fields[s.Field]); c != 0 {
				return c * int(s.Direction)
			}
		}
		return strings.Compare(a.id, b.id)
	})

	if q.Skip >= len(matched) {
		return []json.RawMessage{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	out := make([]json.RawMessage, len(matched))
	for i, d := range matched {
		out[i] = slices.Clone(d.raw)
	}
	return out, nil
}

func (m *MemoryStore) Count(ctx context.Context, collection string, where query.Predicate) (int, error) {
	m.requests.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.match(collection, where)), nil
}

func (m *MemoryStore) Insert(ctx context.Context, collection, id string, doc any) error {
	m.requests.Add(1)
	d, err := newMemDoc(id, doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, ok := c[id]; ok {
		return &DuplicateError{Collection: collection, Fields: []string{"id"}}
	}
	if err := m.checkUnique(collection, d); err != nil {
		return err
	}
	c[id] = d
	return nil
}

func (m *MemoryStore) Replace(ctx context.Context, collection, id string, doc any) error {
	m.requests.Add(1)
	d, err := newMemDoc(id, doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}
	if err := m.checkUnique(collection, d); err != nil {
		return err
	}
	c[id] = d
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.requests.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}
	delete(c, id)
	return nil
}

func (m *MemoryStore) DeleteWhere(ctx context.Context, collection string, where query.Predicate) (int, error) {
	m.requests.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.match(collection, where)
	c := m.collection(collection)
	for _, d := range matched {
		delete(c, d.id)
	}
	return len(matched), nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	m.requests.Add(1)
	if _, ok := fields["id"]; ok {
		return fmt.Errorf("cannot set the id field")
	}
	patch, ok := normalize(fields).(map[string]any)
	if !ok {
		return fmt.Errorf("encode fields for %s/%s", collection, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	d, ok := c[id]
	if !ok {
		return ErrNotFound
	}

	merged := make(map[string]any, len(d.fields)+len(patch))
	for k, v := range d.fields {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}

	updated, err := encodeFields(id, merged)
	if err != nil {
		return err
	}
	if err := m.checkUnique(collection, updated); err != nil {
		return err
	}
	c[id] = updated
	return nil
}

func (m *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	m.requests.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	d, ok := c[id]
	if !ok {
		return ErrNotFound
	}

	fields := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		fields[k] = v
	}
	current, _ := fields[field].(float64)
	fields[field] = max(current+float64(delta), 0)

	updated, err := encodeFields(id, fields)
	if err != nil {
		return err
	}
	c[id] = updated
	return nil
}

func (m *MemoryStore) Sum(ctx context.Context, collection string, where query.Predicate, field string) (int, error) {
	m.requests.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	for _, d := range m.match(collection, where) {
		if v, ok := d.fields[field].(float64); ok {
			total += v
		}
	}
	return int(total), nil
}

func (m *MemoryStore) HealthCheck(ctx context.Context) error {
	if m.closed.Load() {
		return fmt.Errorf("memory store is closed")
	}
	return nil
}

func (m *MemoryStore) GetStats() *models.Stats {
	return &models.Stats{
		Driver:        "memory",
		TotalRequests: int(m.requests.Load()),
	}
}

func (m *MemoryStore) Close() error {
	m.closed.Store(true)
	m.logger.Info("In-memory document store closed")
	return nil
}

// match returns the documents of collection satisfying where. Callers hold mu.
func (m *MemoryStore) match(collection string, where query.Predicate) []*memDoc {
	var out []*memDoc
	for _, d := range m.collections[collection] {
		if matches(d.fields, where) {
			out = append(out, d)
		}
	}
	return out
}

func (m *MemoryStore) checkUnique(collection string, d *memDoc) error {
	for _, index := range UniqueIndexes[collection] {
		key, ok := indexKey(d.fields, index)
		if !ok {
			continue
		}
		for id, other := range m.collections[collection] {
			if id == d.id {
				continue
			}
			if otherKey, ok := indexKey(other.fields, index); ok && otherKey == key {
				return &DuplicateError{Collection: collection, Fields: index}
			}
		}
	}
	return nil
}

func indexKey(fields map[string]any, index []string) (string, bool) {
	parts := make([]any, len(index))
	for i, f := range index {
		v, ok := fields[f]
		if !ok || v == nil {
			return "", false
		}
		if s, isString := v.(string); isString {
			v = strings.ToLower(s)
		}
		parts[i] = v
	}
	b, _ := json.Marshal(parts)
	return string(b), true
}

func matches(fields map[string]any, p query.Predicate) bool {
	switch p.Op {
	case query.OpAll:
		return true
	case query.OpEq:
		return equalValues(fields[p.Field], normalize(p.Value))
	case query.OpNe:
		return !equalValues(fields[p.Field], normalize(p.Value))
	case query.OpIn:
		var have []any
		switch v := fields[p.Field].(type) {
		case []any:
			have = v
		case nil:
			return false
		default:
			have = []any{v}
		}
		for _, want := range p.Values {
			nw := normalize(want)
			for _, h := range have {
				if equalValues(h, nw) {
					return true
				}
			}
		}
		return false
	case query.OpContains:
		text := strings.ToLower(fmt.Sprint(p.Value))
		for _, f := range p.Fields {
			if s, ok := fields[f].(string); ok && strings.Contains(strings.ToLower(s), text) {
				return true
			}
		}
		return false
	case query.OpGt:
		v, ok := fields[p.Field]
		return ok && v != nil && compareValues(v, normalize(p.Value)) > 0
	case query.OpLt:
		v, ok := fields[p.Field]
		return ok && v != nil && compareValues(v, normalize(p.Value)) < 0
	case query.OpAnd:
		for _, n := range p.Nodes {
			if !matches(fields, n) {
				return false
			}
		}
		return true
	}
	return false
}

// normalize converts a Go value to the shape encoding/json decodes it to
func normalize(v any) any {
	switch t := v.(type) {
	case string, bool, float64, nil:
		return t
	case int:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return compareValues(a, b) == 0 && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

// sortValues orders values for listings. Plain strings compare
// case-insensitively, matching the lower() sort keys of PostgresStore.
func sortValues(a, b any) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok && !isTimestamp(as) && !isTimestamp(bs) {
		return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
	}
	return compareValues(a, b)
}

func isTimestamp(s string) bool {
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// compareValues orders JSON-decoded values. Nil sorts first; strings that
// both parse as RFC 3339 timestamps compare chronologically.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aerr := time.Parse(time.RFC3339Nano, av)
			bt, berr := time.Parse(time.RFC3339Nano, bv)
			if aerr == nil && berr == nil {
				return at.Compare(bt)
			}
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
