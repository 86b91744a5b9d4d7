package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

const uniqueViolation = "23505"

// textSortFields are ordered case-insensitively
var textSortFields = map[string]bool{
	"title": true,
	"name":  true,
}

// Fields holding RFC 3339 timestamps; they sort and compare as timestamptz
var timeFields = map[string]bool{
	"createdAt":   true,
	"updatedAt":   true,
	"lastUpdated": true,
	"publishedAt": true,
	"lastReadAt":  true,
	"completedAt": true,
	"moderatedAt": true,
	"lastLogin":   true,
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresConfig holds connection pool settings
type PostgresConfig struct {
	URL      string
	MaxConns int32
}

// PostgresStore keeps every collection in one JSONB table
type PostgresStore struct {
	pool     *pgxpool.Pool
	logger   *logrus.Logger
	requests atomic.Int64
}

// NewPostgresStore connects a pool and verifies it with a ping
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger *logrus.Logger) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("max_conns", cfg.MaxConns).Info("Postgres document store initialized")

	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	s.requests.Add(1)
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return body, nil
}

func (s *PostgresStore) FindOne(ctx context.Context, collection string, where query.Predicate) (json.RawMessage, error) {
	docs, err := s.Find(ctx, collection, query.Query{Where: where, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, q query.Query) ([]json.RawMessage, error) {
	s.requests.Add(1)
	sql, args, err := buildSelect(collection, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string, where query.Predicate) (int, error) {
	s.requests.Add(1)
	b := newSQLBuilder(collection)
	cond, err := b.where(where)
	if err != nil {
		return 0, err
	}

	var n int64
	sql := `SELECT count(*) FROM documents WHERE collection = $1 AND ` + cond
	if err := s.pool.QueryRow(ctx, sql, b.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return int(n), nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection, id string, doc any) error {
	s.requests.Add(1)
	body, err := encodeBody(id, doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		collection, id, body,
	)
	return translatePgError(collection, err)
}

func (s *PostgresStore) Replace(ctx context.Context, collection, id string, doc any) error {
	s.requests.Add(1)
	body, err := encodeBody(id, doc)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET body = $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, body,
	)
	if err != nil {
		return translatePgError(collection, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	s.requests.Add(1)
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteWhere(ctx context.Context, collection string, where query.Predicate) (int, error) {
	s.requests.Add(1)
	b := newSQLBuilder(collection)
	cond, err := b.where(where)
	if err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND `+cond, b.args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	s.requests.Add(1)
	if _, ok := fields["id"]; ok {
		return fmt.Errorf("cannot set the id field")
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET body = body || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`,
		collection, id, string(patch),
	)
	if err != nil {
		return translatePgError(collection, fmt.Errorf("set %s/%s: %w", collection, id, err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	s.requests.Add(1)
	if !fieldName.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET body = jsonb_set(body, ARRAY[$3::text],
			to_jsonb(GREATEST(COALESCE((body->>$3::text)::numeric, 0) + $4, 0))),
			updated_at = now()
		WHERE collection = $1 AND id = $2`,
		collection, id, field, delta,
	)
	if err != nil {
		return fmt.Errorf("increment %s/%s.%s: %w", collection, id, field, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Sum(ctx context.Context, collection string, where query.Predicate, field string) (int, error) {
	s.requests.Add(1)
	if !fieldName.MatchString(field) {
		return 0, fmt.Errorf("invalid field name %q", field)
	}
	b := newSQLBuilder(collection)
	cond, err := b.where(where)
	if err != nil {
		return 0, err
	}

	var total int64
	sql := fmt.Sprintf(
		`SELECT COALESCE(SUM((body->>'%s')::numeric), 0)::bigint FROM documents WHERE collection = $1 AND %s`,
		field, cond,
	)
	if err := s.pool.QueryRow(ctx, sql, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum %s.%s: %w", collection, field, err)
	}
	return int(total), nil
}

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) GetStats() *models.Stats {
	stat := s.pool.Stat()
	return &models.Stats{
		Driver:        "postgres",
		PoolSize:      int(stat.MaxConns()),
		Available:     int(stat.IdleConns()),
		InUse:         int(stat.AcquiredConns()),
		TotalRequests: int(s.requests.Load()),
	}
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	s.logger.Info("Postgres connection pool closed")
	return nil
}

func encodeBody(id string, doc any) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(b, &fields); err != nil {
		return "", fmt.Errorf("document must be a JSON object: %w", err)
	}
	fields["id"] = id
	b, err = json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// translatePgError maps unique violations to DuplicateError. Unique indexes
// are named uniq_<collection>__<field>[__<field>...].
func translatePgError(collection string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		fields := []string{"id"}
		if name, ok := strings.CutPrefix(pgErr.ConstraintName, "uniq_"+collection+"__"); ok {
			fields = strings.Split(name, "__")
		}
		return &DuplicateError{Collection: collection, Fields: fields}
	}
	return fmt.Errorf("write %s: %w", collection, err)
}

// ============================================================================
// SQL TRANSLATION
// ============================================================================

type sqlBuilder struct {
	args []any
}

func newSQLBuilder(collection string) *sqlBuilder {
	return &sqlBuilder{args: []any{collection}}
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func buildSelect(collection string, q query.Query) (string, []any, error) {
	b := newSQLBuilder(collection)
	cond, err := b.where(q.Where)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT body FROM documents WHERE collection = $1 AND `)
	sb.WriteString(cond)
	sb.WriteString(` ORDER BY `)
	for _, s := range q.Sort {
		expr, err := sortExpr(s.Field)
		if err != nil {
			return "", nil, err
		}
		if s.Direction == query.Asc {
			sb.WriteString(expr + ` ASC NULLS FIRST, `)
		} else {
			sb.WriteString(expr + ` DESC NULLS LAST, `)
		}
	}
	sb.WriteString(`id ASC`)
	if q.Skip > 0 {
		sb.WriteString(` OFFSET ` + b.arg(q.Skip))
	}
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ` + b.arg(q.Limit))
	}
	return sb.String(), b.args, nil
}

func sortExpr(field string) (string, error) {
	if !fieldName.MatchString(field) {
		return "", fmt.Errorf("invalid sort field %q", field)
	}
	if timeFields[field] {
		return fmt.Sprintf(`(body->>'%s')::timestamptz`, field), nil
	}
	if textSortFields[field] {
		return fmt.Sprintf(`lower(body->>'%s')`, field), nil
	}
	return fmt.Sprintf(`body->'%s'`, field), nil
}

func (b *sqlBuilder) where(p query.Predicate) (string, error) {
	for _, f := range append([]string{p.Field}, p.Fields...) {
		if f != "" && !fieldName.MatchString(f) {
			return "", fmt.Errorf("invalid field name %q", f)
		}
	}

	switch p.Op {
	case query.OpAll:
		return "TRUE", nil

	case query.OpEq, query.OpNe:
		v, err := json.Marshal(jsonValue(p.Value))
		if err != nil {
			return "", fmt.Errorf("encode %s value: %w", p.Field, err)
		}
		op := "="
		if p.Op == query.OpNe {
			op = "IS DISTINCT FROM"
		}
		return fmt.Sprintf(`(body->'%s') %s %s::jsonb`, p.Field, op, b.arg(string(v))), nil

	case query.OpIn:
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = fmt.Sprint(v)
		}
		return fmt.Sprintf(`(body->'%s') ?| %s::text[]`, p.Field, b.arg(values)), nil

	case query.OpContains:
		pattern := b.arg("%" + escapeLike(fmt.Sprint(p.Value)) + "%")
		parts := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			parts[i] = fmt.Sprintf(`body->>'%s' ILIKE %s`, f, pattern)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case query.OpGt, query.OpLt:
		op := ">"
		if p.Op == query.OpLt {
			op = "<"
		}
		switch v := p.Value.(type) {
		case time.Time:
			return fmt.Sprintf(`(body->>'%s')::timestamptz %s %s`, p.Field, op, b.arg(v)), nil
		case int, int32, int64, float64:
			return fmt.Sprintf(`(body->>'%s')::numeric %s %s`, p.Field, op, b.arg(v)), nil
		default:
			return fmt.Sprintf(`body->>'%s' %s %s`, p.Field, op, b.arg(fmt.Sprint(v))), nil
		}

	case query.OpAnd:
		parts := make([]string, 0, len(p.Nodes))
		for _, n := range p.Nodes {
			c, err := b.where(n)
			if err != nil {
				return "", err
			}
			parts = append(parts, c)
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	}

	return "", fmt.Errorf("unsupported predicate op %d", p.Op)
}

func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return v
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
