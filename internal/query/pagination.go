package query

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationInput is the raw page request; nil fields take defaults
type PaginationInput struct {
	Page  *int
	Limit *int
}

// Window is a clamped page request
type Window struct {
	Page  int
	Limit int
	Skip  int
}

// NewWindow clamps input silently: page below 1 becomes 1, limit below 1
// becomes the default and limit above the maximum becomes the maximum.
func NewWindow(in *PaginationInput) Window {
	page, limit := DefaultPage, DefaultLimit
	if in != nil {
		if in.Page != nil && *in.Page > 1 {
			page = *in.Page
		}
		if in.Limit != nil && *in.Limit >= 1 {
			limit = min(*in.Limit, MaxLimit)
		}
	}
	return Window{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// Info builds pagination metadata for total matching records
func (w Window) Info(total int) models.PaginationInfo {
	totalPages := 0
	if total > 0 {
		totalPages = (total + w.Limit - 1) / w.Limit
	}
	return models.PaginationInfo{
		Page:       w.Page,
		Limit:      w.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    w.Page < totalPages,
		HasPrev:    w.Page > 1,
	}
}

// Source is the read side of a document store
type Source interface {
	Find(ctx context.Context, collection string, q Query) ([]json.RawMessage, error)
	Count(ctx context.Context, collection string, where Predicate) (int, error)
}

// Paginate runs the windowed read and the total count concurrently against
// the same predicate and assembles the envelope. A window past the end
// yields empty data.
func Paginate[T any](ctx context.Context, src Source, collection string, where Predicate, sort SortSpec, in *PaginationInput) (*models.Page[T], error) {
	w := NewWindow(in)

	var (
		raw   []json.RawMessage
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = src.Find(gctx, collection, Query{
			Where: where,
			Sort:  []SortSpec{sort},
			Skip:  w.Skip,
			Limit: w.Limit,
		})
		if err != nil {
			return fmt.Errorf("find %s page: %w", collection, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = src.Count(gctx, collection, where)
		if err != nil {
			return fmt.Errorf("count %s: %w", collection, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data, err := Decode[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s page: %w", collection, err)
	}

	return &models.Page[T]{Data: data, Pagination: w.Info(total)}, nil
}

// Decode unmarshals every raw document into T
func Decode[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
