package loader

import (
	"context"

	"github.com/graph-gophers/dataloader"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// byCollection returns the loader caching collection, or nil
func (r *Registry) byCollection(collection string) *dataloader.Loader {
	switch collection {
	case store.Users:
		return r.users
	case store.Authors:
		return r.authors
	case store.Categories:
		return r.categories
	case store.Tags:
		return r.tags
	case store.Novels:
		return r.novels
	case store.Chapters:
		return r.chapters
	}
	return nil
}

// Clear drops the cached document so the next load reads the store
func (r *Registry) Clear(ctx context.Context, collection, id string) {
	if l := r.byCollection(collection); l != nil {
		l.Clear(ctx, dataloader.StringKey(id))
	}
}

// ClearAll drops every cached document of collection
func (r *Registry) ClearAll(collection string) {
	if l := r.byCollection(collection); l != nil {
		l.ClearAll()
	}
}

// InvalidatingStore clears the request's loader cache on every write, so
// relations resolved after a mutation see the written state.
type InvalidatingStore struct {
	store.Store
}

// Invalidating wraps next
func Invalidating(next store.Store) *InvalidatingStore {
	return &InvalidatingStore{Store: next}
}

func (s *InvalidatingStore) clear(ctx context.Context, collection, id string) {
	if r := For(ctx); r != nil {
		r.Clear(ctx, collection, id)
	}
}

func (s *InvalidatingStore) Insert(ctx context.Context, collection, id string, doc any) error {
	err := s.Store.Insert(ctx, collection, id, doc)
	s.clear(ctx, collection, id)
	return err
}

func (s *InvalidatingStore) Replace(ctx context.Context, collection, id string, doc any) error {
	err := s.Store.Replace(ctx, collection, id, doc)
	s.clear(ctx, collection, id)
	return err
}

func (s *InvalidatingStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.Store.Set(ctx, collection, id, fields)
	s.clear(ctx, collection, id)
	return err
}

func (s *InvalidatingStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	err := s.Store.Increment(ctx, collection, id, field, delta)
	s.clear(ctx, collection, id)
	return err
}

func (s *InvalidatingStore) Delete(ctx context.Context, collection, id string) error {
	err := s.Store.Delete(ctx, collection, id)
	s.clear(ctx, collection, id)
	return err
}

func (s *InvalidatingStore) DeleteWhere(ctx context.Context, collection string, where query.Predicate) (int, error) {
	n, err := s.Store.DeleteWhere(ctx, collection, where)
	if r := For(ctx); r != nil {
		r.ClearAll(collection)
	}
	return n, err
}
