// Package loader batches relation lookups made while resolving one GraphQL
// request, so a page of novels fetches its authors in a single store query.
package loader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// BatchWait is how long a loader collects keys before querying
const BatchWait = 2 * time.Millisecond

type ctxKey string

const registryKey ctxKey = "loaders"

// Registry holds one loader per collection for the lifetime of a request
type Registry struct {
	users      *dataloader.Loader
	authors    *dataloader.Loader
	categories *dataloader.Loader
	tags       *dataloader.Loader
	novels     *dataloader.Loader
	chapters   *dataloader.Loader
}

// NewRegistry creates request-scoped loaders backed by st
func NewRegistry(st store.Store) *Registry {
	return &Registry{
		users:      newLoader(st, store.Users, func(u *models.User) string { return u.ID }),
		authors:    newLoader(st, store.Authors, func(a *models.Author) string { return a.ID }),
		categories: newLoader(st, store.Categories, func(c *models.Category) string { return c.ID }),
		tags:       newLoader(st, store.Tags, func(t *models.Tag) string { return t.ID }),
		novels:     newLoader(st, store.Novels, func(n *models.Novel) string { return n.ID }),
		chapters:   newLoader(st, store.Chapters, func(c *models.Chapter) string { return c.ID }),
	}
}

// newLoader batches Get-by-id into one In("id", ...) query. Missing ids
// resolve to nil without an error.
func newLoader[T any](st store.Store, collection string, idOf func(*T) string) *dataloader.Loader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]any, len(keys))
		for i, k := range keys {
			ids[i] = k.String()
		}

		results := make([]*dataloader.Result, len(keys))
		raw, err := st.Find(ctx, collection, query.Query{Where: query.In("id", ids...)})
		if err == nil {
			var docs []*T
			if docs, err = query.Decode[*T](raw); err == nil {
				byID := make(map[string]*T, len(docs))
				for _, d := range docs {
					byID[idOf(d)] = d
				}
				for i, k := range keys {
					results[i] = &dataloader.Result{Data: byID[k.String()]}
				}
				return results
			}
		}

		for i := range results {
			results[i] = &dataloader.Result{Error: err}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(BatchWait))
}

func load[T any](ctx context.Context, l *dataloader.Loader, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	v, err := l.Load(ctx, dataloader.StringKey(id))()
	if err != nil {
		return nil, err
	}
	doc, _ := v.(*T)
	return doc, nil
}

func (r *Registry) User(ctx context.Context, id string) (*models.User, error) {
	return load[models.User](ctx, r.users, id)
}

func (r *Registry) Author(ctx context.Context, id string) (*models.Author, error) {
	return load[models.Author](ctx, r.authors, id)
}

func (r *Registry) Category(ctx context.Context, id string) (*models.Category, error) {
	return load[models.Category](ctx, r.categories, id)
}

func (r *Registry) Novel(ctx context.Context, id string) (*models.Novel, error) {
	return load[models.Novel](ctx, r.novels, id)
}

func (r *Registry) Chapter(ctx context.Context, id string) (*models.Chapter, error) {
	return load[models.Chapter](ctx, r.chapters, id)
}

// Tags loads ids in order, dropping tags that no longer exist
func (r *Registry) Tags(ctx context.Context, ids []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	values, errs := r.tags.LoadMany(ctx, dataloader.NewKeysFromStrings(ids))()
	for i, v := range values {
		if i < len(errs) && errs[i] != nil {
			return nil, errs[i]
		}
		if t, ok := v.(*models.Tag); ok && t != nil {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// WithRegistry attaches r to ctx
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey, r)
}

// For returns the request's registry, or nil outside a request
func For(ctx context.Context) *Registry {
	r, _ := ctx.Value(registryKey).(*Registry)
	return r
}

// Middleware attaches a fresh registry to every request
func Middleware(st store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRegistry(r.Context(), NewRegistry(st))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
