package loader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// countingStore counts Find calls reaching the store
type countingStore struct {
	store.Store
	finds atomic.Int32
}

func (c *countingStore) Find(ctx context.Context, collection string, q query.Query) ([]json.RawMessage, error) {
	c.finds.Add(1)
	return c.Store.Find(ctx, collection, q)
}

func newTestStore(t *testing.T) *countingStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &countingStore{Store: store.NewMemoryStore(logger)}
}

func TestTagsBatchIntoOneQuery(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	var ids []string
	for _, name := range []string{"Mystery", "Drama", "Comedy"} {
		tag := &models.Tag{ID: uuid.NewString(), Name: name, Slug: name}
		require.NoError(t, st.Insert(ctx, store.Tags, tag.ID, tag))
		ids = append(ids, tag.ID)
	}
	ids = append(ids, uuid.NewString())

	r := NewRegistry(st)
	tags, err := r.Tags(ctx, ids)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	require.Equal(t, "Mystery", tags[0].Name)
	require.Equal(t, "Comedy", tags[2].Name)
	require.EqualValues(t, 1, st.finds.Load())

	// served from the request cache
	again, err := r.Tags(ctx, ids[:1])
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.EqualValues(t, 1, st.finds.Load())
}

func TestLoadMissingAndEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	a := &models.Author{ID: uuid.NewString(), Name: "Ashfaq Ahmed"}
	require.NoError(t, st.Insert(ctx, store.Authors, a.ID, a))

	r := NewRegistry(st)

	got, err := r.Author(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Ashfaq Ahmed", got.Name)

	missing, err := r.Novel(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)

	none, err := r.Chapter(ctx, "")
	require.NoError(t, err)
	require.Nil(t, none)

	tags, err := r.Tags(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, tags)
}

func TestMiddlewareAttachesRegistry(t *testing.T) {
	st := newTestStore(t)

	var seen *Registry
	h := Middleware(st)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = For(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))

	require.NotNil(t, seen)
	require.Nil(t, For(context.Background()))
}

func TestWritesClearRequestCache(t *testing.T) {
	st := newTestStore(t)
	r := NewRegistry(st)
	ctx := WithRegistry(context.Background(), r)
	writer := Invalidating(st)

	n := &models.Novel{ID: uuid.NewString(), Title: "Raja Gidh", TotalViews: 1}
	require.NoError(t, writer.Insert(ctx, store.Novels, n.ID, n))

	got, err := r.Novel(ctx, n.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.TotalViews)

	require.NoError(t, writer.Increment(ctx, store.Novels, n.ID, "totalViews", 2))
	got, err = r.Novel(ctx, n.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.TotalViews)

	n.Title = "Raja Gidh (Revised)"
	n.TotalViews = 3
	require.NoError(t, writer.Replace(ctx, store.Novels, n.ID, n))
	got, err = r.Novel(ctx, n.ID)
	require.NoError(t, err)
	require.Equal(t, "Raja Gidh (Revised)", got.Title)

	_, err = writer.DeleteWhere(ctx, store.Novels, query.Eq("id", n.ID))
	require.NoError(t, err)
	got, err = r.Novel(ctx, n.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInvalidatingStoreWithoutRegistry(t *testing.T) {
	st := newTestStore(t)
	writer := Invalidating(st)

	a := &models.Author{ID: uuid.NewString(), Name: "Qurratulain Hyder"}
	require.NoError(t, writer.Insert(context.Background(), store.Authors, a.ID, a))
	require.NoError(t, writer.Delete(context.Background(), store.Authors, a.ID))
}
