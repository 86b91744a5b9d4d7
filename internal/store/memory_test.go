package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

func newTestMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMemoryStore(logger)
}

func TestMemoryStoreInsertGet(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	err := s.Insert(ctx, Tags, "t1", &models.Tag{Name: "Fantasy", Slug: "fantasy"})
	require.NoError(t, err)

	tag, err := Load[models.Tag](ctx, s, Tags, "t1")
	require.NoError(t, err)
	require.Equal(t, "t1", tag.ID)
	require.Equal(t, "Fantasy", tag.Name)

	_, err = s.Get(ctx, Tags, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	err = s.Insert(ctx, Tags, "t1", &models.Tag{Name: "Other", Slug: "other"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	require.NoError(t, s.Insert(ctx, Categories, "c1", &models.Category{Name: "Romance", Slug: "romance"}))

	err := s.Insert(ctx, Categories, "c2", &models.Category{Name: "romance", Slug: "romance-2"})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, []string{"name"}, dup.Fields)
	require.Equal(t, "name already exists", dup.Error())

	// Replacing a document with its own key is not a conflict.
	require.NoError(t, s.Replace(ctx, Categories, "c1", &models.Category{Name: "Romance", Slug: "romance", Color: "#fff"}))

	require.NoError(t, s.Insert(ctx, Reviews, "r1", &models.Review{UserID: "u1", NovelID: "n1", Rating: 4}))
	require.NoError(t, s.Insert(ctx, Reviews, "r2", &models.Review{UserID: "u1", NovelID: "n2", Rating: 4}))
	err = s.Insert(ctx, Reviews, "r3", &models.Review{UserID: "u1", NovelID: "n1", Rating: 2})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStoreFindSortsAndWindows(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, rating := range []float64{3.5, 4.5, 1.0, 4.5, 2.0} {
		id := string(rune('a' + i))
		require.NoError(t, s.Insert(ctx, Novels, id, &models.Novel{
			Title:         "Novel " + id,
			AverageRating: rating,
			Status:        models.StatusCompleted,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}

	docs, err := LoadAll[models.Novel](ctx, s, Novels, query.Query{
		Sort: []query.SortSpec{query.Sort("averageRating", query.Desc)},
	})
	require.NoError(t, err)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	// Equal ratings fall back to id order.
	require.Equal(t, []string{"b", "d", "a", "e", "c"}, ids)

	docs, err = LoadAll[models.Novel](ctx, s, Novels, query.Query{
		Sort:  []query.SortSpec{query.Sort("createdAt", query.Asc)},
		Skip:  1,
		Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "b", docs[0].ID)
	require.Equal(t, "c", docs[1].ID)

	docs, err = LoadAll[models.Novel](ctx, s, Novels, query.Query{Skip: 10, Limit: 5})
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestMemoryStoreSortsTextIgnoringCase(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	for id, title := range map[string]string{"a": "banno", "b": "Aangan", "c": "Zindagi", "d": "aangan"} {
		require.NoError(t, s.Insert(ctx, Novels, id, &models.Novel{Title: title}))
	}

	docs, err := LoadAll[models.Novel](ctx, s, Novels, query.Query{
		Sort: []query.SortSpec{query.Sort("title", query.Asc)},
	})
	require.NoError(t, err)
	titles := make([]string, len(docs))
	for i, d := range docs {
		titles[i] = d.Title
	}
	// Titles equal up to case fall back to id order.
	require.Equal(t, []string{"Aangan", "aangan", "banno", "Zindagi"}, titles)
}

func TestMemoryStorePredicates(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	require.NoError(t, s.Insert(ctx, Novels, "n1", &models.Novel{
		Title: "The Silent Garden", TitleUrdu: "خاموش باغ", TagIDs: []string{"t1", "t2"},
		Status: models.StatusOngoing, IsPublished: true,
	}))
	require.NoError(t, s.Insert(ctx, Novels, "n2", &models.Novel{
		Title: "Storm", Description: "A GARDEN of storms", TagIDs: []string{"t3"},
		Status: models.StatusCompleted,
	}))
	require.NoError(t, s.Insert(ctx, Novels, "n3", &models.Novel{
		Title: "Ash", TagIDs: []string{},
		Status: models.StatusCompleted, IsPublished: true,
	}))

	tests := []struct {
		name  string
		where query.Predicate
		want  int
	}{
		{"all", query.All(), 3},
		{"eq string", query.Eq("status", "completed"), 2},
		{"eq bool", query.Eq("isPublished", true), 2},
		{"ne", query.Ne("status", "completed"), 1},
		{"in any of", query.In("tagIds", "t2", "t3"), 2},
		{"in none", query.In("tagIds", "t9"), 0},
		{"contains across fields", query.Contains("garden", "title", "description"), 2},
		{"contains unicode", query.Contains("باغ", "title", "titleUrdu"), 1},
		{"and", query.And(query.Eq("status", "completed"), query.Eq("isPublished", true)), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, Novels, tt.where)
			require.NoError(t, err)
			require.Equal(t, tt.want, n)
		})
	}
}

func TestMemoryStoreGtLt(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	for i := 1; i <= 4; i++ {
		id := string(rune('0' + i))
		require.NoError(t, s.Insert(ctx, Chapters, id, &models.Chapter{NovelID: "n1", ChapterNumber: i}))
	}

	next, err := LoadOne[models.Chapter](ctx, s, Chapters, query.And(query.Eq("novelId", "n1"), query.Gt("chapterNumber", 2)))
	require.NoError(t, err)
	require.Greater(t, next.ChapterNumber, 2)

	n, err := s.Count(ctx, Chapters, query.Lt("chapterNumber", 3))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	now := time.Now().UTC()
	require.NoError(t, s.Insert(ctx, Users, "u1", &models.User{Email: "a@b.co", PasswordResetToken: "tok", PasswordResetExpires: ptr(now.Add(time.Hour))}))
	ok, err := Exists(ctx, s, Users, query.And(query.Eq("passwordResetToken", "tok"), query.Gt("passwordResetExpires", now)))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = Exists(ctx, s, Users, query.Gt("passwordResetExpires", now.Add(2*time.Hour)))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreIncrementFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	require.NoError(t, s.Insert(ctx, Novels, "n1", &models.Novel{Title: "x", TotalFavorites: 1}))

	require.NoError(t, s.Increment(ctx, Novels, "n1", "totalFavorites", 2))
	n, err := Load[models.Novel](ctx, s, Novels, "n1")
	require.NoError(t, err)
	require.Equal(t, 3, n.TotalFavorites)

	require.NoError(t, s.Increment(ctx, Novels, "n1", "totalFavorites", -10))
	n, err = Load[models.Novel](ctx, s, Novels, "n1")
	require.NoError(t, err)
	require.Equal(t, 0, n.TotalFavorites)

	require.ErrorIs(t, s.Increment(ctx, Novels, "missing", "totalFavorites", 1), ErrNotFound)
}

func TestMemoryStoreSet(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	require.NoError(t, s.Insert(ctx, Novels, "n1", &models.Novel{Title: "x", TotalViews: 7}))

	touched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, Novels, "n1", map[string]any{
		"lastUpdated":   touched,
		"averageRating": 4.5,
	}))

	n, err := Load[models.Novel](ctx, s, Novels, "n1")
	require.NoError(t, err)
	require.True(t, touched.Equal(n.LastUpdated))
	require.Equal(t, 4.5, n.AverageRating)
	require.Equal(t, "x", n.Title)
	require.Equal(t, 7, n.TotalViews)

	require.Error(t, s.Set(ctx, Novels, "n1", map[string]any{"id": "n2"}))
	require.ErrorIs(t, s.Set(ctx, Novels, "missing", map[string]any{"title": "y"}), ErrNotFound)

	require.NoError(t, s.Insert(ctx, Categories, "c1", &models.Category{Name: "Fantasy", Slug: "fantasy"}))
	require.NoError(t, s.Insert(ctx, Categories, "c2", &models.Category{Name: "Horror", Slug: "horror"}))
	require.ErrorIs(t, s.Set(ctx, Categories, "c2", map[string]any{"slug": "fantasy"}), ErrDuplicate)

	c, err := Load[models.Category](ctx, s, Categories, "c2")
	require.NoError(t, err)
	require.Equal(t, "horror", c.Slug)
}

func TestMemoryStoreDeleteAndSum(t *testing.T) {
	ctx := context.Background()
	s := newTestMemoryStore(t)

	require.NoError(t, s.Insert(ctx, Novels, "n1", &models.Novel{Title: "x", TotalViews: 10, IsPublished: true}))
	require.NoError(t, s.Insert(ctx, Novels, "n2", &models.Novel{Title: "y", TotalViews: 5}))

	total, err := s.Sum(ctx, Novels, query.All(), "totalViews")
	require.NoError(t, err)
	require.Equal(t, 15, total)

	total, err = s.Sum(ctx, Novels, query.Eq("isPublished", true), "totalViews")
	require.NoError(t, err)
	require.Equal(t, 10, total)

	removed, err := s.DeleteWhere(ctx, Novels, query.Eq("isPublished", false))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	require.NoError(t, s.Delete(ctx, Novels, "n1"))
	require.ErrorIs(t, s.Delete(ctx, Novels, "n1"), ErrNotFound)

	require.Equal(t, "memory", s.GetStats().Driver)
	require.NoError(t, s.HealthCheck(ctx))
	require.NoError(t, s.Close())
	require.Error(t, s.HealthCheck(ctx))
}

func ptr[T any](v T) *T { return &v }
