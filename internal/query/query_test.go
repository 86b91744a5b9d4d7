package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestNewWindowClamps(t *testing.T) {
	tests := []struct {
		name      string
		in        *PaginationInput
		page, lim int
		skip      int
	}{
		{"nil input", nil, 1, 10, 0},
		{"absent fields", &PaginationInput{}, 1, 10, 0},
		{"page zero", &PaginationInput{Page: intp(0)}, 1, 10, 0},
		{"negative page", &PaginationInput{Page: intp(-4)}, 1, 10, 0},
		{"limit zero", &PaginationInput{Limit: intp(0)}, 1, 10, 0},
		{"negative limit", &PaginationInput{Limit: intp(-1)}, 1, 10, 0},
		{"limit above max", &PaginationInput{Limit: intp(250)}, 1, 100, 0},
		{"limit at max", &PaginationInput{Limit: intp(100)}, 1, 100, 0},
		{"limit one", &PaginationInput{Page: intp(3), Limit: intp(1)}, 3, 1, 2},
		{"page two of five", &PaginationInput{Page: intp(2), Limit: intp(5)}, 2, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.in)
			require.Equal(t, tt.page, w.Page)
			require.Equal(t, tt.lim, w.Limit)
			require.Equal(t, tt.skip, w.Skip)
		})
	}
}

func TestWindowInfo(t *testing.T) {
	tests := []struct {
		page, limit, total int
		totalPages         int
		hasNext, hasPrev   bool
	}{
		{1, 10, 0, 0, false, false},
		{3, 10, 0, 0, false, true},
		{1, 5, 12, 3, true, false},
		{2, 5, 12, 3, true, true},
		{3, 5, 12, 3, false, true},
		{4, 5, 12, 3, false, true},
		{1, 10, 10, 1, false, false},
		{1, 10, 11, 2, true, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("p%d_l%d_t%d", tt.page, tt.limit, tt.total), func(t *testing.T) {
			w := NewWindow(&PaginationInput{Page: intp(tt.page), Limit: intp(tt.limit)})
			info := w.Info(tt.total)
			require.Equal(t, tt.page, info.Page)
			require.Equal(t, tt.limit, info.Limit)
			require.Equal(t, tt.total, info.Total)
			require.Equal(t, tt.totalPages, info.TotalPages)
			require.Equal(t, tt.hasNext, info.HasNext)
			require.Equal(t, tt.hasPrev, info.HasPrev)
		})
	}
}

type item struct {
	ID     string  `json:"id"`
	Rating float64 `json:"averageRating"`
}

// sliceSource serves a fixed slice of items sorted by averageRating; it
// records the predicate each call received.
type sliceSource struct {
	items    []item
	finds    atomic.Int32
	counts   atomic.Int32
	lastFind Predicate
	lastCnt  Predicate
	err      error
}

func (s *sliceSource) Find(ctx context.Context, collection string, q Query) ([]json.RawMessage, error) {
	s.finds.Add(1)
	s.lastFind = q.Where
	if s.err != nil {
		return nil, s.err
	}
	sorted := append([]item(nil), s.items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if q.Sort[0].Direction == Desc {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Rating < sorted[j].Rating
	})
	out := []json.RawMessage{}
	for i := q.Skip; i < len(sorted) && i < q.Skip+q.Limit; i++ {
		b, _ := json.Marshal(sorted[i])
		out = append(out, b)
	}
	return out, nil
}

func (s *sliceSource) Count(ctx context.Context, collection string, where Predicate) (int, error) {
	s.counts.Add(1)
	s.lastCnt = where
	return len(s.items), nil
}

func twelveItems() []item {
	items := make([]item, 12)
	for i := range items {
		items[i] = item{ID: fmt.Sprintf("n%02d", i+1), Rating: float64(i) * 0.25}
	}
	return items
}

func TestPaginateSecondPageByRating(t *testing.T) {
	src := &sliceSource{items: twelveItems()}
	where := Eq("status", "completed")

	page, err := Paginate[*item](context.Background(), src, "novels", where,
		ResolveNovelSort(strp("RATING"), strp("DESC")),
		&PaginationInput{Page: intp(2), Limit: intp(5)})
	require.NoError(t, err)

	require.Len(t, page.Data, 5)
	// Records 6-10 in descending rating order are n07..n03.
	want := []string{"n07", "n06", "n05", "n04", "n03"}
	for i, it := range page.Data {
		require.Equal(t, want[i], it.ID)
	}
	require.Equal(t, 2, page.Pagination.Page)
	require.Equal(t, 5, page.Pagination.Limit)
	require.Equal(t, 12, page.Pagination.Total)
	require.Equal(t, 3, page.Pagination.TotalPages)
	require.True(t, page.Pagination.HasNext)
	require.True(t, page.Pagination.HasPrev)

	require.Equal(t, where, src.lastFind)
	require.Equal(t, where, src.lastCnt)
}

func TestPaginateTotalIndependentOfWindow(t *testing.T) {
	src := &sliceSource{items: twelveItems()}
	sortSpec := ResolveNovelSort(nil, nil)

	p1, err := Paginate[item](context.Background(), src, "novels", All(), sortSpec, &PaginationInput{Page: intp(1), Limit: intp(5)})
	require.NoError(t, err)
	p2, err := Paginate[item](context.Background(), src, "novels", All(), sortSpec, &PaginationInput{Page: intp(2), Limit: intp(5)})
	require.NoError(t, err)

	require.Equal(t, p1.Pagination.Total, p2.Pagination.Total)
	require.Equal(t, p1.Pagination.TotalPages, p2.Pagination.TotalPages)

	again, err := Paginate[item](context.Background(), src, "novels", All(), sortSpec, &PaginationInput{Page: intp(1), Limit: intp(5)})
	require.NoError(t, err)
	require.Equal(t, p1, again)
}

func TestPaginatePastEndIsEmpty(t *testing.T) {
	src := &sliceSource{items: twelveItems()}

	page, err := Paginate[item](context.Background(), src, "novels", All(), ResolveNovelSort(nil, nil), &PaginationInput{Page: intp(9), Limit: intp(5)})
	require.NoError(t, err)
	require.Empty(t, page.Data)
	require.NotNil(t, page.Data)
	require.Equal(t, 12, page.Pagination.Total)
	require.False(t, page.Pagination.HasNext)
	require.True(t, page.Pagination.HasPrev)
}

func TestPaginatePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{items: twelveItems(), err: boom}

	_, err := Paginate[item](context.Background(), src, "novels", All(), ResolveNovelSort(nil, nil), nil)
	require.ErrorIs(t, err, boom)
}

func TestResolveNovelSort(t *testing.T) {
	tests := []struct {
		key, order *string
		want       SortSpec
	}{
		{nil, nil, SortSpec{"createdAt", Desc}},
		{strp("TITLE"), strp("ASC"), SortSpec{"title", Asc}},
		{strp("rating"), nil, SortSpec{"averageRating", Desc}},
		{strp("VIEWS"), strp("DESC"), SortSpec{"totalViews", Desc}},
		{strp("FAVORITES"), nil, SortSpec{"totalFavorites", Desc}},
		{strp("UPDATED"), nil, SortSpec{"lastUpdated", Desc}},
		{strp("PUBLISHED"), strp("asc"), SortSpec{"publishedAt", Asc}},
		{strp("CREATED"), nil, SortSpec{"createdAt", Desc}},
		{strp("bogus"), strp("sideways"), SortSpec{"createdAt", Desc}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ResolveNovelSort(tt.key, tt.order))
	}
}

func TestBuildNovelFilter(t *testing.T) {
	const authorID = "5b8f0a3e-3c1e-4c0e-9d1a-2f7e1b0c9a11"
	const tagA = "7d3c2b1a-0f9e-4d8c-b7a6-5e4d3c2b1a09"

	p, err := BuildNovelFilter(nil)
	require.NoError(t, err)
	require.True(t, p.IsAll())

	p, err = BuildNovelFilter(&NovelFilter{})
	require.NoError(t, err)
	require.True(t, p.IsAll())

	p, err = BuildNovelFilter(&NovelFilter{Status: strp("COMPLETED")})
	require.NoError(t, err)
	require.Equal(t, Eq("status", "completed"), p)

	p, err = BuildNovelFilter(&NovelFilter{
		Search:   strp("  garden "),
		AuthorID: strp(authorID),
		TagIDs:   []string{tagA},
		Language: strp("URDU"),
	})
	require.NoError(t, err)
	require.Equal(t, OpAnd, p.Op)
	require.Equal(t, []Predicate{
		Contains("garden", "title", "titleUrdu", "description", "descriptionUrdu"),
		Eq("authorId", authorID),
		In("tagIds", tagA),
		Eq("language", "urdu"),
	}, p.Nodes)
}

func TestBuildNovelFilterRejectsMalformedInput(t *testing.T) {
	_, err := BuildNovelFilter(&NovelFilter{AuthorID: strp("not-an-id")})
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = BuildNovelFilter(&NovelFilter{CategoryID: strp("123")})
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = BuildNovelFilter(&NovelFilter{TagIDs: []string{"5b8f0a3e-3c1e-4c0e-9d1a-2f7e1b0c9a11", "x"}})
	require.ErrorIs(t, err, ErrInvalidID)

	_, err = BuildNovelFilter(&NovelFilter{Status: strp("DRAFT")})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestAndFlattens(t *testing.T) {
	require.True(t, And().IsAll())
	require.True(t, And(All(), All()).IsAll())
	require.Equal(t, Eq("a", 1), And(All(), Eq("a", 1)))

	nested := And(And(Eq("a", 1), Eq("b", 2)), Eq("c", 3))
	require.Len(t, nested.Nodes, 3)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 5B8F0A3E-3C1E-4C0E-9D1A-2F7E1B0C9A11 ", "novel ID")
	require.NoError(t, err)
	require.Equal(t, "5b8f0a3e-3c1e-4c0e-9d1a-2f7e1b0c9a11", id)

	_, err = ParseID("", "novel ID")
	var idErr *InvalidIDError
	require.True(t, errors.As(err, &idErr))
	require.Equal(t, "novel ID", idErr.Label)
}
