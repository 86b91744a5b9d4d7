package catalog

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := store.NewMemoryStore(logger)
	tokens := auth.NewTokenIssuer("test-secret", "novel-api", "novel-clients", time.Hour)
	return New(st, tokens, Options{BcryptCost: bcrypt.MinCost}, logger), st
}

func identity(role models.Role) *auth.Identity {
	return &auth.Identity{SubjectID: uuid.NewString(), Role: role, Active: true}
}

func ptr[T any](v T) *T { return &v }

func page(p, limit int) *query.PaginationInput {
	return &query.PaginationInput{Page: ptr(p), Limit: ptr(limit)}
}

func seedNovel(t *testing.T, st store.Store, edit func(n *models.Novel)) *models.Novel {
	t.Helper()
	n := &models.Novel{
		ID:          uuid.NewString(),
		Title:       "Untitled",
		Description: "A novel used in tests",
		AuthorID:    uuid.NewString(),
		CategoryID:  uuid.NewString(),
		TagIDs:      []string{},
		Status:      models.StatusOngoing,
		Language:    models.LanguageEnglish,
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
	}
	if edit != nil {
		edit(n)
	}
	require.NoError(t, st.Insert(context.Background(), store.Novels, n.ID, n))
	return n
}

func seedChapter(t *testing.T, st store.Store, novelID string, number int) *models.Chapter {
	t.Helper()
	c := &models.Chapter{
		ID:            uuid.NewString(),
		NovelID:       novelID,
		Title:         fmt.Sprintf("Chapter %d", number),
		ChapterNumber: number,
		IsPublished:   true,
		CreatedAt:     time.Now().UTC(),
	}
	c.SetContent("Once upon a time there was a chapter.")
	require.NoError(t, st.Insert(context.Background(), store.Chapters, c.ID, c))
	return c
}

func loadNovel(t *testing.T, st store.Store, id string) *models.Novel {
	t.Helper()
	n, err := store.Load[models.Novel](context.Background(), st, store.Novels, id)
	require.NoError(t, err)
	return n
}

func count(t *testing.T, st store.Store, collection string) int {
	t.Helper()
	n, err := st.Count(context.Background(), collection, query.All())
	require.NoError(t, err)
	return n
}

func TestListNovelsFilteredSortedPage(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	for i := 1; i <= 12; i++ {
		seedNovel(t, st, func(n *models.Novel) {
			n.Title = fmt.Sprintf("Completed %02d", i)
			n.Status = models.StatusCompleted
			n.AverageRating = float64(i) / 4
		})
	}
	for i := 0; i < 3; i++ {
		seedNovel(t, st, func(n *models.Novel) {
			n.Title = fmt.Sprintf("Ongoing %d", i)
			n.AverageRating = 5
		})
	}

	got, err := svc.ListNovels(ctx, &query.NovelFilter{Status: ptr("COMPLETED")}, page(2, 5), ptr("rating"), ptr("desc"))
	require.NoError(t, err)

	require.Equal(t, models.PaginationInfo{Page: 2, Limit: 5, Total: 12, TotalPages: 3, HasNext: true, HasPrev: true}, got.Pagination)
	require.Len(t, got.Data, 5)
	for i, n := range got.Data {
		require.Equal(t, fmt.Sprintf("Completed %02d", 7-i), n.Title)
	}
}

func TestListNovelsRejectsBadFilter(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListNovels(context.Background(), &query.NovelFilter{AuthorID: ptr("nope")}, nil, nil, nil)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.EqualError(t, err, "Invalid Author ID format")

	_, err = svc.ListNovels(context.Background(), &query.NovelFilter{Status: ptr("FINISHED")}, nil, nil, nil)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateNovelAuthorizesBeforeValidating(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	bad := models.CreateNovelInput{Title: "", AuthorID: "not-an-id"}

	_, err := svc.CreateNovel(ctx, nil, bad)
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = svc.CreateNovel(ctx, identity(models.RoleReader), bad)
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.CreateNovel(ctx, identity(models.RoleAuthor), bad)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	require.Zero(t, count(t, st, store.Novels))
}

func TestCreateNovelChecksReferences(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	admin := identity(models.RoleAdmin)

	a, err := svc.CreateAuthor(ctx, admin, models.CreateAuthorInput{Name: "Umera Ahmed", Bio: "Writes long family sagas."})
	require.NoError(t, err)
	c, err := svc.CreateCategory(ctx, admin, models.CreateCategoryInput{Name: "Romance", Description: "Stories about love.", Slug: "Romance"})
	require.NoError(t, err)
	require.Equal(t, "romance", c.Slug)
	require.Equal(t, DefaultCategoryColor, c.Color)

	in := models.CreateNovelInput{
		Title:       "Peer-e-Kamil",
		Description: "A journey of faith and self discovery",
		AuthorID:    a.ID,
		CategoryID:  c.ID,
		TagIDs:      []string{uuid.NewString()},
		Language:    ptr("URDU"),
	}
	_, err = svc.CreateNovel(ctx, admin, in)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Zero(t, count(t, st, store.Novels))

	in.TagIDs = nil
	n, err := svc.CreateNovel(ctx, admin, in)
	require.NoError(t, err)
	require.Equal(t, models.LanguageUrdu, n.Language)
	require.Equal(t, models.StatusOngoing, n.Status)
	require.False(t, n.IsPublished)

	_, err = svc.DeleteAuthor(ctx, admin, a.ID)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.DeleteCategory(ctx, admin, c.ID)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	ok, err := svc.DeleteNovel(ctx, admin, n.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.DeleteAuthor(ctx, admin, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestToggleFavoriteRestoresCounter(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	n := seedNovel(t, st, func(n *models.Novel) { n.TotalFavorites = 3 })

	on, err := svc.ToggleFavorite(ctx, reader, n.ID)
	require.NoError(t, err)
	require.True(t, on)
	require.Equal(t, 4, loadNovel(t, st, n.ID).TotalFavorites)

	fav, err := svc.IsFavorited(ctx, reader, n.ID)
	require.NoError(t, err)
	require.True(t, fav)

	mine, err := svc.MyFavorites(ctx, reader, nil)
	require.NoError(t, err)
	require.Len(t, mine.Data, 1)
	require.Equal(t, n.ID, mine.Data[0].ID)

	on, err = svc.ToggleFavorite(ctx, reader, n.ID)
	require.NoError(t, err)
	require.False(t, on)
	require.Equal(t, 3, loadNovel(t, st, n.ID).TotalFavorites)

	_, err = svc.ToggleFavorite(ctx, reader, uuid.NewString())
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.ToggleFavorite(ctx, nil, n.ID)
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestAddBookmarkRejectsChapterOfAnotherNovel(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	mine := seedNovel(t, st, nil)
	other := seedNovel(t, st, nil)
	foreign := seedChapter(t, st, other.ID, 1)

	_, err := svc.AddBookmark(ctx, reader, models.AddBookmarkInput{NovelID: mine.ID, ChapterID: foreign.ID})
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.EqualError(t, err, chapterOutsideNovel)
	require.Zero(t, count(t, st, store.Bookmarks))

	c, err := store.Load[models.Chapter](ctx, st, store.Chapters, foreign.ID)
	require.NoError(t, err)
	require.Zero(t, c.TotalBookmarks)
}

func TestBookmarkLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	n := seedNovel(t, st, nil)
	c := seedChapter(t, st, n.ID, 1)
	in := models.AddBookmarkInput{NovelID: n.ID, ChapterID: c.ID, Note: ptr("  great twist  ")}

	b, err := svc.AddBookmark(ctx, reader, in)
	require.NoError(t, err)
	require.Equal(t, "great twist", b.Note)

	_, err = svc.AddBookmark(ctx, reader, in)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	chapter, err := store.Load[models.Chapter](ctx, st, store.Chapters, c.ID)
	require.NoError(t, err)
	require.Equal(t, 1, chapter.TotalBookmarks)

	marked, err := svc.IsBookmarked(ctx, reader, c.ID)
	require.NoError(t, err)
	require.True(t, marked)

	list, err := svc.MyBookmarks(ctx, reader, nil)
	require.NoError(t, err)
	require.Equal(t, 1, list.Pagination.Total)

	ok, err := svc.RemoveBookmark(ctx, reader, c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.RemoveBookmark(ctx, reader, c.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	chapter, err = store.Load[models.Chapter](ctx, st, store.Chapters, c.ID)
	require.NoError(t, err)
	require.Zero(t, chapter.TotalBookmarks)
}

func TestDuplicateReviewLeavesOriginal(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	n := seedNovel(t, st, nil)

	first, err := svc.CreateReview(ctx, reader, models.CreateReviewInput{NovelID: n.ID, Rating: 4, Comment: ptr("Loved it")})
	require.NoError(t, err)
	require.True(t, first.IsApproved)
	require.False(t, first.IsModerated)

	_, err = svc.CreateReview(ctx, reader, models.CreateReviewInput{NovelID: n.ID, Rating: 1, Comment: ptr("Changed my mind")})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	stored, err := svc.GetReview(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stored.Rating)
	require.Equal(t, "Loved it", stored.Comment)
	require.Equal(t, 1, count(t, st, store.Reviews))

	novel := loadNovel(t, st, n.ID)
	require.Equal(t, 4.0, novel.AverageRating)
	require.Equal(t, 1, novel.TotalRatings)
}

func TestReviewOwnershipAndRating(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice, bob := identity(models.RoleReader), identity(models.RoleReader)
	admin := identity(models.RoleAdmin)
	n := seedNovel(t, st, nil)

	_, err := svc.CreateReview(ctx, alice, models.CreateReviewInput{NovelID: n.ID, Rating: 6})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	ra, err := svc.CreateReview(ctx, alice, models.CreateReviewInput{NovelID: n.ID, Rating: 5})
	require.NoError(t, err)
	rb, err := svc.CreateReview(ctx, bob, models.CreateReviewInput{NovelID: n.ID, Rating: 2})
	require.NoError(t, err)
	require.Equal(t, 3.5, loadNovel(t, st, n.ID).AverageRating)

	_, err = svc.UpdateReview(ctx, bob, ra.ID, models.UpdateReviewInput{Rating: ptr(1)})
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	require.EqualError(t, err, "You can only update your own reviews")

	_, err = svc.UpdateReview(ctx, alice, ra.ID, models.UpdateReviewInput{Rating: ptr(4)})
	require.NoError(t, err)
	require.Equal(t, 3.0, loadNovel(t, st, n.ID).AverageRating)

	_, err = svc.DeleteReview(ctx, alice, rb.ID)
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	ok, err := svc.DeleteReview(ctx, admin, rb.ID)
	require.NoError(t, err)
	require.True(t, ok)

	novel := loadNovel(t, st, n.ID)
	require.Equal(t, 4.0, novel.AverageRating)
	require.Equal(t, 1, novel.TotalRatings)
}

func TestVoteAndModerateReview(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	admin := identity(models.RoleAdmin)
	n := seedNovel(t, st, nil)

	r, err := svc.CreateReview(ctx, reader, models.CreateReviewInput{NovelID: n.ID, Rating: 3})
	require.NoError(t, err)

	_, err = svc.VoteReview(ctx, reader, r.ID, true)
	require.NoError(t, err)
	voted, err := svc.VoteReview(ctx, reader, r.ID, false)
	require.NoError(t, err)
	require.Equal(t, 2, voted.TotalVotes)
	require.Equal(t, 1, voted.HelpfulVotes)
	require.Equal(t, 50, voted.HelpfulPercentage())

	pending, err := svc.PendingReviews(ctx, admin, nil)
	require.NoError(t, err)
	require.Equal(t, 1, pending.Pagination.Total)

	_, err = svc.ModerateReview(ctx, reader, r.ID, models.ModerateReviewInput{IsApproved: false})
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	moderated, err := svc.ModerateReview(ctx, admin, r.ID, models.ModerateReviewInput{IsApproved: false, Reason: ptr("Spoilers")})
	require.NoError(t, err)
	require.True(t, moderated.IsModerated)
	require.False(t, moderated.IsApproved)
	require.Equal(t, admin.SubjectID, moderated.ModeratedBy)
	require.Equal(t, "Spoilers", moderated.ModerationReason)
	require.NotNil(t, moderated.ModeratedAt)

	pending, err = svc.PendingReviews(ctx, admin, nil)
	require.NoError(t, err)
	require.Zero(t, pending.Pagination.Total)

	visible, err := svc.ReviewsByNovel(ctx, n.ID, nil)
	require.NoError(t, err)
	require.Zero(t, visible.Pagination.Total)

	byUser, err := svc.ReviewsByUser(ctx, reader.SubjectID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, byUser.Pagination.Total)
}

func TestChapterLifecycleMaintainsNovel(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	author := identity(models.RoleAuthor)
	n := seedNovel(t, st, nil)

	in := models.CreateChapterInput{NovelID: n.ID, Title: "The Beginning", Content: "It was a dark and stormy night.", ChapterNumber: 1}
	c1, err := svc.CreateChapter(ctx, author, in)
	require.NoError(t, err)
	require.Equal(t, 7, c1.WordCount)
	require.Equal(t, 1, c1.ReadingTime)
	require.False(t, c1.IsPublished)

	_, err = svc.CreateChapter(ctx, author, in)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	in.ChapterNumber, in.Title = 2, "The Middle"
	c2, err := svc.CreateChapter(ctx, author, in)
	require.NoError(t, err)

	novel := loadNovel(t, st, n.ID)
	require.Equal(t, 2, novel.PublishedChapters)
	require.False(t, novel.LastUpdated.IsZero())

	_, err = svc.PublishChapter(ctx, author, c1.ID)
	require.NoError(t, err)
	_, err = svc.PublishChapter(ctx, author, c2.ID)
	require.NoError(t, err)

	next, err := svc.NextChapter(ctx, c1)
	require.NoError(t, err)
	require.Equal(t, c2.ID, next.ID)
	prev, err := svc.PreviousChapter(ctx, c1)
	require.NoError(t, err)
	require.Nil(t, prev)

	byNumber, err := svc.ChapterByNovelAndNumber(ctx, n.ID, 2)
	require.NoError(t, err)
	require.Equal(t, c2.ID, byNumber.ID)

	_, err = svc.UpdateChapter(ctx, author, c2.ID, models.UpdateChapterInput{ChapterNumber: ptr(1)})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	ok, err := svc.DeleteChapter(ctx, author, c2.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, loadNovel(t, st, n.ID).PublishedChapters)

	listed, err := svc.ChaptersByNovel(ctx, n.ID, nil)
	require.NoError(t, err)
	require.Len(t, listed.Data, 1)
}

func TestReadingProgress(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	reader := identity(models.RoleReader)
	n := seedNovel(t, st, nil)
	c1 := seedChapter(t, st, n.ID, 1)
	c2 := seedChapter(t, st, n.ID, 2)

	p, err := svc.UpdateReadingProgress(ctx, reader, models.UpdateReadingProgressInput{NovelID: n.ID, ChapterID: c1.ID})
	require.NoError(t, err)
	require.Equal(t, 1, p.TotalChaptersRead)
	require.Equal(t, c1.ID, p.CurrentChapterID)

	p, err = svc.UpdateReadingProgress(ctx, reader, models.UpdateReadingProgressInput{NovelID: n.ID, ChapterID: c2.ID})
	require.NoError(t, err)
	require.Equal(t, 2, p.TotalChaptersRead)
	require.Equal(t, c2.ID, p.CurrentChapterID)
	require.Equal(t, 1, count(t, st, store.ReadingProgress))

	current, err := svc.MyCurrentReading(ctx, reader)
	require.NoError(t, err)
	require.Len(t, current, 1)

	done, err := svc.MarkNovelCompleted(ctx, reader, n.ID)
	require.NoError(t, err)
	require.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)

	p, err = svc.UpdateReadingProgress(ctx, reader, models.UpdateReadingProgressInput{NovelID: n.ID, ChapterID: c1.ID})
	require.NoError(t, err)
	require.Equal(t, 2, p.TotalChaptersRead)

	completed, err := svc.MyCompletedNovels(ctx, reader)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	current, err = svc.MyCurrentReading(ctx, reader)
	require.NoError(t, err)
	require.Empty(t, current)

	chapter, err := store.Load[models.Chapter](ctx, st, store.Chapters, c1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, chapter.TotalViews)

	_, err = svc.MarkNovelCompleted(ctx, reader, uuid.NewString())
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRegisterLoginAndPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	_, err := svc.Register(ctx, models.RegisterInput{Name: "Sara", Email: "sara@example.com", Password: "weak"})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Register(ctx, models.RegisterInput{Name: "Sara", Email: "sara@example.com", Password: "Secret123", Role: ptr("ADMIN")})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	reg, err := svc.Register(ctx, models.RegisterInput{Name: "Sara", Email: "Sara@Example.com", Password: "Secret123", Role: ptr("AUTHOR")})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	require.Len(t, reg.RefreshToken, RefreshTokenLength)
	require.Equal(t, models.RoleAuthor, reg.User.Role)
	require.Equal(t, "sara@example.com", reg.User.Email)

	_, err = svc.Register(ctx, models.RegisterInput{Name: "Sara", Email: "sara@example.com", Password: "Secret123"})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Login(ctx, models.LoginInput{Email: "sara@example.com", Password: "Wrong123"})
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = svc.Login(ctx, models.LoginInput{Email: "sara@example.com", Password: "Secret123"})
	require.NoError(t, err)

	ok, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.RequestPasswordReset(ctx, "sara@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	u, err := store.Load[models.User](ctx, st, store.Users, reg.User.ID)
	require.NoError(t, err)
	require.Len(t, u.PasswordResetToken, AccountTokenLength)

	_, err = svc.ResetPassword(ctx, models.ResetPasswordInput{Token: "bogus", NewPassword: "Another123"})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	ok, err = svc.ResetPassword(ctx, models.ResetPasswordInput{Token: u.PasswordResetToken, NewPassword: "Another123"})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Login(ctx, models.LoginInput{Email: "sara@example.com", Password: "Secret123"})
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = svc.Login(ctx, models.LoginInput{Email: "sara@example.com", Password: "Another123"})
	require.NoError(t, err)
}

func TestStatsRequireAdmin(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	admin := identity(models.RoleAdmin)

	for i := 0; i < 3; i++ {
		_, err := svc.Register(ctx, models.RegisterInput{
			Name:     fmt.Sprintf("Reader %d", i),
			Email:    fmt.Sprintf("reader%d@example.com", i),
			Password: "Secret123",
		})
		require.NoError(t, err)
	}
	n := seedNovel(t, st, func(n *models.Novel) { n.TotalViews = 10; n.TotalFavorites = 2 })
	seedNovel(t, st, func(n *models.Novel) { n.IsPublished = false; n.TotalViews = 5 })
	seedChapter(t, st, n.ID, 1)

	_, err := svc.UserStats(ctx, identity(models.RoleAuthor))
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	us, err := svc.UserStats(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, models.UserStats{TotalUsers: 3, ActiveUsers: 3, NewUsersThisMonth: 3}, *us)

	ns, err := svc.NovelStats(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, models.NovelStats{TotalNovels: 2, PublishedNovels: 1, TotalChapters: 1, TotalViews: 15, TotalFavorites: 2}, *ns)
}

func TestTaxonomyUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	admin := identity(models.RoleAdmin)

	tag, err := svc.CreateTag(ctx, admin, models.CreateTagInput{Name: "Slow Burn", Slug: "slow burn"})
	require.NoError(t, err)
	require.Equal(t, "slow-burn", tag.Slug)

	_, err = svc.CreateTag(ctx, admin, models.CreateTagInput{Name: "slow burn", Slug: "gradual"})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	found, err := svc.TagBySlug(ctx, "slow-burn")
	require.NoError(t, err)
	require.Equal(t, tag.ID, found.ID)

	_, err = svc.SearchTags(ctx, "s")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	hits, err := svc.SearchTags(ctx, "burn")
	require.NoError(t, err)
	require.Len(t, hits, 1)
}
