package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/mutation"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// MaxBookmarkNote bounds the free-text note on a bookmark
const MaxBookmarkNote = 200

const chapterOutsideNovel = "Chapter does not belong to the specified novel"

func ownedBy(userID string) query.Predicate { return query.Eq("userId", userID) }

// ToggleFavorite flips the caller's favorite on a novel and reports whether
// the novel is now favorited
func (s *Service) ToggleFavorite(ctx context.Context, id *auth.Identity, rawNovelID string) (bool, error) {
	var (
		novelID  string
		existing *models.Favorite
	)
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			novelID, err = parseID(rawNovelID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			if _, err := fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found"); err != nil {
				return err
			}
			f, err := store.LoadOne[models.Favorite](ctx, s.store, store.Favorites,
				query.And(ownedBy(caller.SubjectID), query.Eq("novelId", novelID)))
			switch {
			case errors.Is(err, store.ErrNotFound):
				return nil
			case err != nil:
				return err
			}
			existing = f
			return nil
		},
		Write: func(ctx context.Context, caller *auth.Identity) (bool, error) {
			if existing != nil {
				if err := s.store.Delete(ctx, store.Favorites, existing.ID); err != nil {
					return false, err
				}
				s.counter.Adjust(ctx, store.Novels, novelID, "totalFavorites", -1)
				prometheus.FavoritesToggledTotal.WithLabelValues("removed").Inc()
				return false, nil
			}

			f := &models.Favorite{
				ID:        newID(),
				UserID:    caller.SubjectID,
				NovelID:   novelID,
				CreatedAt: s.now(),
			}
			if err := s.store.Insert(ctx, store.Favorites, f.ID, f); err != nil {
				return false, err
			}
			s.counter.Adjust(ctx, store.Novels, novelID, "totalFavorites", 1)
			prometheus.FavoritesToggledTotal.WithLabelValues("added").Inc()
			return true, nil
		},
	})
}

// MyFavorites pages through the caller's favorited novels, most recent first
func (s *Service) MyFavorites(ctx context.Context, id *auth.Identity, in *query.PaginationInput) (*models.Page[*models.Novel], error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	favs, err := query.Paginate[*models.Favorite](ctx, s.store, store.Favorites,
		ownedBy(caller.SubjectID), newestFirst, in)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(favs.Data))
	for i, f := range favs.Data {
		ids[i] = f.NovelID
	}
	novels, err := s.novelsInOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Novel]{Data: novels, Pagination: favs.Pagination}, nil
}

// novelsInOrder loads ids preserving their order and skipping deleted novels
func (s *Service) novelsInOrder(ctx context.Context, ids []string) ([]*models.Novel, error) {
	if len(ids) == 0 {
		return []*models.Novel{}, nil
	}
	found, err := store.LoadAll[models.Novel](ctx, s.store, store.Novels, query.Query{
		Where: query.In("id", toAny(ids)...),
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Novel, len(found))
	for _, n := range found {
		byID[n.ID] = n
	}
	out := make([]*models.Novel, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Service) IsFavorited(ctx context.Context, id *auth.Identity, rawNovelID string) (bool, error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return false, err
	}
	novelID, err := parseID(rawNovelID, "Novel ID")
	if err != nil {
		return false, err
	}
	return store.Exists(ctx, s.store, store.Favorites,
		query.And(ownedBy(caller.SubjectID), query.Eq("novelId", novelID)))
}

// chapterOf loads a novel and one of its chapters, failing when the chapter
// belongs elsewhere
func (s *Service) chapterOf(ctx context.Context, novelID, chapterID string) (*models.Chapter, error) {
	if _, err := fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found"); err != nil {
		return nil, err
	}
	c, err := fetch[models.Chapter](ctx, s.store, store.Chapters, chapterID, "Chapter not found")
	if err != nil {
		return nil, err
	}
	if c.NovelID != novelID {
		return nil, apperr.Validation(chapterOutsideNovel)
	}
	return c, nil
}

func (s *Service) AddBookmark(ctx context.Context, id *auth.Identity, in models.AddBookmarkInput) (*models.Bookmark, error) {
	var novelID, chapterID string
	note := strings.TrimSpace(str(in.Note))

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Bookmark]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			if novelID, err = parseID(in.NovelID, "Novel ID"); err != nil {
				return err
			}
			if chapterID, err = parseID(in.ChapterID, "Chapter ID"); err != nil {
				return err
			}
			if len(note) > MaxBookmarkNote {
				return apperr.Validation("Note cannot exceed 200 characters")
			}
			return nil
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			if _, err := s.chapterOf(ctx, novelID, chapterID); err != nil {
				return err
			}
			dup, err := store.Exists(ctx, s.store, store.Bookmarks,
				query.And(ownedBy(caller.SubjectID), query.Eq("chapterId", chapterID)))
			if err != nil {
				return err
			}
			if dup {
				return apperr.Conflict("Chapter is already bookmarked")
			}
			return nil
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.Bookmark, error) {
			b := &models.Bookmark{
				ID:        newID(),
				UserID:    caller.SubjectID,
				NovelID:   novelID,
				ChapterID: chapterID,
				Note:      note,
				CreatedAt: s.now(),
			}
			if err := s.store.Insert(ctx, store.Bookmarks, b.ID, b); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return nil, apperr.Conflict("Chapter is already bookmarked")
				}
				return nil, err
			}
			s.counter.Adjust(ctx, store.Chapters, chapterID, "totalBookmarks", 1)
			prometheus.BookmarksChangedTotal.WithLabelValues("added").Inc()
			return b, nil
		},
	})
}

func (s *Service) RemoveBookmark(ctx context.Context, id *auth.Identity, rawChapterID string) (bool, error) {
	var (
		chapterID string
		b         *models.Bookmark
	)
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			chapterID, err = parseID(rawChapterID, "Chapter ID")
			return err
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			b, err = store.LoadOne[models.Bookmark](ctx, s.store, store.Bookmarks,
				query.And(ownedBy(caller.SubjectID), query.Eq("chapterId", chapterID)))
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Bookmark not found")
			}
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Bookmarks, b.ID); err != nil {
				return false, err
			}
			s.counter.Adjust(ctx, store.Chapters, chapterID, "totalBookmarks", -1)
			prometheus.BookmarksChangedTotal.WithLabelValues("removed").Inc()
			return true, nil
		},
	})
}

// MyBookmarks pages through the caller's bookmarks, newest first
func (s *Service) MyBookmarks(ctx context.Context, id *auth.Identity, in *query.PaginationInput) (*models.Page[*models.Bookmark], error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Bookmark](ctx, s.store, store.Bookmarks,
		ownedBy(caller.SubjectID), newestFirst, in)
}

func (s *Service) IsBookmarked(ctx context.Context, id *auth.Identity, rawChapterID string) (bool, error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return false, err
	}
	chapterID, err := parseID(rawChapterID, "Chapter ID")
	if err != nil {
		return false, err
	}
	return store.Exists(ctx, s.store, store.Bookmarks,
		query.And(ownedBy(caller.SubjectID), query.Eq("chapterId", chapterID)))
}

// UpdateReadingProgress moves the caller's place in a novel to a chapter,
// creating the progress record on first read
func (s *Service) UpdateReadingProgress(ctx context.Context, id *auth.Identity, in models.UpdateReadingProgressInput) (*models.ReadingProgress, error) {
	var novelID, chapterID string

	return mutation.Run(ctx, id, mutation.Pipeline[*models.ReadingProgress]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			if novelID, err = parseID(in.NovelID, "Novel ID"); err != nil {
				return err
			}
			chapterID, err = parseID(in.ChapterID, "Chapter ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			_, err := s.chapterOf(ctx, novelID, chapterID)
			return err
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.ReadingProgress, error) {
			p, err := s.advanceProgress(ctx, caller.SubjectID, novelID, chapterID)
			if err != nil {
				return nil, err
			}
			s.counter.Adjust(ctx, store.Chapters, chapterID, "totalViews", 1)
			prometheus.ChapterReadsTotal.Inc()
			return p, nil
		},
	})
}

func (s *Service) progressFor(ctx context.Context, userID, novelID string) (*models.ReadingProgress, error) {
	return store.LoadOne[models.ReadingProgress](ctx, s.store, store.ReadingProgress,
		query.And(ownedBy(userID), query.Eq("novelId", novelID)))
}

func (s *Service) advanceProgress(ctx context.Context, userID, novelID, chapterID string) (*models.ReadingProgress, error) {
	p, err := s.progressFor(ctx, userID, novelID)
	if errors.Is(err, store.ErrNotFound) {
		now := s.now()
		p = &models.ReadingProgress{
			ID:                newID(),
			UserID:            userID,
			NovelID:           novelID,
			CurrentChapterID:  chapterID,
			LastReadAt:        now,
			TotalChaptersRead: 1,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		err = s.store.Insert(ctx, store.ReadingProgress, p.ID, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}
		// a concurrent first read created the record
		if p, err = s.progressFor(ctx, userID, novelID); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.store.Set(ctx, store.ReadingProgress, p.ID, map[string]any{
		"currentChapterId": chapterID,
		"lastReadAt":       now,
		"updatedAt":        now,
	}); err != nil {
		return nil, err
	}
	if !p.IsCompleted {
		if err := s.store.Increment(ctx, store.ReadingProgress, p.ID, "totalChaptersRead", 1); err != nil {
			return nil, err
		}
	}
	return fetch[models.ReadingProgress](ctx, s.store, store.ReadingProgress, p.ID, "Reading progress not found")
}

func (s *Service) readingList(ctx context.Context, id *auth.Identity, where query.Predicate, sort query.SortSpec) ([]*models.ReadingProgress, error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	return store.LoadAll[models.ReadingProgress](ctx, s.store, store.ReadingProgress, query.Query{
		Where: query.And(ownedBy(caller.SubjectID), where),
		Sort:  []query.SortSpec{sort},
	})
}

// MyReadingProgress lists every novel the caller has started, most recently read first
func (s *Service) MyReadingProgress(ctx context.Context, id *auth.Identity) ([]*models.ReadingProgress, error) {
	return s.readingList(ctx, id, query.All(), query.Sort("lastReadAt", query.Desc))
}

func (s *Service) MyCurrentReading(ctx context.Context, id *auth.Identity) ([]*models.ReadingProgress, error) {
	return s.readingList(ctx, id, query.Eq("isCompleted", false), query.Sort("lastReadAt", query.Desc))
}

func (s *Service) MyCompletedNovels(ctx context.Context, id *auth.Identity) ([]*models.ReadingProgress, error) {
	return s.readingList(ctx, id, query.Eq("isCompleted", true), query.Sort("completedAt", query.Desc))
}

// MarkNovelCompleted closes the caller's progress record for a novel
func (s *Service) MarkNovelCompleted(ctx context.Context, id *auth.Identity, rawNovelID string) (*models.ReadingProgress, error) {
	var (
		novelID string
		p       *models.ReadingProgress
	)
	return mutation.Run(ctx, id, mutation.Pipeline[*models.ReadingProgress]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			novelID, err = parseID(rawNovelID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			p, err = s.progressFor(ctx, caller.SubjectID, novelID)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("Reading progress not found")
			}
			return err
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.ReadingProgress, error) {
			if p.IsCompleted {
				return p, nil
			}
			now := s.now()
			if err := s.store.Set(ctx, store.ReadingProgress, p.ID, map[string]any{
				"isCompleted": true,
				"completedAt": now,
				"updatedAt":   now,
			}); err != nil {
				return nil, err
			}
			s.logger.WithFields(logrus.Fields{"user_id": caller.SubjectID, "novel_id": novelID}).Info("Novel completed")
			return fetch[models.ReadingProgress](ctx, s.store, store.ReadingProgress, p.ID, "Reading progress not found")
		},
	})
}
