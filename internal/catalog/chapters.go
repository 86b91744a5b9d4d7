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

const duplicateChapterNumber = "Chapter number already exists for this novel"

func (s *Service) GetChapter(ctx context.Context, rawID string) (*models.Chapter, error) {
	return fetchRaw[models.Chapter](ctx, s.store, store.Chapters, rawID, "Chapter ID", "Chapter not found")
}

// ChapterByNovelAndNumber returns a published chapter by its position
func (s *Service) ChapterByNovelAndNumber(ctx context.Context, rawNovelID string, number int) (*models.Chapter, error) {
	novelID, err := parseID(rawNovelID, "Novel ID")
	if err != nil {
		return nil, err
	}
	if number < 1 {
		return nil, apperr.Validation("Chapter number must be at least 1")
	}
	c, err := store.LoadOne[models.Chapter](ctx, s.store, store.Chapters, query.And(
		query.Eq("novelId", novelID),
		query.Eq("chapterNumber", number),
		published(),
	))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Chapter not found")
	}
	return c, err
}

// ChaptersByNovel pages through a novel's published chapters in reading order
func (s *Service) ChaptersByNovel(ctx context.Context, rawNovelID string, in *query.PaginationInput) (*models.Page[*models.Chapter], error) {
	novelID, err := parseID(rawNovelID, "Novel ID")
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Chapter](ctx, s.store, store.Chapters,
		query.And(query.Eq("novelId", novelID), published()),
		query.Sort("chapterNumber", query.Asc), in)
}

// NextChapter returns the closest published chapter after c, or nil
func (s *Service) NextChapter(ctx context.Context, c *models.Chapter) (*models.Chapter, error) {
	return s.neighbour(ctx, c, query.Gt("chapterNumber", c.ChapterNumber), query.Asc)
}

// PreviousChapter returns the closest published chapter before c, or nil
func (s *Service) PreviousChapter(ctx context.Context, c *models.Chapter) (*models.Chapter, error) {
	return s.neighbour(ctx, c, query.Lt("chapterNumber", c.ChapterNumber), query.Desc)
}

func (s *Service) neighbour(ctx context.Context, c *models.Chapter, bound query.Predicate, dir query.Direction) (*models.Chapter, error) {
	found, err := store.LoadAll[models.Chapter](ctx, s.store, store.Chapters, query.Query{
		Where: query.And(query.Eq("novelId", c.NovelID), bound, published()),
		Sort:  []query.SortSpec{query.Sort("chapterNumber", dir)},
		Limit: 1,
	})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (s *Service) chapterNumberTaken(ctx context.Context, novelID string, number int, exceptID string) error {
	other, err := store.LoadOne[models.Chapter](ctx, s.store, store.Chapters, query.And(
		query.Eq("novelId", novelID),
		query.Eq("chapterNumber", number),
	))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != exceptID {
		return apperr.Conflict(duplicateChapterNumber)
	}
	return nil
}

// CreateChapter adds a chapter and bumps the novel's chapter count
func (s *Service) CreateChapter(ctx context.Context, id *auth.Identity, in models.CreateChapterInput) (*models.Chapter, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	var novelID string

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Chapter]{
		Require: novelEditors,
		Validate: func() error {
			var p mutation.Problems
			p.Add(len(title) < 2, "Chapter title must be at least 2 characters")
			p.Add(len(content) < 10, "Chapter content must be at least 10 characters")
			p.Add(in.ChapterNumber < 1, "Chapter number must be at least 1")
			if err := p.Err(); err != nil {
				return err
			}
			var err error
			novelID, err = parseID(in.NovelID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			if _, err := fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found"); err != nil {
				return err
			}
			return s.chapterNumberTaken(ctx, novelID, in.ChapterNumber, "")
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Chapter, error) {
			now := s.now()
			c := &models.Chapter{
				ID:            newID(),
				NovelID:       novelID,
				Title:         title,
				TitleUrdu:     strings.TrimSpace(str(in.TitleUrdu)),
				ContentUrdu:   strings.TrimSpace(str(in.ContentUrdu)),
				ChapterNumber: in.ChapterNumber,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			c.SetContent(content)
			if err := s.store.Insert(ctx, store.Chapters, c.ID, c); err != nil {
				return nil, err
			}

			s.counter.Adjust(ctx, store.Novels, novelID, "publishedChapters", 1)
			s.touchNovel(ctx, novelID)

			prometheus.ChaptersCreatedTotal.Inc()
			s.logger.WithFields(logrus.Fields{
				"chapter_id":     c.ID,
				"novel_id":       novelID,
				"chapter_number": c.ChapterNumber,
			}).Info("Chapter created")
			return c, nil
		},
	})
}

// touchNovel records that novelID's content changed
func (s *Service) touchNovel(ctx context.Context, novelID string) {
	s.counter.Do(ctx, store.Novels, novelID, "lastUpdated", func(ctx context.Context) error {
		return s.store.Set(ctx, store.Novels, novelID, map[string]any{"lastUpdated": s.now()})
	})
}

func (s *Service) UpdateChapter(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateChapterInput) (*models.Chapter, error) {
	var (
		chapterID string
		c         *models.Chapter
	)

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Chapter]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			if chapterID, err = parseID(rawID, "Chapter ID"); err != nil {
				return err
			}
			var p mutation.Problems
			p.Add(in.Title != nil && len(strings.TrimSpace(*in.Title)) < 2, "Chapter title must be at least 2 characters")
			p.Add(in.Content != nil && len(strings.TrimSpace(*in.Content)) < 10, "Chapter content must be at least 10 characters")
			p.Add(in.ChapterNumber != nil && *in.ChapterNumber < 1, "Chapter number must be at least 1")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			if c, err = fetch[models.Chapter](ctx, s.store, store.Chapters, chapterID, "Chapter not found"); err != nil {
				return err
			}
			if in.ChapterNumber != nil && *in.ChapterNumber != c.ChapterNumber {
				return s.chapterNumberTaken(ctx, c.NovelID, *in.ChapterNumber, c.ID)
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Chapter, error) {
			if in.Title != nil {
				c.Title = strings.TrimSpace(*in.Title)
			}
			if in.TitleUrdu != nil {
				c.TitleUrdu = strings.TrimSpace(*in.TitleUrdu)
			}
			if in.Content != nil {
				c.SetContent(strings.TrimSpace(*in.Content))
			}
			if in.ContentUrdu != nil {
				c.ContentUrdu = strings.TrimSpace(*in.ContentUrdu)
			}
			if in.ChapterNumber != nil {
				c.ChapterNumber = *in.ChapterNumber
			}
			c.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Chapters, c.ID, c); err != nil {
				return nil, err
			}
			s.touchNovel(ctx, c.NovelID)
			return c, nil
		},
	})
}

// DeleteChapter removes a chapter and decrements the novel's chapter count
func (s *Service) DeleteChapter(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var (
		chapterID string
		c         *models.Chapter
	)
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			chapterID, err = parseID(rawID, "Chapter ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			c, err = fetch[models.Chapter](ctx, s.store, store.Chapters, chapterID, "Chapter not found")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Chapters, chapterID); err != nil {
				return false, err
			}
			s.counter.Adjust(ctx, store.Novels, c.NovelID, "publishedChapters", -1)
			s.touchNovel(ctx, c.NovelID)
			s.counter.Do(ctx, store.Bookmarks, chapterID, "cascade", func(ctx context.Context) error {
				_, err := s.store.DeleteWhere(ctx, store.Bookmarks, query.Eq("chapterId", chapterID))
				return err
			})

			s.logger.WithFields(logrus.Fields{"chapter_id": chapterID, "novel_id": c.NovelID}).Info("Chapter deleted")
			return true, nil
		},
	})
}

func (s *Service) PublishChapter(ctx context.Context, id *auth.Identity, rawID string) (*models.Chapter, error) {
	return s.setChapterPublished(ctx, id, rawID, true)
}

func (s *Service) UnpublishChapter(ctx context.Context, id *auth.Identity, rawID string) (*models.Chapter, error) {
	return s.setChapterPublished(ctx, id, rawID, false)
}

func (s *Service) setChapterPublished(ctx context.Context, id *auth.Identity, rawID string, publish bool) (*models.Chapter, error) {
	var (
		chapterID string
		c         *models.Chapter
	)
	return mutation.Run(ctx, id, mutation.Pipeline[*models.Chapter]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			chapterID, err = parseID(rawID, "Chapter ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			c, err = fetch[models.Chapter](ctx, s.store, store.Chapters, chapterID, "Chapter not found")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Chapter, error) {
			now := s.now()
			c.IsPublished = publish
			c.PublishedAt = nil
			if publish {
				c.PublishedAt = &now
			}
			c.UpdatedAt = now
			if err := s.store.Replace(ctx, store.Chapters, c.ID, c); err != nil {
				return nil, err
			}
			if publish {
				s.touchNovel(ctx, c.NovelID)
			}
			prometheus.PublicationsTotal.WithLabelValues("chapter", publishAction(publish)).Inc()
			return c, nil
		},
	})
}
