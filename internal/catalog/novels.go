package catalog

import (
	"context"
	"slices"
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

// Novel mutations are open to admins and authors
var novelEditors = auth.AnyRole(models.RoleAdmin, models.RoleAuthor)

var newestFirst = query.Sort("createdAt", query.Desc)

func published() query.Predicate { return query.Eq("isPublished", true) }

func (s *Service) GetNovel(ctx context.Context, rawID string) (*models.Novel, error) {
	return fetchRaw[models.Novel](ctx, s.store, store.Novels, rawID, "Novel ID", "Novel not found")
}

// ListNovels filters, sorts and pages the catalogue
func (s *Service) ListNovels(ctx context.Context, filter *query.NovelFilter, in *query.PaginationInput, sortBy, sortOrder *string) (*models.Page[*models.Novel], error) {
	where, err := query.BuildNovelFilter(filter)
	if err != nil {
		return nil, apperr.Translate(err, true)
	}
	return query.Paginate[*models.Novel](ctx, s.store, store.Novels, where, query.ResolveNovelSort(sortBy, sortOrder), in)
}

// SearchNovels matches published novels by title or description in either language
func (s *Service) SearchNovels(ctx context.Context, term string) ([]*models.Novel, error) {
	term, err := searchTerm(term)
	if err != nil {
		return nil, err
	}
	return store.LoadAll[models.Novel](ctx, s.store, store.Novels, query.Query{
		Where: query.And(published(), query.Contains(term, query.NovelSearchFields...)),
		Sort:  []query.SortSpec{newestFirst},
		Limit: query.MaxLimit,
	})
}

func (s *Service) NovelsByAuthor(ctx context.Context, rawAuthorID string, in *query.PaginationInput) (*models.Page[*models.Novel], error) {
	return s.publishedNovelsBy(ctx, "authorId", rawAuthorID, "Author ID", in)
}

func (s *Service) NovelsByCategory(ctx context.Context, rawCategoryID string, in *query.PaginationInput) (*models.Page[*models.Novel], error) {
	return s.publishedNovelsBy(ctx, "categoryId", rawCategoryID, "Category ID", in)
}

func (s *Service) NovelsByTag(ctx context.Context, rawTagID string, in *query.PaginationInput) (*models.Page[*models.Novel], error) {
	tagID, err := parseID(rawTagID, "Tag ID")
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Novel](ctx, s.store, store.Novels,
		query.And(query.In("tagIds", tagID), published()), newestFirst, in)
}

func (s *Service) publishedNovelsBy(ctx context.Context, field, rawID, label string, in *query.PaginationInput) (*models.Page[*models.Novel], error) {
	id, err := parseID(rawID, label)
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Novel](ctx, s.store, store.Novels,
		query.And(query.Eq(field, id), published()), newestFirst, in)
}

// novelRefs holds the validated references of a novel input
type novelRefs struct {
	authorID   *string
	categoryID *string
	tagIDs     []string
	status     *models.NovelStatus
	language   *models.Language
}

func parseNovelRefs(authorID, categoryID *string, tagIDs []string, status, language *string) (novelRefs, error) {
	var refs novelRefs
	if authorID != nil {
		id, err := parseID(*authorID, "Author ID")
		if err != nil {
			return refs, err
		}
		refs.authorID = &id
	}
	if categoryID != nil {
		id, err := parseID(*categoryID, "Category ID")
		if err != nil {
			return refs, err
		}
		refs.categoryID = &id
	}
	if tagIDs != nil {
		ids, err := query.ParseIDs(tagIDs, "Tag ID")
		if err != nil {
			return refs, apperr.Translate(err, true)
		}
		slices.Sort(ids)
		refs.tagIDs = slices.Compact(ids)
	}
	if status != nil {
		st, err := models.ParseNovelStatus(*status)
		if err != nil {
			return refs, apperr.Validation("Invalid novel status")
		}
		refs.status = &st
	}
	if language != nil {
		lang, err := models.ParseLanguage(*language)
		if err != nil {
			return refs, apperr.Validation("Invalid novel language")
		}
		refs.language = &lang
	}
	return refs, nil
}

// check verifies that every referenced author, category and tag exists
func (r novelRefs) check(ctx context.Context, st store.Store) error {
	if r.authorID != nil {
		ok, err := exists(ctx, st, store.Authors, *r.authorID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Author not found")
		}
	}
	if r.categoryID != nil {
		ok, err := exists(ctx, st, store.Categories, *r.categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Category not found")
		}
	}
	if len(r.tagIDs) > 0 {
		n, err := st.Count(ctx, store.Tags, query.In("id", toAny(r.tagIDs)...))
		if err != nil {
			return err
		}
		if n != len(r.tagIDs) {
			return apperr.NotFound("One or more tags not found")
		}
	}
	return nil
}

func (s *Service) CreateNovel(ctx context.Context, id *auth.Identity, in models.CreateNovelInput) (*models.Novel, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	var refs novelRefs

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Novel]{
		Require: novelEditors,
		Validate: func() error {
			var p mutation.Problems
			p.Add(len(title) < 2, "Novel title must be at least 2 characters")
			p.Add(len(description) < 10, "Novel description must be at least 10 characters")
			p.Add(in.TotalChapters != nil && *in.TotalChapters < 0, "Total chapters cannot be negative")
			if err := p.Err(); err != nil {
				return err
			}
			var err error
			refs, err = parseNovelRefs(&in.AuthorID, &in.CategoryID, in.TagIDs, in.Status, in.Language)
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			return refs.check(ctx, s.store)
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.Novel, error) {
			now := s.now()
			n := &models.Novel{
				ID:              newID(),
				Title:           title,
				TitleUrdu:       strings.TrimSpace(str(in.TitleUrdu)),
				Description:     description,
				DescriptionUrdu: strings.TrimSpace(str(in.DescriptionUrdu)),
				AuthorID:        *refs.authorID,
				CategoryID:      *refs.categoryID,
				TagIDs:          refs.tagIDs,
				CoverImage:      str(in.CoverImage),
				Status:          models.StatusOngoing,
				Language:        models.LanguageEnglish,
				LastUpdated:     now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if n.TagIDs == nil {
				n.TagIDs = []string{}
			}
			if refs.status != nil {
				n.Status = *refs.status
			}
			if refs.language != nil {
				n.Language = *refs.language
			}
			if in.TotalChapters != nil {
				n.TotalChapters = *in.TotalChapters
			}
			if err := s.store.Insert(ctx, store.Novels, n.ID, n); err != nil {
				return nil, err
			}

			prometheus.NovelsCreatedTotal.WithLabelValues(string(n.Language)).Inc()
			s.logger.WithFields(logrus.Fields{
				"novel_id": n.ID,
				"title":    n.Title,
				"user_id":  caller.SubjectID,
			}).Info("Novel created")
			return n, nil
		},
	})
}

func (s *Service) UpdateNovel(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateNovelInput) (*models.Novel, error) {
	var (
		novelID string
		refs    novelRefs
		n       *models.Novel
	)

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Novel]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			if novelID, err = parseID(rawID, "Novel ID"); err != nil {
				return err
			}
			var p mutation.Problems
			p.Add(in.Title != nil && len(strings.TrimSpace(*in.Title)) < 2, "Novel title must be at least 2 characters")
			p.Add(in.Description != nil && len(strings.TrimSpace(*in.Description)) < 10, "Novel description must be at least 10 characters")
			p.Add(in.TotalChapters != nil && *in.TotalChapters < 0, "Total chapters cannot be negative")
			if err := p.Err(); err != nil {
				return err
			}
			refs, err = parseNovelRefs(in.AuthorID, in.CategoryID, in.TagIDs, in.Status, in.Language)
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			if n, err = fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found"); err != nil {
				return err
			}
			return refs.check(ctx, s.store)
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Novel, error) {
			if in.Title != nil {
				n.Title = strings.TrimSpace(*in.Title)
			}
			if in.TitleUrdu != nil {
				n.TitleUrdu = strings.TrimSpace(*in.TitleUrdu)
			}
			if in.Description != nil {
				n.Description = strings.TrimSpace(*in.Description)
			}
			if in.DescriptionUrdu != nil {
				n.DescriptionUrdu = strings.TrimSpace(*in.DescriptionUrdu)
			}
			if refs.authorID != nil {
				n.AuthorID = *refs.authorID
			}
			if refs.categoryID != nil {
				n.CategoryID = *refs.categoryID
			}
			if refs.tagIDs != nil {
				n.TagIDs = refs.tagIDs
			}
			if in.CoverImage != nil {
				n.CoverImage = *in.CoverImage
			}
			if refs.status != nil {
				n.Status = *refs.status
			}
			if refs.language != nil {
				n.Language = *refs.language
			}
			if in.TotalChapters != nil {
				n.TotalChapters = *in.TotalChapters
			}
			n.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Novels, n.ID, n); err != nil {
				return nil, err
			}
			return n, nil
		},
	})
}

// DeleteNovel removes a novel, then its chapters and reader data best effort
func (s *Service) DeleteNovel(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var novelID string
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			novelID, err = parseID(rawID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			_, err := fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Novels, novelID); err != nil {
				return false, err
			}
			for _, child := range []string{store.Chapters, store.Reviews, store.Favorites, store.Bookmarks, store.ReadingProgress} {
				s.counter.Do(ctx, child, novelID, "cascade", func(ctx context.Context) error {
					_, err := s.store.DeleteWhere(ctx, child, query.Eq("novelId", novelID))
					return err
				})
			}

			prometheus.NovelsDeletedTotal.Inc()
			s.logger.WithField("novel_id", novelID).Info("Novel deleted")
			return true, nil
		},
	})
}

func (s *Service) PublishNovel(ctx context.Context, id *auth.Identity, rawID string) (*models.Novel, error) {
	return s.setNovelPublished(ctx, id, rawID, true)
}

func (s *Service) UnpublishNovel(ctx context.Context, id *auth.Identity, rawID string) (*models.Novel, error) {
	return s.setNovelPublished(ctx, id, rawID, false)
}

func (s *Service) setNovelPublished(ctx context.Context, id *auth.Identity, rawID string, publish bool) (*models.Novel, error) {
	var (
		novelID string
		n       *models.Novel
	)
	return mutation.Run(ctx, id, mutation.Pipeline[*models.Novel]{
		Require: novelEditors,
		Validate: func() error {
			var err error
			novelID, err = parseID(rawID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			n, err = fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Novel, error) {
			now := s.now()
			n.IsPublished = publish
			n.PublishedAt = nil
			if publish {
				n.PublishedAt = &now
			}
			n.UpdatedAt = now
			if err := s.store.Replace(ctx, store.Novels, n.ID, n); err != nil {
				return nil, err
			}
			prometheus.PublicationsTotal.WithLabelValues("novel", publishAction(publish)).Inc()
			return n, nil
		},
	})
}

func publishAction(publish bool) string {
	if publish {
		return "publish"
	}
	return "unpublish"
}
