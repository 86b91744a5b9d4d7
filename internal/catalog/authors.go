package catalog

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/mutation"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// MinSearchLength is the shortest accepted free-text search term
const MinSearchLength = 2

func searchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if len(term) < MinSearchLength {
		return "", apperr.Validation("Search term must be at least 2 characters")
	}
	return term, nil
}

func (s *Service) GetAuthor(ctx context.Context, rawID string) (*models.Author, error) {
	return fetchRaw[models.Author](ctx, s.store, store.Authors, rawID, "Author ID", "Author not found")
}

// ListAuthors pages through active authors by name
func (s *Service) ListAuthors(ctx context.Context, in *query.PaginationInput) (*models.Page[*models.Author], error) {
	return query.Paginate[*models.Author](ctx, s.store, store.Authors,
		query.Eq("isActive", true), query.Sort("name", query.Asc), in)
}

// SearchAuthors matches active authors by name
func (s *Service) SearchAuthors(ctx context.Context, term string) ([]*models.Author, error) {
	term, err := searchTerm(term)
	if err != nil {
		return nil, err
	}
	return store.LoadAll[models.Author](ctx, s.store, store.Authors, query.Query{
		Where: query.And(query.Contains(term, "name"), query.Eq("isActive", true)),
		Sort:  []query.SortSpec{query.Sort("name", query.Asc)},
	})
}

// authorNameTaken reports whether another author already uses name, ignoring case
func (s *Service) authorNameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	candidates, err := store.LoadAll[models.Author](ctx, s.store, store.Authors, query.Query{
		Where: query.Contains(name, "name"),
	})
	if err != nil {
		return false, err
	}
	for _, a := range candidates {
		if a.ID != exceptID && strings.EqualFold(a.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) CreateAuthor(ctx context.Context, id *auth.Identity, in models.CreateAuthorInput) (*models.Author, error) {
	name := strings.TrimSpace(in.Name)
	bio := strings.TrimSpace(in.Bio)

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Author]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var p mutation.Problems
			p.Add(len(name) < 2, "Author name must be at least 2 characters")
			p.Add(len(bio) < 10, "Author bio must be at least 10 characters")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			taken, err := s.authorNameTaken(ctx, name, "")
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Author with this name already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Author, error) {
			now := s.now()
			a := &models.Author{
				ID:          newID(),
				Name:        name,
				Bio:         bio,
				Avatar:      str(in.Avatar),
				Website:     str(in.Website),
				SocialLinks: in.SocialLinks,
				BirthDate:   in.BirthDate,
				Nationality: str(in.Nationality),
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.store.Insert(ctx, store.Authors, a.ID, a); err != nil {
				return nil, err
			}
			s.logger.WithFields(logrus.Fields{"author_id": a.ID, "name": a.Name}).Info("Author created")
			return a, nil
		},
	})
}

func (s *Service) UpdateAuthor(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateAuthorInput) (*models.Author, error) {
	var (
		authorID string
		a        *models.Author
	)
	return mutation.Run(ctx, id, mutation.Pipeline[*models.Author]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			if authorID, err = parseID(rawID, "Author ID"); err != nil {
				return err
			}
			var p mutation.Problems
			p.Add(in.Name != nil && len(strings.TrimSpace(*in.Name)) < 2, "Author name must be at least 2 characters")
			p.Add(in.Bio != nil && len(strings.TrimSpace(*in.Bio)) < 10, "Author bio must be at least 10 characters")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			if a, err = fetch[models.Author](ctx, s.store, store.Authors, authorID, "Author not found"); err != nil {
				return err
			}
			if in.Name != nil {
				taken, err := s.authorNameTaken(ctx, strings.TrimSpace(*in.Name), authorID)
				if err != nil {
					return err
				}
				if taken {
					return apperr.Conflict("Author with this name already exists")
				}
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Author, error) {
			if in.Name != nil {
				a.Name = strings.TrimSpace(*in.Name)
			}
			if in.Bio != nil {
				a.Bio = strings.TrimSpace(*in.Bio)
			}
			if in.Avatar != nil {
				a.Avatar = *in.Avatar
			}
			if in.Website != nil {
				a.Website = *in.Website
			}
			if in.SocialLinks != nil {
				a.SocialLinks = in.SocialLinks
			}
			if in.BirthDate != nil {
				a.BirthDate = in.BirthDate
			}
			if in.Nationality != nil {
				a.Nationality = *in.Nationality
			}
			if in.IsActive != nil {
				a.IsActive = *in.IsActive
			}
			a.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Authors, a.ID, a); err != nil {
				return nil, err
			}
			return a, nil
		},
	})
}

// DeleteAuthor removes an author no novel references
func (s *Service) DeleteAuthor(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var authorID string
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			authorID, err = parseID(rawID, "Author ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			if _, err := fetch[models.Author](ctx, s.store, store.Authors, authorID, "Author not found"); err != nil {
				return err
			}
			return s.refuseIfReferenced(ctx, query.Eq("authorId", authorID), "Cannot delete author with existing novels")
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Authors, authorID); err != nil {
				return false, err
			}
			s.logger.WithField("author_id", authorID).Info("Author deleted")
			return true, nil
		},
	})
}

// refuseIfReferenced fails with msg when any novel matches where
func (s *Service) refuseIfReferenced(ctx context.Context, where query.Predicate, msg string) error {
	used, err := store.Exists(ctx, s.store, store.Novels, where)
	if err != nil {
		return err
	}
	if used {
		return apperr.Validation(msg)
	}
	return nil
}
