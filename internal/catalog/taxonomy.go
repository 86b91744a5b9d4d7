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
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Default label colors
const (
	DefaultCategoryColor = "#3B82F6"
	DefaultTagColor      = "#6B7280"
)

// label is the part of a category or tag that must be unique
type label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// labelTaken reports whether another document of collection uses name
// (ignoring case) or slug
func (s *Service) labelTaken(ctx context.Context, collection, name, slug, exceptID string) (bool, error) {
	var clauses []query.Predicate
	if name != "" {
		clauses = append(clauses, query.Contains(name, "name"))
	}
	candidates, err := store.LoadAll[label](ctx, s.store, collection, query.Query{Where: query.And(clauses...)})
	if err != nil {
		return false, err
	}
	for _, c := range candidates {
		if c.ID == exceptID {
			continue
		}
		if (name != "" && strings.EqualFold(c.Name, name)) || (slug != "" && c.Slug == slug) {
			return true, nil
		}
	}
	if slug == "" || name == "" {
		return false, nil
	}
	// the name filter above can miss a slug clash
	other, err := store.LoadOne[label](ctx, s.store, collection, query.Eq("slug", slug))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return other.ID != exceptID, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// CATEGORIES
// ═══════════════════════════════════════════════════════════════════════════

func (s *Service) GetCategory(ctx context.Context, rawID string) (*models.Category, error) {
	return fetchRaw[models.Category](ctx, s.store, store.Categories, rawID, "Category ID", "Category not found")
}

// CategoryBySlug returns an active category
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperr.Validation("Slug is required")
	}
	c, err := store.LoadOne[models.Category](ctx, s.store, store.Categories,
		query.And(query.Eq("slug", strings.ToLower(slug)), query.Eq("isActive", true)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Category not found")
	}
	return c, err
}

func (s *Service) ListCategories(ctx context.Context, in *query.PaginationInput) (*models.Page[*models.Category], error) {
	return query.Paginate[*models.Category](ctx, s.store, store.Categories,
		query.Eq("isActive", true), query.Sort("name", query.Asc), in)
}

func (s *Service) CreateCategory(ctx context.Context, id *auth.Identity, in models.CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	slug := models.Slugify(in.Slug)

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Category]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var p mutation.Problems
			p.Add(len(name) < 2, "Category name must be at least 2 characters")
			p.Add(len(description) < 10, "Category description must be at least 10 characters")
			p.Add(slug == "", "Category slug is required")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			taken, err := s.labelTaken(ctx, store.Categories, name, slug, "")
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Category with this name or slug already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Category, error) {
			color := DefaultCategoryColor
			if in.Color != nil && *in.Color != "" {
				color = *in.Color
			}
			now := s.now()
			c := &models.Category{
				ID:          newID(),
				Name:        name,
				Description: description,
				Slug:        slug,
				Icon:        str(in.Icon),
				Color:       color,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.store.Insert(ctx, store.Categories, c.ID, c); err != nil {
				return nil, err
			}
			s.logger.WithFields(logrus.Fields{"category_id": c.ID, "slug": c.Slug}).Info("Category created")
			return c, nil
		},
	})
}

func (s *Service) UpdateCategory(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateCategoryInput) (*models.Category, error) {
	var (
		categoryID string
		c          *models.Category
		slug       string
	)
	if in.Slug != nil {
		slug = models.Slugify(*in.Slug)
	}

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Category]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			if categoryID, err = parseID(rawID, "Category ID"); err != nil {
				return err
			}
			var p mutation.Problems
			p.Add(in.Name != nil && len(strings.TrimSpace(*in.Name)) < 2, "Category name must be at least 2 characters")
			p.Add(in.Description != nil && len(strings.TrimSpace(*in.Description)) < 10, "Category description must be at least 10 characters")
			p.Add(in.Slug != nil && slug == "", "Category slug is required")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			if c, err = fetch[models.Category](ctx, s.store, store.Categories, categoryID, "Category not found"); err != nil {
				return err
			}
			if in.Name == nil && in.Slug == nil {
				return nil
			}
			taken, err := s.labelTaken(ctx, store.Categories, strings.TrimSpace(str(in.Name)), slug, categoryID)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Category with this name or slug already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Category, error) {
			if in.Name != nil {
				c.Name = strings.TrimSpace(*in.Name)
			}
			if in.Description != nil {
				c.Description = strings.TrimSpace(*in.Description)
			}
			if in.Slug != nil {
				c.Slug = slug
			}
			if in.Icon != nil {
				c.Icon = *in.Icon
			}
			if in.Color != nil {
				c.Color = *in.Color
			}
			if in.IsActive != nil {
				c.IsActive = *in.IsActive
			}
			c.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Categories, c.ID, c); err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}

// DeleteCategory removes a category no novel references
func (s *Service) DeleteCategory(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var categoryID string
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			categoryID, err = parseID(rawID, "Category ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			if _, err := fetch[models.Category](ctx, s.store, store.Categories, categoryID, "Category not found"); err != nil {
				return err
			}
			return s.refuseIfReferenced(ctx, query.Eq("categoryId", categoryID), "Cannot delete category with existing novels")
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Categories, categoryID); err != nil {
				return false, err
			}
			s.logger.WithField("category_id", categoryID).Info("Category deleted")
			return true, nil
		},
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// TAGS
// ═══════════════════════════════════════════════════════════════════════════

func (s *Service) GetTag(ctx context.Context, rawID string) (*models.Tag, error) {
	return fetchRaw[models.Tag](ctx, s.store, store.Tags, rawID, "Tag ID", "Tag not found")
}

// TagBySlug returns an active tag
func (s *Service) TagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperr.Validation("Slug is required")
	}
	t, err := store.LoadOne[models.Tag](ctx, s.store, store.Tags,
		query.And(query.Eq("slug", strings.ToLower(slug)), query.Eq("isActive", true)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Tag not found")
	}
	return t, err
}

func (s *Service) ListTags(ctx context.Context, in *query.PaginationInput) (*models.Page[*models.Tag], error) {
	return query.Paginate[*models.Tag](ctx, s.store, store.Tags,
		query.Eq("isActive", true), query.Sort("name", query.Asc), in)
}

// SearchTags matches active tags by name
func (s *Service) SearchTags(ctx context.Context, term string) ([]*models.Tag, error) {
	term, err := searchTerm(term)
	if err != nil {
		return nil, err
	}
	return store.LoadAll[models.Tag](ctx, s.store, store.Tags, query.Query{
		Where: query.And(query.Contains(term, "name"), query.Eq("isActive", true)),
		Sort:  []query.SortSpec{query.Sort("name", query.Asc)},
	})
}

func (s *Service) CreateTag(ctx context.Context, id *auth.Identity, in models.CreateTagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	slug := models.Slugify(in.Slug)

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Tag]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var p mutation.Problems
			p.Add(len(name) < 2, "Tag name must be at least 2 characters")
			p.Add(slug == "", "Tag slug is required")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			taken, err := s.labelTaken(ctx, store.Tags, name, slug, "")
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Tag with this name or slug already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Tag, error) {
			color := DefaultTagColor
			if in.Color != nil && *in.Color != "" {
				color = *in.Color
			}
			now := s.now()
			t := &models.Tag{
				ID:          newID(),
				Name:        name,
				Description: strings.TrimSpace(str(in.Description)),
				Slug:        slug,
				Color:       color,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.store.Insert(ctx, store.Tags, t.ID, t); err != nil {
				return nil, err
			}
			s.logger.WithFields(logrus.Fields{"tag_id": t.ID, "slug": t.Slug}).Info("Tag created")
			return t, nil
		},
	})
}

func (s *Service) UpdateTag(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateTagInput) (*models.Tag, error) {
	var (
		tagID string
		t     *models.Tag
		slug  string
	)
	if in.Slug != nil {
		slug = models.Slugify(*in.Slug)
	}

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Tag]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			if tagID, err = parseID(rawID, "Tag ID"); err != nil {
				return err
			}
			var p mutation.Problems
			p.Add(in.Name != nil && len(strings.TrimSpace(*in.Name)) < 2, "Tag name must be at least 2 characters")
			p.Add(in.Slug != nil && slug == "", "Tag slug is required")
			return p.Err()
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			if t, err = fetch[models.Tag](ctx, s.store, store.Tags, tagID, "Tag not found"); err != nil {
				return err
			}
			if in.Name == nil && in.Slug == nil {
				return nil
			}
			taken, err := s.labelTaken(ctx, store.Tags, strings.TrimSpace(str(in.Name)), slug, tagID)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Tag with this name or slug already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Tag, error) {
			if in.Name != nil {
				t.Name = strings.TrimSpace(*in.Name)
			}
			if in.Description != nil {
				t.Description = strings.TrimSpace(*in.Description)
			}
			if in.Slug != nil {
				t.Slug = slug
			}
			if in.Color != nil {
				t.Color = *in.Color
			}
			if in.IsActive != nil {
				t.IsActive = *in.IsActive
			}
			t.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Tags, t.ID, t); err != nil {
				return nil, err
			}
			return t, nil
		},
	})
}

// DeleteTag removes a tag no novel references
func (s *Service) DeleteTag(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var tagID string
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			tagID, err = parseID(rawID, "Tag ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			if _, err := fetch[models.Tag](ctx, s.store, store.Tags, tagID, "Tag not found"); err != nil {
				return err
			}
			return s.refuseIfReferenced(ctx, query.In("tagIds", tagID), "Cannot delete tag with existing novels")
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Tags, tagID); err != nil {
				return false, err
			}
			s.logger.WithField("tag_id", tagID).Info("Tag deleted")
			return true, nil
		},
	})
}
