package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// UserStats summarises the account base
func (s *Service) UserStats(ctx context.Context, id *auth.Identity) (*models.UserStats, error) {
	if _, err := auth.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	// createdAt >= first instant of the month
	since := startOfMonth(s.now()).Add(-time.Nanosecond)

	var stats models.UserStats
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, where query.Predicate) {
		g.Go(func() error {
			n, err := s.store.Count(gctx, store.Users, where)
			*dst = n
			return err
		})
	}
	count(&stats.TotalUsers, query.All())
	count(&stats.ActiveUsers, query.Eq("isActive", true))
	count(&stats.VerifiedUsers, query.Eq("isEmailVerified", true))
	count(&stats.NewUsersThisMonth, query.Gt("createdAt", since))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// NovelStats summarises the catalogue
func (s *Service) NovelStats(ctx context.Context, id *auth.Identity) (*models.NovelStats, error) {
	if _, err := auth.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	var stats models.NovelStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalNovels, err = s.store.Count(gctx, store.Novels, query.All())
		return err
	})
	g.Go(func() (err error) {
		stats.PublishedNovels, err = s.store.Count(gctx, store.Novels, published())
		return err
	})
	g.Go(func() (err error) {
		stats.TotalChapters, err = s.store.Count(gctx, store.Chapters, query.All())
		return err
	})
	g.Go(func() (err error) {
		stats.TotalViews, err = s.store.Sum(gctx, store.Novels, query.All(), "totalViews")
		return err
	})
	g.Go(func() (err error) {
		stats.TotalFavorites, err = s.store.Sum(gctx, store.Novels, query.All(), "totalFavorites")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
