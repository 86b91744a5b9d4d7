package catalog

import (
	"context"
	"errors"
	"strconv"
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

// Review field limits
const (
	MinRating             = 1
	MaxRating             = 5
	MaxReviewTitle        = 100
	MaxReviewComment      = 1000
	MaxModerationReason   = 500
	duplicateReviewReason = "You have already reviewed this novel"
)

func (s *Service) GetReview(ctx context.Context, rawID string) (*models.Review, error) {
	return fetchRaw[models.Review](ctx, s.store, store.Reviews, rawID, "Review ID", "Review not found")
}

// ReviewsByNovel pages through a novel's approved reviews, newest first
func (s *Service) ReviewsByNovel(ctx context.Context, rawNovelID string, in *query.PaginationInput) (*models.Page[*models.Review], error) {
	novelID, err := parseID(rawNovelID, "Novel ID")
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Review](ctx, s.store, store.Reviews,
		query.And(query.Eq("novelId", novelID), query.Eq("isApproved", true)), newestFirst, in)
}

// ReviewsByUser pages through everything a user has reviewed
func (s *Service) ReviewsByUser(ctx context.Context, rawUserID string, in *query.PaginationInput) (*models.Page[*models.Review], error) {
	userID, err := parseID(rawUserID, "User ID")
	if err != nil {
		return nil, err
	}
	return query.Paginate[*models.Review](ctx, s.store, store.Reviews,
		query.Eq("userId", userID), newestFirst, in)
}

// PendingReviews lists reviews no admin has moderated yet
func (s *Service) PendingReviews(ctx context.Context, id *auth.Identity, in *query.PaginationInput) (*models.Page[*models.Review], error) {
	if _, err := auth.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}
	return query.Paginate[*models.Review](ctx, s.store, store.Reviews,
		query.Eq("isModerated", false), newestFirst, in)
}

func reviewProblems(rating *int, title, comment *string) error {
	var p mutation.Problems
	p.Add(rating != nil && (*rating < MinRating || *rating > MaxRating), "Rating must be between 1 and 5")
	p.Add(title != nil && len(strings.TrimSpace(*title)) > MaxReviewTitle, "Review title cannot exceed 100 characters")
	p.Add(comment != nil && len(strings.TrimSpace(*comment)) > MaxReviewComment, "Review comment cannot exceed 1000 characters")
	return p.Err()
}

// CreateReview records the caller's single review of a novel
func (s *Service) CreateReview(ctx context.Context, id *auth.Identity, in models.CreateReviewInput) (*models.Review, error) {
	var novelID string

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Review]{
		Require: auth.Authenticated(),
		Validate: func() error {
			if err := reviewProblems(&in.Rating, in.Title, in.Comment); err != nil {
				return err
			}
			var err error
			novelID, err = parseID(in.NovelID, "Novel ID")
			return err
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			if _, err := fetch[models.Novel](ctx, s.store, store.Novels, novelID, "Novel not found"); err != nil {
				return err
			}
			dup, err := store.Exists(ctx, s.store, store.Reviews, query.And(
				query.Eq("userId", caller.SubjectID),
				query.Eq("novelId", novelID),
			))
			if err != nil {
				return err
			}
			if dup {
				return apperr.Conflict(duplicateReviewReason)
			}
			return nil
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.Review, error) {
			now := s.now()
			r := &models.Review{
				ID:         newID(),
				UserID:     caller.SubjectID,
				NovelID:    novelID,
				Rating:     in.Rating,
				Title:      strings.TrimSpace(str(in.Title)),
				Comment:    strings.TrimSpace(str(in.Comment)),
				IsApproved: true,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.store.Insert(ctx, store.Reviews, r.ID, r); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return nil, apperr.Conflict(duplicateReviewReason)
				}
				return nil, err
			}
			s.refreshRating(ctx, novelID)

			prometheus.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(r.Rating)).Inc()
			s.logger.WithFields(logrus.Fields{
				"review_id": r.ID,
				"novel_id":  novelID,
				"rating":    r.Rating,
			}).Info("Review created")
			return r, nil
		},
	})
}

// refreshRating recomputes a novel's average from its reviews
func (s *Service) refreshRating(ctx context.Context, novelID string) {
	s.counter.Do(ctx, store.Novels, novelID, "averageRating", func(ctx context.Context) error {
		where := query.Eq("novelId", novelID)
		count, err := s.store.Count(ctx, store.Reviews, where)
		if err != nil {
			return err
		}
		sum, err := s.store.Sum(ctx, store.Reviews, where, "rating")
		if err != nil {
			return err
		}
		avg := 0.0
		if count > 0 {
			avg = float64(sum) / float64(count)
		}
		return s.store.Set(ctx, store.Novels, novelID, map[string]any{
			"averageRating": avg,
			"totalRatings":  count,
		})
	})
}

// ownReview loads a review the caller may change
func (s *Service) ownReview(ctx context.Context, caller *auth.Identity, reviewID, msg string) (*models.Review, error) {
	r, err := fetch[models.Review](ctx, s.store, store.Reviews, reviewID, "Review not found")
	if err != nil {
		return nil, err
	}
	if err := auth.OwnerOrAdmin(caller, r.UserID, msg); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) UpdateReview(ctx context.Context, id *auth.Identity, rawID string, in models.UpdateReviewInput) (*models.Review, error) {
	var (
		reviewID string
		r        *models.Review
	)
	return mutation.Run(ctx, id, mutation.Pipeline[*models.Review]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			if reviewID, err = parseID(rawID, "Review ID"); err != nil {
				return err
			}
			return reviewProblems(in.Rating, in.Title, in.Comment)
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			r, err = s.ownReview(ctx, caller, reviewID, "You can only update your own reviews")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Review, error) {
			rated := in.Rating != nil && *in.Rating != r.Rating
			if in.Rating != nil {
				r.Rating = *in.Rating
			}
			if in.Title != nil {
				r.Title = strings.TrimSpace(*in.Title)
			}
			if in.Comment != nil {
				r.Comment = strings.TrimSpace(*in.Comment)
			}
			r.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Reviews, r.ID, r); err != nil {
				return nil, err
			}
			if rated {
				s.refreshRating(ctx, r.NovelID)
			}
			return r, nil
		},
	})
}

func (s *Service) DeleteReview(ctx context.Context, id *auth.Identity, rawID string) (bool, error) {
	var (
		reviewID string
		r        *models.Review
	)
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			reviewID, err = parseID(rawID, "Review ID")
			return err
		},
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			r, err = s.ownReview(ctx, caller, reviewID, "You can only delete your own reviews")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			if err := s.store.Delete(ctx, store.Reviews, reviewID); err != nil {
				return false, err
			}
			s.refreshRating(ctx, r.NovelID)
			s.logger.WithFields(logrus.Fields{"review_id": reviewID, "novel_id": r.NovelID}).Info("Review deleted")
			return true, nil
		},
	})
}

// VoteReview counts a helpfulness vote
func (s *Service) VoteReview(ctx context.Context, id *auth.Identity, rawID string, helpful bool) (*models.Review, error) {
	var reviewID string
	return mutation.Run(ctx, id, mutation.Pipeline[*models.Review]{
		Require: auth.Authenticated(),
		Validate: func() error {
			var err error
			reviewID, err = parseID(rawID, "Review ID")
			return err
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			_, err := fetch[models.Review](ctx, s.store, store.Reviews, reviewID, "Review not found")
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.Review, error) {
			if err := s.store.Increment(ctx, store.Reviews, reviewID, "totalVotes", 1); err != nil {
				return nil, err
			}
			if helpful {
				s.counter.Adjust(ctx, store.Reviews, reviewID, "helpfulVotes", 1)
			}
			return fetch[models.Review](ctx, s.store, store.Reviews, reviewID, "Review not found")
		},
	})
}

// ModerateReview approves or hides a review
func (s *Service) ModerateReview(ctx context.Context, id *auth.Identity, rawID string, in models.ModerateReviewInput) (*models.Review, error) {
	var (
		reviewID string
		r        *models.Review
	)
	reason := strings.TrimSpace(str(in.Reason))

	return mutation.Run(ctx, id, mutation.Pipeline[*models.Review]{
		Require: auth.Role(models.RoleAdmin),
		Validate: func() error {
			var err error
			if reviewID, err = parseID(rawID, "Review ID"); err != nil {
				return err
			}
			if len(reason) > MaxModerationReason {
				return apperr.Validation("Moderation reason cannot exceed 500 characters")
			}
			return nil
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			r, err = fetch[models.Review](ctx, s.store, store.Reviews, reviewID, "Review not found")
			return err
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.Review, error) {
			now := s.now()
			r.IsApproved = in.IsApproved
			r.IsModerated = true
			r.ModeratedBy = caller.SubjectID
			r.ModeratedAt = &now
			r.ModerationReason = reason
			r.UpdatedAt = now
			if err := s.store.Replace(ctx, store.Reviews, r.ID, r); err != nil {
				return nil, err
			}

			outcome := "rejected"
			if r.IsApproved {
				outcome = "approved"
			}
			prometheus.ReviewsModeratedTotal.WithLabelValues(outcome).Inc()
			s.logger.WithFields(logrus.Fields{
				"review_id": r.ID,
				"outcome":   outcome,
				"moderator": caller.SubjectID,
			}).Info("Review moderated")
			return r, nil
		},
	})
}
