package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/mutation"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/prometheus"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

const invalidCredentials = "Invalid email or password"

func passwordError(password string) error {
	var p mutation.Problems
	for _, msg := range auth.PasswordProblems(password) {
		p.Add(true, msg)
	}
	return p.Err()
}

func emailError(email string) error {
	if !auth.IsValidEmail(strings.TrimSpace(email)) {
		return apperr.Validation("Invalid email format")
	}
	return nil
}

// session issues a fresh access token and refresh token for u
func (s *Service) session(u *models.User) (*models.AuthPayload, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRandomToken(RefreshTokenLength)
	if err != nil {
		return nil, err
	}
	return &models.AuthPayload{
		Token:        token,
		RefreshToken: refresh,
		User:         models.NewUserSession(u),
	}, nil
}

// Register creates a reader or author account and signs it in
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.AuthPayload, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := models.RoleReader

	return mutation.Run(ctx, nil, mutation.Pipeline[*models.AuthPayload]{
		Public: true,
		Validate: func() error {
			if err := emailError(email); err != nil {
				return err
			}
			if err := passwordError(in.Password); err != nil {
				return err
			}
			if len(strings.TrimSpace(in.Name)) < 2 {
				return apperr.Validation("Name must be at least 2 characters")
			}
			if in.Role != nil {
				r, err := models.ParseRole(*in.Role)
				if err != nil || r == models.RoleAdmin {
					return apperr.Validation("Role must be READER or AUTHOR")
				}
				role = r
			}
			return nil
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			taken, err := store.Exists(ctx, s.store, store.Users, query.Eq("email", email))
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("User with this email already exists")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (*models.AuthPayload, error) {
			hash, err := auth.HashPassword(in.Password, s.opts.BcryptCost)
			if err != nil {
				return nil, err
			}
			now := s.now()
			u := &models.User{
				ID:           newID(),
				Name:         strings.TrimSpace(in.Name),
				Email:        email,
				PasswordHash: hash,
				Role:         role,
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.store.Insert(ctx, store.Users, u.ID, u); err != nil {
				return nil, err
			}

			prometheus.UsersRegisteredTotal.WithLabelValues(string(role)).Inc()
			s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": role}).Info("User registered")
			return s.session(u)
		},
	})
}

// Login verifies credentials and records the login time
func (s *Service) Login(ctx context.Context, in models.LoginInput) (*models.AuthPayload, error) {
	start := time.Now()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	payload, err := mutation.Run(ctx, nil, mutation.Pipeline[*models.AuthPayload]{
		Public:   true,
		Validate: func() error { return emailError(email) },
		Write: func(ctx context.Context, _ *auth.Identity) (*models.AuthPayload, error) {
			u, err := store.LoadOne[models.User](ctx, s.store, store.Users, query.Eq("email", email))
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.Unauthenticated(invalidCredentials)
			}
			if err != nil {
				return nil, err
			}
			if !u.IsActive {
				return nil, apperr.Unauthenticated("Account is deactivated")
			}
			if !auth.ComparePassword(u.PasswordHash, in.Password) {
				return nil, apperr.Unauthenticated(invalidCredentials)
			}

			now := s.now()
			u.LastLogin = &now
			if err := s.store.Replace(ctx, store.Users, u.ID, u); err != nil {
				return nil, err
			}
			return s.session(u)
		},
	})

	prometheus.AuthDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		prometheus.AuthAttemptsTotal.WithLabelValues("false").Inc()
		s.logger.WithField("email", email).WithError(err).Info("Login failed")
		return nil, err
	}
	prometheus.AuthAttemptsTotal.WithLabelValues("true").Inc()
	return payload, nil
}

// RefreshToken issues a new token pair for the caller
func (s *Service) RefreshToken(ctx context.Context, id *auth.Identity) (*models.AuthPayload, error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	u, err := fetch[models.User](ctx, s.store, store.Users, caller.SubjectID, "User not found")
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

// Logout is stateless: tokens expire on their own
func (s *Service) Logout(ctx context.Context, id *auth.Identity) bool {
	if id.Authenticated() {
		s.logger.WithField("user_id", id.SubjectID).Debug("User logged out")
	}
	return true
}

// Me returns the caller's account
func (s *Service) Me(ctx context.Context, id *auth.Identity) (*models.User, error) {
	caller, err := auth.RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}
	return fetch[models.User](ctx, s.store, store.Users, caller.SubjectID, "User not found")
}

// GetUser returns a user by id
func (s *Service) GetUser(ctx context.Context, rawID string) (*models.User, error) {
	return fetchRaw[models.User](ctx, s.store, store.Users, rawID, "User ID", "User not found")
}

// ListUsers pages through every account, newest first
func (s *Service) ListUsers(ctx context.Context, id *auth.Identity, in *query.PaginationInput) (*models.Page[*models.User], error) {
	if _, err := auth.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}
	return query.Paginate[*models.User](ctx, s.store, store.Users, query.All(), query.Sort("createdAt", query.Desc), in)
}

// UpdateProfile changes the caller's display fields
func (s *Service) UpdateProfile(ctx context.Context, id *auth.Identity, in models.UpdateProfileInput) (*models.User, error) {
	return mutation.Run(ctx, id, mutation.Pipeline[*models.User]{
		Require: auth.Authenticated(),
		Validate: func() error {
			if in.Name != nil && len(strings.TrimSpace(*in.Name)) < 2 {
				return apperr.Validation("Name must be at least 2 characters")
			}
			return nil
		},
		Write: func(ctx context.Context, caller *auth.Identity) (*models.User, error) {
			u, err := fetch[models.User](ctx, s.store, store.Users, caller.SubjectID, "User not found")
			if err != nil {
				return nil, err
			}
			if in.Name != nil {
				u.Name = strings.TrimSpace(*in.Name)
			}
			if in.Bio != nil {
				u.Bio = *in.Bio
			}
			if in.Avatar != nil {
				u.Avatar = *in.Avatar
			}
			u.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Users, u.ID, u); err != nil {
				return nil, err
			}
			return u, nil
		},
	})
}

// ChangePassword replaces the caller's password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, id *auth.Identity, in models.ChangePasswordInput) (bool, error) {
	var u *models.User
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require:  auth.Authenticated(),
		Validate: func() error { return passwordError(in.NewPassword) },
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			u, err = fetch[models.User](ctx, s.store, store.Users, caller.SubjectID, "User not found")
			if err != nil {
				return err
			}
			if !auth.ComparePassword(u.PasswordHash, in.CurrentPassword) {
				return apperr.Validation("Current password is incorrect")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			return true, s.setPassword(ctx, u, in.NewPassword)
		},
	})
}

func (s *Service) setPassword(ctx context.Context, u *models.User, password string) error {
	hash, err := auth.HashPassword(password, s.opts.BcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	u.UpdatedAt = s.now()
	return s.store.Replace(ctx, store.Users, u.ID, u)
}

// RequestPasswordReset issues a reset token when the account exists. It
// reports success either way so callers cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	return mutation.Run(ctx, nil, mutation.Pipeline[bool]{
		Public:   true,
		Validate: func() error { return emailError(email) },
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			u, err := store.LoadOne[models.User](ctx, s.store, store.Users, query.Eq("email", email))
			if errors.Is(err, store.ErrNotFound) {
				return true, nil
			}
			if err != nil {
				return false, err
			}

			token, err := auth.GenerateRandomToken(AccountTokenLength)
			if err != nil {
				return false, err
			}
			expires := s.now().Add(s.opts.TokenTTL)
			u.PasswordResetToken = token
			u.PasswordResetExpires = &expires
			u.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Users, u.ID, u); err != nil {
				return false, err
			}

			// No mail transport: the token is only logged
			s.logger.WithFields(logrus.Fields{"user_id": u.ID, "token": token}).Info("Password reset token issued")
			return true, nil
		},
	})
}

// ResetPassword sets a new password using an unexpired reset token
func (s *Service) ResetPassword(ctx context.Context, in models.ResetPasswordInput) (bool, error) {
	var u *models.User
	return mutation.Run(ctx, nil, mutation.Pipeline[bool]{
		Public: true,
		Validate: func() error {
			if strings.TrimSpace(in.Token) == "" {
				return apperr.Validation("Invalid or expired reset token")
			}
			return passwordError(in.NewPassword)
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			u, err = s.userByToken(ctx, "passwordResetToken", "passwordResetExpires", in.Token)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Validation("Invalid or expired reset token")
			}
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			return true, s.setPassword(ctx, u, in.NewPassword)
		},
	})
}

// VerifyEmail marks the account holding token as verified
func (s *Service) VerifyEmail(ctx context.Context, token string) (bool, error) {
	var u *models.User
	return mutation.Run(ctx, nil, mutation.Pipeline[bool]{
		Public: true,
		Validate: func() error {
			if strings.TrimSpace(token) == "" {
				return apperr.Validation("Invalid or expired verification token")
			}
			return nil
		},
		Check: func(ctx context.Context, _ *auth.Identity) error {
			var err error
			u, err = s.userByToken(ctx, "emailVerificationToken", "emailVerificationExpires", token)
			if errors.Is(err, store.ErrNotFound) {
				return apperr.Validation("Invalid or expired verification token")
			}
			return err
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			u.IsEmailVerified = true
			u.EmailVerificationToken = ""
			u.EmailVerificationExpires = nil
			u.UpdatedAt = s.now()
			return true, s.store.Replace(ctx, store.Users, u.ID, u)
		},
	})
}

// RequestEmailVerification issues a verification token for the caller
func (s *Service) RequestEmailVerification(ctx context.Context, id *auth.Identity) (bool, error) {
	var u *models.User
	return mutation.Run(ctx, id, mutation.Pipeline[bool]{
		Require: auth.Authenticated(),
		Check: func(ctx context.Context, caller *auth.Identity) error {
			var err error
			u, err = fetch[models.User](ctx, s.store, store.Users, caller.SubjectID, "User not found")
			if err != nil {
				return err
			}
			if u.IsEmailVerified {
				return apperr.Validation("Email is already verified")
			}
			return nil
		},
		Write: func(ctx context.Context, _ *auth.Identity) (bool, error) {
			token, err := auth.GenerateRandomToken(AccountTokenLength)
			if err != nil {
				return false, err
			}
			expires := s.now().Add(s.opts.TokenTTL)
			u.EmailVerificationToken = token
			u.EmailVerificationExpires = &expires
			u.UpdatedAt = s.now()
			if err := s.store.Replace(ctx, store.Users, u.ID, u); err != nil {
				return false, err
			}

			s.logger.WithFields(logrus.Fields{"user_id": u.ID, "token": token}).Info("E-mail verification token issued")
			return true, nil
		},
	})
}

func (s *Service) userByToken(ctx context.Context, tokenField, expiryField, token string) (*models.User, error) {
	return store.LoadOne[models.User](ctx, s.store, store.Users, query.And(
		query.Eq(tokenField, token),
		query.Gt(expiryField, s.now()),
	))
}
