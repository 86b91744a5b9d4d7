// Package seed creates the initial accounts and catalogue taxonomy. Every
// step is idempotent, so seeding on each start is safe.
package seed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/catalog"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Initializer writes a Spec into a store
type Initializer struct {
	store      store.Store
	bcryptCost int
	logger     *logrus.Logger
	timeout    time.Duration
	now        func() time.Time
}

// NewInitializer creates a new initializer
func NewInitializer(st store.Store, bcryptCost int, logger *logrus.Logger, timeout time.Duration) *Initializer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Initializer{
		store:      st,
		bcryptCost: bcryptCost,
		logger:     logger,
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WaitForReady polls the store until it answers health checks
func (i *Initializer) WaitForReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	if i.store.HealthCheck(ctx) == nil {
		return nil
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	i.logger.Info("Waiting for document store to be ready")
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for document store: %w", ctx.Err())
		case <-ticker.C:
			if err := i.store.HealthCheck(ctx); err != nil {
				i.logger.WithError(err).Debug("Document store not ready yet")
				continue
			}
			i.logger.Info("Document store is ready")
			return nil
		}
	}
}

// Initialize creates every document in spec that does not exist yet.
// Individual failures are logged and skipped.
func (i *Initializer) Initialize(ctx context.Context, spec *Spec) error {
	if spec == nil {
		return nil
	}

	i.logger.WithField("hash", ComputeHash(spec)).Info("Starting seed")

	for _, u := range spec.Users {
		if err := i.createUser(ctx, u); err != nil {
			i.logger.WithError(err).WithField("email", u.Email).Warn("Failed to create user")
		}
	}
	for _, a := range spec.Authors {
		if err := i.createAuthor(ctx, a); err != nil {
			i.logger.WithError(err).WithField("author", a.Name).Warn("Failed to create author")
		}
	}
	for _, c := range spec.Categories {
		if err := i.createCategory(ctx, c); err != nil {
			i.logger.WithError(err).WithField("category", c.Name).Warn("Failed to create category")
		}
	}
	for _, t := range spec.Tags {
		if err := i.createTag(ctx, t); err != nil {
			i.logger.WithError(err).WithField("tag", t.Name).Warn("Failed to create tag")
		}
	}

	i.logger.Info("Seed completed")
	return nil
}

// insert stores doc, treating a unique index hit as already seeded
func (i *Initializer) insert(ctx context.Context, collection, id, label string, doc any) error {
	err := i.store.Insert(ctx, collection, id, doc)
	if errors.Is(err, store.ErrDuplicate) {
		i.logger.WithFields(logrus.Fields{"collection": collection, "key": label}).Debug("Already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create %s %s: %w", collection, label, err)
	}
	i.logger.WithFields(logrus.Fields{"collection": collection, "key": label}).Info("Created")
	return nil
}

// createUser stores an account with a hashed password. The e-mail is
// treated as verified.
func (i *Initializer) createUser(ctx context.Context, spec UserSpec) error {
	email := strings.ToLower(strings.TrimSpace(spec.Email))
	if !auth.IsValidEmail(email) {
		return fmt.Errorf("invalid email %q", spec.Email)
	}

	role := models.RoleReader
	if spec.Role != "" {
		r, err := models.ParseRole(spec.Role)
		if err != nil {
			return err
		}
		role = r
	}

	hash, err := auth.HashPassword(spec.Password, i.bcryptCost)
	if err != nil {
		return err
	}

	now := i.now()
	u := &models.User{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(spec.Name),
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return i.insert(ctx, store.Users, u.ID, email, u)
}

// createAuthor skips authors whose name is taken, as authors have no unique index
func (i *Initializer) createAuthor(ctx context.Context, spec AuthorSpec) error {
	name := strings.TrimSpace(spec.Name)
	exists, err := store.Exists(ctx, i.store, store.Authors, query.Eq("name", name))
	if err != nil {
		return err
	}
	if exists {
		i.logger.WithField("author", name).Debug("Author already exists")
		return nil
	}

	now := i.now()
	a := &models.Author{
		ID:          uuid.NewString(),
		Name:        name,
		Bio:         strings.TrimSpace(spec.Bio),
		Nationality: spec.Nationality,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return i.insert(ctx, store.Authors, a.ID, name, a)
}

func (i *Initializer) createCategory(ctx context.Context, spec CategorySpec) error {
	slug := slugOr(spec.Slug, spec.Name)
	now := i.now()
	c := &models.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(spec.Name),
		Description: strings.TrimSpace(spec.Description),
		Slug:        slug,
		Icon:        spec.Icon,
		Color:       orDefault(spec.Color, catalog.DefaultCategoryColor),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return i.insert(ctx, store.Categories, c.ID, slug, c)
}

func (i *Initializer) createTag(ctx context.Context, spec TagSpec) error {
	slug := slugOr(spec.Slug, spec.Name)
	now := i.now()
	t := &models.Tag{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(spec.Name),
		Description: strings.TrimSpace(spec.Description),
		Slug:        slug,
		Color:       orDefault(spec.Color, catalog.DefaultTagColor),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return i.insert(ctx, store.Tags, t.ID, slug, t)
}

func slugOr(slug, name string) string {
	if s := models.Slugify(slug); s != "" {
		return s
	}
	return models.Slugify(name)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ParseSpec parses a Spec from JSON
func ParseSpec(data []byte) (*Spec, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse seed JSON: %w", err)
	}
	return &spec, nil
}

// LoadSpec reads a Spec from path, or returns DefaultSpec when path is empty
func LoadSpec(path string) (*Spec, error) {
	if path == "" {
		return DefaultSpec(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSpec(data)
}

// ComputeHash fingerprints a spec for change detection in logs
func ComputeHash(spec *Spec) string {
	if spec == nil {
		return ""
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return ""
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// DefaultSpec returns the built-in taxonomy. It creates no accounts.
func DefaultSpec() *Spec {
	return &Spec{
		Categories: []CategorySpec{
			{Name: "Romance", Description: "Love stories and relationships"},
			{Name: "Mystery", Description: "Crime, detectives and suspense"},
			{Name: "Fantasy", Description: "Magic, myth and other worlds"},
			{Name: "Historical Fiction", Description: "Stories set in the past"},
			{Name: "Social Drama", Description: "Family and society"},
		},
		Tags: []TagSpec{
			{Name: "Slow Burn"},
			{Name: "Family Saga"},
			{Name: "Coming of Age"},
			{Name: "Based on True Events"},
		},
	}
}
