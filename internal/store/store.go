package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

// Collection names
const (
	Users           = "users"
	Authors         = "authors"
	Categories      = "categories"
	Tags            = "tags"
	Novels          = "novels"
	Chapters        = "chapters"
	Reviews         = "reviews"
	Favorites       = "favorites"
	Bookmarks       = "bookmarks"
	ReadingProgress = "reading_progress"
)

var (
	// ErrNotFound is returned when no document matches
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate document")
)

// DuplicateError names the unique index a write violated
type DuplicateError struct {
	Collection string
	Fields     []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", strings.Join(e.Fields, ", "))
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// UniqueIndexes lists the compound unique keys per collection. The Postgres
// migrations create matching expression indexes.
var UniqueIndexes = map[string][][]string{
	Users:           {{"email"}},
	Categories:      {{"name"}, {"slug"}},
	Tags:            {{"name"}, {"slug"}},
	Chapters:        {{"novelId", "chapterNumber"}},
	Reviews:         {{"userId", "novelId"}},
	Favorites:       {{"userId", "novelId"}},
	Bookmarks:       {{"userId", "chapterId"}},
	ReadingProgress: {{"userId", "novelId"}},
}

// Store is a JSON document store. Documents are addressed by collection and id;
// every document carries its id under the "id" key.
type Store interface {
	query.Source

	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	FindOne(ctx context.Context, collection string, where query.Predicate) (json.RawMessage, error)
	Insert(ctx context.Context, collection, id string, doc any) error
	Replace(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	DeleteWhere(ctx context.Context, collection string, where query.Predicate) (int, error)
	// Set atomically overwrites the given top-level fields of one document
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Increment atomically adds delta to a numeric field, flooring at zero
	Increment(ctx context.Context, collection, id, field string, delta int) error
	Sum(ctx context.Context, collection string, where query.Predicate, field string) (int, error)

	HealthCheck(ctx context.Context) error
	GetStats() *models.Stats
	Close() error
}

// Load fetches a document by id and decodes it into T
func Load[T any](ctx context.Context, s Store, collection, id string) (*T, error) {
	raw, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &v, nil
}

// LoadOne fetches the first document matching where and decodes it into T
func LoadOne[T any](ctx context.Context, s Store, collection string, where query.Predicate) (*T, error) {
	raw, err := s.FindOne(ctx, collection, where)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return &v, nil
}

// LoadAll runs q and decodes every document into T
func LoadAll[T any](ctx context.Context, s Store, collection string, q query.Query) ([]*T, error) {
	raw, err := s.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	docs, err := query.Decode[*T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return docs, nil
}

// Exists reports whether any document matches where
func Exists(ctx context.Context, s Store, collection string, where query.Predicate) (bool, error) {
	_, err := s.FindOne(ctx, collection, where)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
