package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

var (
	// ErrInvalidID is returned for malformed entity identifiers
	ErrInvalidID = errors.New("invalid identifier")
	// ErrInvalidValue is returned for enumerated values outside their set
	ErrInvalidValue = errors.New("invalid value")
)

// InvalidIDError reports which identifier was malformed
type InvalidIDError struct {
	Label string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("Invalid %s format", e.Label)
}

func (e *InvalidIDError) Is(target error) bool { return target == ErrInvalidID }

// ParseID validates an identifier and returns it in canonical form
func ParseID(raw, label string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", &InvalidIDError{Label: label, Value: raw}
	}
	return id.String(), nil
}

// ParseIDs validates every identifier in raw
func ParseIDs(raw []string, label string) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := ParseID(r, label)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Text fields searched by free-text novel search
var NovelSearchFields = []string{"title", "titleUrdu", "description", "descriptionUrdu"}

// NovelFilter is the typed form of NovelFilterInput. Nil fields add no clause.
type NovelFilter struct {
	Search     *string
	AuthorID   *string
	CategoryID *string
	TagIDs     []string
	Status     *string
	Language   *string
}

// BuildNovelFilter turns a filter input into an AND of one clause per supplied field.
// Malformed ids and unknown enum tokens fail before any query runs.
func BuildNovelFilter(f *NovelFilter) (Predicate, error) {
	if f == nil {
		return All(), nil
	}

	var clauses []Predicate

	if f.Search != nil {
		if s := strings.TrimSpace(*f.Search); s != "" {
			clauses = append(clauses, Contains(s, NovelSearchFields...))
		}
	}
	if f.AuthorID != nil {
		id, err := ParseID(*f.AuthorID, "Author ID")
		if err != nil {
			return Predicate{}, err
		}
		clauses = append(clauses, Eq("authorId", id))
	}
	if f.CategoryID != nil {
		id, err := ParseID(*f.CategoryID, "Category ID")
		if err != nil {
			return Predicate{}, err
		}
		clauses = append(clauses, Eq("categoryId", id))
	}
	if len(f.TagIDs) > 0 {
		ids, err := ParseIDs(f.TagIDs, "Tag ID")
		if err != nil {
			return Predicate{}, err
		}
		values := make([]any, len(ids))
		for i, id := range ids {
			values[i] = id
		}
		clauses = append(clauses, In("tagIds", values...))
	}
	if f.Status != nil {
		st, err := models.ParseNovelStatus(*f.Status)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		clauses = append(clauses, Eq("status", string(st)))
	}
	if f.Language != nil {
		lang, err := models.ParseLanguage(*f.Language)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		clauses = append(clauses, Eq("language", string(lang)))
	}

	return And(clauses...), nil
}
