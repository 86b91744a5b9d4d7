package graphql

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/catalog"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/config"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/loader"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

type fixture struct {
	schema *Schema
	store  *store.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := store.NewMemoryStore(logger)
	tokens := auth.NewTokenIssuer("test-secret", "novel-api", "novel-clients", time.Hour)
	svc := catalog.New(loader.Invalidating(st), tokens, catalog.Options{BcryptCost: bcrypt.MinCost}, logger)
	return &fixture{
		schema: NewSchema(svc, st, &config.Config{Environment: "test"}, logger),
		store:  st,
	}
}

// do runs a request the way the HTTP stack would, with a fresh loader registry
func (f *fixture) do(t *testing.T, id *auth.Identity, request string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	ctx := loader.WithRegistry(context.Background(), loader.NewRegistry(f.store))
	if id != nil {
		ctx = auth.WithIdentity(ctx, id)
	}
	return graphql.Do(graphql.Params{
		Schema:         f.schema.GetSchema(),
		RequestString:  request,
		VariableValues: vars,
		Context:        ctx,
	})
}

func (f *fixture) insert(t *testing.T, collection, id string, doc any) {
	t.Helper()
	require.NoError(t, f.store.Insert(context.Background(), collection, id, doc))
}

func errorCode(t *testing.T, res *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, res.Errors)
	code, _ := res.Errors[0].Extensions["code"].(string)
	return code
}

func admin() *auth.Identity {
	return &auth.Identity{SubjectID: uuid.NewString(), Role: models.RoleAdmin, Active: true}
}

func TestAnonymousMutationIsUnauthenticated(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, nil, `mutation {
		createNovel(input: {title: "T", description: "D", authorId: "a", categoryId: "c"}) { id }
	}`, nil)

	require.Equal(t, "UNAUTHENTICATED", errorCode(t, res))
	n, err := f.store.Count(context.Background(), store.Novels, query.All())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReaderCannotCreateCategory(t *testing.T) {
	f := newFixture(t)
	reader := &auth.Identity{SubjectID: uuid.NewString(), Role: models.RoleReader, Active: true}

	res := f.do(t, reader, `mutation {
		createCategory(input: {name: "Fantasy", description: "Dragons", slug: "fantasy"}) { id }
	}`, nil)

	require.Equal(t, "FORBIDDEN", errorCode(t, res))
}

func TestMalformedIDIsBadInput(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, nil, `{ novel(id: "not-an-id") { id } }`, nil)

	require.Equal(t, "BAD_USER_INPUT", errorCode(t, res))
}

func TestNovelsQueryResolvesRelations(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()

	author := &models.Author{ID: uuid.NewString(), Name: "Umera Ahmed", Bio: "Writer", IsActive: true, CreatedAt: now, UpdatedAt: now}
	tag := &models.Tag{ID: uuid.NewString(), Name: "Classic", Slug: "classic", Color: "#000000", IsActive: true, CreatedAt: now, UpdatedAt: now}
	f.insert(t, store.Authors, author.ID, author)
	f.insert(t, store.Tags, tag.ID, tag)

	for i, status := range []models.NovelStatus{models.StatusCompleted, models.StatusCompleted, models.StatusOngoing} {
		n := &models.Novel{
			ID:                uuid.NewString(),
			Title:             fmt.Sprintf("Novel %d", i),
			Description:       "Test",
			AuthorID:          author.ID,
			CategoryID:        uuid.NewString(),
			TagIDs:            []string{tag.ID},
			Status:            status,
			Language:          models.LanguageUrdu,
			TotalChapters:     4,
			PublishedChapters: 1,
			IsPublished:       true,
			LastUpdated:       now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		f.insert(t, store.Novels, n.ID, n)
	}

	res := f.do(t, nil, `query($filter: NovelFilterInput) {
		novels(filter: $filter, sortBy: TITLE, sortOrder: DESC, pagination: {page: 1, limit: 1}) {
			data {
				title status language completionPercentage
				author { name }
				tags { slug }
			}
			pagination { total totalPages hasNext hasPrev }
		}
	}`, map[string]interface{}{"filter": map[string]interface{}{"status": "COMPLETED"}})
	require.Empty(t, res.Errors)

	novels := res.Data.(map[string]interface{})["novels"].(map[string]interface{})
	data := novels["data"].([]interface{})
	require.Len(t, data, 1)

	first := data[0].(map[string]interface{})
	require.Equal(t, "Novel 1", first["title"])
	require.Equal(t, "COMPLETED", first["status"])
	require.Equal(t, "URDU", first["language"])
	require.Equal(t, 25, first["completionPercentage"])
	require.Equal(t, "Umera Ahmed", first["author"].(map[string]interface{})["name"])
	require.Equal(t, []interface{}{map[string]interface{}{"slug": "classic"}}, first["tags"])

	pagination := novels["pagination"].(map[string]interface{})
	require.Equal(t, 2, pagination["total"])
	require.Equal(t, 2, pagination["totalPages"])
	require.Equal(t, true, pagination["hasNext"])
	require.Equal(t, false, pagination["hasPrev"])
}

func TestAdminCreatesCategory(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, admin(), `mutation($input: CreateCategoryInput!) {
		createCategory(input: $input) { name slug url isActive }
	}`, map[string]interface{}{"input": map[string]interface{}{
		"name":        "Historical Fiction",
		"description": "Stories set in the past",
		"slug":        "Historical Fiction",
	}})
	require.Empty(t, res.Errors)

	created := res.Data.(map[string]interface{})["createCategory"].(map[string]interface{})
	require.Equal(t, "historical-fiction", created["slug"])
	require.Equal(t, "/categories/historical-fiction", created["url"])
	require.Equal(t, true, created["isActive"])

	again := f.do(t, admin(), `mutation {
		createCategory(input: {name: "Other", description: "Another shelf of old stories", slug: "historical-fiction"}) { id }
	}`, nil)
	require.Equal(t, "CONFLICT", errorCode(t, again))
}

func TestRegisterThenMe(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, nil, `mutation {
		register(input: {name: "Ayesha", email: "ayesha@example.com", password: "Secret123"}) {
			token
			user { email role }
		}
	}`, nil)
	require.Empty(t, res.Errors)

	payload := res.Data.(map[string]interface{})["register"].(map[string]interface{})
	require.NotEmpty(t, payload["token"])
	user := payload["user"].(map[string]interface{})
	require.Equal(t, "ayesha@example.com", user["email"])
	require.Equal(t, "READER", user["role"])

	anonymous := f.do(t, nil, `{ me { id } }`, nil)
	require.Equal(t, "UNAUTHENTICATED", errorCode(t, anonymous))
}

func TestUserEmailVisibleToOwnerAndAdmin(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	u := &models.User{
		ID: uuid.NewString(), Name: "Hamza", Email: "hamza@example.com",
		Role: models.RoleReader, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	f.insert(t, store.Users, u.ID, u)

	request := `query($id: ID!) { user(id: $id) { name email } }`
	vars := map[string]interface{}{"id": u.ID}
	emailFor := func(id *auth.Identity) interface{} {
		res := f.do(t, id, request, vars)
		require.Empty(t, res.Errors)
		return res.Data.(map[string]interface{})["user"].(map[string]interface{})["email"]
	}

	stranger := &auth.Identity{SubjectID: uuid.NewString(), Role: models.RoleReader, Active: true}
	owner := &auth.Identity{SubjectID: u.ID, Role: models.RoleReader, Active: true}

	require.Nil(t, emailFor(nil))
	require.Nil(t, emailFor(stranger))
	require.Equal(t, "hamza@example.com", emailFor(owner))
	require.Equal(t, "hamza@example.com", emailFor(admin()))
}

func TestHealthQuery(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, nil, `{ health { status store } stats { driver } }`, nil)
	require.Empty(t, res.Errors)

	data := res.Data.(map[string]interface{})
	require.Equal(t, "healthy", data["health"].(map[string]interface{})["status"])
	require.Equal(t, true, data["health"].(map[string]interface{})["store"])
	require.Equal(t, "memory", data["stats"].(map[string]interface{})["driver"])
}
