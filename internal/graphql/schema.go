package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/catalog"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/config"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/loader"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// objectTypes holds the object types that reference each other
type objectTypes struct {
	user         *graphql.Object
	authResponse *graphql.Object
	author       *graphql.Object
	category     *graphql.Object
	tag          *graphql.Object
	novel        *graphql.Object
	chapter      *graphql.Object
	review       *graphql.Object
	bookmark     *graphql.Object
	progress     *graphql.Object

	userConnection     *graphql.Object
	authorConnection   *graphql.Object
	categoryConnection *graphql.Object
	tagConnection      *graphql.Object
	novelConnection    *graphql.Object
	chapterConnection  *graphql.Object
	reviewConnection   *graphql.Object
	bookmarkConnection *graphql.Object
}

// Schema represents the GraphQL schema
type Schema struct {
	schema     graphql.Schema
	svc        *catalog.Service
	store      store.Store
	types      objectTypes
	production bool
	logger     *logrus.Logger
}

// NewSchema creates a new GraphQL schema
func NewSchema(svc *catalog.Service, st store.Store, cfg *config.Config, logger *logrus.Logger) *Schema {
	s := &Schema{
		svc:        svc,
		store:      st,
		production: cfg.IsProduction(),
		logger:     logger,
	}

	// Define types. Relations are resolved lazily through field thunks.
	s.types.user = s.defineUserType()
	s.types.authResponse = s.defineAuthResponseType()
	s.types.author = s.defineAuthorType()
	s.types.category = s.defineCategoryType()
	s.types.tag = s.defineTagType()
	s.types.novel = s.defineNovelType()
	s.types.chapter = s.defineChapterType()
	s.types.review = s.defineReviewType()
	s.types.bookmark = s.defineBookmarkType()
	s.types.progress = s.defineReadingProgressType()

	// Define paginated types
	s.types.userConnection = defineConnection("UserConnection", s.types.user)
	s.types.authorConnection = defineConnection("AuthorConnection", s.types.author)
	s.types.categoryConnection = defineConnection("CategoryConnection", s.types.category)
	s.types.tagConnection = defineConnection("TagConnection", s.types.tag)
	s.types.novelConnection = defineConnection("NovelConnection", s.types.novel)
	s.types.chapterConnection = defineConnection("ChapterConnection", s.types.chapter)
	s.types.reviewConnection = defineConnection("ReviewConnection", s.types.review)
	s.types.bookmarkConnection = defineConnection("BookmarkConnection", s.types.bookmark)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: s.guarded(merge(
			s.commonQueries(),
			s.userQueries(),
			s.authorQueries(),
			s.taxonomyQueries(),
			s.novelQueries(),
			s.chapterQueries(),
			s.reviewQueries(),
			s.interactionQueries(),
		)),
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: s.guarded(merge(
			s.userMutations(),
			s.authorMutations(),
			s.taxonomyMutations(),
			s.novelMutations(),
			s.chapterMutations(),
			s.reviewMutations(),
			s.interactionMutations(),
		)),
	})

	schemaConfig := graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create schema")
	}

	s.schema = schema
	return s
}

// GetSchema returns the GraphQL schema
func (s *Schema) GetSchema() graphql.Schema {
	return s.schema
}

// loaders returns the request's batching registry. Calls outside an HTTP
// request get an unshared one.
func (s *Schema) loaders(ctx context.Context) *loader.Registry {
	if r := loader.For(ctx); r != nil {
		return r
	}
	return loader.NewRegistry(s.store)
}

func merge(groups ...graphql.Fields) graphql.Fields {
	out := graphql.Fields{}
	for _, g := range groups {
		for name, f := range g {
			out[name] = f
		}
	}
	return out
}
