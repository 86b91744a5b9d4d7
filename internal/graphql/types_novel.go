package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

// defineNovelType defines the Novel GraphQL type. Author, category and tags
// are batched through the request's loaders.
func (s *Schema) defineNovelType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Novel",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"titleUrdu":         &graphql.Field{Type: graphql.String},
				"description":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"descriptionUrdu":   &graphql.Field{Type: graphql.String},
				"coverImage":        &graphql.Field{Type: graphql.String},
				"status":            &graphql.Field{Type: graphql.NewNonNull(novelStatusEnum)},
				"language":          &graphql.Field{Type: graphql.NewNonNull(novelLanguageEnum)},
				"totalChapters":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"publishedChapters": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"averageRating":     &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
				"totalRatings":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"totalViews":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"totalFavorites":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"isPublished":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"publishedAt":       &graphql.Field{Type: dateScalar},
				"lastUpdated":       &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"createdAt":         &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":         &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Novel).URL(), nil
					},
				},
				"slug": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Novel).Slug(), nil
					},
				},
				"completionPercentage": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Novel).CompletionPercentage(), nil
					},
				},
				"author": &graphql.Field{
					Type: s.types.author,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Author(p.Context, p.Source.(*models.Novel).AuthorID)
					}),
				},
				"category": &graphql.Field{
					Type: s.types.category,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Category(p.Context, p.Source.(*models.Novel).CategoryID)
					}),
				},
				"tags": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.tag)),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Tags(p.Context, p.Source.(*models.Novel).TagIDs)
					}),
				},
				"chapters": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.chapter)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.ChaptersByNovel(p.Context, p.Source.(*models.Novel).ID, args(p.Args).pagination())
						if err != nil {
							return nil, err
						}
						return page.Data, nil
					}),
				},
				"reviews": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.review)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.ReviewsByNovel(p.Context, p.Source.(*models.Novel).ID, args(p.Args).pagination())
						if err != nil {
							return nil, err
						}
						return page.Data, nil
					}),
				},
			}
		}),
	})
}

var novelStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "NovelStats",
	Fields: graphql.Fields{
		"totalNovels":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"publishedNovels": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalChapters":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalViews":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalFavorites":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var novelFilterInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "NovelFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"search":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"categoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"authorId":   &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"tagIds":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
		"status":     &graphql.InputObjectFieldConfig{Type: novelStatusEnum},
		"language":   &graphql.InputObjectFieldConfig{Type: novelLanguageEnum},
	},
})

func novelFilter(in args) *query.NovelFilter {
	if in == nil {
		return nil
	}
	return &query.NovelFilter{
		Search:     in.optStr("search"),
		AuthorID:   in.optStr("authorId"),
		CategoryID: in.optStr("categoryId"),
		TagIDs:     in.strs("tagIds"),
		Status:     in.optEnum("status"),
		Language:   in.optEnum("language"),
	}
}

func (s *Schema) novelQueries() graphql.Fields {
	connection := graphql.NewNonNull(s.types.novelConnection)

	return graphql.Fields{
		"novel": &graphql.Field{
			Type: s.types.novel,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetNovel(p.Context, args(p.Args).str("id"))
			},
		},
		"novels": &graphql.Field{
			Type: connection,
			Args: withPagination(graphql.FieldConfigArgument{
				"filter":    &graphql.ArgumentConfig{Type: novelFilterInputType},
				"sortBy":    &graphql.ArgumentConfig{Type: novelSortByEnum},
				"sortOrder": &graphql.ArgumentConfig{Type: sortOrderEnum},
			}),
			Resolve: s.resolveNovels,
		},
		"searchNovels": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.types.novel))),
			Args: graphql.FieldConfigArgument{
				"search": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.SearchNovels(p.Context, args(p.Args).str("search"))
			},
		},
		"novelsByAuthor": &graphql.Field{
			Type: connection,
			Args: withPagination(idArg("authorId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.NovelsByAuthor(p.Context, a.str("authorId"), a.pagination())
			},
		},
		"novelsByCategory": &graphql.Field{
			Type: connection,
			Args: withPagination(idArg("categoryId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.NovelsByCategory(p.Context, a.str("categoryId"), a.pagination())
			},
		},
		"novelsByTag": &graphql.Field{
			Type: connection,
			Args: withPagination(idArg("tagId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.NovelsByTag(p.Context, a.str("tagId"), a.pagination())
			},
		},
		"novelStats": &graphql.Field{
			Type: graphql.NewNonNull(novelStatsType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.NovelStats(p.Context, caller(p))
			},
		},
	}
}

func (s *Schema) resolveNovels(p graphql.ResolveParams) (interface{}, error) {
	a := args(p.Args)
	return s.svc.ListNovels(p.Context, novelFilter(a.obj("filter")), a.pagination(), a.optEnum("sortBy"), a.optEnum("sortOrder"))
}

func (s *Schema) novelMutations() graphql.Fields {
	str := graphql.String
	ids := graphql.NewList(graphql.NewNonNull(graphql.ID))

	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateNovelInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"titleUrdu":       &graphql.InputObjectFieldConfig{Type: str},
			"description":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"descriptionUrdu": &graphql.InputObjectFieldConfig{Type: str},
			"authorId":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"categoryId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"tagIds":          &graphql.InputObjectFieldConfig{Type: ids},
			"coverImage":      &graphql.InputObjectFieldConfig{Type: str},
			"status":          &graphql.InputObjectFieldConfig{Type: novelStatusEnum},
			"language":        &graphql.InputObjectFieldConfig{Type: novelLanguageEnum},
			"totalChapters":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateNovelInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":           &graphql.InputObjectFieldConfig{Type: str},
			"titleUrdu":       &graphql.InputObjectFieldConfig{Type: str},
			"description":     &graphql.InputObjectFieldConfig{Type: str},
			"descriptionUrdu": &graphql.InputObjectFieldConfig{Type: str},
			"authorId":        &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"categoryId":      &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"tagIds":          &graphql.InputObjectFieldConfig{Type: ids},
			"coverImage":      &graphql.InputObjectFieldConfig{Type: str},
			"status":          &graphql.InputObjectFieldConfig{Type: novelStatusEnum},
			"language":        &graphql.InputObjectFieldConfig{Type: novelLanguageEnum},
			"totalChapters":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	novel := graphql.NewNonNull(s.types.novel)

	return graphql.Fields{
		"createNovel": &graphql.Field{
			Type:    novel,
			Args:    inputArg(createInput),
			Resolve: s.resolveCreateNovel,
		},
		"updateNovel": &graphql.Field{
			Type:    novel,
			Args:    withID(inputArg(updateInput)),
			Resolve: s.resolveUpdateNovel,
		},
		"deleteNovel": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteNovel(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"publishNovel": &graphql.Field{
			Type: novel,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.PublishNovel(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"unpublishNovel": &graphql.Field{
			Type: novel,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.UnpublishNovel(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
	}
}

func (s *Schema) resolveCreateNovel(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.CreateNovel(p.Context, caller(p), models.CreateNovelInput{
		Title:           in.str("title"),
		TitleUrdu:       in.optStr("titleUrdu"),
		Description:     in.str("description"),
		DescriptionUrdu: in.optStr("descriptionUrdu"),
		AuthorID:        in.str("authorId"),
		CategoryID:      in.str("categoryId"),
		TagIDs:          in.strs("tagIds"),
		CoverImage:      in.optStr("coverImage"),
		Status:          in.optEnum("status"),
		Language:        in.optEnum("language"),
		TotalChapters:   in.optInt("totalChapters"),
	})
}

func (s *Schema) resolveUpdateNovel(p graphql.ResolveParams) (interface{}, error) {
	a := args(p.Args)
	in := a.obj("input")
	return s.svc.UpdateNovel(p.Context, caller(p), a.str("id"), models.UpdateNovelInput{
		Title:           in.optStr("title"),
		TitleUrdu:       in.optStr("titleUrdu"),
		Description:     in.optStr("description"),
		DescriptionUrdu: in.optStr("descriptionUrdu"),
		AuthorID:        in.optStr("authorId"),
		CategoryID:      in.optStr("categoryId"),
		TagIDs:          in.strs("tagIds"),
		CoverImage:      in.optStr("coverImage"),
		Status:          in.optEnum("status"),
		Language:        in.optEnum("language"),
		TotalChapters:   in.optInt("totalChapters"),
	})
}
