package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

// defineChapterType defines the Chapter GraphQL type
func (s *Schema) defineChapterType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Chapter",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"titleUrdu":      &graphql.Field{Type: graphql.String},
				"content":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"contentUrdu":    &graphql.Field{Type: graphql.String},
				"chapterNumber":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"wordCount":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"readingTime":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"isPublished":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"publishedAt":    &graphql.Field{Type: dateScalar},
				"totalViews":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"totalBookmarks": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"createdAt":      &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":      &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Chapter).URL(), nil
					},
				},
				"novel": &graphql.Field{
					Type: s.types.novel,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Novel(p.Context, p.Source.(*models.Chapter).NovelID)
					}),
				},
				"nextChapter": &graphql.Field{
					Type: s.types.chapter,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.svc.NextChapter(p.Context, p.Source.(*models.Chapter))
					}),
				},
				"previousChapter": &graphql.Field{
					Type: s.types.chapter,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.svc.PreviousChapter(p.Context, p.Source.(*models.Chapter))
					}),
				},
			}
		}),
	})
}

func (s *Schema) chapterQueries() graphql.Fields {
	return graphql.Fields{
		"chapter": &graphql.Field{
			Type: s.types.chapter,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetChapter(p.Context, args(p.Args).str("id"))
			},
		},
		"chapterByNovelAndNumber": &graphql.Field{
			Type: s.types.chapter,
			Args: graphql.FieldConfigArgument{
				"novelId":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"chapterNumber": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.ChapterByNovelAndNumber(p.Context, a.str("novelId"), a.integer("chapterNumber"))
			},
		},
		"chaptersByNovel": &graphql.Field{
			Type: graphql.NewNonNull(s.types.chapterConnection),
			Args: withPagination(idArg("novelId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.ChaptersByNovel(p.Context, a.str("novelId"), a.pagination())
			},
		},
	}
}

func (s *Schema) chapterMutations() graphql.Fields {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateChapterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"novelId":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"titleUrdu":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"content":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"contentUrdu":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"chapterNumber": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateChapterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"titleUrdu":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"content":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"contentUrdu":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"chapterNumber": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	chapter := graphql.NewNonNull(s.types.chapter)

	return graphql.Fields{
		"createChapter": &graphql.Field{
			Type: chapter,
			Args: inputArg(createInput),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.CreateChapter(p.Context, caller(p), models.CreateChapterInput{
					NovelID:       in.str("novelId"),
					Title:         in.str("title"),
					TitleUrdu:     in.optStr("titleUrdu"),
					Content:       in.str("content"),
					ContentUrdu:   in.optStr("contentUrdu"),
					ChapterNumber: in.integer("chapterNumber"),
				})
			},
		},
		"updateChapter": &graphql.Field{
			Type: chapter,
			Args: withID(inputArg(updateInput)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				in := a.obj("input")
				return s.svc.UpdateChapter(p.Context, caller(p), a.str("id"), models.UpdateChapterInput{
					Title:         in.optStr("title"),
					TitleUrdu:     in.optStr("titleUrdu"),
					Content:       in.optStr("content"),
					ContentUrdu:   in.optStr("contentUrdu"),
					ChapterNumber: in.optInt("chapterNumber"),
				})
			},
		},
		"deleteChapter": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteChapter(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"publishChapter": &graphql.Field{
			Type: chapter,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.PublishChapter(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"unpublishChapter": &graphql.Field{
			Type: chapter,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.UnpublishChapter(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
	}
}
