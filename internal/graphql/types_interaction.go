package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

// defineBookmarkType defines the Bookmark GraphQL type
func (s *Schema) defineBookmarkType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Bookmark",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"note":      &graphql.Field{Type: graphql.String},
				"createdAt": &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Bookmark).URL(), nil
					},
				},
				"user": &graphql.Field{
					Type: s.types.user,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).User(p.Context, p.Source.(*models.Bookmark).UserID)
					}),
				},
				"novel": &graphql.Field{
					Type: s.types.novel,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Novel(p.Context, p.Source.(*models.Bookmark).NovelID)
					}),
				},
				"chapter": &graphql.Field{
					Type: s.types.chapter,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Chapter(p.Context, p.Source.(*models.Bookmark).ChapterID)
					}),
				},
			}
		}),
	})
}

// defineReadingProgressType defines the ReadingProgress GraphQL type
func (s *Schema) defineReadingProgressType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "ReadingProgress",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":                &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"lastReadAt":        &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"isCompleted":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"completedAt":       &graphql.Field{Type: dateScalar},
				"totalChaptersRead": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"createdAt":         &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":         &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.ReadingProgress).URL(), nil
					},
				},
				// Chapter totals are not tracked per reader, so this stays 0.
				"progressPercentage": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return 0, nil
					},
				},
				"user": &graphql.Field{
					Type: s.types.user,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).User(p.Context, p.Source.(*models.ReadingProgress).UserID)
					}),
				},
				"novel": &graphql.Field{
					Type: s.types.novel,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Novel(p.Context, p.Source.(*models.ReadingProgress).NovelID)
					}),
				},
				"currentChapter": &graphql.Field{
					Type: s.types.chapter,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Chapter(p.Context, p.Source.(*models.ReadingProgress).CurrentChapterID)
					}),
				},
			}
		}),
	})
}

func (s *Schema) interactionQueries() graphql.Fields {
	progressList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.types.progress)))

	return graphql.Fields{
		"myFavorites": &graphql.Field{
			Type: graphql.NewNonNull(s.types.novelConnection),
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MyFavorites(p.Context, caller(p), args(p.Args).pagination())
			},
		},
		"myBookmarks": &graphql.Field{
			Type: graphql.NewNonNull(s.types.bookmarkConnection),
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MyBookmarks(p.Context, caller(p), args(p.Args).pagination())
			},
		},
		"myReadingProgress": &graphql.Field{
			Type: progressList,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MyReadingProgress(p.Context, caller(p))
			},
		},
		"myCurrentReading": &graphql.Field{
			Type: progressList,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MyCurrentReading(p.Context, caller(p))
			},
		},
		"myCompletedNovels": &graphql.Field{
			Type: progressList,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MyCompletedNovels(p.Context, caller(p))
			},
		},
		"isFavorited": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("novelId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.IsFavorited(p.Context, caller(p), args(p.Args).str("novelId"))
			},
		},
		"isBookmarked": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("chapterId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.IsBookmarked(p.Context, caller(p), args(p.Args).str("chapterId"))
			},
		},
	}
}

func (s *Schema) interactionMutations() graphql.Fields {
	bookmarkInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddBookmarkInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"novelId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"chapterId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"note":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	progressInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateReadingProgressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"novelId":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"chapterId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	return graphql.Fields{
		"toggleFavorite": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("novelId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.ToggleFavorite(p.Context, caller(p), args(p.Args).str("novelId"))
			},
		},
		"addBookmark": &graphql.Field{
			Type: graphql.NewNonNull(s.types.bookmark),
			Args: inputArg(bookmarkInput),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.AddBookmark(p.Context, caller(p), models.AddBookmarkInput{
					NovelID:   in.str("novelId"),
					ChapterID: in.str("chapterId"),
					Note:      in.optStr("note"),
				})
			},
		},
		"removeBookmark": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("chapterId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.RemoveBookmark(p.Context, caller(p), args(p.Args).str("chapterId"))
			},
		},
		"updateReadingProgress": &graphql.Field{
			Type: graphql.NewNonNull(s.types.progress),
			Args: inputArg(progressInput),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.UpdateReadingProgress(p.Context, caller(p), models.UpdateReadingProgressInput{
					NovelID:   in.str("novelId"),
					ChapterID: in.str("chapterId"),
				})
			},
		},
		"markNovelCompleted": &graphql.Field{
			Type: graphql.NewNonNull(s.types.progress),
			Args: idArg("novelId"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.MarkNovelCompleted(p.Context, caller(p), args(p.Args).str("novelId"))
			},
		},
	}
}
