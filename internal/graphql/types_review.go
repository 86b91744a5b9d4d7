package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

// defineReviewType defines the Review GraphQL type
func (s *Schema) defineReviewType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"rating":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"title":            &graphql.Field{Type: graphql.String},
				"comment":          &graphql.Field{Type: graphql.String},
				"isModerated":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"isApproved":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"moderatedAt":      &graphql.Field{Type: dateScalar},
				"moderationReason": &graphql.Field{Type: graphql.String},
				"helpfulVotes":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"totalVotes":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
				"createdAt":        &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":        &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Review).URL(), nil
					},
				},
				"helpfulPercentage": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Review).HelpfulPercentage(), nil
					},
				},
				"moderatedBy": &graphql.Field{
					Type: s.types.user,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).User(p.Context, p.Source.(*models.Review).ModeratedBy)
					}),
				},
				"user": &graphql.Field{
					Type: s.types.user,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).User(p.Context, p.Source.(*models.Review).UserID)
					}),
				},
				"novel": &graphql.Field{
					Type: s.types.novel,
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						return s.loaders(p.Context).Novel(p.Context, p.Source.(*models.Review).NovelID)
					}),
				},
			}
		}),
	})
}

func (s *Schema) reviewQueries() graphql.Fields {
	connection := graphql.NewNonNull(s.types.reviewConnection)

	return graphql.Fields{
		"review": &graphql.Field{
			Type: s.types.review,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetReview(p.Context, args(p.Args).str("id"))
			},
		},
		"reviewsByNovel": &graphql.Field{
			Type: connection,
			Args: withPagination(idArg("novelId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.ReviewsByNovel(p.Context, a.str("novelId"), a.pagination())
			},
		},
		"reviewsByUser": &graphql.Field{
			Type: connection,
			Args: withPagination(idArg("userId")),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.ReviewsByUser(p.Context, a.str("userId"), a.pagination())
			},
		},
		"pendingReviews": &graphql.Field{
			Type: connection,
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.PendingReviews(p.Context, caller(p), args(p.Args).pagination())
			},
		},
	}
}

func (s *Schema) reviewMutations() graphql.Fields {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateReviewInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"novelId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"rating":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"comment": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateReviewInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"rating":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"comment": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	moderateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ModerateReviewInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isApproved": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Boolean)},
			"reason":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	review := graphql.NewNonNull(s.types.review)

	return graphql.Fields{
		"createReview": &graphql.Field{
			Type: review,
			Args: inputArg(createInput),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.CreateReview(p.Context, caller(p), models.CreateReviewInput{
					NovelID: in.str("novelId"),
					Rating:  in.integer("rating"),
					Title:   in.optStr("title"),
					Comment: in.optStr("comment"),
				})
			},
		},
		"updateReview": &graphql.Field{
			Type: review,
			Args: withID(inputArg(updateInput)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				in := a.obj("input")
				return s.svc.UpdateReview(p.Context, caller(p), a.str("id"), models.UpdateReviewInput{
					Rating:  in.optInt("rating"),
					Title:   in.optStr("title"),
					Comment: in.optStr("comment"),
				})
			},
		},
		"deleteReview": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteReview(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"voteReview": &graphql.Field{
			Type: review,
			Args: withID(graphql.FieldConfigArgument{
				"isHelpful": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
			}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				return s.svc.VoteReview(p.Context, caller(p), a.str("id"), a.boolean("isHelpful"))
			},
		},
		"moderateReview": &graphql.Field{
			Type: review,
			Args: withID(inputArg(moderateInput)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				in := a.obj("input")
				return s.svc.ModerateReview(p.Context, caller(p), a.str("id"), models.ModerateReviewInput{
					IsApproved: in.boolean("isApproved"),
					Reason:     in.optStr("reason"),
				})
			},
		},
	}
}
