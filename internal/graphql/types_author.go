package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

var socialLinksType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SocialLinks",
	Fields: graphql.Fields{
		"twitter":   &graphql.Field{Type: graphql.String},
		"facebook":  &graphql.Field{Type: graphql.String},
		"instagram": &graphql.Field{Type: graphql.String},
		"website":   &graphql.Field{Type: graphql.String},
	},
})

var socialLinksInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SocialLinksInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"twitter":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"facebook":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"instagram": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"website":   &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// defineAuthorType defines the Author GraphQL type
func (s *Schema) defineAuthorType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Author",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"bio":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"avatar":      &graphql.Field{Type: graphql.String},
				"website":     &graphql.Field{Type: graphql.String},
				"socialLinks": &graphql.Field{Type: socialLinksType},
				"birthDate":   &graphql.Field{Type: dateScalar},
				"nationality": &graphql.Field{Type: graphql.String},
				"isActive":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"createdAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"profileUrl": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Author).ProfileURL(), nil
					},
				},
				"novels": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.novel)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.NovelsByAuthor(p.Context, p.Source.(*models.Author).ID, args(p.Args).pagination())
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

func socialLinks(in args) *models.SocialLinks {
	if in == nil {
		return nil
	}
	return &models.SocialLinks{
		Twitter:   in.str("twitter"),
		Facebook:  in.str("facebook"),
		Instagram: in.str("instagram"),
		Website:   in.str("website"),
	}
}

func (s *Schema) authorQueries() graphql.Fields {
	return graphql.Fields{
		"author": &graphql.Field{
			Type: s.types.author,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetAuthor(p.Context, args(p.Args).str("id"))
			},
		},
		"authors": &graphql.Field{
			Type: graphql.NewNonNull(s.types.authorConnection),
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.ListAuthors(p.Context, args(p.Args).pagination())
			},
		},
		"searchAuthors": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.types.author))),
			Args: graphql.FieldConfigArgument{
				"search": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.SearchAuthors(p.Context, args(p.Args).str("search"))
			},
		},
	}
}

func (s *Schema) authorMutations() graphql.Fields {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateAuthorInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"bio":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"avatar":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"website":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"socialLinks": &graphql.InputObjectFieldConfig{Type: socialLinksInputType},
			"birthDate":   &graphql.InputObjectFieldConfig{Type: dateScalar},
			"nationality": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateAuthorInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"bio":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"avatar":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"website":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"socialLinks": &graphql.InputObjectFieldConfig{Type: socialLinksInputType},
			"birthDate":   &graphql.InputObjectFieldConfig{Type: dateScalar},
			"nationality": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isActive":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	return graphql.Fields{
		"createAuthor": &graphql.Field{
			Type:    graphql.NewNonNull(s.types.author),
			Args:    inputArg(createInput),
			Resolve: s.resolveCreateAuthor,
		},
		"updateAuthor": &graphql.Field{
			Type:    graphql.NewNonNull(s.types.author),
			Args:    withID(inputArg(updateInput)),
			Resolve: s.resolveUpdateAuthor,
		},
		"deleteAuthor": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteAuthor(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
	}
}

func (s *Schema) resolveCreateAuthor(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.CreateAuthor(p.Context, caller(p), models.CreateAuthorInput{
		Name:        in.str("name"),
		Bio:         in.str("bio"),
		Avatar:      in.optStr("avatar"),
		Website:     in.optStr("website"),
		SocialLinks: socialLinks(in.obj("socialLinks")),
		BirthDate:   in.optTime("birthDate"),
		Nationality: in.optStr("nationality"),
	})
}

func (s *Schema) resolveUpdateAuthor(p graphql.ResolveParams) (interface{}, error) {
	a := args(p.Args)
	in := a.obj("input")
	return s.svc.UpdateAuthor(p.Context, caller(p), a.str("id"), models.UpdateAuthorInput{
		Name:        in.optStr("name"),
		Bio:         in.optStr("bio"),
		Avatar:      in.optStr("avatar"),
		Website:     in.optStr("website"),
		SocialLinks: socialLinks(in.obj("socialLinks")),
		BirthDate:   in.optTime("birthDate"),
		Nationality: in.optStr("nationality"),
		IsActive:    in.optBool("isActive"),
	})
}
