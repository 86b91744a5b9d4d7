package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

// defineCategoryType defines the Category GraphQL type
func (s *Schema) defineCategoryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"icon":        &graphql.Field{Type: graphql.String},
				"color":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"isActive":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"createdAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Category).URL(), nil
					},
				},
				"novels": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.novel)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.NovelsByCategory(p.Context, p.Source.(*models.Category).ID, args(p.Args).pagination())
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

// defineTagType defines the Tag GraphQL type
func (s *Schema) defineTagType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Tag",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.Field{Type: graphql.String},
				"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"color":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"isActive":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"createdAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"url": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.Tag).URL(), nil
					},
				},
				"novels": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.novel)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.NovelsByTag(p.Context, p.Source.(*models.Tag).ID, args(p.Args).pagination())
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

func slugArg() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
}

func (s *Schema) taxonomyQueries() graphql.Fields {
	return graphql.Fields{
		"category": &graphql.Field{
			Type: s.types.category,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetCategory(p.Context, args(p.Args).str("id"))
			},
		},
		"categoryBySlug": &graphql.Field{
			Type: s.types.category,
			Args: slugArg(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.CategoryBySlug(p.Context, args(p.Args).str("slug"))
			},
		},
		"categories": &graphql.Field{
			Type: graphql.NewNonNull(s.types.categoryConnection),
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.ListCategories(p.Context, args(p.Args).pagination())
			},
		},
		"tag": &graphql.Field{
			Type: s.types.tag,
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.GetTag(p.Context, args(p.Args).str("id"))
			},
		},
		"tagBySlug": &graphql.Field{
			Type: s.types.tag,
			Args: slugArg(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.TagBySlug(p.Context, args(p.Args).str("slug"))
			},
		},
		"tags": &graphql.Field{
			Type: graphql.NewNonNull(s.types.tagConnection),
			Args: withPagination(graphql.FieldConfigArgument{}),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.ListTags(p.Context, args(p.Args).pagination())
			},
		},
		"searchTags": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(s.types.tag))),
			Args: graphql.FieldConfigArgument{
				"search": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.SearchTags(p.Context, args(p.Args).str("search"))
			},
		},
	}
}

func (s *Schema) taxonomyMutations() graphql.Fields {
	str := graphql.String
	required := graphql.NewNonNull(graphql.String)

	createCategory := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: required},
			"description": &graphql.InputObjectFieldConfig{Type: required},
			"slug":        &graphql.InputObjectFieldConfig{Type: required},
			"icon":        &graphql.InputObjectFieldConfig{Type: str},
			"color":       &graphql.InputObjectFieldConfig{Type: str},
		},
	})
	updateCategory := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: str},
			"description": &graphql.InputObjectFieldConfig{Type: str},
			"slug":        &graphql.InputObjectFieldConfig{Type: str},
			"icon":        &graphql.InputObjectFieldConfig{Type: str},
			"color":       &graphql.InputObjectFieldConfig{Type: str},
			"isActive":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
	createTag := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTagInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: required},
			"description": &graphql.InputObjectFieldConfig{Type: str},
			"slug":        &graphql.InputObjectFieldConfig{Type: required},
			"color":       &graphql.InputObjectFieldConfig{Type: str},
		},
	})
	updateTag := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTagInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: str},
			"description": &graphql.InputObjectFieldConfig{Type: str},
			"slug":        &graphql.InputObjectFieldConfig{Type: str},
			"color":       &graphql.InputObjectFieldConfig{Type: str},
			"isActive":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	return graphql.Fields{
		"createCategory": &graphql.Field{
			Type: graphql.NewNonNull(s.types.category),
			Args: inputArg(createCategory),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.CreateCategory(p.Context, caller(p), models.CreateCategoryInput{
					Name:        in.str("name"),
					Description: in.str("description"),
					Slug:        in.str("slug"),
					Icon:        in.optStr("icon"),
					Color:       in.optStr("color"),
				})
			},
		},
		"updateCategory": &graphql.Field{
			Type: graphql.NewNonNull(s.types.category),
			Args: withID(inputArg(updateCategory)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				in := a.obj("input")
				return s.svc.UpdateCategory(p.Context, caller(p), a.str("id"), models.UpdateCategoryInput{
					Name:        in.optStr("name"),
					Description: in.optStr("description"),
					Slug:        in.optStr("slug"),
					Icon:        in.optStr("icon"),
					Color:       in.optStr("color"),
					IsActive:    in.optBool("isActive"),
				})
			},
		},
		"deleteCategory": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteCategory(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
		"createTag": &graphql.Field{
			Type: graphql.NewNonNull(s.types.tag),
			Args: inputArg(createTag),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := args(p.Args).obj("input")
				return s.svc.CreateTag(p.Context, caller(p), models.CreateTagInput{
					Name:        in.str("name"),
					Description: in.optStr("description"),
					Slug:        in.str("slug"),
					Color:       in.optStr("color"),
				})
			},
		},
		"updateTag": &graphql.Field{
			Type: graphql.NewNonNull(s.types.tag),
			Args: withID(inputArg(updateTag)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				a := args(p.Args)
				in := a.obj("input")
				return s.svc.UpdateTag(p.Context, caller(p), a.str("id"), models.UpdateTagInput{
					Name:        in.optStr("name"),
					Description: in.optStr("description"),
					Slug:        in.optStr("slug"),
					Color:       in.optStr("color"),
					IsActive:    in.optBool("isActive"),
				})
			},
		},
		"deleteTag": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: idArg("id"),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return s.svc.DeleteTag(p.Context, caller(p), args(p.Args).str("id"))
			},
		},
	}
}
