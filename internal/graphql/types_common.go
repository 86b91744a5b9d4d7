package graphql

import (
	"fmt"
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
)

// dateScalar carries timestamps as RFC 3339 strings. Inputs may also be bare dates.
var dateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "RFC 3339 timestamp",
	Serialize: func(value interface{}) interface{} {
		switch t := value.(type) {
		case time.Time:
			return t.UTC().Format(time.RFC3339)
		case *time.Time:
			if t == nil {
				return nil
			}
			return t.UTC().Format(time.RFC3339)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseDate(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		s, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		return parseDate(s.Value)
	},
})

func parseDate(s string) interface{} {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

// ============================================================================
// ENUMS
// ============================================================================

func enumOf[T ~string](name string, values []T) *graphql.Enum {
	cfg := graphql.EnumValueConfigMap{}
	for _, v := range values {
		cfg[strings.ToUpper(string(v))] = &graphql.EnumValueConfig{Value: v}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: name, Values: cfg})
}

var (
	userRoleEnum      = enumOf("UserRole", models.Roles())
	novelStatusEnum   = enumOf("NovelStatus", models.NovelStatuses())
	novelLanguageEnum = enumOf("NovelLanguage", models.Languages())
	novelSortByEnum   = enumOf("NovelSortBy", []string{"title", "rating", "views", "favorites", "updated", "published", "created"})
	sortOrderEnum     = enumOf("SortOrder", []string{"asc", "desc"})
)

// ============================================================================
// PAGINATION
// ============================================================================

var paginationInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PaginationInfo",
	Fields: graphql.Fields{
		"page":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"limit":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"total":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"hasNext":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"hasPrev":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var paginationInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "PaginationInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"page":  &graphql.InputObjectFieldConfig{Type: graphql.Int, Description: "Page number (default: 1)"},
		"limit": &graphql.InputObjectFieldConfig{Type: graphql.Int, Description: "Items per page (default: 10, max: 100)"},
	},
})

// defineConnection wraps item in the {data, pagination} envelope
func defineConnection(name string, item graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"data":       &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(item)))},
			"pagination": &graphql.Field{Type: graphql.NewNonNull(paginationInfoType)},
		},
	})
}

var paginationArgs = graphql.FieldConfigArgument{
	"pagination": &graphql.ArgumentConfig{Type: paginationInputType},
}

// withPagination returns args plus the pagination argument
func withPagination(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["pagination"] = paginationArgs["pagination"]
	return args
}

func idArg(name string) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		name: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
}

// withID adds the required id argument to args
func withID(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	return args
}

func inputArg(t graphql.Input) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)},
	}
}

// ============================================================================
// ARGUMENT DECODING
// ============================================================================

// args reads resolver arguments and input objects
type args map[string]interface{}

func (a args) str(key string) string {
	s, _ := a[key].(string)
	return s
}

func (a args) optStr(key string) *string {
	if s, ok := a[key].(string); ok {
		return &s
	}
	return nil
}

func (a args) integer(key string) int {
	n, _ := a[key].(int)
	return n
}

func (a args) optInt(key string) *int {
	if n, ok := a[key].(int); ok {
		return &n
	}
	return nil
}

func (a args) boolean(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func (a args) optBool(key string) *bool {
	if b, ok := a[key].(bool); ok {
		return &b
	}
	return nil
}

func (a args) optTime(key string) *time.Time {
	if t, ok := a[key].(time.Time); ok {
		return &t
	}
	return nil
}

// optEnum returns the stored token of an enum argument
func (a args) optEnum(key string) *string {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	s := fmt.Sprint(v)
	return &s
}

func (a args) strs(key string) []string {
	raw, ok := a[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (a args) obj(key string) args {
	m, _ := a[key].(map[string]interface{})
	return args(m)
}

func (a args) pagination() *query.PaginationInput {
	m := a.obj("pagination")
	if m == nil {
		return nil
	}
	return &query.PaginationInput{Page: m.optInt("page"), Limit: m.optInt("limit")}
}

// ============================================================================
// ERROR HANDLING
// ============================================================================

// guard classifies resolver errors. Unclassified errors are logged and
// masked as internal errors.
func (s *Schema) guard(fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v, err := fn(p)
		if err == nil {
			return v, nil
		}
		translated := apperr.Translate(err, s.production)
		if translated.Kind == apperr.KindInternal {
			s.logger.WithError(err).WithField("field", p.Info.FieldName).Error("Resolver failed")
		}
		return nil, translated
	}
}

// guarded wraps every resolver of fields with guard
func (s *Schema) guarded(fields graphql.Fields) graphql.Fields {
	for _, f := range fields {
		if f.Resolve != nil {
			f.Resolve = s.guard(f.Resolve)
		}
	}
	return fields
}

// ============================================================================
// HEALTH AND STATS
// ============================================================================

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"driver":        &graphql.Field{Type: graphql.String},
		"poolSize":      &graphql.Field{Type: graphql.Int},
		"available":     &graphql.Field{Type: graphql.Int},
		"inUse":         &graphql.Field{Type: graphql.Int},
		"totalRequests": &graphql.Field{Type: graphql.Int},
	},
})

var healthType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Health",
	Fields: graphql.Fields{
		"status":    &graphql.Field{Type: graphql.String},
		"timestamp": &graphql.Field{Type: graphql.Int},
		"store":     &graphql.Field{Type: graphql.Boolean},
	},
})

func (s *Schema) commonQueries() graphql.Fields {
	return graphql.Fields{
		"health": &graphql.Field{Type: healthType, Resolve: s.resolveHealth},
		"stats":  &graphql.Field{Type: statsType, Resolve: s.resolveStats},
	}
}

func (s *Schema) resolveHealth(p graphql.ResolveParams) (interface{}, error) {
	healthy := s.store.HealthCheck(p.Context) == nil
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return &models.HealthStatus{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Store:     healthy,
	}, nil
}

func (s *Schema) resolveStats(p graphql.ResolveParams) (interface{}, error) {
	return s.store.GetStats(), nil
}
