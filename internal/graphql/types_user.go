package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

// defineUserType defines the User GraphQL type. Credentials and account
// tokens are never exposed, and the e-mail only to its owner or an admin.
func (s *Schema) defineUserType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"role":            &graphql.Field{Type: graphql.NewNonNull(userRoleEnum)},
				"avatar":          &graphql.Field{Type: graphql.String},
				"bio":             &graphql.Field{Type: graphql.String},
				"isEmailVerified": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"lastLogin":       &graphql.Field{Type: dateScalar},
				"isActive":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"createdAt":       &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"updatedAt":       &graphql.Field{Type: graphql.NewNonNull(dateScalar)},
				"profileUrl": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*models.User).ProfileURL(), nil
					},
				},
				// Only the account owner and admins see the address
				"email": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						u := p.Source.(*models.User)
						if auth.OwnerOrAdmin(caller(p), u.ID, "") != nil {
							return nil, nil
						}
						return u.Email, nil
					},
				},
				"reviews": &graphql.Field{
					Type: graphql.NewList(graphql.NewNonNull(s.types.review)),
					Args: withPagination(graphql.FieldConfigArgument{}),
					Resolve: s.guard(func(p graphql.ResolveParams) (interface{}, error) {
						page, err := s.svc.ReviewsByUser(p.Context, p.Source.(*models.User).ID, args(p.Args).pagination())
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

// defineAuthResponseType defines the AuthResponse GraphQL type
func (s *Schema) defineAuthResponseType() *graphql.Object {
	session := graphql.NewObject(graphql.ObjectConfig{
		Name: "SessionUser",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role":            &graphql.Field{Type: graphql.NewNonNull(userRoleEnum)},
			"avatar":          &graphql.Field{Type: graphql.String},
			"isEmailVerified": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthResponse",
		Fields: graphql.Fields{
			"user":         &graphql.Field{Type: graphql.NewNonNull(session)},
			"token":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"refreshToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

// defineUserStatsType defines the UserStats GraphQL type
func (s *Schema) defineUserStatsType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "UserStats",
		Fields: graphql.Fields{
			"totalUsers":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeUsers":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"newUsersThisMonth": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"verifiedUsers":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

func (s *Schema) defineUserInputs() map[string]*graphql.InputObject {
	str := graphql.String
	required := graphql.NewNonNull(graphql.String)
	return map[string]*graphql.InputObject{
		"register": graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "RegisterInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"name":     &graphql.InputObjectFieldConfig{Type: required},
				"email":    &graphql.InputObjectFieldConfig{Type: required},
				"password": &graphql.InputObjectFieldConfig{Type: required},
				"role":     &graphql.InputObjectFieldConfig{Type: userRoleEnum},
			},
		}),
		"login": graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "LoginInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"email":    &graphql.InputObjectFieldConfig{Type: required},
				"password": &graphql.InputObjectFieldConfig{Type: required},
			},
		}),
		"updateProfile": graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "UpdateProfileInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"name":   &graphql.InputObjectFieldConfig{Type: str},
				"bio":    &graphql.InputObjectFieldConfig{Type: str},
				"avatar": &graphql.InputObjectFieldConfig{Type: str},
			},
		}),
		"changePassword": graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "ChangePasswordInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"currentPassword": &graphql.InputObjectFieldConfig{Type: required},
				"newPassword":     &graphql.InputObjectFieldConfig{Type: required},
			},
		}),
		"resetPassword": graphql.NewInputObject(graphql.InputObjectConfig{
			Name: "ResetPasswordInput",
			Fields: graphql.InputObjectConfigFieldMap{
				"token":       &graphql.InputObjectFieldConfig{Type: required},
				"newPassword": &graphql.InputObjectFieldConfig{Type: required},
			},
		}),
	}
}

func (s *Schema) userQueries() graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type:    s.types.user,
			Resolve: s.resolveMe,
		},
		"user": &graphql.Field{
			Type:    s.types.user,
			Args:    idArg("id"),
			Resolve: s.resolveUser,
		},
		"users": &graphql.Field{
			Type:    graphql.NewNonNull(s.types.userConnection),
			Args:    withPagination(graphql.FieldConfigArgument{}),
			Resolve: s.resolveUsers,
		},
		"userStats": &graphql.Field{
			Type:    graphql.NewNonNull(s.defineUserStatsType()),
			Resolve: s.resolveUserStats,
		},
	}
}

func (s *Schema) userMutations() graphql.Fields {
	inputs := s.defineUserInputs()
	authResponse := graphql.NewNonNull(s.types.authResponse)
	boolean := graphql.NewNonNull(graphql.Boolean)

	return graphql.Fields{
		"register": &graphql.Field{
			Type:    authResponse,
			Args:    inputArg(inputs["register"]),
			Resolve: s.resolveRegister,
		},
		"login": &graphql.Field{
			Type:    authResponse,
			Args:    inputArg(inputs["login"]),
			Resolve: s.resolveLogin,
		},
		"refreshToken": &graphql.Field{
			Type:    authResponse,
			Resolve: s.resolveRefreshToken,
		},
		"logout": &graphql.Field{
			Type:    boolean,
			Resolve: s.resolveLogout,
		},
		"updateProfile": &graphql.Field{
			Type:    graphql.NewNonNull(s.types.user),
			Args:    inputArg(inputs["updateProfile"]),
			Resolve: s.resolveUpdateProfile,
		},
		"changePassword": &graphql.Field{
			Type:    boolean,
			Args:    inputArg(inputs["changePassword"]),
			Resolve: s.resolveChangePassword,
		},
		"requestPasswordReset": &graphql.Field{
			Type: boolean,
			Args: graphql.FieldConfigArgument{
				"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveRequestPasswordReset,
		},
		"resetPassword": &graphql.Field{
			Type:    boolean,
			Args:    inputArg(inputs["resetPassword"]),
			Resolve: s.resolveResetPassword,
		},
		"verifyEmail": &graphql.Field{
			Type: boolean,
			Args: graphql.FieldConfigArgument{
				"token": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: s.resolveVerifyEmail,
		},
		"requestEmailVerification": &graphql.Field{
			Type:    boolean,
			Resolve: s.resolveRequestEmailVerification,
		},
	}
}

// ============================================================================
// USER QUERY RESOLVERS
// ============================================================================

func (s *Schema) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.Me(p.Context, caller(p))
}

func (s *Schema) resolveUser(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.GetUser(p.Context, args(p.Args).str("id"))
}

func (s *Schema) resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.ListUsers(p.Context, caller(p), args(p.Args).pagination())
}

func (s *Schema) resolveUserStats(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.UserStats(p.Context, caller(p))
}

// ============================================================================
// USER MUTATION RESOLVERS
// ============================================================================

func (s *Schema) resolveRegister(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.Register(p.Context, models.RegisterInput{
		Name:     in.str("name"),
		Email:    in.str("email"),
		Password: in.str("password"),
		Role:     in.optEnum("role"),
	})
}

func (s *Schema) resolveLogin(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.Login(p.Context, models.LoginInput{
		Email:    in.str("email"),
		Password: in.str("password"),
	})
}

func (s *Schema) resolveRefreshToken(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.RefreshToken(p.Context, caller(p))
}

func (s *Schema) resolveLogout(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.Logout(p.Context, caller(p)), nil
}

func (s *Schema) resolveUpdateProfile(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.UpdateProfile(p.Context, caller(p), models.UpdateProfileInput{
		Name:   in.optStr("name"),
		Bio:    in.optStr("bio"),
		Avatar: in.optStr("avatar"),
	})
}

func (s *Schema) resolveChangePassword(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.ChangePassword(p.Context, caller(p), models.ChangePasswordInput{
		CurrentPassword: in.str("currentPassword"),
		NewPassword:     in.str("newPassword"),
	})
}

func (s *Schema) resolveRequestPasswordReset(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.RequestPasswordReset(p.Context, args(p.Args).str("email"))
}

func (s *Schema) resolveResetPassword(p graphql.ResolveParams) (interface{}, error) {
	in := args(p.Args).obj("input")
	return s.svc.ResetPassword(p.Context, models.ResetPasswordInput{
		Token:       in.str("token"),
		NewPassword: in.str("newPassword"),
	})
}

func (s *Schema) resolveVerifyEmail(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.VerifyEmail(p.Context, args(p.Args).str("token"))
}

func (s *Schema) resolveRequestEmailVerification(p graphql.ResolveParams) (interface{}, error) {
	return s.svc.RequestEmailVerification(p.Context, caller(p))
}

// caller returns the identity the auth middleware resolved for this request
func caller(p graphql.ResolveParams) *auth.Identity {
	return auth.IdentityFromContext(p.Context)
}
