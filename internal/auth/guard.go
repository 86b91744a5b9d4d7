package auth

import (
	"slices"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/apperr"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

type requirementKind int

const (
	anyAuthenticated requirementKind = iota
	exactRole
	anyOfRoles
)

// Requirement is what an operation demands of the caller's identity
type Requirement struct {
	kind  requirementKind
	roles []models.Role
}

// Authenticated is satisfied by any signed-in identity
func Authenticated() Requirement { return Requirement{kind: anyAuthenticated} }

// Role is satisfied by identities holding role
func Role(role models.Role) Requirement {
	return Requirement{kind: exactRole, roles: []models.Role{role}}
}

// AnyRole is satisfied by identities holding one of roles
func AnyRole(roles ...models.Role) Requirement {
	return Requirement{kind: anyOfRoles, roles: roles}
}

// Satisfies is the single authorization policy. Admins satisfy every requirement.
func Satisfies(id *Identity, req Requirement) bool {
	if !id.Authenticated() {
		return false
	}
	if id.Role == models.RoleAdmin {
		return true
	}
	switch req.kind {
	case anyAuthenticated:
		return true
	case exactRole, anyOfRoles:
		return slices.Contains(req.roles, id.Role)
	}
	return false
}

// Check fails with an Unauthenticated error for anonymous callers and a
// Forbidden error when the identity does not satisfy req.
func Check(id *Identity, req Requirement) (*Identity, error) {
	if !id.Authenticated() {
		return nil, apperr.Unauthenticated("")
	}
	if !Satisfies(id, req) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}
	return id, nil
}

func RequireAuthenticated(id *Identity) (*Identity, error) {
	return Check(id, Authenticated())
}

func RequireRole(id *Identity, role models.Role) (*Identity, error) {
	return Check(id, Role(role))
}

func RequireAnyRole(id *Identity, roles ...models.Role) (*Identity, error) {
	return Check(id, AnyRole(roles...))
}

// OwnerOrAdmin fails with Forbidden unless id owns the resource or is an admin
func OwnerOrAdmin(id *Identity, ownerID, msg string) error {
	if _, err := RequireAuthenticated(id); err != nil {
		return err
	}
	if id.SubjectID != ownerID && !Satisfies(id, Role(models.RoleAdmin)) {
		return apperr.Forbidden(msg)
	}
	return nil
}
