// Package authz provides the ownership and role guards every mutating
// operation runs through.
package authz

import (
	"fmt"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// Action names the attempted operation in denial messages.
type Action string

const (
	ActionAccess Action = "access"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// RequireOwner allows the operation when the resource's owner equals the
// requester, and denies it with Forbidden otherwise. The denial message
// names the action and resource but never reveals anything about other
// owners' resources; callers must resolve existence (NotFound) before
// calling this guard.
func RequireOwner(requester, owner string, action Action, resource string) error {
	if requester != "" && requester == owner {
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("You don't have permission to %s this %s", action, resource))
}

// RequireRole allows the operation when the requester holds the required
// role. It needs no resource, so it is evaluated before any lookup.
func RequireRole(role, required user.Role) error {
	if role == required {
		return nil
	}
	return apperr.AccessDenied(fmt.Sprintf("This operation requires the %s role", required))
}
