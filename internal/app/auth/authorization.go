package auth

import (
	"fmt"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
)

// Principal is the authenticated caller of a service operation
type Principal struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IsOwner reports whether the caller is the given owner.
func (p Principal) IsOwner(ownerID int64) bool {
	return p.UserID > 0 && p.UserID == ownerID
}

// RequireOwner fails with a forbidden error unless the caller owns the resource.
func RequireOwner(p Principal, ownerID int64, resource string) error {
	if p.IsOwner(ownerID) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("only the owner can modify this %s", resource))
}

// RequireOwnerOrAdmin also lets administrators through.
func RequireOwnerOrAdmin(p Principal, ownerID int64, resource string) error {
	if p.IsOwner(ownerID) || p.IsAdmin() {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("only the owner or an administrator can modify this %s", resource))
}

// RequireAdmin fails unless the caller is an administrator.
func RequireAdmin(p Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperrors.NewForbiddenError("administrator role required")
}
