package auth

import (
	"testing"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestRequireOwner(t *testing.T) {
	owner := Principal{UserID: 1, Role: models.RoleStudent}
	other := Principal{UserID: 2, Role: models.RoleStudent}
	admin := Principal{UserID: 3, Role: models.RoleAdmin}

	assert.NoError(t, RequireOwner(owner, 1, "item"))
	assert.ErrorIs(t, RequireOwner(other, 1, "item"), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, RequireOwner(admin, 1, "item"), apperrors.ErrPermissionDenied)

	assert.NoError(t, RequireOwnerOrAdmin(admin, 1, "item"))
	assert.ErrorIs(t, RequireOwnerOrAdmin(other, 1, "item"), apperrors.ErrPermissionDenied)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(Principal{UserID: 1, Role: models.RoleAdmin}))
	assert.ErrorIs(t, RequireAdmin(Principal{UserID: 1, Role: models.RoleStudent}), apperrors.ErrPermissionDenied)
}

func TestZeroPrincipalOwnsNothing(t *testing.T) {
	assert.False(t, Principal{}.IsOwner(0))
}
