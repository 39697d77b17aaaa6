package authz

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		owner     string
		wantDeny  bool
	}{
		{name: "owner is allowed", requester: "alice", owner: "alice", wantDeny: false},
		{name: "other user is denied", requester: "bob", owner: "carol", wantDeny: true},
		{name: "empty requester is denied", requester: "", owner: "", wantDeny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwner(tt.requester, tt.owner, ActionModify, "playlist")
			if !tt.wantDeny {
				assert.NoError(t, err)
				return
			}
			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperr.KindForbidden, appErr.Kind)
			assert.Equal(t, "UNAUTHORIZED_ACCESS", appErr.Code)
		})
	}
}

func TestRequireOwner_MessageNamesActionAndResource(t *testing.T) {
	err := RequireOwner("bob", "carol", ActionDelete, "playlist")
	assert.EqualError(t, err, "UNAUTHORIZED_ACCESS: You don't have permission to delete this playlist")
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(user.RoleAdmin, user.RoleAdmin))

	err := RequireRole(user.RoleUser, user.RoleAdmin)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindForbidden, appErr.Kind)
	assert.Equal(t, "ACCESS_DENIED", appErr.Code)
}
