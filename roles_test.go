package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

func TestResolveAuthorities(t *testing.T) {
	t.Run("nil principal", func(t *testing.T) {
		assert.Nil(t, auth.ResolveAuthorities(nil))
	})

	t.Run("superuser short-circuits the role", func(t *testing.T) {
		principal := &auth.Principal{
			ID:        1,
			Superuser: true,
			Role: &auth.Role{
				Name: "editor",
				Permissions: []*auth.Permission{
					{Name: "post:write"},
				},
			},
		}

		assert.Equal(t, []string{auth.AuthorityAll}, auth.ResolveAuthorities(principal))
	})

	t.Run("no role means no authorities", func(t *testing.T) {
		assert.Empty(t, auth.ResolveAuthorities(&auth.Principal{ID: 1}))
	})

	t.Run("role permissions are deduped and sorted", func(t *testing.T) {
		principal := &auth.Principal{
			ID: 1,
			Role: &auth.Role{
				Name: "editor",
				Permissions: []*auth.Permission{
					{Name: "post:write"},
					{Name: "post:read"},
					{Name: "post:write"},
					nil,
					{Name: ""},
				},
			},
		}

		assert.Equal(t, []string{"post:read", "post:write"}, auth.ResolveAuthorities(principal))
	})
}

func TestHasAuthority(t *testing.T) {
	authorities := []string{"post:read", "post:write"}

	assert.True(t, auth.HasAuthority(authorities, "post:read"))
	assert.False(t, auth.HasAuthority(authorities, "user:delete"))
	assert.False(t, auth.HasAuthority(nil, "post:read"))

	assert.True(t, auth.HasAuthority([]string{auth.AuthorityAll}, "anything:at-all"))
}
