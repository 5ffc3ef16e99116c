package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.PrincipalFromContext(ctx)
	assert.False(t, ok)

	principal := &auth.Principal{ID: 42, Email: "a@example.com"}
	ctx = auth.WithPrincipal(ctx, principal)

	got, ok := auth.PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, principal, got)
}

func TestAuthoritiesContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.AuthoritiesFromContext(ctx)
	assert.False(t, ok)

	ctx = auth.WithAuthorities(ctx, []string{"post:read"})

	got, ok := auth.AuthoritiesFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"post:read"}, got)
}

func TestCan(t *testing.T) {
	ctx := context.Background()

	assert.False(t, auth.Can(ctx, "post:read"), "unauthenticated context grants nothing")

	ctx = auth.WithAuthorities(ctx, []string{"post:read"})
	assert.True(t, auth.Can(ctx, "post:read"))
	assert.False(t, auth.Can(ctx, "post:write"))

	super := auth.WithAuthorities(context.Background(), []string{auth.AuthorityAll})
	assert.True(t, auth.Can(super, "post:write"))
}
