package auth

import (
	"context"
)

var principalCtxKey = &contextKey{"principal"}
var authoritiesCtxKey = &contextKey{"authorities"}

type contextKey struct {
	name string
}

// WithPrincipal sets the authenticated Principal in the given context
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the authenticated principal, if any
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}

// WithAuthorities sets the resolved capability set in the given context
func WithAuthorities(ctx context.Context, authorities []string) context.Context {
	return context.WithValue(ctx, authoritiesCtxKey, authorities)
}

// AuthoritiesFromContext returns the capability set resolved for the
// request, empty when the request is unauthenticated
func AuthoritiesFromContext(ctx context.Context) ([]string, bool) {
	raw, ok := ctx.Value(authoritiesCtxKey).([]string)
	return raw, ok
}

// Can is a convenience check against the request's resolved authorities;
// the superuser wildcard grants everything
func Can(ctx context.Context, authority string) bool {
	authorities, ok := AuthoritiesFromContext(ctx)
	if !ok {
		return false
	}
	return HasAuthority(authorities, authority)
}
