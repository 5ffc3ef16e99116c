// Package authware provides the per-request authentication filter. It
// reconstructs a security principal from a bearer token and publishes it
// for the remainder of request processing.
//
// The filter is fail-open by design: a missing, invalid, revoked, or
// unresolvable token lets the request proceed unauthenticated, and the
// endpoint's own authorization requirement produces the eventual 401/403.
package authware

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

const defaultTokenLookup = "header:" + router.HeaderAuthorization

// PrincipalLoader loads the principal referenced by a token subject.
// Satisfied by auth.Principals.
type PrincipalLoader interface {
	GetByID(ctx context.Context, id int64) (*auth.Principal, error)
}

type Config struct {
	// Filter skips the middleware for matching requests
	Filter func(router.Context) bool
	// SuccessHandler runs after the pipeline, authenticated or not;
	// defaults to ctx.Next()
	SuccessHandler router.HandlerFunc

	// Verifier checks signature and expiry; required
	Verifier auth.TokenVerifier
	// Revocations is consulted with the exact raw token string; required
	Revocations auth.RevocationStore
	// Principals loads the account named by the token subject; required
	Principals PrincipalLoader

	// ContextKey is the router locals key for the principal
	ContextKey string
	// AuthoritiesKey is the router locals key for the resolved authorities
	AuthoritiesKey string
	TokenLookup    string
	AuthScheme     string

	Logger auth.Logger
}

// New builds the request authentication middleware. Steps run strictly in
// sequence: extract bearer token, verify, check revocation, load the
// principal, then publish principal and authorities into the request
// context. Any failed step leaves the request unauthenticated without
// erroring it.
func New(config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw := extractRawToken(ctx, cfg.getExtractors())
			if raw == "" {
				return cfg.SuccessHandler(ctx)
			}

			if !cfg.Verifier.IsValid(raw) {
				cfg.Logger.Debug("authware token failed verification")
				return cfg.SuccessHandler(ctx)
			}

			revoked, err := cfg.Revocations.Contains(ctx.Context(), raw)
			if err != nil {
				cfg.Logger.Error("authware revocation store error", "error", err)
				return cfg.SuccessHandler(ctx)
			}
			if revoked {
				cfg.Logger.Debug("authware token is revoked")
				return cfg.SuccessHandler(ctx)
			}

			// idempotence guard: an earlier filter in the same request
			// already established a principal
			if _, ok := auth.PrincipalFromContext(ctx.Context()); ok {
				return cfg.SuccessHandler(ctx)
			}

			principal, err := loadPrincipal(ctx, cfg, raw)
			if err != nil {
				cfg.Logger.Debug("authware principal load failed", "error", err)
				return cfg.SuccessHandler(ctx)
			}

			authorities := auth.ResolveAuthorities(principal)

			ctx.Locals(cfg.ContextKey, principal)
			ctx.Locals(cfg.AuthoritiesKey, authorities)

			stdCtx := auth.WithPrincipal(ctx.Context(), principal)
			stdCtx = auth.WithAuthorities(stdCtx, authorities)
			ctx.SetContext(stdCtx)

			return cfg.SuccessHandler(ctx)
		}
	}
}

func loadPrincipal(ctx router.Context, cfg Config, raw string) (*auth.Principal, error) {
	claims, err := cfg.Verifier.Decode(raw)
	if err != nil {
		return nil, err
	}

	id, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	return cfg.Principals.GetByID(ctx.Context(), id)
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: authware middleware configuration: Verifier is required.")
	}

	if cfg.Revocations == nil {
		panic("AUTH: authware middleware configuration: Revocations is required.")
	}

	if cfg.Principals == nil {
		panic("AUTH: authware middleware configuration: Principals is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}

	if cfg.AuthoritiesKey == "" {
		cfg.AuthoritiesKey = "authorities"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

func (cfg *Config) getExtractors() []tokenExtractor {
	return buildExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

type tokenExtractor func(c router.Context) string

func extractRawToken(ctx router.Context, extractors []tokenExtractor) string {
	for _, extractor := range extractors {
		if raw := extractor(ctx); raw != "" {
			return raw
		}
	}
	return ""
}

// buildExtractors parses a lookup string such as
// "header:Authorization,cookie:jwt,query:auth_token"
func buildExtractors(tokenLookup, authScheme string) []tokenExtractor {
	extractors := make([]tokenExtractor, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		}
	}

	return extractors
}

func tokenFromHeader(header, authScheme string) tokenExtractor {
	return func(c router.Context) string {
		value := c.GetString(header, "")
		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 || len(value) <= l+1 {
			return ""
		}
		if !strings.EqualFold(value[:l], scheme) {
			return ""
		}
		return strings.TrimSpace(value[l:])
	}
}

func tokenFromQuery(param string) tokenExtractor {
	return func(c router.Context) string {
		return c.Query(param, "")
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c router.Context) string {
		return c.Cookies(name)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
