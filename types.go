package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenIssuer mints signed tokens for a given purpose
type TokenIssuer interface {
	Issue(purpose TokenPurpose, principal *Principal) (string, error)
}

// TokenVerifier checks token strings against the process signing key.
// Verification never consults the revocation store; that check belongs
// to the request filter.
type TokenVerifier interface {
	Decode(raw string) (*TokenClaims, error)
	IsExpired(raw string) bool
	IsValid(raw string) bool
	IsValidFor(raw string, principal *Principal) bool
}

// TokenManager is the full token lifecycle surface consumed by the flows
type TokenManager interface {
	TokenIssuer
	TokenVerifier
	TTL(purpose TokenPurpose) (time.Duration, error)
}

// RevocationStore blacklists raw token strings until their natural expiry.
// Callers must pass a ttl at least as long as the token's remaining
// lifetime, otherwise the entry could lapse while the token is still valid.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Mailer delivers token-bearing notifications. A non-nil error means
// delivery failed and the flow must not persist the token it carried.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Config exposes the token options recognized by the core
type Config interface {
	GetSigningKey() ([]byte, error)
	GetIssuer() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetResetPasswordTokenTTL() time.Duration
	GetVerificationTokenTTL() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
