package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose tags a token with the single flow it serves. Every token is
// stamped with exactly one purpose at issuance; only the issuer needs it to
// select a TTL and payload shape.
type TokenPurpose string

const (
	// PurposeAccess tokens authenticate API requests
	PurposeAccess TokenPurpose = "access"
	// PurposeRefresh tokens redeem a fresh token pair
	PurposeRefresh TokenPurpose = "refresh"
	// PurposeResetPassword tokens finalize a password reset
	PurposeResetPassword TokenPurpose = "reset_password"
	// PurposeVerification tokens confirm account email ownership
	PurposeVerification TokenPurpose = "verification"
)

// IsValid checks the purpose is one of the fixed variants
func (p TokenPurpose) IsValid() bool {
	switch p {
	case PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerification:
		return true
	default:
		return false
	}
}

func (p TokenPurpose) String() string {
	return string(p)
}

// TokenClaims is the signed payload carried by every token: the registered
// claim set plus the purpose tag and the purpose-specific fields. Access
// tokens carry email, role id, and the superuser flag as an informational
// snapshot only; authorization decisions always use the principal loaded at
// request time.
type TokenClaims struct {
	jwt.RegisteredClaims
	Purpose   TokenPurpose `json:"purpose,omitempty"`
	Email     string       `json:"email,omitempty"`
	RoleID    int64        `json:"role_id,omitempty"`
	Superuser bool         `json:"superuser,omitempty"`
}

// SubjectID parses the decimal principal ID from the subject claim
func (c *TokenClaims) SubjectID() (int64, error) {
	return strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *TokenClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns how long the token stays naturally valid from now.
// Zero or negative means already expired.
func (c *TokenClaims) RemainingTTL(now time.Time) time.Duration {
	exp := c.Expires()
	if exp.IsZero() {
		return 0
	}
	return exp.Sub(now)
}

func newTokenClaims(purpose TokenPurpose, principal *Principal, issuer string, now time.Time, ttl time.Duration) *TokenClaims {
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   principal.SubjectID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	}

	switch purpose {
	case PurposeAccess:
		claims.Email = principal.Email
		claims.Superuser = principal.Superuser
		if principal.RoleID != nil {
			claims.RoleID = *principal.RoleID
		}
	case PurposeResetPassword, PurposeVerification:
		claims.Email = principal.Email
	case PurposeRefresh:
		// refresh tokens carry no payload beyond the registered claims
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}
