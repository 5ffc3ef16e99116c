package auth

import (
	"github.com/goliatone/go-errors"
)

// Verification layer faults. Never surfaced raw to clients; the HTTP
// adapter and the request filter map both to "unauthenticated".
var (
	// ErrTokenMalformed is returned when a token string cannot be parsed
	ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
				WithTextCode("TOKEN_MALFORMED")

	// ErrBadSignature is returned when a token fails signature verification
	ErrBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
			WithTextCode("BAD_SIGNATURE")

	// ErrTokenExpired is returned when a well-formed token is past its expiry
	ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
			WithTextCode("TOKEN_EXPIRED")
)

// Flow outcomes recovered at the service boundary into typed results.
var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords
	// so callers cannot probe for account existence
	ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
				WithTextCode("INVALID_CREDENTIALS")

	// ErrAccountNotEnabled rejects sign-in before email verification
	ErrAccountNotEnabled = errors.New("account is not enabled", errors.CategoryAuth).
				WithTextCode("ACCOUNT_NOT_ENABLED")

	// ErrAccountLocked rejects sign-in for administratively locked accounts
	ErrAccountLocked = errors.New("account is locked", errors.CategoryAuth).
				WithTextCode("ACCOUNT_LOCKED")

	// ErrPrincipalNotFound is returned when no principal matches a lookup
	ErrPrincipalNotFound = errors.New("principal not found", errors.CategoryNotFound).
				WithTextCode("PRINCIPAL_NOT_FOUND")

	// ErrAlreadyEnabled rejects verification of an enabled account
	ErrAlreadyEnabled = errors.New("account is already enabled", errors.CategoryConflict).
				WithTextCode("ALREADY_ENABLED")

	// ErrAlreadyRequested rejects re-issuing a verification token while the
	// stored one is still unexpired
	ErrAlreadyRequested = errors.New("verification already requested", errors.CategoryConflict).
				WithTextCode("ALREADY_REQUESTED")

	// ErrTokenMismatch rejects a verification token superseded by a later one
	ErrTokenMismatch = errors.New("verification token mismatch", errors.CategoryAuth).
				WithTextCode("TOKEN_MISMATCH")

	// ErrInvalidOrExpired rejects a token-bearing flow before any store access
	ErrInvalidOrExpired = errors.New("token is invalid or expired", errors.CategoryAuth).
				WithTextCode("INVALID_OR_EXPIRED")

	// ErrDeliveryFailed reports a mailer failure; the flow leaves no
	// persisted token behind when it fires
	ErrDeliveryFailed = errors.New("notification delivery failed", errors.CategoryOperation).
				WithTextCode("DELIVERY_FAILED")
)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired)
}

// IsMalformedError will check for parse and signature faults
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrBadSignature)
}
