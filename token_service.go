package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and verifies purpose-tagged HS256 tokens. Signing and
// verification are pure in-memory computation against the process-wide key;
// the service holds no token state.
type TokenService struct {
	signingKey []byte
	issuer     string
	ttls       map[TokenPurpose]time.Duration
	logger     Logger
	now        func() time.Time
}

var _ TokenManager = (*TokenService)(nil)

// NewTokenService validates the configuration and builds the token service
func NewTokenService(cfg Config) (*TokenService, error) {
	if v, ok := cfg.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	key, err := cfg.GetSigningKey()
	if err != nil {
		return nil, err
	}

	if len(key) == 0 {
		return nil, errors.New("signing key must not be empty", errors.CategoryValidation)
	}

	return &TokenService{
		signingKey: key,
		issuer:     cfg.GetIssuer(),
		ttls: map[TokenPurpose]time.Duration{
			PurposeAccess:        cfg.GetAccessTokenTTL(),
			PurposeRefresh:       cfg.GetRefreshTokenTTL(),
			PurposeResetPassword: cfg.GetResetPasswordTokenTTL(),
			PurposeVerification:  cfg.GetVerificationTokenTTL(),
		},
		logger: defLogger{},
		now:    time.Now,
	}, nil
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock overrides the time source, used by tests and callers that
// need deterministic expiry.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// TTL returns the configured duration for a purpose. An unrecognized
// purpose is a programming error, never a runtime input; there is no
// silent default.
func (ts *TokenService) TTL(purpose TokenPurpose) (time.Duration, error) {
	ttl, ok := ts.ttls[purpose]
	if !ok {
		return 0, errors.New("unknown token purpose", errors.CategoryInternal).
			WithTextCode("UNKNOWN_TOKEN_PURPOSE").
			WithMetadata(map[string]any{"purpose": string(purpose)})
	}
	return ttl, nil
}

// Issue mints a signed token for the principal: subject is the decimal
// principal ID, expiry is now plus the purpose TTL, and the jti is a fresh
// random identifier.
func (ts *TokenService) Issue(purpose TokenPurpose, principal *Principal) (string, error) {
	if principal == nil {
		return "", errors.New("principal is required", errors.CategoryBadInput)
	}

	ttl, err := ts.TTL(purpose)
	if err != nil {
		return "", err
	}

	claims := newTokenClaims(purpose, principal, ts.issuer, ts.now(), ttl)

	return ts.signClaims(claims)
}

func (ts *TokenService) signClaims(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode parses and verifies a token string. Expired tokens return the
// decoded claims alongside ErrTokenExpired so callers can still read the
// subject and expiry; every other failure returns nil claims with
// ErrTokenMalformed or ErrBadSignature.
func (ts *TokenService) Decode(raw string) (*TokenClaims, error) {
	parserOptions := []jwt.ParserOption{jwt.WithTimeFunc(ts.now)}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			if token != nil {
				if claims, ok := token.Claims.(*TokenClaims); ok {
					return claims, ErrTokenExpired
				}
			}
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService decode could not map claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// IsExpired reports whether a decodable token is past its expiry. Decode
// failures other than expiry answer false: the token is invalid, not
// expired, and callers distinguish the two.
func (ts *TokenService) IsExpired(raw string) bool {
	_, err := ts.Decode(raw)
	return errors.Is(err, ErrTokenExpired)
}

// IsValid reports whether the token decodes cleanly and is not expired
func (ts *TokenService) IsValid(raw string) bool {
	_, err := ts.Decode(raw)
	return err == nil
}

// IsValidFor additionally requires the subject to match the principal's ID
func (ts *TokenService) IsValidFor(raw string, principal *Principal) bool {
	if principal == nil {
		return false
	}

	claims, err := ts.Decode(raw)
	if err != nil {
		return false
	}

	return claims.RegisteredClaims.Subject == principal.SubjectID()
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
