package auth

import (
	"encoding/base64"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// TokenConfig holds the recognized token options. It is constructed once at
// process start, validated, and shared read-only by every issuance and
// verification path; there is no ambient global key.
type TokenConfig struct {
	// SigningKey is the base64 encoded symmetric HS256 key
	SigningKey string `json:"signing_key"`
	Issuer     string `json:"issuer"`

	// Per purpose TTLs, in seconds
	AccessTokenTTL        int `json:"access_token_ttl"`
	RefreshTokenTTL       int `json:"refresh_token_ttl"`
	ResetPasswordTokenTTL int `json:"reset_password_token_ttl"`
	VerificationTokenTTL  int `json:"verification_token_ttl"`
}

var _ Config = TokenConfig{}

// Validate checks the configuration invariants
func (c TokenConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.By(isBase64)),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(1)),
		validation.Field(&c.RefreshTokenTTL, validation.Required, validation.Min(1)),
		validation.Field(&c.ResetPasswordTokenTTL, validation.Required, validation.Min(1)),
		validation.Field(&c.VerificationTokenTTL, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid token configuration")
	}
	return nil
}

// GetSigningKey decodes the configured base64 key
func (c TokenConfig) GetSigningKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.SigningKey)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "signing key is not valid base64")
	}
	return key, nil
}

func (c TokenConfig) GetIssuer() string {
	return c.Issuer
}

func (c TokenConfig) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Second
}

func (c TokenConfig) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * time.Second
}

func (c TokenConfig) GetResetPasswordTokenTTL() time.Duration {
	return time.Duration(c.ResetPasswordTokenTTL) * time.Second
}

func (c TokenConfig) GetVerificationTokenTTL() time.Duration {
	return time.Duration(c.VerificationTokenTTL) * time.Second
}

func isBase64(value any) error {
	s, _ := value.(string)
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return errors.New("must be valid base64", errors.CategoryValidation)
	}
	return nil
}
