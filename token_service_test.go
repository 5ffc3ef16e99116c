package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

func testTokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		SigningKey:            base64.StdEncoding.EncodeToString([]byte("test-signing-key-0123456789abcdef")),
		Issuer:                "test-issuer",
		AccessTokenTTL:        60,
		RefreshTokenTTL:       120,
		ResetPasswordTokenTTL: 180,
		VerificationTokenTTL:  240,
	}
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	svc, err := auth.NewTokenService(testTokenConfig())
	require.NoError(t, err)

	return svc
}

func TestTokenService_IssueAndDecode(t *testing.T) {
	svc := newTestTokenService(t)

	roleID := int64(7)
	principal := &auth.Principal{
		ID:     42,
		Email:  "admin@example.com",
		RoleID: &roleID,
	}

	raw, err := svc.Issue(auth.PurposeAccess, principal)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.RegisteredClaims.Subject)
	assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	assert.Equal(t, auth.PurposeAccess, claims.Purpose)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, int64(7), claims.RoleID)
	assert.False(t, claims.Superuser)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.True(t, svc.IsValid(raw))
	assert.False(t, svc.IsExpired(raw))
	assert.True(t, svc.IsValidFor(raw, principal))
	assert.False(t, svc.IsValidFor(raw, &auth.Principal{ID: 43}))
	assert.False(t, svc.IsValidFor(raw, nil))
}

func TestTokenService_PurposePayloads(t *testing.T) {
	svc := newTestTokenService(t)

	principal := &auth.Principal{ID: 9, Email: "p@example.com", Superuser: true}

	t.Run("refresh carries no payload", func(t *testing.T) {
		raw, err := svc.Issue(auth.PurposeRefresh, principal)
		require.NoError(t, err)

		claims, err := svc.Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, auth.PurposeRefresh, claims.Purpose)
		assert.Empty(t, claims.Email)
		assert.False(t, claims.Superuser)
		assert.Zero(t, claims.RoleID)
	})

	t.Run("verification carries email", func(t *testing.T) {
		raw, err := svc.Issue(auth.PurposeVerification, principal)
		require.NoError(t, err)

		claims, err := svc.Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, auth.PurposeVerification, claims.Purpose)
		assert.Equal(t, "p@example.com", claims.Email)
	})

	t.Run("access carries superuser snapshot", func(t *testing.T) {
		raw, err := svc.Issue(auth.PurposeAccess, principal)
		require.NoError(t, err)

		claims, err := svc.Decode(raw)
		require.NoError(t, err)

		assert.True(t, claims.Superuser)
	})
}

func TestTokenService_TTL(t *testing.T) {
	svc := newTestTokenService(t)

	ttl, err := svc.TTL(auth.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, ttl)

	ttl, err = svc.TTL(auth.PurposeVerification)
	require.NoError(t, err)
	assert.Equal(t, 240*time.Second, ttl)
}

func TestTokenService_UnknownPurpose(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.TTL(auth.TokenPurpose("session"))
	require.Error(t, err)

	_, err = svc.Issue(auth.TokenPurpose("session"), &auth.Principal{ID: 1})
	require.Error(t, err)
}

func TestTokenService_IssueRequiresPrincipal(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.Issue(auth.PurposeAccess, nil)
	require.Error(t, err)
}

func TestTokenService_Expiry(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }

	svc := newTestTokenService(t).WithClock(clock)

	principal := &auth.Principal{ID: 42, Email: "a@example.com"}

	raw, err := svc.Issue(auth.PurposeAccess, principal)
	require.NoError(t, err)
	require.True(t, svc.IsValid(raw))

	// one second past the 60s access TTL
	current = current.Add(61 * time.Second)

	claims, err := svc.Decode(raw)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
	require.NotNil(t, claims, "expired tokens still expose their claims")
	assert.Equal(t, "42", claims.RegisteredClaims.Subject)

	assert.True(t, svc.IsExpired(raw))
	assert.False(t, svc.IsValid(raw))
	assert.False(t, svc.IsValidFor(raw, principal))
	assert.True(t, auth.IsTokenExpiredError(err))
}

func TestTokenService_BadSignature(t *testing.T) {
	svc := newTestTokenService(t)

	otherCfg := testTokenConfig()
	otherCfg.SigningKey = base64.StdEncoding.EncodeToString([]byte("another-key-entirely-0123456789ab"))
	other, err := auth.NewTokenService(otherCfg)
	require.NoError(t, err)

	raw, err := other.Issue(auth.PurposeAccess, &auth.Principal{ID: 1})
	require.NoError(t, err)

	claims, err := svc.Decode(raw)
	assert.Nil(t, claims)
	require.ErrorIs(t, err, auth.ErrBadSignature)
	assert.True(t, auth.IsMalformedError(err))
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokenService(t)

	for _, raw := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 100)} {
		claims, err := svc.Decode(raw)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	}
}

func TestTokenService_IssuerMismatch(t *testing.T) {
	otherCfg := testTokenConfig()
	otherCfg.Issuer = "someone-else"
	other, err := auth.NewTokenService(otherCfg)
	require.NoError(t, err)

	raw, err := other.Issue(auth.PurposeAccess, &auth.Principal{ID: 1})
	require.NoError(t, err)

	svc := newTestTokenService(t)

	_, err = svc.Decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestNewTokenService_InvalidConfig(t *testing.T) {
	t.Run("missing signing key", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.SigningKey = ""

		_, err := auth.NewTokenService(cfg)
		require.Error(t, err)
	})

	t.Run("signing key not base64", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.SigningKey = "not base64 !!!"

		_, err := auth.NewTokenService(cfg)
		require.Error(t, err)
	})

	t.Run("missing ttl", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.RefreshTokenTTL = 0

		_, err := auth.NewTokenService(cfg)
		require.Error(t, err)
	})
}
