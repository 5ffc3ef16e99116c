package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// TokenPair is the result of a successful sign-in or refresh redemption
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresIn  int64  `json:"access_expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

// Authenticator orchestrates the credential and token-bearing flows:
// sign-in, logout, refresh redemption, email verification, and password
// reset. Sign-in requires no cross-request coordination; the only mutable
// shared state it touches lives behind the repositories and the revocation
// store.
type Authenticator struct {
	repo        RepositoryManager
	tokens      TokenManager
	revocations RevocationStore
	passwords   PasswordAuthenticator
	mailer      Mailer
	logger      Logger
	now         func() time.Time
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenManager, revocations RevocationStore) *Authenticator {
	return &Authenticator{
		repo:        repo,
		tokens:      tokens,
		revocations: revocations,
		passwords:   bcryptAuthenticator{},
		mailer:      ConsoleMailer{},
		logger:      defLogger{},
		now:         time.Now,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

func (a *Authenticator) WithMailer(mailer Mailer) *Authenticator {
	if mailer != nil {
		a.mailer = mailer
	}
	return a
}

func (a *Authenticator) WithPasswordAuthenticator(passwords PasswordAuthenticator) *Authenticator {
	if passwords != nil {
		a.passwords = passwords
	}
	return a
}

func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	if now != nil {
		a.now = now
	}
	return a
}

// Login verifies credentials and issues a fresh access and refresh token
// pair. Unknown emails and wrong passwords both fail with
// ErrInvalidCredentials so callers cannot tell them apart.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	principal, err := a.repo.Principals().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			a.logger.Debug("Login for unknown email", "email", NormalizeEmail(email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !principal.Enabled {
		return nil, ErrAccountNotEnabled
	}

	if principal.Locked {
		return nil, ErrAccountLocked
	}

	if err := a.passwords.ComparePasswordAndHash(password, principal.PasswordHash); err != nil {
		a.logger.Debug("Login password mismatch", "principal", principal.ID)
		return nil, ErrInvalidCredentials
	}

	return a.issuePair(principal)
}

// Logout blacklists the presented token for its remaining natural
// lifetime so it is rejected before expiry even though the signature
// stays valid. Expired tokens are a no-op.
func (a *Authenticator) Logout(ctx context.Context, raw string) error {
	claims, err := a.tokens.Decode(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil
		}
		return ErrInvalidOrExpired
	}

	remaining := claims.RemainingTTL(a.now())
	if remaining <= 0 {
		return nil
	}

	if err := a.revocations.Revoke(ctx, raw, remaining); err != nil {
		return err
	}

	a.logger.Info("Token revoked", "subject", claims.RegisteredClaims.Subject, "purpose", claims.Purpose)

	return nil
}

// Refresh redeems a refresh token for a fresh pair. The redeemed token is
// single-use: it is blacklisted for its remaining lifetime on success.
func (a *Authenticator) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := a.tokens.Decode(raw)
	if err != nil {
		return nil, ErrInvalidOrExpired
	}

	if claims.Purpose != PurposeRefresh {
		return nil, ErrInvalidOrExpired
	}

	revoked, err := a.revocations.Contains(ctx, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidOrExpired
	}

	id, err := claims.SubjectID()
	if err != nil {
		return nil, ErrInvalidOrExpired
	}

	principal, err := a.repo.Principals().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrInvalidOrExpired
		}
		return nil, err
	}

	if !principal.Enabled {
		return nil, ErrAccountNotEnabled
	}

	if principal.Locked {
		return nil, ErrAccountLocked
	}

	pair, err := a.issuePair(principal)
	if err != nil {
		return nil, err
	}

	if err := a.revocations.Revoke(ctx, raw, claims.RemainingTTL(a.now())); err != nil {
		return nil, err
	}

	return pair, nil
}

// SendVerificationEmail issues a fresh verification token and dispatches
// it through the mailer. The token is persisted on the principal only
// after delivery succeeds, so a failed delivery leaves no orphaned token.
func (a *Authenticator) SendVerificationEmail(ctx context.Context, email string) error {
	principal, err := a.repo.Principals().GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if principal.Enabled {
		return ErrAlreadyEnabled
	}

	if principal.VerificationToken != "" && a.tokens.IsValid(principal.VerificationToken) {
		return ErrAlreadyRequested
	}

	token, err := a.tokens.Issue(PurposeVerification, principal)
	if err != nil {
		return err
	}

	if err := a.mailer.SendVerification(ctx, principal.Email, token); err != nil {
		a.logger.Error("Verification delivery failed", "principal", principal.ID, "error", err)
		return ErrDeliveryFailed
	}

	a.revokeSuperseded(ctx, principal.VerificationToken)

	return a.repo.Principals().StoreVerificationToken(ctx, principal.ID, token)
}

// VerifyEmail enables the account the token was issued for and clears the
// stored verification token. The read-check-mutate-write sequence runs in
// one transaction; of two concurrent attempts with the same token exactly
// one succeeds and the other observes ErrAlreadyEnabled.
func (a *Authenticator) VerifyEmail(ctx context.Context, raw string) error {
	claims, err := a.tokens.Decode(raw)
	if err != nil {
		return ErrInvalidOrExpired
	}

	if claims.Purpose != PurposeVerification {
		return ErrInvalidOrExpired
	}

	id, err := claims.SubjectID()
	if err != nil {
		return ErrInvalidOrExpired
	}

	return a.repo.Principals().MarkVerified(ctx, id, raw)
}

// InitializePasswordReset issues a reset token and dispatches it through
// the mailer. Unknown emails return success silently so the reset surface
// does not leak account existence.
func (a *Authenticator) InitializePasswordReset(ctx context.Context, email string) error {
	principal, err := a.repo.Principals().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			a.logger.Debug("Password reset for unknown email", "email", NormalizeEmail(email))
			return nil
		}
		return err
	}

	token, err := a.tokens.Issue(PurposeResetPassword, principal)
	if err != nil {
		return err
	}

	if err := a.mailer.SendPasswordReset(ctx, principal.Email, token); err != nil {
		a.logger.Error("Password reset delivery failed", "principal", principal.ID, "error", err)
		return ErrDeliveryFailed
	}

	return nil
}

// FinalizePasswordReset verifies a reset token, persists the rehashed
// password, and blacklists the used token.
func (a *Authenticator) FinalizePasswordReset(ctx context.Context, raw, newPassword string) error {
	if err := validation.Validate(newPassword, validation.Required, validation.Length(8, 0)); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid password provided")
	}

	claims, err := a.tokens.Decode(raw)
	if err != nil {
		return ErrInvalidOrExpired
	}

	if claims.Purpose != PurposeResetPassword {
		return ErrInvalidOrExpired
	}

	revoked, err := a.revocations.Contains(ctx, raw)
	if err != nil {
		return err
	}
	if revoked {
		return ErrInvalidOrExpired
	}

	id, err := claims.SubjectID()
	if err != nil {
		return ErrInvalidOrExpired
	}

	hash, err := a.passwords.HashPassword(newPassword)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if err := a.repo.Principals().UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	if err := a.revocations.Revoke(ctx, raw, claims.RemainingTTL(a.now())); err != nil {
		a.logger.Warn("Failed to revoke used reset token", "principal", id, "error", err)
	}

	return nil
}

func (a *Authenticator) issuePair(principal *Principal) (*TokenPair, error) {
	accessToken, err := a.tokens.Issue(PurposeAccess, principal)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.tokens.Issue(PurposeRefresh, principal)
	if err != nil {
		return nil, err
	}

	accessTTL, err := a.tokens.TTL(PurposeAccess)
	if err != nil {
		return nil, err
	}

	refreshTTL, err := a.tokens.TTL(PurposeRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresIn:  int64(accessTTL / time.Second),
		RefreshExpiresIn: int64(refreshTTL / time.Second),
	}, nil
}

// revokeSuperseded blacklists a still-unexpired stored token that is about
// to be overwritten, closing the window where a captured prior token stays
// independently valid until its natural expiry.
func (a *Authenticator) revokeSuperseded(ctx context.Context, old string) {
	if old == "" {
		return
	}

	claims, err := a.tokens.Decode(old)
	if err != nil {
		return
	}

	remaining := claims.RemainingTTL(a.now())
	if remaining <= 0 {
		return
	}

	if err := a.revocations.Revoke(ctx, old, remaining); err != nil {
		a.logger.Warn("Failed to revoke superseded token", "error", err)
	}
}
