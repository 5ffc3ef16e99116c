package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EnsureRootPrincipal provisions the bootstrap superuser once at process
// start. The account is created enabled, unlocked, and with the superuser
// override; when a principal with the email already exists it is returned
// untouched.
func EnsureRootPrincipal(ctx context.Context, repo RepositoryManager, email, password string) (*Principal, error) {
	principal := &Principal{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := repo.Principals().GetByEmailTx(ctx, tx, email)
		if err == nil {
			principal = existing
			return nil
		}

		if !errors.Is(err, ErrPrincipalNotFound) {
			return err
		}

		hash, err := HashPassword(password)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to hash bootstrap password")
		}

		principal.Email = email
		principal.PasswordHash = hash
		principal.Enabled = true
		principal.Superuser = true

		if principal, err = repo.Principals().CreateTx(ctx, tx, principal); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "bootstrap principal transaction failed")
	}

	return principal, nil
}
