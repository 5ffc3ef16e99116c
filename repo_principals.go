package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Principals is the store used to load and mutate authenticatable accounts
type Principals interface {
	GetByID(ctx context.Context, id int64) (*Principal, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Principal, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, record *Principal) (*Principal, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Principal) (*Principal, error)
	StoreVerificationToken(ctx context.Context, id int64, token string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	MarkVerified(ctx context.Context, id int64, token string) error
}

type principals struct {
	db *bun.DB
}

var _ Principals = (*principals)(nil)

// NewPrincipalsRepository builds the bun-backed principal store
func NewPrincipalsRepository(db *bun.DB) Principals {
	return &principals{db: db}
}

func (r *principals) GetByID(ctx context.Context, id int64) (*Principal, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *principals) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Principal, error) {
	record := &Principal{}

	err := tx.NewSelect().
		Model(record).
		Relation("Role").
		Relation("Role.Permissions").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, mapPrincipalLookupError(err, map[string]any{"id": id})
	}

	return record, nil
}

func (r *principals) GetByEmail(ctx context.Context, email string) (*Principal, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *principals) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Principal, error) {
	record := &Principal{}

	err := tx.NewSelect().
		Model(record).
		Relation("Role").
		Relation("Role.Permissions").
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, mapPrincipalLookupError(err, map[string]any{"email": NormalizeEmail(email)})
	}

	return record, nil
}

func (r *principals) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Principal)(nil)).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check principal existence")
	}

	return exists, nil
}

func (r *principals) Create(ctx context.Context, record *Principal) (*Principal, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *principals) CreateTx(ctx context.Context, tx bun.IDB, record *Principal) (*Principal, error) {
	record.Email = NormalizeEmail(record.Email)

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create principal").
			WithMetadata(map[string]any{"email": record.Email})
	}

	return record, nil
}

func (r *principals) StoreVerificationToken(ctx context.Context, id int64, token string) error {
	res, err := r.db.NewUpdate().
		Model((*Principal)(nil)).
		Set("verification_token = ?", token).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to store verification token")
	}

	return requireAffectedRow(res)
}

func (r *principals) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.NewUpdate().
		Model((*Principal)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password")
	}

	return requireAffectedRow(res)
}

// MarkVerified enables the principal and clears its stored verification
// token as one transaction. The update is guarded so two concurrent
// attempts with the same token cannot both observe "not yet enabled":
// whichever loses the race sees zero affected rows and fails with
// ErrAlreadyEnabled.
func (r *principals) MarkVerified(ctx context.Context, id int64, token string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := &Principal{}

		err := tx.NewSelect().
			Model(record).
			Where("?TableAlias.id = ?", id).
			Limit(1).
			Scan(ctx)

		if err != nil {
			return mapPrincipalLookupError(err, map[string]any{"id": id})
		}

		if record.Enabled {
			return ErrAlreadyEnabled
		}

		if record.VerificationToken != token {
			return ErrTokenMismatch
		}

		res, err := tx.NewUpdate().
			Model((*Principal)(nil)).
			Set("is_enabled = ?", true).
			Set("verification_token = NULL").
			Set("updated_at = ?", time.Now()).
			Where("id = ? AND is_enabled = ? AND verification_token = ?", id, false, token).
			Exec(ctx)

		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to enable principal")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to read affected rows")
		}

		if rows == 0 {
			// a concurrent verification won the race
			return ErrAlreadyEnabled
		}

		return nil
	})
}

func requireAffectedRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read affected rows")
	}

	if rows == 0 {
		return ErrPrincipalNotFound
	}

	return nil
}

func mapPrincipalLookupError(err error, metadata map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPrincipalNotFound
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to load principal").
		WithMetadata(metadata)
}
