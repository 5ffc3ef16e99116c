package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Principals() Principals
	Roles() Roles
	Permissions() Permissions
}

type mngr struct {
	db          *bun.DB
	principals  Principals
	roles       Roles
	permissions Permissions
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	RegisterModels(db)

	return &mngr{
		db:          db,
		principals:  NewPrincipalsRepository(db),
		roles:       NewRolesRepository(db),
		permissions: NewPermissionsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.principals == nil {
		return errors.New("repository principals should be initialized")
	}

	if m.roles == nil {
		return errors.New("repository roles should be initialized")
	}

	if m.permissions == nil {
		return errors.New("repository permissions should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Principals() Principals {
	return m.principals
}

func (m mngr) Roles() Roles {
	return m.roles
}

func (m mngr) Permissions() Permissions {
	return m.permissions
}
