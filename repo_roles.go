package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Roles manages the named permission bundles assignable to principals
type Roles interface {
	GetByID(ctx context.Context, id int64) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, record *Role) (*Role, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Role) (*Role, error)
	Grant(ctx context.Context, roleID int64, permissionIDs ...int64) error
}

// Permissions manages the atomic capabilities referenced by roles
type Permissions interface {
	GetByName(ctx context.Context, name string) (*Permission, error)
	Create(ctx context.Context, record *Permission) (*Permission, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Permission) (*Permission, error)
}

type roles struct {
	db *bun.DB
}

var _ Roles = (*roles)(nil)

// NewRolesRepository builds the bun-backed role store
func NewRolesRepository(db *bun.DB) Roles {
	return &roles{db: db}
}

func (r *roles) GetByID(ctx context.Context, id int64) (*Role, error) {
	record := &Role{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Permissions").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, mapRoleLookupError(err)
	}

	return record, nil
}

func (r *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	record := &Role{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Permissions").
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, mapRoleLookupError(err)
	}

	return record, nil
}

func (r *roles) Create(ctx context.Context, record *Role) (*Role, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *roles) CreateTx(ctx context.Context, tx bun.IDB, record *Role) (*Role, error) {
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create role").
			WithMetadata(map[string]any{"name": record.Name})
	}
	return record, nil
}

// Grant attaches permissions to a role through the join table
func (r *roles) Grant(ctx context.Context, roleID int64, permissionIDs ...int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	links := make([]*RolePermission, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		links = append(links, &RolePermission{
			RoleID:       roleID,
			PermissionID: permissionID,
		})
	}

	if _, err := r.db.NewInsert().Model(&links).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryConflict, "could not grant permissions").
			WithMetadata(map[string]any{"role_id": roleID})
	}

	return nil
}

type permissions struct {
	db *bun.DB
}

var _ Permissions = (*permissions)(nil)

// NewPermissionsRepository builds the bun-backed permission store
func NewPermissionsRepository(db *bun.DB) Permissions {
	return &permissions{db: db}
}

func (r *permissions) GetByName(ctx context.Context, name string) (*Permission, error) {
	record := &Permission{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, mapRoleLookupError(err)
	}

	return record, nil
}

func (r *permissions) Create(ctx context.Context, record *Permission) (*Permission, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *permissions) CreateTx(ctx context.Context, tx bun.IDB, record *Permission) (*Permission, error) {
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create permission").
			WithMetadata(map[string]any{"name": record.Name})
	}
	return record, nil
}

func mapRoleLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("record not found", errors.CategoryNotFound).
			WithTextCode("NOT_FOUND")
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to load record")
}
