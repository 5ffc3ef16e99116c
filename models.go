package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Principal is the authenticatable account used for authorization
// decisions. Principals are never physically deleted within this core;
// administrative deletion is an external concern.
type Principal struct {
	bun.BaseModel `bun:"table:principals,alias:prn"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email        string `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	Enabled      bool   `bun:"is_enabled,notnull,default:false" json:"is_enabled"`
	Locked       bool   `bun:"is_locked,notnull,default:false" json:"is_locked"`
	Superuser    bool   `bun:"is_superuser,notnull,default:false" json:"is_superuser"`

	RoleID *int64 `bun:"role_id,nullzero" json:"role_id,omitempty"`
	Role   *Role  `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`

	// VerificationToken holds the pending email verification token, empty
	// once the account is enabled
	VerificationToken string `bun:"verification_token,nullzero" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// SubjectID is the string-encoded principal ID carried as the token subject
func (p *Principal) SubjectID() string {
	return strconv.FormatInt(p.ID, 10)
}

// Role is a named bundle of permissions. Names are globally unique.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name        string `bun:"name,notnull,unique" json:"name,omitempty"`
	Title       string `bun:"title" json:"title,omitempty"`
	Description string `bun:"description" json:"description,omitempty"`

	Permissions []*Permission `bun:"m2m:role_permissions,join:Role=Permission" json:"permissions,omitempty"`
}

// Permission is an atomic capability such as "user:read". Names are
// globally unique; permissions are referenced by roles, never owned.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:prm"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name        string `bun:"name,notnull,unique" json:"name,omitempty"`
	Title       string `bun:"title" json:"title,omitempty"`
	Description string `bun:"description" json:"description,omitempty"`
}

// RolePermission joins roles to permissions
type RolePermission struct {
	bun.BaseModel `bun:"table:role_permissions,alias:rp"`

	RoleID       int64       `bun:"role_id,pk" json:"role_id"`
	Role         *Role       `bun:"rel:belongs-to,join:role_id=id" json:"-"`
	PermissionID int64       `bun:"permission_id,pk" json:"permission_id"`
	Permission   *Permission `bun:"rel:belongs-to,join:permission_id=id" json:"-"`
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// constraint agree on one canonical form
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterModels registers the join table so bun can resolve the
// role-permission m2m relation. Call once per bun.DB.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*RolePermission)(nil))
}

// CreateSchema creates the core tables. Intended for tests and embedded
// sqlite deployments; production schemas are managed by migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Permission)(nil),
		(*Role)(nil),
		(*RolePermission)(nil),
		(*Principal)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
