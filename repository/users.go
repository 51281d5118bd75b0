// Package repository ships the bun backed implementation of the user
// store contract consumed by the auth package.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	auth "github.com/couchtube/go-auth"
)

// Users persists user records. It satisfies auth.UserStore.
type Users struct {
	db *bun.DB
}

var _ auth.UserStore = (*Users)(nil)

// NewUsers creates a Users repository on db.
func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

// FindByEmail returns the user with the given normalized email, or
// auth.ErrUserNotFound.
func (r *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.findBy(ctx, "email", auth.NormalizeIdentifier(email))
}

// FindByUsername returns the user with the given normalized username, or
// auth.ErrUserNotFound.
func (r *Users) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.findBy(ctx, "username", auth.NormalizeIdentifier(username))
}

func (r *Users) findBy(ctx context.Context, column, value string) (*auth.User, error) {
	user := &auth.User{}
	err := r.db.NewSelect().
		Model(user).
		Where("? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. Identifiers are normalized and an ID is
// assigned when missing.
func (r *Users) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = auth.NormalizeIdentifier(user.Email)
	user.Username = auth.NormalizeIdentifier(user.Username)
	if user.Role == "" {
		user.Role = auth.RoleMember
	}

	now := time.Now()
	user.CreatedAt = &now
	user.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored password record for email.
func (r *Users) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	res, err := r.db.NewUpdate().
		Model((*auth.User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now()).
		Where("email = ?", auth.NormalizeIdentifier(email)).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
