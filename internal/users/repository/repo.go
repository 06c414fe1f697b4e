// Package repository persists user accounts in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/algoviz-io/algoviz-backend/internal/users/domain"
)

const uniqueViolation = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, email, passwordHash, name string) (*domain.User, error) {
	const q = `
insert into users (id, email, password_hash, name, role)
values ($1::uuid, lower($2), $3, $4, 'user')
returning id::text, email, password_hash, name, role, created_at, updated_at;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, uuid.NewString(), email, passwordHash, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
select id::text, email, password_hash, name, role, created_at, updated_at
from users
where email = lower($1) and deleted_at is null;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}

	const q = `
select id::text, email, password_hash, name, role, created_at, updated_at
from users
where id = $1::uuid and deleted_at is null;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies the non-nil fields. Email collisions surface as
// domain.ErrEmailTaken.
func (r *Repo) Update(ctx context.Context, id string, email, passwordHash, name *string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}

	const q = `
update users
set email = coalesce(lower($2), email),
    password_hash = coalesce($3, password_hash),
    name = coalesce($4, name),
    updated_at = now()
where id = $1::uuid and deleted_at is null
returning id::text, email, password_hash, name, role, created_at, updated_at;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, id, email, passwordHash, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// SoftDelete marks the account deleted. The user's visualizations are kept.
func (r *Repo) SoftDelete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrUserNotFound
	}

	const q = `
update users
set deleted_at = now(), updated_at = now()
where id = $1::uuid and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// PurgeDeletedBefore removes account rows soft-deleted before the cutoff.
// Used by the maintenance scheduler.
func (r *Repo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `delete from users where deleted_at is not null and deleted_at < $1;`
	ct, err := r.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
