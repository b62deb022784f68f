package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messenger/internal/domain"
)

type UserRepo struct {
	db querier
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.QueryRowContext(ctx,
		`INSERT INTO lists (kind) VALUES ($1) RETURNING id`, string(domain.ListBlock),
	).Scan(&u.BlockListID); err != nil {
		return fmt.Errorf("insert block list: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`INSERT INTO lists (kind) VALUES ($1) RETURNING id`, string(domain.ListContact),
	).Scan(&u.ContactListID); err != nil {
		return fmt.Errorf("insert contact list: %w", err)
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (login, password, phone, contact_list_id, block_list_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (login) DO NOTHING
		RETURNING created_at
	`, u.Login, u.Password, u.Phone, u.ContactListID, u.BlockListID).Scan(&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDuplicateLogin
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT login, password, phone, contact_list_id, block_list_id, created_at
		FROM users WHERE login = $1
	`, login).Scan(&u.Login, &u.Password, &u.Phone, &u.ContactListID, &u.BlockListID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Exists(ctx context.Context, login string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`, login,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) Delete(ctx context.Context, login string) error {
	u, err := r.GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	stmts := []struct {
		name  string
		query string
		args  []any
	}{
		{"delete list appearances", `DELETE FROM list_memberships WHERE member_login = $1`, []any{login}},
		{"empty own lists", `DELETE FROM list_memberships WHERE list_id IN ($1, $2)`, []any{u.ContactListID, u.BlockListID}},
		{"delete user", `DELETE FROM users WHERE login = $1`, []any{login}},
		{"delete own lists", `DELETE FROM lists WHERE id IN ($1, $2)`, []any{u.ContactListID, u.BlockListID}},
	}
	for _, st := range stmts {
		if _, err := r.db.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}
