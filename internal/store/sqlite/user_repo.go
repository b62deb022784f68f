package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messenger/internal/domain"
)

type UserRepo struct {
	db querier
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	blockID, err := r.insertList(ctx, domain.ListBlock)
	if err != nil {
		return err
	}
	contactID, err := r.insertList(ctx, domain.ListContact)
	if err != nil {
		return err
	}
	u.BlockListID, u.ContactListID = blockID, contactID
	u.CreatedAt = time.Now().UTC()

	var login string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (login, password, phone, contact_list_id, block_list_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (login) DO NOTHING
		RETURNING login
	`, u.Login, u.Password, u.Phone, u.ContactListID, u.BlockListID, u.CreatedAt).Scan(&login)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDuplicateLogin
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) insertList(ctx context.Context, kind domain.ListKind) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx,
		`INSERT INTO lists (kind) VALUES (?) RETURNING id`, string(kind),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s list: %w", kind, err)
	}
	return id, nil
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT login, password, phone, contact_list_id, block_list_id, created_at FROM users WHERE login = ?`
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&u.Login,
		&u.Password,
		&u.Phone,
		&u.ContactListID,
		&u.BlockListID,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Exists(ctx context.Context, login string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE login = ?`, login).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return true, nil
}

func (r *UserRepo) Delete(ctx context.Context, login string) error {
	u, err := r.GetByLogin(ctx, login)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM list_memberships WHERE member_login = ?`, login); err != nil {
		return fmt.Errorf("delete list appearances: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM list_memberships WHERE list_id IN (?, ?)`, u.ContactListID, u.BlockListID); err != nil {
		return fmt.Errorf("empty own lists: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE login = ?`, login); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id IN (?, ?)`, u.ContactListID, u.BlockListID); err != nil {
		return fmt.Errorf("delete own lists: %w", err)
	}
	return nil
}
