package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"messenger/internal/domain"
)

type ListRepo struct {
	db querier
}

var _ domain.ListRepository = (*ListRepo)(nil)

func (r *ListRepo) AddMember(ctx context.Context, listID int64, login string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO list_memberships (list_id, member_login)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, listID, login)
	if err != nil {
		return fmt.Errorf("insert list member: %w", err)
	}
	return requireAffected(res, domain.ErrDuplicateMember)
}

func (r *ListRepo) RemoveMember(ctx context.Context, listID int64, login string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM list_memberships WHERE list_id = $1 AND member_login = $2
	`, listID, login)
	if err != nil {
		return fmt.Errorf("delete list member: %w", err)
	}
	return requireAffected(res, domain.ErrMembershipNotFound)
}

func (r *ListRepo) Members(ctx context.Context, listID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT member_login FROM list_memberships
		WHERE list_id = $1
		ORDER BY member_login ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return scanLogins(rows)
}

// requireAffected returns errNone when res reports zero affected rows.
func requireAffected(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}

func scanLogins(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	logins := []string{}
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("scan login: %w", err)
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}
