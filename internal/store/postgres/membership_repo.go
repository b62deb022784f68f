package postgres

import (
	"context"
	"fmt"

	"messenger/internal/domain"
)

func (r *ChatRepo) AddMember(ctx context.Context, chatID int64, login string) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_memberships (chat_id, member_login)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, chatID, login)
	if err != nil {
		return fmt.Errorf("insert chat member: %w", err)
	}
	return requireAffected(res, domain.ErrDuplicateMember)
}

func (r *ChatRepo) RemoveMember(ctx context.Context, chatID int64, login string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_memberships WHERE chat_id = $1 AND member_login = $2
	`, chatID, login)
	if err != nil {
		return fmt.Errorf("delete chat member: %w", err)
	}
	return requireAffected(res, domain.ErrMembershipNotFound)
}

func (r *ChatRepo) IsMember(ctx context.Context, chatID int64, login string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat_memberships
			WHERE chat_id = $1 AND member_login = $2
		)
	`, chatID, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return exists, nil
}

func (r *ChatRepo) Members(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT member_login FROM chat_memberships
		WHERE chat_id = $1
		ORDER BY member_login ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list chat members: %w", err)
	}
	return scanLogins(rows)
}

func (r *ChatRepo) ListForUser(ctx context.Context, login string) ([]*domain.ChatSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.type, c.init_sender, c.created_at, m.member_login
		FROM chats c
		JOIN chat_memberships mine ON mine.chat_id = c.id AND mine.member_login = $1
		JOIN chat_memberships m ON m.chat_id = c.id
		ORDER BY c.id ASC, m.member_login ASC
	`, login)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	res := []*domain.ChatSummary{}
	var cur *domain.ChatSummary
	for rows.Next() {
		var (
			c      domain.Chat
			member string
		)
		if err := rows.Scan(&c.ID, &c.Type, &c.InitSender, &c.CreatedAt, &member); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		if cur == nil || cur.ID != c.ID {
			cur = &domain.ChatSummary{Chat: c}
			res = append(res, cur)
		}
		cur.Members = append(cur.Members, member)
	}
	return res, rows.Err()
}

func (r *ChatRepo) CountForUser(ctx context.Context, login string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chat_memberships WHERE member_login = $1
	`, login).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return n, nil
}
