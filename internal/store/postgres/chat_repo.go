package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messenger/internal/domain"
)

type ChatRepo struct {
	db querier
}

var _ domain.ChatRepository = (*ChatRepo)(nil)

func (r *ChatRepo) Create(ctx context.Context, c *domain.Chat, memberLogins []string) error {
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO chats (type, init_sender, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, string(c.Type), c.InitSender).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	for _, login := range memberLogins {
		if err := r.AddMember(ctx, c.ID, login); err != nil {
			return fmt.Errorf("insert member %s: %w", login, err)
		}
	}
	return nil
}

func (r *ChatRepo) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	return r.scanChat(ctx, `
		SELECT id, type, init_sender, created_at
		FROM chats WHERE id = $1
	`, id)
}

func (r *ChatRepo) Lock(ctx context.Context, id int64, exclusive bool) (*domain.Chat, error) {
	mode := "FOR SHARE"
	if exclusive {
		mode = "FOR UPDATE"
	}
	return r.scanChat(ctx, `
		SELECT id, type, init_sender, created_at
		FROM chats WHERE id = $1 `+mode, id)
}

func (r *ChatRepo) Delete(ctx context.Context, id int64) error {
	stmts := []struct {
		name  string
		query string
	}{
		{"delete messages", `DELETE FROM messages WHERE chat_id = $1`},
		{"delete memberships", `DELETE FROM chat_memberships WHERE chat_id = $1`},
		{"delete chat", `DELETE FROM chats WHERE id = $1`},
	}
	for _, st := range stmts {
		if _, err := r.db.ExecContext(ctx, st.query, id); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}

func (r *ChatRepo) scanChat(ctx context.Context, query string, arg any) (*domain.Chat, error) {
	c := &domain.Chat{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Type, &c.InitSender, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}
