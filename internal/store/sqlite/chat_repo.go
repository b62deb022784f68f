package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"messenger/internal/domain"
)

type ChatRepo struct {
	db querier
}

var _ domain.ChatRepository = (*ChatRepo)(nil)

func (r *ChatRepo) Create(ctx context.Context, c *domain.Chat, memberLogins []string) error {
	c.CreatedAt = time.Now().UTC()
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO chats (type, init_sender, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`, string(c.Type), c.InitSender, c.CreatedAt).Scan(&c.ID); err != nil {
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
	query := `
		SELECT id, type, init_sender, created_at
		FROM chats
		WHERE id = ?
	`
	c := &domain.Chat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Type,
		&c.InitSender,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}

// Lock is a plain read on SQLite: the single connection already serialises
// transactions.
func (r *ChatRepo) Lock(ctx context.Context, id int64, _ bool) (*domain.Chat, error) {
	return r.GetByID(ctx, id)
}

func (r *ChatRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_memberships WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}
