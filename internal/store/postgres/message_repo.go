package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messenger/internal/domain"
)

type MessageRepo struct {
	db querier
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	if err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (text, sent_at, sender_login, chat_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.Text, m.SentAt, m.SenderLogin, m.ChatID).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) GetInChat(ctx context.Context, chatID, id int64) (*domain.Message, error) {
	m := &domain.Message{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, text, sent_at, sender_login, chat_id, edited_at
		FROM messages WHERE id = $1 AND chat_id = $2
	`, id, chatID).Scan(&m.ID, &m.Text, &m.SentAt, &m.SenderLogin, &m.ChatID, &m.EditedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) UpdateText(ctx context.Context, m *domain.Message) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET text = $1, edited_at = $2
		WHERE id = $3 AND chat_id = $4
	`, m.Text, m.EditedAt, m.ID, m.ChatID)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return requireAffected(res, domain.ErrMessageNotFound)
}

func (r *MessageRepo) Delete(ctx context.Context, chatID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM messages WHERE id = $1 AND chat_id = $2
	`, id, chatID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireAffected(res, domain.ErrMessageNotFound)
}

func (r *MessageRepo) ListOrdered(ctx context.Context, chatID int64) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, sent_at, sender_login, chat_id, edited_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY sent_at ASC, id ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	res := []*domain.Message{}
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.Text, &m.SentAt, &m.SenderLogin, &m.ChatID, &m.EditedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MessageRepo) DeleteBySender(ctx context.Context, login string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE sender_login = $1`, login)
	if err != nil {
		return 0, fmt.Errorf("delete messages by sender: %w", err)
	}
	return res.RowsAffected()
}
