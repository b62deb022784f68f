package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"messenger/internal/domain"
)

type MessageRepo struct {
	db querier
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (text, sent_at, sender_login, chat_id)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query,
		m.Text,
		m.SentAt,
		m.SenderLogin,
		m.ChatID,
	).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) GetInChat(ctx context.Context, chatID, id int64) (*domain.Message, error) {
	query := `
		SELECT id, text, sent_at, sender_login, chat_id, edited_at
		FROM messages
		WHERE id = ? AND chat_id = ?
	`
	m := &domain.Message{}
	err := r.db.QueryRowContext(ctx, query, id, chatID).Scan(
		&m.ID,
		&m.Text,
		&m.SentAt,
		&m.SenderLogin,
		&m.ChatID,
		&m.EditedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) UpdateText(ctx context.Context, m *domain.Message) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET text = ?, edited_at = ?
		WHERE id = ? AND chat_id = ?
	`, m.Text, m.EditedAt, m.ID, m.ChatID)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return requireAffected(res, domain.ErrMessageNotFound)
}

func (r *MessageRepo) Delete(ctx context.Context, chatID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM messages WHERE id = ? AND chat_id = ?
	`, id, chatID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireAffected(res, domain.ErrMessageNotFound)
}

func (r *MessageRepo) ListOrdered(ctx context.Context, chatID int64) ([]*domain.Message, error) {
	query := `
		SELECT id, text, sent_at, sender_login, chat_id, edited_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	res := []*domain.Message{}
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(
			&m.ID,
			&m.Text,
			&m.SentAt,
			&m.SenderLogin,
			&m.ChatID,
			&m.EditedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MessageRepo) DeleteBySender(ctx context.Context, login string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE sender_login = ?`, login)
	if err != nil {
		return 0, fmt.Errorf("delete messages by sender: %w", err)
	}
	return res.RowsAffected()
}
