package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"messenger/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	users    *UserRepo
	lists    *ListRepo
	chats    *ChatRepo
	messages *MessageRepo
}

func newRepositories(q querier) repositories {
	return repositories{
		users:    &UserRepo{db: q},
		lists:    &ListRepo{db: q},
		chats:    &ChatRepo{db: q},
		messages: &MessageRepo{db: q},
	}
}

func (r repositories) Users() domain.UserRepository       { return r.users }
func (r repositories) Lists() domain.ListRepository       { return r.lists }
func (r repositories) Chats() domain.ChatRepository       { return r.chats }
func (r repositories) Messages() domain.MessageRepository { return r.messages }

// Store exposes the SQLite repositories and runs units of work in transactions.
type Store struct {
	repositories
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{repositories: newRepositories(db), db: db}
}

var _ domain.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx domain.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
