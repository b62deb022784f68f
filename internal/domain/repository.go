package domain

import (
	"context"
)

// UserRepository defines persistence operations for users and their intrinsic lists.
type UserRepository interface {
	// Create allocates the block and contact lists and inserts the user row
	// referencing them. It fills the list ids and returns ErrDuplicateLogin
	// when the login is taken. Run it inside Store.InTx.
	Create(ctx context.Context, u *User) error
	GetByLogin(ctx context.Context, login string) (*User, error)
	Exists(ctx context.Context, login string) (bool, error)
	// Delete removes the user from every list, empties and drops its own lists
	// and deletes the user row.
	Delete(ctx context.Context, login string) error
}

// ListRepository defines operations on relationship list memberships.
type ListRepository interface {
	AddMember(ctx context.Context, listID int64, login string) error
	RemoveMember(ctx context.Context, listID int64, login string) error
	Members(ctx context.Context, listID int64) ([]string, error)
}

// ChatRepository defines persistence operations for chats and chat memberships.
type ChatRepository interface {
	// Create inserts the chat and one membership per login, filling c.ID from
	// the insert itself.
	Create(ctx context.Context, c *Chat, memberLogins []string) error
	GetByID(ctx context.Context, id int64) (*Chat, error)
	// Lock reads the chat and, where the backend supports row locks, holds an
	// exclusive or shared lock on it until the surrounding transaction ends.
	Lock(ctx context.Context, id int64, exclusive bool) (*Chat, error)
	AddMember(ctx context.Context, chatID int64, login string) error
	RemoveMember(ctx context.Context, chatID int64, login string) error
	IsMember(ctx context.Context, chatID int64, login string) (bool, error)
	Members(ctx context.Context, chatID int64) ([]string, error)
	ListForUser(ctx context.Context, login string) ([]*ChatSummary, error)
	CountForUser(ctx context.Context, login string) (int, error)
	// Delete removes the chat's messages, then its memberships, then the chat row.
	Delete(ctx context.Context, id int64) error
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetInChat(ctx context.Context, chatID, id int64) (*Message, error)
	UpdateText(ctx context.Context, m *Message) error
	Delete(ctx context.Context, chatID, id int64) error
	ListOrdered(ctx context.Context, chatID int64) ([]*Message, error)
	// DeleteBySender removes every message login sent, in any chat, and
	// returns how many were removed.
	DeleteBySender(ctx context.Context, login string) (int64, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Lists() ListRepository
	Chats() ChatRepository
	Messages() MessageRepository
}

// Store is a Repositories backed by a database that can run a unit of work
// atomically. fn's repositories are bound to the transaction; returning an
// error rolls it back.
type Store interface {
	Repositories
	InTx(ctx context.Context, fn func(tx Repositories) error) error
}
