package domain

import (
	"fmt"
	"time"
)

// MaxMessageLength is the inclusive upper bound on message text, in characters.
const MaxMessageLength = 300

// ListKind identifies one of the two relationship lists every user owns.
type ListKind string

const (
	ListContact ListKind = "contact"
	ListBlock   ListKind = "block"
)

// ParseListKind converts user input into a ListKind.
func ParseListKind(s string) (ListKind, error) {
	switch k := ListKind(s); k {
	case ListContact, ListBlock:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown list kind %q", ErrValidation, s)
}

// ChatType is derived from the member count at creation and never changes.
type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
)

// User represents an account. Login is the unique identifier.
type User struct {
	Login         string    `db:"login" json:"login"`
	Password      string    `db:"password" json:"-"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	ContactListID int64     `db:"contact_list_id" json:"contact_list_id"`
	BlockListID   int64     `db:"block_list_id" json:"block_list_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ListID returns the id of the user's list of the given kind.
func (u *User) ListID(kind ListKind) int64 {
	if kind == ListBlock {
		return u.BlockListID
	}
	return u.ContactListID
}

// List is a named membership collection owned by exactly one user.
type List struct {
	ID   int64    `db:"id"`
	Kind ListKind `db:"kind"`
}

// Chat represents a conversation. InitSender is its immutable owner.
type Chat struct {
	ID         int64     `db:"id" json:"id"`
	Type       ChatType  `db:"type" json:"type"`
	InitSender string    `db:"init_sender" json:"init_sender"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChatSummary is a chat together with its member logins, as shown to a user
// before they pick a chat.
type ChatSummary struct {
	Chat
	Members []string `json:"members"`
}

// Message is a single chat message. Only Text (and EditedAt) change after creation.
type Message struct {
	ID          int64      `db:"id" json:"id"`
	Text        string     `db:"text" json:"text"`
	SentAt      time.Time  `db:"sent_at" json:"sent_at"`
	SenderLogin string     `db:"sender_login" json:"sender_login"`
	ChatID      int64      `db:"chat_id" json:"chat_id"`
	EditedAt    *time.Time `db:"edited_at" json:"edited_at,omitempty"`
}
