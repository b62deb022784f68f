package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN. Writers are serialised
// through a single connection so every transaction sees a consistent file.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA busy_timeout = 5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return db, nil
}

// Migrate runs idempotent CREATE TABLE / CREATE INDEX statements mirroring the
// PostgreSQL schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// Relationship lists
		`CREATE TABLE IF NOT EXISTS lists (
			id INTEGER PRIMARY KEY,
			kind VARCHAR(16) NOT NULL CHECK (kind IN ('contact', 'block'))
		);`,
		// Users
		`CREATE TABLE IF NOT EXISTS users (
			login VARCHAR(50) PRIMARY KEY,
			password VARCHAR(255) NOT NULL,
			phone VARCHAR(16) NOT NULL DEFAULT '',
			contact_list_id INTEGER NOT NULL UNIQUE,
			block_list_id INTEGER NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (contact_list_id <> block_list_id),
			FOREIGN KEY (contact_list_id) REFERENCES lists(id),
			FOREIGN KEY (block_list_id) REFERENCES lists(id)
		);`,
		// List memberships
		`CREATE TABLE IF NOT EXISTS list_memberships (
			list_id INTEGER NOT NULL,
			member_login VARCHAR(50) NOT NULL,
			PRIMARY KEY (list_id, member_login),
			FOREIGN KEY (list_id) REFERENCES lists(id),
			FOREIGN KEY (member_login) REFERENCES users(login)
		);`,
		// Chats
		`CREATE TABLE IF NOT EXISTS chats (
			id INTEGER PRIMARY KEY,
			type VARCHAR(16) NOT NULL CHECK (type IN ('private', 'group')),
			init_sender VARCHAR(50) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (init_sender) REFERENCES users(login)
		);`,
		// Chat memberships
		`CREATE TABLE IF NOT EXISTS chat_memberships (
			chat_id INTEGER NOT NULL,
			member_login VARCHAR(50) NOT NULL,
			PRIMARY KEY (chat_id, member_login),
			FOREIGN KEY (chat_id) REFERENCES chats(id),
			FOREIGN KEY (member_login) REFERENCES users(login)
		);`,
		// Messages
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL CHECK (length(text) <= 300),
			sent_at DATETIME NOT NULL,
			sender_login VARCHAR(50) NOT NULL,
			chat_id INTEGER NOT NULL,
			edited_at DATETIME DEFAULT NULL,
			FOREIGN KEY (sender_login) REFERENCES users(login),
			FOREIGN KEY (chat_id) REFERENCES chats(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_list_memberships_member ON list_memberships(member_login);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_init_sender ON chats(init_sender);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_memberships_member ON chat_memberships(member_login);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_login);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_order ON messages(chat_id, sent_at, id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
