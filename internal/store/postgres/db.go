package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the messenger schema on PostgreSQL.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// Relationship lists
		`CREATE TABLE IF NOT EXISTS lists (
			id   BIGSERIAL   PRIMARY KEY,
			kind VARCHAR(16) NOT NULL CHECK (kind IN ('contact', 'block'))
		)`,

		// Users
		`CREATE TABLE IF NOT EXISTS users (
			login           VARCHAR(50)  PRIMARY KEY,
			password        VARCHAR(255) NOT NULL,
			phone           VARCHAR(16)  NOT NULL DEFAULT '',
			contact_list_id BIGINT       NOT NULL UNIQUE REFERENCES lists(id),
			block_list_id   BIGINT       NOT NULL UNIQUE REFERENCES lists(id),
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			CHECK (contact_list_id <> block_list_id)
		)`,

		// List memberships
		`CREATE TABLE IF NOT EXISTS list_memberships (
			list_id      BIGINT      NOT NULL REFERENCES lists(id),
			member_login VARCHAR(50) NOT NULL REFERENCES users(login),
			PRIMARY KEY (list_id, member_login)
		)`,

		// Chats
		`CREATE TABLE IF NOT EXISTS chats (
			id          BIGSERIAL   PRIMARY KEY,
			type        VARCHAR(16) NOT NULL CHECK (type IN ('private', 'group')),
			init_sender VARCHAR(50) NOT NULL REFERENCES users(login),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Chat memberships
		`CREATE TABLE IF NOT EXISTS chat_memberships (
			chat_id      BIGINT      NOT NULL REFERENCES chats(id),
			member_login VARCHAR(50) NOT NULL REFERENCES users(login),
			PRIMARY KEY (chat_id, member_login)
		)`,

		// Messages
		`CREATE TABLE IF NOT EXISTS messages (
			id           BIGSERIAL    PRIMARY KEY,
			text         VARCHAR(300) NOT NULL,
			sent_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			sender_login VARCHAR(50)  NOT NULL REFERENCES users(login),
			chat_id      BIGINT       NOT NULL REFERENCES chats(id),
			edited_at    TIMESTAMPTZ
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_list_memberships_member ON list_memberships(member_login)`,
		`CREATE INDEX IF NOT EXISTS idx_chats_init_sender ON chats(init_sender)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_memberships_member ON chat_memberships(member_login)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_login)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_order ON messages(chat_id, sent_at, id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}
