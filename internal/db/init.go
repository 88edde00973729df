package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    uid TEXT PRIMARY KEY,
    displayname TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    uid TEXT NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
    PRIMARY KEY (group_id, uid)
);

CREATE TABLE IF NOT EXISTS circle_members (
    circle_id TEXT NOT NULL,
    uid TEXT NOT NULL,
    PRIMARY KEY (circle_id, uid)
);

CREATE TABLE IF NOT EXISTS boards (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    owner TEXT NOT NULL,
    cover_images BOOLEAN NOT NULL DEFAULT TRUE,
    archived BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS acl (
    id TEXT PRIMARY KEY,
    board_id TEXT REFERENCES boards(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    participant TEXT NOT NULL,
    permission_read BOOLEAN NOT NULL DEFAULT TRUE,
    permission_edit BOOLEAN NOT NULL DEFAULT FALSE,
    permission_manage BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    board_id TEXT REFERENCES boards(id) ON DELETE CASCADE,
    stack_id TEXT NOT NULL,
    card_order BIGINT NOT NULL DEFAULT 0,
    owner TEXT NOT NULL,
    duedate TIMESTAMPTZ,
    done BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS labels (
    id TEXT PRIMARY KEY,
    board_id TEXT REFERENCES boards(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    color TEXT
);

CREATE TABLE IF NOT EXISTS card_labels (
    card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    label_id TEXT NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
    PRIMARY KEY (card_id, label_id)
);

CREATE TABLE IF NOT EXISTS assigned_users (
    card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    participant TEXT NOT NULL,
    PRIMARY KEY (card_id, participant)
);

CREATE TABLE IF NOT EXISTS attachments (
    id TEXT PRIMARY KEY,
    card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    actor TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comment_read_marks (
    card_id TEXT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
    uid TEXT NOT NULL,
    last_read TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (card_id, uid)
);

CREATE TABLE IF NOT EXISTS circle_tombstones (
    circle_id TEXT PRIMARY KEY,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
