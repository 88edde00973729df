package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boardkit/boardkit/internal/models"
)

// PostgresDirectory implements identity and group-membership lookups against
// the host's user tables. An unknown UID resolves to nil without error.
type PostgresDirectory struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDirectory creates a new PostgresDirectory with the given
// database connection.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{DB: db}
}

// ResolveUser looks up a user by UID. Returns (nil, nil) when the identity
// is unknown.
func (s *PostgresDirectory) ResolveUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT uid, COALESCE(NULLIF(displayname, ''), uid) FROM users WHERE uid = $1
	`, uid).Scan(&u.UID, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ResolveUser: %w", err)
	}
	return &u, nil
}

// UserGroupIDs returns the identifiers of every group the user belongs to.
func (s *PostgresDirectory) UserGroupIDs(ctx context.Context, uid string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT group_id FROM group_members WHERE uid = $1 ORDER BY group_id
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("UserGroupIDs: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		groups = append(groups, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("UserGroupIDs rows: %w", err)
	}
	return groups, nil
}

// PostgresCircleDirectory resolves circle memberships from the host's
// circle_members table and maps them to boards shared with those circles.
// Circle identifiers stay opaque; this adapter only joins them.
type PostgresCircleDirectory struct {
	DB     *sql.DB
	boards *PostgresBoardRepository
}

// NewPostgresCircleDirectory creates a new PostgresCircleDirectory with the
// given database connection.
func NewPostgresCircleDirectory(db *sql.DB) *PostgresCircleDirectory {
	return &PostgresCircleDirectory{DB: db, boards: NewPostgresBoardRepository(db)}
}

// BoardsForUser returns every board reachable by the user through circle
// membership. A user with no circle memberships yields an empty set.
func (s *PostgresCircleDirectory) BoardsForUser(ctx context.Context, uid string) ([]models.Board, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT circle_id FROM circle_members WHERE uid = $1 ORDER BY circle_id
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("BoardsForUser circles: %w", err)
	}
	defer rows.Close()

	var circles []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		circles = append(circles, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BoardsForUser rows: %w", err)
	}
	return s.boards.FindByCircles(ctx, circles)
}

// PostgresComments implements read-mark and unread-count lookups against the
// host's comment tables.
type PostgresComments struct {
	DB *sql.DB
}

// NewPostgresComments creates a new PostgresComments with the given database
// connection.
func NewPostgresComments(db *sql.DB) *PostgresComments {
	return &PostgresComments{DB: db}
}

// ReadMark returns the viewer's last-read timestamp for the card's comment
// thread. A viewer who never read the thread gets the zero time, so every
// comment counts as unread.
func (s *PostgresComments) ReadMark(ctx context.Context, cardID, uid string) (time.Time, error) {
	var mark time.Time
	err := s.DB.QueryRowContext(ctx, `
		SELECT last_read FROM comment_read_marks WHERE card_id = $1 AND uid = $2
	`, cardID, uid).Scan(&mark)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("ReadMark: %w", err)
	}
	return mark, nil
}

// CountAfter returns the number of comments on the card created strictly
// after the given mark.
func (s *PostgresComments) CountAfter(ctx context.Context, cardID string, mark time.Time) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE card_id = $1 AND created_at > $2
	`, cardID, mark).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountAfter: %w", err)
	}
	return count, nil
}
