package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardkit/boardkit/internal/models"
	"github.com/google/uuid"
)

// PostgresAclRepository implements access-control-entry operations against a
// PostgreSQL database.
type PostgresAclRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresAclRepository creates a new PostgresAclRepository with the given
// database connection.
func NewPostgresAclRepository(db *sql.DB) *PostgresAclRepository {
	return &PostgresAclRepository{DB: db}
}

// Create inserts a new access grant with a generated identifier and returns it.
func (s *PostgresAclRepository) Create(ctx context.Context, entry models.Acl) (*models.Acl, error) {
	entry.ID = uuid.NewString()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO acl (id, board_id, type, participant, permission_read, permission_edit, permission_manage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.BoardID, entry.Type, entry.Participant,
		entry.PermissionRead, entry.PermissionEdit, entry.PermissionManage)
	if err != nil {
		return nil, fmt.Errorf("Create acl: %w", err)
	}
	return &entry, nil
}

// FindByParticipant fetches every ACL entry of the given participant type and
// identifier, across all boards.
//
//	ctx:         context for cancellation and deadlines
//	typ:         participant kind (user, group or circle)
//	participant: opaque identifier of the participant
//
// Returns a slice of models.Acl or an error if the query or scanning fails.
func (s *PostgresAclRepository) FindByParticipant(ctx context.Context, typ models.AclType, participant string) ([]models.Acl, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, board_id, type, participant, permission_read, permission_edit, permission_manage
		  FROM acl WHERE type = $1 AND participant = $2
	`, typ, participant)
	if err != nil {
		return nil, fmt.Errorf("FindByParticipant: %w", err)
	}
	defer rows.Close()

	var entries []models.Acl
	for rows.Next() {
		var entry models.Acl
		if err := rows.Scan(&entry.ID, &entry.BoardID, &entry.Type, &entry.Participant,
			&entry.PermissionRead, &entry.PermissionEdit, &entry.PermissionManage); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindByParticipant rows: %w", err)
	}
	return entries, nil
}

// Delete removes a single ACL entry by identifier.
func (s *PostgresAclRepository) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM acl WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete acl: %w", err)
	}
	return nil
}

// DeleteByParticipant removes every ACL entry of the given participant type
// and identifier across all boards in a single statement, so the cascade is
// all-or-nothing. Returns the number of removed entries; zero when nothing
// matched, which makes redelivered destruction events a no-op.
func (s *PostgresAclRepository) DeleteByParticipant(ctx context.Context, typ models.AclType, participant string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM acl WHERE type = $1 AND participant = $2
	`, typ, participant)
	if err != nil {
		return 0, fmt.Errorf("DeleteByParticipant: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByParticipant rows affected: %w", err)
	}
	return rows, nil
}

// RecordTombstone remembers a destroyed circle whose cascade did not
// complete, so the background sweeper retries it later. Recording the same
// circle twice is a no-op.
func (s *PostgresAclRepository) RecordTombstone(ctx context.Context, circleID string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO circle_tombstones (circle_id) VALUES ($1) ON CONFLICT DO NOTHING
	`, circleID)
	if err != nil {
		return fmt.Errorf("RecordTombstone: %w", err)
	}
	return nil
}
