// Package repository provides persistence implementations for the board,
// card and access-control services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardkit/boardkit/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresBoardRepository implements board lookup operations against a
// PostgreSQL database.
type PostgresBoardRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresBoardRepository creates a new PostgresBoardRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresBoardRepository(db *sql.DB) *PostgresBoardRepository {
	return &PostgresBoardRepository{DB: db}
}

const boardColumns = `id, title, owner, cover_images, archived`

// FindByOwner fetches every non-archived board owned directly by the user.
//
//	ctx: context for cancellation and deadlines
//	uid: identifier of the owner
//
// Returns the boards with their ACL attached, or an error if the query fails.
func (s *PostgresBoardRepository) FindByOwner(ctx context.Context, uid string) ([]models.Board, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+boardColumns+` FROM boards WHERE owner = $1 AND archived = false ORDER BY title
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("FindByOwner: %w", err)
	}
	boards, err := scanBoards(rows)
	if err != nil {
		return nil, err
	}
	return s.attachAcl(ctx, boards)
}

// FindByGroups fetches every non-archived board shared with any of the given
// group identifiers. Boards owned by the groups' members are not included;
// only explicit group grants count.
func (s *PostgresBoardRepository) FindByGroups(ctx context.Context, groupIDs []string) ([]models.Board, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT b.id, b.title, b.owner, b.cover_images, b.archived FROM boards b
		  JOIN acl a ON a.board_id = b.id
		 WHERE a.type = 'group' AND a.participant = ANY($1) AND b.archived = false
		 ORDER BY b.title
	`, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("FindByGroups: %w", err)
	}
	boards, err := scanBoards(rows)
	if err != nil {
		return nil, err
	}
	return s.attachAcl(ctx, boards)
}

// FindByCircles fetches every non-archived board shared with any of the
// given circle identifiers.
func (s *PostgresBoardRepository) FindByCircles(ctx context.Context, circleIDs []string) ([]models.Board, error) {
	if len(circleIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT b.id, b.title, b.owner, b.cover_images, b.archived FROM boards b
		  JOIN acl a ON a.board_id = b.id
		 WHERE a.type = 'circle' AND a.participant = ANY($1) AND b.archived = false
		 ORDER BY b.title
	`, pq.Array(circleIDs))
	if err != nil {
		return nil, fmt.Errorf("FindByCircles: %w", err)
	}
	boards, err := scanBoards(rows)
	if err != nil {
		return nil, err
	}
	return s.attachAcl(ctx, boards)
}

// CreateBoard inserts a new board with a generated identifier and returns it.
// New boards render attachment covers until the owner turns them off.
func (s *PostgresBoardRepository) CreateBoard(ctx context.Context, title, owner string) (*models.Board, error) {
	board := &models.Board{ID: uuid.NewString(), Title: title, Owner: owner, CoverImages: true}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO boards (id, title, owner, cover_images, archived) VALUES ($1, $2, $3, true, false)
	`, board.ID, board.Title, board.Owner)
	if err != nil {
		return nil, fmt.Errorf("CreateBoard: %w", err)
	}
	return board, nil
}

// attachAcl loads the ACL entries for every board in one query and fills
// each board's Acl slice. Boards without entries keep a nil slice, which is
// what marks them private.
func (s *PostgresBoardRepository) attachAcl(ctx context.Context, boards []models.Board) ([]models.Board, error) {
	if len(boards) == 0 {
		return boards, nil
	}
	ids := make([]string, 0, len(boards))
	index := make(map[string]int, len(boards))
	for i, b := range boards {
		ids = append(ids, b.ID)
		index[b.ID] = i
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, board_id, type, participant, permission_read, permission_edit, permission_manage
		  FROM acl WHERE board_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("attachAcl: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.Acl
		if err := rows.Scan(&entry.ID, &entry.BoardID, &entry.Type, &entry.Participant,
			&entry.PermissionRead, &entry.PermissionEdit, &entry.PermissionManage); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		i := index[entry.BoardID]
		boards[i].Acl = append(boards[i].Acl, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attachAcl rows: %w", err)
	}
	return boards, nil
}

func scanBoards(rows *sql.Rows) ([]models.Board, error) {
	defer rows.Close()
	var boards []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Title, &b.Owner, &b.CoverImages, &b.Archived); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return boards, nil
}
