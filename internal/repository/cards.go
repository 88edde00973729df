package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardkit/boardkit/internal/models"
)

// PostgresCardRepository implements card lookup operations against a
// PostgreSQL database.
type PostgresCardRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCardRepository creates a new PostgresCardRepository with the
// given database connection.
func NewPostgresCardRepository(db *sql.DB) *PostgresCardRepository {
	return &PostgresCardRepository{DB: db}
}

const cardColumns = `id, title, COALESCE(description, ''), board_id, stack_id, card_order, owner, duedate, done`

// FindAllWithDue fetches every open card of the board that has a due date,
// ordered by due date ascending.
//
//	ctx:     context for cancellation and deadlines
//	boardID: identifier of the board
//
// Returns a slice of models.Card or an error if the query or scanning fails.
func (s *PostgresCardRepository) FindAllWithDue(ctx context.Context, boardID string) ([]models.Card, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards
		 WHERE board_id = $1 AND duedate IS NOT NULL AND done = false
		 ORDER BY duedate
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("FindAllWithDue: %w", err)
	}
	return scanCards(rows)
}

// FindToMeOrNotAssigned fetches every open card of the board that is either
// assigned to the given user or assigned to nobody. Cards exclusively
// assigned to other users are excluded.
func (s *PostgresCardRepository) FindToMeOrNotAssigned(ctx context.Context, boardID, uid string) ([]models.Card, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards c
		 WHERE c.board_id = $1 AND c.done = false
		   AND (EXISTS (SELECT 1 FROM assigned_users au WHERE au.card_id = c.id AND au.participant = $2)
		     OR NOT EXISTS (SELECT 1 FROM assigned_users au WHERE au.card_id = c.id))
		 ORDER BY c.duedate NULLS LAST
	`, boardID, uid)
	if err != nil {
		return nil, fmt.Errorf("FindToMeOrNotAssigned: %w", err)
	}
	return scanCards(rows)
}

// AssignedUsers fetches the users currently assigned to the card. Assignments
// whose participant has no directory record fall back to the raw UID as
// display name.
func (s *PostgresCardRepository) AssignedUsers(ctx context.Context, cardID string) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT au.participant, COALESCE(NULLIF(u.displayname, ''), au.participant)
		  FROM assigned_users au
		  LEFT JOIN users u ON u.uid = au.participant
		 WHERE au.card_id = $1
		 ORDER BY au.participant
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("AssignedUsers: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AssignedUsers rows: %w", err)
	}
	return users, nil
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	defer rows.Close()
	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.BoardID, &c.StackID,
			&c.Order, &c.Owner.UID, &c.Duedate, &c.Done); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return cards, nil
}

// PostgresLabelRepository implements label lookups against a PostgreSQL
// database.
type PostgresLabelRepository struct {
	DB *sql.DB
}

// NewPostgresLabelRepository creates a new PostgresLabelRepository with the
// given database connection.
func NewPostgresLabelRepository(db *sql.DB) *PostgresLabelRepository {
	return &PostgresLabelRepository{DB: db}
}

// FindAssignedLabelsForCard fetches the labels attached to the card.
func (s *PostgresLabelRepository) FindAssignedLabelsForCard(ctx context.Context, cardID string) ([]models.Label, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT l.id, l.board_id, l.title, COALESCE(l.color, '')
		  FROM labels l
		  JOIN card_labels cl ON cl.label_id = l.id
		 WHERE cl.card_id = $1
		 ORDER BY l.title
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("FindAssignedLabelsForCard: %w", err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Color); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAssignedLabelsForCard rows: %w", err)
	}
	return labels, nil
}

// PostgresAttachmentRepository implements attachment counting against a
// PostgreSQL database.
type PostgresAttachmentRepository struct {
	DB *sql.DB
}

// NewPostgresAttachmentRepository creates a new PostgresAttachmentRepository
// with the given database connection.
func NewPostgresAttachmentRepository(db *sql.DB) *PostgresAttachmentRepository {
	return &PostgresAttachmentRepository{DB: db}
}

// Count returns the number of non-deleted attachments on the card.
func (s *PostgresAttachmentRepository) Count(ctx context.Context, cardID string) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attachments WHERE card_id = $1 AND deleted = false
	`, cardID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("Count attachments: %w", err)
	}
	return count, nil
}
