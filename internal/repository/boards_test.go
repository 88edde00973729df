package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func setupBoardMock(t *testing.T) (*PostgresBoardRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresBoardRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func boardRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "owner", "cover_images", "archived"})
}

func aclRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "board_id", "type", "participant", "permission_read", "permission_edit", "permission_manage"})
}

func TestFindByOwner_AttachesAcl(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM boards WHERE owner = $1 AND archived = false`)).
		WithArgs("alice").
		WillReturnRows(boardRows().
			AddRow("b1", "Private1", "alice", true, false).
			AddRow("b2", "Shared1", "alice", true, false))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM acl WHERE board_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"b1", "b2"})).
		WillReturnRows(aclRows().
			AddRow("a1", "b2", "group", "g1", true, true, false))

	boards, err := repo.FindByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("got %d boards; want 2", len(boards))
	}
	if boards[0].Shared() {
		t.Error("b1 has no acl entries and must be private")
	}
	if !boards[0].CoverImages {
		t.Error("b1 must keep its cover-images flag")
	}
	if !boards[1].Shared() || boards[1].Acl[0].Participant != "g1" {
		t.Errorf("b2 acl = %+v; want the g1 grant", boards[1].Acl)
	}
	if !boards[1].Acl[0].PermissionRead || !boards[1].Acl[0].PermissionEdit {
		t.Errorf("b2 acl bits = %+v; want read and edit set", boards[1].Acl[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByOwner_Error(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM boards WHERE owner = $1`)).
		WithArgs("alice").
		WillReturnError(errors.New("query fail"))

	_, err := repo.FindByOwner(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`FindByOwner`).MatchString(err.Error()) {
		t.Errorf("expected FindByOwner error, got %v", err)
	}
}

func TestFindByGroups_EmptySetSkipsQuery(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	boards, err := repo.FindByGroups(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boards != nil {
		t.Errorf("got %+v; want nil for empty group set", boards)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query must run for an empty group set: %v", err)
	}
}

func TestFindByGroups_Success(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`a.type = 'group' AND a.participant = ANY($1)`)).
		WithArgs(pq.Array([]string{"g1", "g2"})).
		WillReturnRows(boardRows().AddRow("b3", "Team", "bob", true, false))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM acl WHERE board_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"b3"})).
		WillReturnRows(aclRows().AddRow("a2", "b3", "group", "g1", true, false, false))

	boards, err := repo.FindByGroups(context.Background(), []string{"g1", "g2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != "b3" {
		t.Fatalf("got %+v; want b3", boards)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByCircles_Success(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`a.type = 'circle' AND a.participant = ANY($1)`)).
		WithArgs(pq.Array([]string{"K"})).
		WillReturnRows(boardRows().AddRow("b4", "Circle board", "carol", false, false))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM acl WHERE board_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"b4"})).
		WillReturnRows(aclRows().AddRow("a3", "b4", "circle", "K", true, false, false))

	boards, err := repo.FindByCircles(context.Background(), []string{"K"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 1 || boards[0].Acl[0].Participant != "K" {
		t.Fatalf("got %+v; want b4 with the K grant", boards)
	}
}

func TestCreateBoard_DefaultsCoverImages(t *testing.T) {
	repo, mock, cleanup := setupBoardMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO boards (id, title, owner, cover_images, archived) VALUES ($1, $2, $3, true, false)`)).
		WithArgs(sqlmock.AnyArg(), "Sprint", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	board, err := repo.CreateBoard(context.Background(), "Sprint", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.ID == "" {
		t.Error("expected a generated id")
	}
	if !board.CoverImages {
		t.Error("new boards must render attachment covers")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
