package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestResolveUser_UnknownIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	dir := NewPostgresDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE uid = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "coalesce"}))

	user, err := dir.ResolveUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unknown identity must not error: %v", err)
	}
	if user != nil {
		t.Fatalf("got %+v; want nil for an unknown identity", user)
	}
}

func TestResolveUser_Known(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	dir := NewPostgresDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE uid = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "coalesce"}).AddRow("alice", "Alice A."))

	user, err := dir.ResolveUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.DisplayName != "Alice A." {
		t.Fatalf("got %+v; want Alice A.", user)
	}
}

func TestUserGroupIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	dir := NewPostgresDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT group_id FROM group_members WHERE uid = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow("g1").AddRow("g2"))

	groups, err := dir.UserGroupIDs(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 || groups[0] != "g1" {
		t.Fatalf("got %v; want [g1 g2]", groups)
	}
}

func TestCircleDirectory_BoardsForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	circles := NewPostgresCircleDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT circle_id FROM circle_members WHERE uid = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"circle_id"}).AddRow("K"))
	mock.ExpectQuery(regexp.QuoteMeta(`a.type = 'circle' AND a.participant = ANY($1)`)).
		WithArgs(pq.Array([]string{"K"})).
		WillReturnRows(boardRows().AddRow("b4", "Circle board", "carol", false, false))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM acl WHERE board_id = ANY($1)`)).
		WithArgs(pq.Array([]string{"b4"})).
		WillReturnRows(aclRows().AddRow("a3", "b4", "circle", "K", true, false, false))

	boards, err := circles.BoardsForUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != "b4" {
		t.Fatalf("got %+v; want b4", boards)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCircleDirectory_NoMemberships(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	circles := NewPostgresCircleDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT circle_id FROM circle_members WHERE uid = $1`)).
		WithArgs("loner").
		WillReturnRows(sqlmock.NewRows([]string{"circle_id"}))

	boards, err := circles.BoardsForUser(context.Background(), "loner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boards != nil {
		t.Fatalf("got %+v; want nil", boards)
	}
}

func TestReadMark_MissingYieldsZeroTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	comments := NewPostgresComments(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM comment_read_marks WHERE card_id = $1 AND uid = $2`)).
		WithArgs("c1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"last_read"}))

	mark, err := comments.ReadMark(context.Background(), "c1", "alice")
	if err != nil {
		t.Fatalf("a viewer without a read mark must not error: %v", err)
	}
	if !mark.IsZero() {
		t.Errorf("mark = %v; want zero time", mark)
	}
}

func TestCountAfter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	comments := NewPostgresComments(db)

	mark := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM comments WHERE card_id = $1 AND created_at > $2`)).
		WithArgs("c1", mark).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := comments.CountAfter(context.Background(), "c1", mark)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d; want 4", count)
	}
}
