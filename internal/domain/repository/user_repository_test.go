package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"blog_api/internal/common"
	"blog_api/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	testUserID  = "5f1c7b8e-6a0f-4a8a-9a7a-0c3a6f2f1b11"
	otherUserID = "9d2e4c6a-1b3d-4f5e-8a9b-7c6d5e4f3a22"
)

func newUserRepoWithMock(t *testing.T) (UserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPgUserRepository(db), mock, db
}

func TestUserRepoCreate_Success(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(testUserID, "Ana", "Lopez", "ana@example.com", "hash", model.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user := &model.User{
		ID: testUserID, Name: "Ana", Surname: "Lopez",
		Email: "ana@example.com", HashedPassword: "hash", Role: model.RoleUser,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("created_at not populated: %v", user.CreatedAt)
	}
}

func TestUserRepoCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{ID: testUserID, Email: "dup@example.com"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserRepoFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepoFindByID_Success(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "surname", "email", "hashed_password", "role", "created_at", "updated_at"}).
		AddRow(testUserID, "Ana", "Lopez", "ana@example.com", "hash", model.RoleUser, now, now)
	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE id`).
		WithArgs(testUserID).
		WillReturnRows(rows)

	user, err := repo.FindByID(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if user.Email != "ana@example.com" || user.Role != model.RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
}

// The id column is uuid. A path parameter that is not a UUID can never
// match a row and must not reach the driver, where it would fail to
// encode and surface as a 500 instead of a 404.
func TestUserRepoFindByID_NonUUID(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	for _, id := range []string{"999999", "u-1", ""} {
		_, err := repo.FindByID(context.Background(), id)
		if !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries should have run: %v", err)
	}
}

func TestUserRepoEmailTaken_Excluding(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1 AND id <> \$2\)`).
		WithArgs("ana@example.com", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.EmailTaken(context.Background(), "ana@example.com", testUserID)
	if err != nil {
		t.Fatalf("EmailTaken error: %v", err)
	}
	if !taken {
		t.Fatal("expected email to be taken")
	}
}

// Registration checks against all users; the exclusion clause must be
// dropped entirely, never bound as '' against the uuid id column.
func TestUserRepoEmailTaken_NoExclusion(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.EmailTaken(context.Background(), "new@example.com", "")
	if err != nil {
		t.Fatalf("EmailTaken error: %v", err)
	}
	if taken {
		t.Fatal("expected email to be free")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepoUpdatePartial_AllowedColumns(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET name = \$1, surname = \$2, email = \$3, updated_at = now\(\) WHERE id = \$4`).
		WithArgs("Ana", "Lopez", "ana@example.com", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePartial(context.Background(), testUserID, map[string]interface{}{
		"name":    "Ana",
		"surname": "Lopez",
		"email":   "ana@example.com",
	})
	if err != nil {
		t.Fatalf("UpdatePartial error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A change set with an unexpected column is a bug in the caller, not
// client input; it must never reach the database.
func TestUserRepoUpdatePartial_RejectsUnknownColumn(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	err := repo.UpdatePartial(context.Background(), testUserID, map[string]interface{}{
		"role": model.RoleAdmin,
	})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries should have run: %v", err)
	}
}

func TestUserRepoUpdatePartial_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePartial(context.Background(), otherUserID, map[string]interface{}{
		"name": "Ana",
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
