package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blog_api/internal/common"
	"blog_api/internal/domain/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Id columns are uuid; the driver rejects a parameter it cannot encode
// as one before the query runs. Route-supplied ids that are not UUIDs
// cannot match a row, so they resolve to not-found instead.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrNotFound
	}
	return parsed.String(), nil
}

// UserRepository is the credential store boundary: find-by-email,
// find-by-id, insert, partial update.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	UpdatePartial(ctx context.Context, id string, changes map[string]interface{}) error
}

// Columns UpdatePartial will accept; everything else in a change set is a
// programming error, not client input, and is rejected outright.
var updatableUserColumns = []string{"name", "surname", "email"}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, surname, email, hashed_password, role)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Surname, user.Email, user.HashedPassword, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, surname, email, hashed_password, role, created_at, updated_at
	          FROM users WHERE email = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Surname, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, name, surname, email, hashed_password, role, created_at, updated_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Surname, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
// Pass an empty excludeID to check against all users; the id column is
// uuid, so the exclusion must be omitted rather than bound as ''.
func (r *pgUserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	args := []interface{}{email}
	if excludeID != "" {
		query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
		args = append(args, excludeID)
	}
	var taken bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&taken); err != nil {
		return false, fmt.Errorf("pgUserRepository.EmailTaken: %w", err)
	}
	return taken, nil
}

func (r *pgUserRepository) UpdatePartial(ctx context.Context, id string, changes map[string]interface{}) error {
	setClauses := make([]string, 0, len(changes)+1)
	args := make([]interface{}, 0, len(changes)+1)

	for _, column := range updatableUserColumns {
		value, ok := changes[column]
		if !ok {
			continue
		}
		args = append(args, value)
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(len(args)))
	}
	if len(setClauses) != len(changes) {
		return fmt.Errorf("unexpected column in change set: %w", common.ErrBadRequest)
	}
	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email already in use: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.UpdatePartial: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePartial: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
