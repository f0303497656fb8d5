package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lexcrm/crm-system/internal/core/domain"
)

// uniqueViolation is the Postgres error code raised when an insert breaks a
// UNIQUE constraint. It is the backstop for concurrent registrations with the
// same login: one insert wins, the other surfaces as ErrUserExists.
const uniqueViolation = "23505"

const userColumns = `id, login, password_hash, role, lastname, firstname, middlename, email, created_at`

// UserRepository provides user persistence in Postgres.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (login, password_hash, role, created_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, q, user.Login, user.PasswordHash, string(user.Role), user.CreatedAt)
	created, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE login = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, q, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites exactly the four editable profile fields. Login,
// role and password are untouchable through this statement.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, profile domain.Profile) error {
	const q = `
UPDATE users SET lastname = $2, firstname = $3, middlename = $4, email = $5
WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id, profile.LastName, profile.FirstName, profile.MiddleName, profile.Email)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &role, &u.LastName, &u.FirstName, &u.MiddleName, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
