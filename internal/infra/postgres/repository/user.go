package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and sets its ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (username, passkey_hash, role, remarks)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		user.Username,
		user.PasskeyHash,
		user.Role,
		user.Remarks,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by its unique name.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `
		SELECT id, username, passkey_hash, role, remarks, created_at
		FROM users
		WHERE username = $1
	`

	return r.scanOne(ctx, query, username)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, username, passkey_hash, role, remarks, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanOne(ctx, query, userID)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var user entities.User
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasskeyHash,
		&user.Role,
		&user.Remarks,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// List returns users with the given role whose name contains search.
func (r *UserRepository) List(ctx context.Context, role entities.Role, search string) ([]*entities.User, error) {
	query := `
		SELECT id, username, passkey_hash, role, remarks, created_at
		FROM users
		WHERE role = $1 AND ($2::text = '' OR username ILIKE '%' || $2 || '%')
		ORDER BY username
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, role, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasskeyHash, &u.Role, &u.Remarks, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// Update replaces the passkey hash and remarks of a user.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET passkey_hash = $1, remarks = $2
		WHERE id = $3
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, user.PasskeyHash, user.Remarks, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes a user with the given role. Administrators cannot be
// removed through a role=user delete.
func (r *UserRepository) Delete(ctx context.Context, userID int64, role entities.Role) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM users WHERE id = $1 AND role = $2`, userID, role)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the number of users with the given role.
func (r *UserRepository) Count(ctx context.Context, role entities.Role) (int, error) {
	var n int
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}
