package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

const uniqueViolation = "23505"

// UserRepository stores registered profiles.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create registers a new profile. A duplicate email surfaces as
// domain.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	user := domain.User{Name: name, Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRow(ctx, query, name, email, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetByEmail fetches a profile by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash,
		       dependent_count, education_level, income_category, marital_status,
		       created_at
		FROM users
		WHERE email = $1
	`

	var (
		user           domain.User
		dependentCount *int
		educationLevel *string
		incomeCategory *string
		maritalStatus  *string
		createdAt      time.Time
	)
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&dependentCount, &educationLevel, &incomeCategory, &maritalStatus,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	user.CreatedAt = createdAt
	if dependentCount != nil {
		user.Profile.DependentCount = *dependentCount
	}
	if educationLevel != nil {
		user.Profile.EducationLevel = *educationLevel
	}
	if incomeCategory != nil {
		user.Profile.IncomeCategory = *incomeCategory
	}
	if maritalStatus != nil {
		user.Profile.MaritalStatus = *maritalStatus
	}
	return &user, nil
}

// UpdateProfile stores the demographic setup fields for an existing user.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, p domain.ProfileSetup) error {
	query := `
		UPDATE users
		SET dependent_count = $2, education_level = $3,
		    income_category = $4, marital_status = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, p.DependentCount, p.EducationLevel, p.IncomeCategory, p.MaritalStatus)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns every profile's public identity fields.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, nil
}
