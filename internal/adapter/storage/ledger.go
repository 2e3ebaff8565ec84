package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RetroMaine/FintechProject/internal/core/domain"
)

// LedgerRepository persists prediction records. The table is append-only:
// no statement here updates or deletes a row.
type LedgerRepository struct {
	Db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{Db: db}
}

// Record appends one prediction record and returns its identifier.
func (r *LedgerRepository) Record(ctx context.Context, rec domain.PredictionRecord) (uuid.UUID, error) {
	query := `
		INSERT INTO predictions (
			user_id, income, rating, cards, age, balance,
			education, student, married, ethnicity,
			credit_limit, approval_probability, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id uuid.UUID
	err := r.Db.QueryRow(ctx, query,
		rec.UserID,
		rec.Features.Income,
		rec.Features.Rating,
		rec.Features.Cards,
		rec.Features.Age,
		rec.Features.Balance,
		rec.Features.Education,
		rec.Features.Student,
		rec.Features.Married,
		rec.Features.Ethnicity,
		rec.CreditLimit,
		rec.ApprovalProbability,
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record prediction: %w", err)
	}
	return id, nil
}

// History returns every entry for the user, most recent first.
func (r *LedgerRepository) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	query := `
		SELECT created_at, credit_limit
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.Date, &entry.Limit); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return history, nil
}

// Latest returns the outputs of the user's most recent record, or
// domain.ErrNoRecords when the history is empty.
func (r *LedgerRepository) Latest(ctx context.Context, userID string) (domain.LatestOutputs, error) {
	query := `
		SELECT credit_limit, approval_probability
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var out domain.LatestOutputs
	err := r.Db.QueryRow(ctx, query, userID).Scan(&out.CreditLimit, &out.ApprovalProbability)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LatestOutputs{}, domain.ErrNoRecords
	}
	if err != nil {
		return domain.LatestOutputs{}, fmt.Errorf("failed to query latest record: %w", err)
	}
	return out, nil
}
