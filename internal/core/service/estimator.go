package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/RetroMaine/FintechProject/internal/core/domain"
	"github.com/RetroMaine/FintechProject/internal/core/model"
)

// Ledger is the append-only store of prediction records.
type Ledger interface {
	Record(ctx context.Context, rec domain.PredictionRecord) (uuid.UUID, error)
	History(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
	Latest(ctx context.Context, userID string) (domain.LatestOutputs, error)
}

// LatestCache is an optional fast path for a user's most recent outputs.
// A nil result with a nil error is a cache miss.
type LatestCache interface {
	GetLatest(ctx context.Context, userID string) (*domain.LatestOutputs, error)
	SetLatest(ctx context.Context, userID string, out domain.LatestOutputs) error
}

// EstimateResult is the outcome of the combined estimate pipeline, with
// rounding already applied.
type EstimateResult struct {
	RecordID            uuid.UUID
	CreditLimit         float64
	ApprovalProbability float64
}

// HistoryResult pairs a user's ledger entries with their latest outputs.
// Latest is nil when the user has no records.
type HistoryResult struct {
	History []domain.HistoryEntry
	Latest  *domain.LatestOutputs
}

// Estimator drives the prediction pipeline: normalized features in, model
// outputs out, with the combined path recording one ledger entry. It is
// stateless across requests; the registry is shared and read-only.
type Estimator struct {
	registry *model.Registry
	ledger   Ledger
	cache    LatestCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewEstimator wires the estimator. cache may be nil.
func NewEstimator(registry *model.Registry, ledger Ledger, cache LatestCache, logger *slog.Logger) *Estimator {
	return &Estimator{
		registry: registry,
		ledger:   ledger,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// PredictLimit returns the predicted credit limit at full precision.
func (e *Estimator) PredictLimit(f domain.Features) (float64, error) {
	x, err := e.registry.Limit.Transform(f.LimitVector())
	if err != nil {
		return 0, fmt.Errorf("limit prediction: %w", err)
	}
	return e.registry.Limit.Predict(x), nil
}

// PredictApproval returns the approval probability at full precision.
func (e *Estimator) PredictApproval(f domain.Features) (float64, error) {
	x, err := e.registry.Approval.Transform(f.ApprovalVector())
	if err != nil {
		return 0, fmt.Errorf("approval prediction: %w", err)
	}
	probs := e.registry.Approval.PredictProba(x)
	return probs[1], nil
}

// Estimate runs the combined pipeline: limit, then approval, then exactly
// one ledger write. A failure in either prediction short-circuits before the
// write; a write failure fails the whole estimate even though predictions
// succeeded.
func (e *Estimator) Estimate(ctx context.Context, userID string, f domain.Features) (EstimateResult, error) {
	limit, err := e.PredictLimit(f)
	if err != nil {
		return EstimateResult{}, err
	}

	probability, err := e.PredictApproval(f)
	if err != nil {
		return EstimateResult{}, err
	}

	rec := domain.PredictionRecord{
		UserID:              userID,
		Features:            f,
		CreditLimit:         Round2(limit),
		ApprovalProbability: Round4(probability),
		CreatedAt:           e.now().UTC(),
	}

	id, err := e.ledger.Record(ctx, rec)
	if err != nil {
		return EstimateResult{}, fmt.Errorf("record estimate: %w", err)
	}

	if e.cache != nil {
		out := domain.LatestOutputs{
			CreditLimit:         rec.CreditLimit,
			ApprovalProbability: rec.ApprovalProbability,
		}
		if err := e.cache.SetLatest(ctx, userID, out); err != nil {
			e.logger.Warn("failed to cache latest outputs", "error", err, "userId", userID)
		}
	}

	return EstimateResult{
		RecordID:            id,
		CreditLimit:         rec.CreditLimit,
		ApprovalProbability: rec.ApprovalProbability,
	}, nil
}

// History returns the user's ledger entries, most recent first, along with
// the latest outputs. The cache is consulted for the latest outputs first;
// cache failures fall through to the ledger.
func (e *Estimator) History(ctx context.Context, userID string) (HistoryResult, error) {
	entries, err := e.ledger.History(ctx, userID)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("fetch history: %w", err)
	}

	result := HistoryResult{History: entries}
	if len(entries) == 0 {
		return result, nil
	}

	if e.cache != nil {
		cached, err := e.cache.GetLatest(ctx, userID)
		if err != nil {
			e.logger.Warn("latest cache lookup failed", "error", err, "userId", userID)
		} else if cached != nil {
			result.Latest = cached
			return result, nil
		}
	}

	latest, err := e.ledger.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecords) {
			return result, nil
		}
		return HistoryResult{}, fmt.Errorf("fetch latest record: %w", err)
	}
	result.Latest = &latest

	return result, nil
}

// Round2 rounds to 2 decimal places, the contract for credit limits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places, the contract for probabilities.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
