package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is one immutable entry in the prediction ledger. Records
// are created exactly once per successful estimate and never updated.
type PredictionRecord struct {
	ID                  uuid.UUID
	UserID              string
	Features            Features
	CreditLimit         float64 // rounded to 2 decimals at write time
	ApprovalProbability float64 // rounded to 4 decimals at write time
	CreatedAt           time.Time
}

// HistoryEntry is the per-request view of a past prediction.
type HistoryEntry struct {
	Date  time.Time `json:"date"`
	Limit float64   `json:"limit"`
}

// LatestOutputs holds the outputs of a user's most recent record.
type LatestOutputs struct {
	CreditLimit         float64 `json:"creditLimit"`
	ApprovalProbability float64 `json:"approvalProbability"`
}

// ErrNoRecords indicates a user has no prediction history yet.
var ErrNoRecords = errors.New("no prediction records")
