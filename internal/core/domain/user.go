package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is a registered profile. The password is stored as a bcrypt hash.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Profile      ProfileSetup
	CreatedAt    time.Time
}

// ProfileSetup carries the optional demographic fields collected by the
// mobile app's setup screen. They are orthogonal to the prediction pipeline.
type ProfileSetup struct {
	DependentCount int    `json:"dependent_count"`
	EducationLevel string `json:"education_level"`
	IncomeCategory string `json:"income_category"`
	MaritalStatus  string `json:"marital_status"`
}

var (
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("wrong password")
)
