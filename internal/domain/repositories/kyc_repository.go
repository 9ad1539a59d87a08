package repositories

import (
	"context"
	"time"

	"ar-market.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// KYCRepository defines verification profile data operations
type KYCRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCProfile, error)
	// Upsert creates the profile on first submission and overwrites
	// enrollment data on resubmission after rejection.
	Upsert(ctx context.Context, profile *entities.KYCProfile) error
	Review(ctx context.Context, userID uuid.UUID, status entities.KYCStatus, remarks string, reviewedAt time.Time) error
}

// WithdrawalRepository defines withdrawal request data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, req *entities.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.WithdrawalRequest, error)
	SumPendingByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// TransitionStatus moves a request from one status to another; it
	// fails with errors.ErrConcurrency when the request is no longer in
	// the expected status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WithdrawalStatus, at time.Time) error
}
