package usecases

import (
	"context"
	"errors"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"github.com/google/uuid"
)

const (
	// ExpirySweepBatchSize caps how many listings one sweep pass touches.
	ExpirySweepBatchSize = 100
)

// withConcurrencyRetry runs fn and retries it exactly once when it loses an
// optimistic-version race. A second loss surfaces as a conflict, telling the
// caller someone else acted first.
func withConcurrencyRetry(fn func() error) error {
	err := fn()
	if errors.Is(err, domainerrors.ErrConcurrency) {
		err = fn()
		if errors.Is(err, domainerrors.ErrConcurrency) {
			return domainerrors.Conflict("someone else already acted on this resource, please refresh")
		}
	}
	return err
}

// requireKYCApproved gates marketplace-mutating operations behind an
// approved verification profile.
func requireKYCApproved(ctx context.Context, kycRepo repositories.KYCRepository, userID uuid.UUID) error {
	profile, err := kycRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.Forbidden("kyc_required: complete identity verification to use the marketplace")
		}
		return err
	}
	if profile.Status != entities.KYCStatusApproved {
		return domainerrors.Forbidden("kyc_required: complete identity verification to use the marketplace")
	}
	return nil
}
