package usecases

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
)

// KYCUsecase handles the identity verification state machine
type KYCUsecase struct {
	kycRepo repositories.KYCRepository
}

// NewKYCUsecase creates a new KYC usecase
func NewKYCUsecase(kycRepo repositories.KYCRepository) *KYCUsecase {
	return &KYCUsecase{kycRepo: kycRepo}
}

// SubmitEnrollment takes a verification submission to pending. A rejected
// profile may resubmit; pending and approved profiles may not.
func (u *KYCUsecase) SubmitEnrollment(ctx context.Context, userID uuid.UUID, input *entities.KYCEnrollmentInput) (*entities.KYCProfile, error) {
	existing, err := u.kycRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case entities.KYCStatusPending:
			return nil, domainerrors.Conflict("verification already pending review")
		case entities.KYCStatusApproved:
			return nil, domainerrors.Conflict("already verified")
		}
	}

	now := time.Now()
	profile := &entities.KYCProfile{
		ID:          utils.GenerateUUIDv7(),
		UserID:      userID,
		Status:      entities.KYCStatusPending,
		LegalName:   input.LegalName,
		DateOfBirth: input.DateOfBirth,
		Address:     input.Address,
		IDType:      input.IDType,
		IDNumber:    input.IDNumber,
		IDImageRef:  input.IDImageRef,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.kycRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ReviewEnrollment is the administrative decision on a pending profile
func (u *KYCUsecase) ReviewEnrollment(ctx context.Context, userID uuid.UUID, input *entities.KYCReviewInput) error {
	status := entities.KYCStatusRejected
	if input.Decision == "approve" {
		status = entities.KYCStatusApproved
	}
	err := u.kycRepo.Review(ctx, userID, status, input.Remarks, time.Now())
	if errors.Is(err, domainerrors.ErrConcurrency) {
		return domainerrors.Conflict("no pending enrollment to review")
	}
	return err
}

// GetProfile returns the user's verification record; users who never
// submitted get a synthetic NONE profile.
func (u *KYCUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.KYCProfile, error) {
	profile, err := u.kycRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.KYCProfile{UserID: userID, Status: entities.KYCStatusNone}, nil
		}
		return nil, err
	}
	return profile, nil
}
