package usecases

import (
	"context"
	"time"

	"ar-market.backend/internal/domain/entities"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AdUsecase handles the thin ad asset registry listings sell slots of
type AdUsecase struct {
	adRepo repositories.AdRepository
}

// NewAdUsecase creates a new ad usecase
func NewAdUsecase(adRepo repositories.AdRepository) *AdUsecase {
	return &AdUsecase{adRepo: adRepo}
}

// CreateAd registers an ad asset for the owner
func (u *AdUsecase) CreateAd(ctx context.Context, ownerID uuid.UUID, input *entities.CreateAdInput) (*entities.Ad, error) {
	now := time.Now()
	ad := &entities.Ad{
		ID:        utils.GenerateUUIDv7(),
		OwnerID:   ownerID,
		Title:     input.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != "" {
		ad.Description = null.StringFrom(input.Description)
	}
	if input.MediaRef != "" {
		ad.MediaRef = null.StringFrom(input.MediaRef)
	}
	if err := u.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// MyAds lists the caller's ad assets
func (u *AdUsecase) MyAds(ctx context.Context, ownerID uuid.UUID) ([]*entities.Ad, error) {
	return u.adRepo.GetByOwnerID(ctx, ownerID)
}
