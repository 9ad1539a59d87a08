package repositories

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// ListingRepository implements listing data operations
type ListingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	m := &models.Listing{
		ID:                  listing.ID,
		AdID:                listing.AdID,
		SellerID:            listing.SellerID,
		BasePrice:           listing.BasePrice,
		TargetViews:         listing.TargetViews,
		DurationDays:        listing.DurationDays,
		Status:              string(listing.Status),
		CurrentHighestBidID: listing.CurrentHighestBidID,
		ExpiryDate:          listing.ExpiryDate,
		Version:             1,
		CreatedAt:           listing.CreatedAt,
		UpdatedAt:           listing.UpdatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	listing.ID = m.ID
	listing.Version = m.Version
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	var m models.Listing
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Ad").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return listingToEntity(&m), nil
}

func (r *ListingRepository) GetOpenByAdID(ctx context.Context, adID uuid.UUID) (*entities.Listing, error) {
	var m models.Listing
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("ad_id = ? AND status = ?", adID, string(entities.ListingStatusOpen)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return listingToEntity(&m), nil
}

func (r *ListingRepository) ListOpen(ctx context.Context, limit, offset int) ([]*entities.Listing, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Listing{}).
		Where("status = ?", string(entities.ListingStatusOpen)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).Preload("Ad").
		Where("status = ?", string(entities.ListingStatusOpen)).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.Listing
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]*entities.Listing, 0, len(ms))
	for i := range ms {
		listings = append(listings, listingToEntity(&ms[i]))
	}
	return listings, total, nil
}

func (r *ListingRepository) ListBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entities.Listing, error) {
	var ms []models.Listing
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Preload("Ad").Preload("Bids").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	listings := make([]*entities.Listing, 0, len(ms))
	for i := range ms {
		listings = append(listings, listingToEntity(&ms[i]))
	}
	return listings, nil
}

func (r *ListingRepository) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]*entities.Listing, error) {
	var ms []models.Listing
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).
		Where("status = ? AND expiry_date < ?", string(entities.ListingStatusOpen), now).
		Order("expiry_date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	listings := make([]*entities.Listing, 0, len(ms))
	for i := range ms {
		listings = append(listings, listingToEntity(&ms[i]))
	}
	return listings, nil
}

// Transition moves an open listing into a terminal state. The version guard
// makes concurrent accept/close/expiry mutually exclusive: the loser sees
// zero affected rows and gets ErrConcurrency.
func (r *ListingRepository) Transition(ctx context.Context, id uuid.UUID, fromVersion int64, to entities.ListingStatus, soldAt *time.Time) error {
	db := GetDB(ctx, r.db)
	updates := map[string]interface{}{
		"status":     string(to),
		"version":    fromVersion + 1,
		"updated_at": time.Now(),
	}
	if soldAt != nil {
		updates["sold_at"] = *soldAt
	}
	res := db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND version = ? AND status = ?", id, fromVersion, string(entities.ListingStatusOpen)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

// SetHighestBid updates the current-highest pointer under the same version
// guard used by Transition.
func (r *ListingRepository) SetHighestBid(ctx context.Context, id uuid.UUID, fromVersion int64, bidID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ? AND version = ? AND status = ?", id, fromVersion, string(entities.ListingStatusOpen)).
		Updates(map[string]interface{}{
			"current_highest_bid_id": bidID,
			"version":                fromVersion + 1,
			"updated_at":             time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

func listingToEntity(m *models.Listing) *entities.Listing {
	e := &entities.Listing{
		ID:                  m.ID,
		AdID:                m.AdID,
		SellerID:            m.SellerID,
		BasePrice:           m.BasePrice,
		TargetViews:         m.TargetViews,
		DurationDays:        m.DurationDays,
		Status:              entities.ListingStatus(m.Status),
		CurrentHighestBidID: m.CurrentHighestBidID,
		ExpiryDate:          m.ExpiryDate,
		SoldAt:              null.TimeFromPtr(m.SoldAt),
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.Ad.ID != uuid.Nil {
		e.Ad = adToEntity(&m.Ad)
	}
	for i := range m.Bids {
		e.Bids = append(e.Bids, bidToEntity(&m.Bids[i]))
	}
	return e
}
