package repositories

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BidRepository implements bid data operations
type BidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Create(ctx context.Context, bid *entities.Bid) error {
	m := &models.Bid{
		ID:        bid.ID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt,
		UpdatedAt: bid.UpdatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	bid.ID = m.ID
	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bid, error) {
	var m models.Bid
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return bidToEntity(&m), nil
}

func (r *BidRepository) ListByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error) {
	return r.list(ctx, "listing_id = ?", listingID)
}

func (r *BidRepository) ListActiveByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error) {
	var ms []models.Bid
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, string(entities.BidStatusActive)).
		Order("amount DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return bidsToEntities(ms), nil
}

func (r *BidRepository) ListByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error) {
	var ms []models.Bid
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Preload("Listing").Preload("Listing.Ad").
		Where("bidder_id = ?", bidderID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return bidsToEntities(ms), nil
}

func (r *BidRepository) ListAcceptedByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error) {
	var ms []models.Bid
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Preload("Listing").Preload("Listing.Ad").
		Where("bidder_id = ? AND status = ?", bidderID, string(entities.BidStatusAccepted)).
		Order("updated_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return bidsToEntities(ms), nil
}

func (r *BidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BidStatus) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *BidRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entities.Bid, error) {
	var ms []models.Bid
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return bidsToEntities(ms), nil
}

func bidsToEntities(ms []models.Bid) []*entities.Bid {
	bids := make([]*entities.Bid, 0, len(ms))
	for i := range ms {
		bids = append(bids, bidToEntity(&ms[i]))
	}
	return bids
}

func bidToEntity(m *models.Bid) *entities.Bid {
	e := &entities.Bid{
		ID:        m.ID,
		ListingID: m.ListingID,
		BidderID:  m.BidderID,
		Amount:    m.Amount,
		Status:    entities.BidStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Listing != nil {
		e.Listing = listingToEntity(m.Listing)
	}
	return e
}
