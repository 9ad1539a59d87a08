package repositories

import (
	"context"
	"time"

	"ar-market.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// ListingRepository defines listing data operations.
//
// Transition and SetHighestBid take the version observed by the caller and
// must return errors.ErrConcurrency when the row has moved on since. This
// is the per-listing serialization point for acceptance, close and expiry.
type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error)
	GetOpenByAdID(ctx context.Context, adID uuid.UUID) (*entities.Listing, error)
	ListOpen(ctx context.Context, limit, offset int) ([]*entities.Listing, int64, error)
	ListBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entities.Listing, error)
	ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]*entities.Listing, error)
	Transition(ctx context.Context, id uuid.UUID, fromVersion int64, to entities.ListingStatus, soldAt *time.Time) error
	SetHighestBid(ctx context.Context, id uuid.UUID, fromVersion int64, bidID uuid.UUID) error
}

// BidRepository defines bid data operations
type BidRepository interface {
	Create(ctx context.Context, bid *entities.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Bid, error)
	ListByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error)
	ListActiveByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error)
	ListByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error)
	ListAcceptedByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BidStatus) error
}
