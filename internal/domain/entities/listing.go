package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ListingStatus represents the lifecycle state of a listing
type ListingStatus string

const (
	ListingStatusOpen    ListingStatus = "OPEN"
	ListingStatusSold    ListingStatus = "SOLD"
	ListingStatusExpired ListingStatus = "EXPIRED"
	ListingStatusClosed  ListingStatus = "CLOSED"
)

// Listing represents one ad slot offered for sale.
// Status transitions are monotonic: OPEN -> {SOLD, EXPIRED, CLOSED};
// terminal states are never left. Listings are never deleted.
type Listing struct {
	ID                  uuid.UUID     `json:"id"`
	AdID                uuid.UUID     `json:"adId"`
	SellerID            uuid.UUID     `json:"sellerId"`
	BasePrice           int64         `json:"basePrice"` // minor currency units
	TargetViews         int64         `json:"targetViewsMilestone"`
	DurationDays        int           `json:"durationDays"`
	Status              ListingStatus `json:"status"`
	CurrentHighestBidID *uuid.UUID    `json:"currentHighestBidId,omitempty"`
	ExpiryDate          time.Time     `json:"expiryDate"`
	SoldAt              null.Time     `json:"soldAt,omitempty"`
	Version             int64         `json:"-"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`

	// Joins
	Ad   *Ad    `json:"ad,omitempty"`
	Bids []*Bid `json:"bids,omitempty"`
}

// IsTerminal reports whether the listing can no longer transition
func (l *Listing) IsTerminal() bool {
	return l.Status != ListingStatusOpen
}

// IsExpired reports whether an open listing is past its expiry date
func (l *Listing) IsExpired(now time.Time) bool {
	return l.Status == ListingStatusOpen && l.ExpiryDate.Before(now)
}

// CreateListingInput represents input for opening a listing
type CreateListingInput struct {
	AdID         string `json:"adId" binding:"required"`
	BasePrice    int64  `json:"basePrice" binding:"required,gt=0"`
	TargetViews  int64  `json:"targetViewsMilestone" binding:"required,gt=0"`
	DurationDays int    `json:"durationDays" binding:"required,gt=0,lte=365"`
}
