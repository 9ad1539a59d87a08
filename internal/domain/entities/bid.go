package entities

import (
	"time"

	"github.com/google/uuid"
)

// BidStatus represents the lifecycle state of a bid
type BidStatus string

const (
	BidStatusActive   BidStatus = "ACTIVE"
	BidStatusOutbid   BidStatus = "OUTBID"
	BidStatusAccepted BidStatus = "ACCEPTED"
	BidStatusRefunded BidStatus = "REFUNDED"
)

// Bid is a buyer's offer against an open listing. While ACTIVE the bid
// amount is held against the bidder's wallet; at most one bid per listing
// ever becomes ACCEPTED.
type Bid struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listingId"`
	BidderID  uuid.UUID `json:"bidderId"`
	Amount    int64     `json:"amount"` // minor currency units
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Joins
	Listing *Listing `json:"listing,omitempty"`
}

// PlaceBidInput represents input for placing a bid
type PlaceBidInput struct {
	ListingID string `json:"listingId" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}
