package models

import (
	"time"

	"github.com/google/uuid"
)

type Listing struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AdID                uuid.UUID  `gorm:"type:uuid;not null;index"`
	SellerID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	BasePrice           int64      `gorm:"not null"`
	TargetViews         int64      `gorm:"not null"`
	DurationDays        int        `gorm:"not null"`
	Status              string     `gorm:"type:varchar(20);not null;index"`
	CurrentHighestBidID *uuid.UUID `gorm:"type:uuid"`
	ExpiryDate          time.Time  `gorm:"not null;index"`
	SoldAt              *time.Time
	// Version is the optimistic lock for all listing transitions.
	Version   int64 `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ad   Ad    `gorm:"foreignKey:AdID"`
	Bids []Bid `gorm:"foreignKey:ListingID"`
}

type Bid struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index"`
	BidderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount    int64     `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Listing *Listing `gorm:"foreignKey:ListingID"`
}
