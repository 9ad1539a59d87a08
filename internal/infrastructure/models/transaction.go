package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction rows are append-only; status changes are limited to pending
// top-ups and the consumed flag on holds.
type Transaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type      string     `gorm:"type:varchar(30);not null;index"`
	Amount    int64      `gorm:"not null"`
	Status    string     `gorm:"type:varchar(20);not null;index"`
	RelatedID *uuid.UUID `gorm:"type:uuid;index"`
	Consumed  bool       `gorm:"not null;default:false"`
	Metadata  *string    `gorm:"type:text"`
	CreatedAt time.Time
}

type WalletAccount struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance int64     `gorm:"not null;default:0"`
	// Version is the optimistic lock serializing balance mutations.
	Version   int64 `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
