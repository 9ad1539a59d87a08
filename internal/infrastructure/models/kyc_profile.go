package models

import (
	"time"

	"github.com/google/uuid"
)

type KYCProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	LegalName   string    `gorm:"type:varchar(200);not null"`
	DateOfBirth string    `gorm:"type:varchar(20);not null"`
	Address     string    `gorm:"type:varchar(500);not null"`
	IDType      string    `gorm:"type:varchar(30);not null"`
	IDNumber    string    `gorm:"type:varchar(100);not null"`
	IDImageRef  string    `gorm:"type:varchar(500);not null"`
	Remarks     *string   `gorm:"type:text"`
	SubmittedAt time.Time `gorm:"not null"`
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WithdrawalRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        int64     `gorm:"not null"`
	Method        string    `gorm:"type:varchar(20);not null"`
	MethodDetails *string   `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	ResolvedAt    *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
