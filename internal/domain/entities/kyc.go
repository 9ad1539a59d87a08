package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// KYCStatus represents the verification state of a user
type KYCStatus string

const (
	KYCStatusNone     KYCStatus = "NONE"
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusApproved KYCStatus = "APPROVED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// KYCProfile is the per-user verification record. Review is performed by an
// external administrative actor; a REJECTED profile may be resubmitted.
type KYCProfile struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"userId"`
	Status      KYCStatus   `json:"status"`
	LegalName   string      `json:"legalName"`
	DateOfBirth string      `json:"dateOfBirth"`
	Address     string      `json:"address"`
	IDType      string      `json:"idType"`
	IDNumber    string      `json:"idNumber"`
	IDImageRef  string      `json:"idImageRef"` // uploaded ID image reference
	Remarks     null.String `json:"remarks,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
	ReviewedAt  null.Time   `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// KYCEnrollmentInput represents a verification submission
type KYCEnrollmentInput struct {
	LegalName   string `json:"legalName" binding:"required,min=2,max=200"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	Address     string `json:"address" binding:"required"`
	IDType      string `json:"idType" binding:"required,oneof=citizenship passport license"`
	IDNumber    string `json:"idNumber" binding:"required"`
	IDImageRef  string `json:"idImageRef" binding:"required"`
}

// KYCReviewInput is the administrative review decision
type KYCReviewInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Remarks  string `json:"remarks"`
}
