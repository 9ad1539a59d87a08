package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WithdrawalMethod represents supported payout rails
type WithdrawalMethod string

const (
	WithdrawalMethodWallet WithdrawalMethod = "WALLET"
	WithdrawalMethodBank   WithdrawalMethod = "BANK"
	WithdrawalMethodKhalti WithdrawalMethod = "KHALTI"
	WithdrawalMethodEsewa  WithdrawalMethod = "ESEWA"
)

// WithdrawalStatus represents withdrawal request status
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
)

// WithdrawalRequest converts wallet balance into an external transfer.
// Requesting debits the wallet immediately so the same funds cannot be
// double-requested; rejection credits the amount back. Approval and
// completion are separate administrative steps (approval authorizes,
// completion confirms the out-of-band transfer).
type WithdrawalRequest struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"userId"`
	Amount        int64            `json:"amount"` // minor currency units
	Method        WithdrawalMethod `json:"method"`
	MethodDetails null.String      `json:"methodDetails,omitempty"` // account number, wallet id, ...
	Status        WithdrawalStatus `json:"status"`
	ResolvedAt    null.Time        `json:"resolvedAt,omitempty"`
	CompletedAt   null.Time        `json:"completedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// RequestWithdrawalInput represents a withdrawal submission
type RequestWithdrawalInput struct {
	Amount        int64            `json:"amount" binding:"required,gt=0"`
	Method        WithdrawalMethod `json:"method" binding:"required,oneof=WALLET BANK KHALTI ESEWA"`
	MethodDetails string           `json:"methodDetails"`
}

// ResolveWithdrawalInput is the administrative decision on a request
type ResolveWithdrawalInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject complete"`
}
