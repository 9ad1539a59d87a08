package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TransactionType represents ledger entry types
type TransactionType string

const (
	TransactionTypeTopup               TransactionType = "TOPUP"
	TransactionTypeBidHold             TransactionType = "BID_HOLD"
	TransactionTypeBidRelease          TransactionType = "BID_RELEASE"
	TransactionTypeSaleCredit          TransactionType = "SALE_CREDIT"
	TransactionTypePayoutRequest       TransactionType = "PAYOUT_REQUEST"
	TransactionTypePayoutCompleted     TransactionType = "PAYOUT_COMPLETED"
	TransactionTypeWithdrawalRequested TransactionType = "WITHDRAWAL_REQUESTED"
	TransactionTypeWithdrawalApproved  TransactionType = "WITHDRAWAL_APPROVED"
	TransactionTypeWithdrawalRejected  TransactionType = "WITHDRAWAL_REJECTED"
)

// TransactionStatus represents ledger entry status
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusApproved  TransactionStatus = "APPROVED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Transaction is an append-only ledger entry. The signed sum of a user's
// COMPLETED/APPROVED entries equals their wallet balance; every balance
// mutation is represented by exactly one entry.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Type      TransactionType   `json:"type"`
	Amount    int64             `json:"amount"` // signed, minor currency units
	Status    TransactionStatus `json:"status"`
	RelatedID *uuid.UUID        `json:"relatedId,omitempty"` // listing / bid / withdrawal / topup reference
	Consumed  bool              `json:"consumed"`            // set on a hold once its release/settlement posted
	Metadata  null.String       `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Settled reports whether the entry counts toward the balance
func (t *Transaction) Settled() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusApproved
}

// WalletAccount holds the cached balance for a user. The transaction log is
// the source of truth; the cached column is updated in the same DB
// transaction as each ledger insert and checked via the version column.
type WalletAccount struct {
	UserID    uuid.UUID `json:"userId"`
	Balance   int64     `json:"balance"` // minor currency units, never negative
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WalletSummary is the read model for the wallet endpoint
type WalletSummary struct {
	Balance            int64 `json:"balance"`
	HeldAmount         int64 `json:"heldAmount"` // sum of the user's unconsumed active-bid holds
	PendingWithdrawals int64 `json:"pendingWithdrawals"`
}

// TopupInput represents a manual top-up submission with a payment proof
type TopupInput struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	ProofRef string `json:"proofRef" binding:"required"` // uploaded proof-of-payment reference
}
