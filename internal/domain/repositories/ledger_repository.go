package repositories

import (
	"context"

	"ar-market.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// TransactionRepository defines append-only ledger operations. Entries are
// never deleted; UpdateStatus exists only for pending entries (manual
// top-ups) and MarkHoldConsumed for flagging settled holds.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int64, error)
	// SumSettledByUserID returns the signed sum of COMPLETED/APPROVED
	// entries, the reconciliation value for the cached balance.
	SumSettledByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// SumUnconsumedHolds returns the (positive) total of the user's
	// BID_HOLD entries not yet consumed by a release or settlement.
	SumUnconsumedHolds(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkHoldConsumed flags the hold for the given bid; it fails with
	// errors.ErrConcurrency when no unconsumed hold exists, which guards
	// against releasing the same hold twice.
	MarkHoldConsumed(ctx context.Context, bidID uuid.UUID) error
	ExistsByTypeAndRelatedID(ctx context.Context, txnType entities.TransactionType, relatedID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error
}

// WalletAccountRepository maintains the cached per-user balance
type WalletAccountRepository interface {
	Create(ctx context.Context, account *entities.WalletAccount) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.WalletAccount, error)
	// ApplyDelta adds delta to the cached balance guarded by the version
	// observed by the caller; a lost race yields errors.ErrConcurrency.
	ApplyDelta(ctx context.Context, userID uuid.UUID, delta int64, fromVersion int64) error
}
