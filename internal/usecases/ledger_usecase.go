package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LedgerUsecase is the wallet ledger: every balance change flows through it
// as an append-only transaction plus a version-guarded update of the cached
// balance, both inside the caller's unit of work.
type LedgerUsecase struct {
	txnRepo    repositories.TransactionRepository
	walletRepo repositories.WalletAccountRepository
	uow        repositories.UnitOfWork
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(
	txnRepo repositories.TransactionRepository,
	walletRepo repositories.WalletAccountRepository,
	uow repositories.UnitOfWork,
) *LedgerUsecase {
	return &LedgerUsecase{txnRepo: txnRepo, walletRepo: walletRepo, uow: uow}
}

// EnsureAccount creates the wallet account for a new user
func (u *LedgerUsecase) EnsureAccount(ctx context.Context, userID uuid.UUID) error {
	_, err := u.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	now := time.Now()
	return u.walletRepo.Create(ctx, &entities.WalletAccount{
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// AvailableBalance returns what the user can spend right now. Holds are
// posted as debits, so the cached balance already excludes them.
func (u *LedgerUsecase) AvailableBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Hold reserves funds against an active bid. Must run inside the caller's
// unit of work; fails with ErrInsufficientFunds before writing anything.
func (u *LedgerUsecase) Hold(ctx context.Context, userID uuid.UUID, amount int64, bidID uuid.UUID) error {
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if amount > account.Balance {
		return domainerrors.ErrInsufficientFunds
	}
	return u.post(ctx, account, &entities.Transaction{
		UserID:    userID,
		Type:      entities.TransactionTypeBidHold,
		Amount:    -amount,
		Status:    entities.TransactionStatusCompleted,
		RelatedID: &bidID,
	})
}

// ReleaseHold refunds the hold of a non-accepted bid. The consumed flag on
// the hold guards against releasing it twice.
func (u *LedgerUsecase) ReleaseHold(ctx context.Context, userID uuid.UUID, amount int64, bidID uuid.UUID) error {
	if err := u.txnRepo.MarkHoldConsumed(ctx, bidID); err != nil {
		return err
	}
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return u.post(ctx, account, &entities.Transaction{
		UserID:    userID,
		Type:      entities.TransactionTypeBidRelease,
		Amount:    amount,
		Status:    entities.TransactionStatusCompleted,
		RelatedID: &bidID,
	})
}

// SettleHold finalizes the accepted bid's hold on the buyer side (the funds
// stay debited) and credits the sale to the seller.
func (u *LedgerUsecase) SettleHold(ctx context.Context, sellerID uuid.UUID, amount int64, bidID, listingID uuid.UUID) error {
	if err := u.txnRepo.MarkHoldConsumed(ctx, bidID); err != nil {
		return err
	}
	account, err := u.walletRepo.GetByUserID(ctx, sellerID)
	if err != nil {
		return err
	}
	return u.post(ctx, account, &entities.Transaction{
		UserID:    sellerID,
		Type:      entities.TransactionTypeSaleCredit,
		Amount:    amount,
		Status:    entities.TransactionStatusCompleted,
		RelatedID: &listingID,
	})
}

// Debit posts a negative settled entry (withdrawal request)
func (u *LedgerUsecase) Debit(ctx context.Context, userID uuid.UUID, amount int64, txnType entities.TransactionType, relatedID uuid.UUID) error {
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if amount > account.Balance {
		return domainerrors.ErrInsufficientFunds
	}
	return u.post(ctx, account, &entities.Transaction{
		UserID:    userID,
		Type:      txnType,
		Amount:    -amount,
		Status:    entities.TransactionStatusCompleted,
		RelatedID: &relatedID,
	})
}

// Credit posts a positive settled entry (withdrawal rejection refund)
func (u *LedgerUsecase) Credit(ctx context.Context, userID uuid.UUID, amount int64, txnType entities.TransactionType, relatedID uuid.UUID) error {
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return u.post(ctx, account, &entities.Transaction{
		UserID:    userID,
		Type:      txnType,
		Amount:    amount,
		Status:    entities.TransactionStatusCompleted,
		RelatedID: &relatedID,
	})
}

// Mark posts a zero-amount audit entry (payout markers, approvals)
func (u *LedgerUsecase) Mark(ctx context.Context, userID uuid.UUID, txnType entities.TransactionType, status entities.TransactionStatus, relatedID uuid.UUID) error {
	now := time.Now()
	return u.txnRepo.Create(ctx, &entities.Transaction{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Type:      txnType,
		Amount:    0,
		Status:    status,
		RelatedID: &relatedID,
		CreatedAt: now,
	})
}

// RequestTopup records a manual top-up awaiting administrative review of the
// payment proof. Nothing is credited until approval.
func (u *LedgerUsecase) RequestTopup(ctx context.Context, userID uuid.UUID, input *entities.TopupInput) (*entities.Transaction, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.BadRequest("top-up amount must be positive")
	}
	txn := &entities.Transaction{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Type:      entities.TransactionTypeTopup,
		Amount:    input.Amount,
		Status:    entities.TransactionStatusPending,
		Metadata:  null.StringFrom(fmt.Sprintf(`{"proofRef":%q}`, input.ProofRef)),
		CreatedAt: time.Now(),
	}
	if err := u.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ResolveTopup is the administrative decision on a pending top-up
func (u *LedgerUsecase) ResolveTopup(ctx context.Context, txnID uuid.UUID, approve bool) error {
	return withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			txn, err := u.txnRepo.GetByID(txCtx, txnID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.NotFound("top-up not found")
				}
				return err
			}
			if txn.Type != entities.TransactionTypeTopup || txn.Status != entities.TransactionStatusPending {
				return domainerrors.Conflict("top-up already resolved")
			}

			if !approve {
				return u.txnRepo.UpdateStatus(txCtx, txnID, entities.TransactionStatusPending, entities.TransactionStatusRejected)
			}

			if err := u.txnRepo.UpdateStatus(txCtx, txnID, entities.TransactionStatusPending, entities.TransactionStatusCompleted); err != nil {
				return err
			}
			account, err := u.walletRepo.GetByUserID(txCtx, txn.UserID)
			if err != nil {
				return err
			}
			return u.walletRepo.ApplyDelta(txCtx, txn.UserID, txn.Amount, account.Version)
		})
	})
}

// Transactions returns the user's ledger history with pagination
func (u *LedgerUsecase) Transactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Transaction, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	txns, total, err := u.txnRepo.ListByUserID(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return txns, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// Reconcile recomputes the balance from the ledger and reports both values.
// The transaction log is the source of truth; a mismatch means the cached
// column has drifted.
func (u *LedgerUsecase) Reconcile(ctx context.Context, userID uuid.UUID) (cached int64, derived int64, err error) {
	account, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	derived, err = u.txnRepo.SumSettledByUserID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return account.Balance, derived, nil
}

// post appends the entry and applies its amount to the cached balance under
// the account version observed by the caller.
func (u *LedgerUsecase) post(ctx context.Context, account *entities.WalletAccount, txn *entities.Transaction) error {
	txn.ID = utils.GenerateUUIDv7()
	txn.CreatedAt = time.Now()
	if err := u.txnRepo.Create(ctx, txn); err != nil {
		return err
	}
	return u.walletRepo.ApplyDelta(ctx, account.UserID, txn.Amount, account.Version)
}
