package usecases

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WithdrawalUsecase converts wallet balance into external transfers through
// a human-approved request queue, and owns the payout markers for sold
// listings.
type WithdrawalUsecase struct {
	withdrawalRepo repositories.WithdrawalRepository
	listingRepo    repositories.ListingRepository
	txnRepo        repositories.TransactionRepository
	kycRepo        repositories.KYCRepository
	ledger         *LedgerUsecase
	uow            repositories.UnitOfWork
	minAmount      int64
}

// NewWithdrawalUsecase creates a new withdrawal usecase
func NewWithdrawalUsecase(
	withdrawalRepo repositories.WithdrawalRepository,
	listingRepo repositories.ListingRepository,
	txnRepo repositories.TransactionRepository,
	kycRepo repositories.KYCRepository,
	ledger *LedgerUsecase,
	uow repositories.UnitOfWork,
	minAmount int64,
) *WithdrawalUsecase {
	return &WithdrawalUsecase{
		withdrawalRepo: withdrawalRepo,
		listingRepo:    listingRepo,
		txnRepo:        txnRepo,
		kycRepo:        kycRepo,
		ledger:         ledger,
		uow:            uow,
		minAmount:      minAmount,
	}
}

// RequestWithdrawal debits the wallet immediately and queues the request for
// administrative review, so the same funds cannot be requested twice.
func (u *WithdrawalUsecase) RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.RequestWithdrawalInput) (*entities.WithdrawalRequest, error) {
	if err := requireKYCApproved(ctx, u.kycRepo, userID); err != nil {
		return nil, err
	}
	if input.Amount < u.minAmount {
		return nil, domainerrors.BadRequest("amount is below the platform withdrawal minimum")
	}

	now := time.Now()
	req := &entities.WithdrawalRequest{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Amount:    input.Amount,
		Method:    input.Method,
		Status:    entities.WithdrawalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.MethodDetails != "" {
		req.MethodDetails = null.StringFrom(input.MethodDetails)
	}

	err := withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			if err := u.withdrawalRepo.Create(txCtx, req); err != nil {
				return err
			}
			err := u.ledger.Debit(txCtx, userID, input.Amount, entities.TransactionTypeWithdrawalRequested, req.ID)
			if errors.Is(err, domainerrors.ErrInsufficientFunds) {
				return domainerrors.InsufficientFunds("available balance does not cover the withdrawal amount")
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveWithdrawal is the administrative decision queue. Approve and reject
// act on pending requests; complete confirms the out-of-band transfer of an
// approved one. Rejection credits the amount back.
func (u *WithdrawalUsecase) ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, input *entities.ResolveWithdrawalInput) error {
	return withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			req, err := u.withdrawalRepo.GetByID(txCtx, requestID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.NotFound("withdrawal request not found")
				}
				return err
			}

			now := time.Now()
			switch input.Decision {
			case "approve":
				if err := u.transition(txCtx, req.ID, entities.WithdrawalStatusPending, entities.WithdrawalStatusApproved, now); err != nil {
					return err
				}
				return u.ledger.Mark(txCtx, req.UserID, entities.TransactionTypeWithdrawalApproved, entities.TransactionStatusApproved, req.ID)
			case "reject":
				if err := u.transition(txCtx, req.ID, entities.WithdrawalStatusPending, entities.WithdrawalStatusRejected, now); err != nil {
					return err
				}
				return u.ledger.Credit(txCtx, req.UserID, req.Amount, entities.TransactionTypeWithdrawalRejected, req.ID)
			case "complete":
				if err := u.transition(txCtx, req.ID, entities.WithdrawalStatusApproved, entities.WithdrawalStatusCompleted, now); err != nil {
					return err
				}
				return u.ledger.Mark(txCtx, req.UserID, entities.TransactionTypePayoutCompleted, entities.TransactionStatusCompleted, req.ID)
			default:
				return domainerrors.BadRequest("unknown decision")
			}
		})
	})
}

// transition wraps the status move so a raced or out-of-order decision reads
// as a conflict instead of a retryable concurrency loss.
func (u *WithdrawalUsecase) transition(ctx context.Context, id uuid.UUID, from, to entities.WithdrawalStatus, at time.Time) error {
	err := u.withdrawalRepo.TransitionStatus(ctx, id, from, to, at)
	if errors.Is(err, domainerrors.ErrConcurrency) {
		return domainerrors.Conflict("withdrawal request is not in the expected state")
	}
	return err
}

// MyWithdrawals lists the user's withdrawal requests
func (u *WithdrawalUsecase) MyWithdrawals(ctx context.Context, userID uuid.UUID) ([]*entities.WithdrawalRequest, error) {
	return u.withdrawalRepo.ListByUserID(ctx, userID)
}

// RequestPayout records that the seller claimed the proceeds of a sold
// listing. The sale credit already made the funds withdrawable, so this is
// an idempotent audit marker; a second request reads as already paid.
func (u *WithdrawalUsecase) RequestPayout(ctx context.Context, sellerID, listingID uuid.UUID) error {
	if err := requireKYCApproved(ctx, u.kycRepo, sellerID); err != nil {
		return err
	}
	listing, err := u.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("listing not found")
		}
		return err
	}
	if listing.SellerID != sellerID {
		return domainerrors.Forbidden("only the seller can request the payout")
	}
	if listing.Status != entities.ListingStatusSold {
		return domainerrors.Conflict("listing has not been sold")
	}

	exists, err := u.txnRepo.ExistsByTypeAndRelatedID(ctx, entities.TransactionTypePayoutRequest, listingID)
	if err != nil {
		return err
	}
	if exists {
		return domainerrors.Conflict("payout already requested for this listing")
	}
	return u.ledger.Mark(ctx, sellerID, entities.TransactionTypePayoutRequest, entities.TransactionStatusCompleted, listingID)
}

// WalletSummary assembles the wallet read model
func (u *WithdrawalUsecase) WalletSummary(ctx context.Context, userID uuid.UUID) (*entities.WalletSummary, error) {
	balance, err := u.ledger.AvailableBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	held, err := u.txnRepo.SumUnconsumedHolds(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := u.withdrawalRepo.SumPendingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entities.WalletSummary{
		Balance:            balance,
		HeldAmount:         held,
		PendingWithdrawals: pending,
	}, nil
}
