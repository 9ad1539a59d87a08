package usecases_test

import (
	"context"
	"testing"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerUsecase_Hold_Success(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, new(MockUnitOfWork))

	userID := uuid.New()
	bidID := uuid.New()

	walletRepo.On("GetByUserID", mock.Anything, userID).Return(&entities.WalletAccount{
		UserID: userID, Balance: 1000, Version: 3,
	}, nil).Once()
	txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Transaction")).Return(nil).Run(func(args mock.Arguments) {
		txn := args.Get(1).(*entities.Transaction)
		assert.Equal(t, entities.TransactionTypeBidHold, txn.Type)
		assert.Equal(t, int64(-600), txn.Amount)
		assert.Equal(t, entities.TransactionStatusCompleted, txn.Status)
	}).Once()
	walletRepo.On("ApplyDelta", mock.Anything, userID, int64(-600), int64(3)).Return(nil).Once()

	err := uc.Hold(context.Background(), userID, 600, bidID)
	require.NoError(t, err)
	txnRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestLedgerUsecase_Hold_InsufficientFunds(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, new(MockUnitOfWork))

	userID := uuid.New()
	walletRepo.On("GetByUserID", mock.Anything, userID).Return(&entities.WalletAccount{
		UserID: userID, Balance: 500,
	}, nil).Once()

	err := uc.Hold(context.Background(), userID, 600, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
	// Nothing may be written when the balance check fails
	txnRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLedgerUsecase_ReleaseHold_AlreadyConsumed(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, new(MockUnitOfWork))

	bidID := uuid.New()
	txnRepo.On("MarkHoldConsumed", mock.Anything, bidID).Return(domainerrors.ErrConcurrency).Once()

	err := uc.ReleaseHold(context.Background(), uuid.New(), 600, bidID)
	assert.ErrorIs(t, err, domainerrors.ErrConcurrency)
	walletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerUsecase_SettleHold_CreditsSeller(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, new(MockUnitOfWork))

	sellerID := uuid.New()
	bidID := uuid.New()
	listingID := uuid.New()

	txnRepo.On("MarkHoldConsumed", mock.Anything, bidID).Return(nil).Once()
	walletRepo.On("GetByUserID", mock.Anything, sellerID).Return(&entities.WalletAccount{
		UserID: sellerID, Balance: 0, Version: 1,
	}, nil).Once()
	txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Transaction")).Return(nil).Run(func(args mock.Arguments) {
		txn := args.Get(1).(*entities.Transaction)
		assert.Equal(t, entities.TransactionTypeSaleCredit, txn.Type)
		assert.Equal(t, int64(700), txn.Amount)
		assert.Equal(t, listingID, *txn.RelatedID)
	}).Once()
	walletRepo.On("ApplyDelta", mock.Anything, sellerID, int64(700), int64(1)).Return(nil).Once()

	err := uc.SettleHold(context.Background(), sellerID, 700, bidID, listingID)
	require.NoError(t, err)
	txnRepo.AssertExpectations(t)
}

func TestLedgerUsecase_RequestTopup_Pending(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, new(MockWalletAccountRepository), new(MockUnitOfWork))

	userID := uuid.New()
	txnRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Transaction")).Return(nil).Once()

	txn, err := uc.RequestTopup(context.Background(), userID, &entities.TopupInput{Amount: 5000, ProofRef: "proof-123"})
	require.NoError(t, err)
	assert.Equal(t, entities.TransactionStatusPending, txn.Status)
	assert.Equal(t, entities.TransactionTypeTopup, txn.Type)
	assert.Contains(t, txn.Metadata.String, "proof-123")
}

func TestLedgerUsecase_ResolveTopup_ApproveCreditsWallet(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uow := new(MockUnitOfWork)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, uow)

	userID := uuid.New()
	txnID := uuid.New()

	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	txnRepo.On("GetByID", mock.Anything, txnID).Return(&entities.Transaction{
		ID: txnID, UserID: userID, Type: entities.TransactionTypeTopup,
		Amount: 5000, Status: entities.TransactionStatusPending,
	}, nil).Once()
	txnRepo.On("UpdateStatus", mock.Anything, txnID, entities.TransactionStatusPending, entities.TransactionStatusCompleted).Return(nil).Once()
	walletRepo.On("GetByUserID", mock.Anything, userID).Return(&entities.WalletAccount{
		UserID: userID, Balance: 100, Version: 2,
	}, nil).Once()
	walletRepo.On("ApplyDelta", mock.Anything, userID, int64(5000), int64(2)).Return(nil).Once()

	err := uc.ResolveTopup(context.Background(), txnID, true)
	require.NoError(t, err)
	txnRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestLedgerUsecase_ResolveTopup_AlreadyResolved(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	uow := new(MockUnitOfWork)
	uc := usecases.NewLedgerUsecase(txnRepo, new(MockWalletAccountRepository), uow)

	txnID := uuid.New()
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	txnRepo.On("GetByID", mock.Anything, txnID).Return(&entities.Transaction{
		ID: txnID, Type: entities.TransactionTypeTopup, Status: entities.TransactionStatusCompleted,
	}, nil)

	err := uc.ResolveTopup(context.Background(), txnID, true)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestLedgerUsecase_Reconcile(t *testing.T) {
	txnRepo := new(MockTransactionRepository)
	walletRepo := new(MockWalletAccountRepository)
	uc := usecases.NewLedgerUsecase(txnRepo, walletRepo, new(MockUnitOfWork))

	userID := uuid.New()
	walletRepo.On("GetByUserID", mock.Anything, userID).Return(&entities.WalletAccount{
		UserID: userID, Balance: 900,
	}, nil).Once()
	txnRepo.On("SumSettledByUserID", mock.Anything, userID).Return(int64(900), nil).Once()

	cached, derived, err := uc.Reconcile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cached, derived)
}
