package usecases_test

import (
	"context"
	"time"

	"ar-market.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier entities.UserTier) error {
	return m.Called(ctx, id, tier).Error(0)
}

// Mock AdRepository
type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ctx context.Context, ad *entities.Ad) error {
	return m.Called(ctx, ad).Error(0)
}

func (m *MockAdRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ad), args.Error(1)
}

func (m *MockAdRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Ad, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ad), args.Error(1)
}

// Mock ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entities.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) GetOpenByAdID(ctx context.Context, adID uuid.UUID) (*entities.Listing, error) {
	args := m.Called(ctx, adID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) ListOpen(ctx context.Context, limit, offset int) ([]*entities.Listing, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) ListBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entities.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]*entities.Listing, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Listing), args.Error(1)
}

func (m *MockListingRepository) Transition(ctx context.Context, id uuid.UUID, fromVersion int64, to entities.ListingStatus, soldAt *time.Time) error {
	return m.Called(ctx, id, fromVersion, to, soldAt).Error(0)
}

func (m *MockListingRepository) SetHighestBid(ctx context.Context, id uuid.UUID, fromVersion int64, bidID uuid.UUID) error {
	return m.Called(ctx, id, fromVersion, bidID).Error(0)
}

// Mock BidRepository
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) Create(ctx context.Context, bid *entities.Bid) error {
	return m.Called(ctx, bid).Error(0)
}

func (m *MockBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bid), args.Error(1)
}

func (m *MockBidRepository) ListByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bid), args.Error(1)
}

func (m *MockBidRepository) ListActiveByListingID(ctx context.Context, listingID uuid.UUID) ([]*entities.Bid, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bid), args.Error(1)
}

func (m *MockBidRepository) ListByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error) {
	args := m.Called(ctx, bidderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bid), args.Error(1)
}

func (m *MockBidRepository) ListAcceptedByBidderID(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error) {
	args := m.Called(ctx, bidderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bid), args.Error(1)
}

func (m *MockBidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BidStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *entities.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) SumSettledByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SumUnconsumedHolds(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) MarkHoldConsumed(ctx context.Context, bidID uuid.UUID) error {
	return m.Called(ctx, bidID).Error(0)
}

func (m *MockTransactionRepository) ExistsByTypeAndRelatedID(ctx context.Context, txnType entities.TransactionType, relatedID uuid.UUID) (bool, error) {
	args := m.Called(ctx, txnType, relatedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

// Mock WalletAccountRepository
type MockWalletAccountRepository struct {
	mock.Mock
}

func (m *MockWalletAccountRepository) Create(ctx context.Context, account *entities.WalletAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockWalletAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.WalletAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletAccount), args.Error(1)
}

func (m *MockWalletAccountRepository) ApplyDelta(ctx context.Context, userID uuid.UUID, delta int64, fromVersion int64) error {
	return m.Called(ctx, userID, delta, fromVersion).Error(0)
}

// Mock KYCRepository
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KYCProfile), args.Error(1)
}

func (m *MockKYCRepository) Upsert(ctx context.Context, profile *entities.KYCProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockKYCRepository) Review(ctx context.Context, userID uuid.UUID, status entities.KYCStatus, remarks string, reviewedAt time.Time) error {
	return m.Called(ctx, userID, status, remarks, reviewedAt).Error(0)
}

// Mock WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, req *entities.WithdrawalRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) SumPendingByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWithdrawalRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WithdrawalStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

// approvedKYC returns a repo primed to pass the verification gate for userID
func approvedKYC(userID uuid.UUID) *MockKYCRepository {
	kycRepo := new(MockKYCRepository)
	kycRepo.On("GetByUserID", mock.Anything, userID).Return(&entities.KYCProfile{
		UserID: userID,
		Status: entities.KYCStatusApproved,
	}, nil)
	return kycRepo
}
