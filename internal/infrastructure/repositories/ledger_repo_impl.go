package repositories

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// TransactionRepository implements the append-only ledger
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *entities.Transaction) error {
	m := &models.Transaction{
		ID:        txn.ID,
		UserID:    txn.UserID,
		Type:      string(txn.Type),
		Amount:    txn.Amount,
		Status:    string(txn.Status),
		RelatedID: txn.RelatedID,
		Consumed:  txn.Consumed,
		CreatedAt: txn.CreatedAt,
	}
	if txn.Metadata.Valid {
		m.Metadata = &txn.Metadata.String
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	txn.ID = m.ID
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return txnToEntity(&m), nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.Transaction
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	txns := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		txns = append(txns, txnToEntity(&ms[i]))
	}
	return txns, total, nil
}

func (r *TransactionRepository) SumSettledByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum *int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND status IN ?", userID, []string{
			string(entities.TransactionStatusCompleted),
			string(entities.TransactionStatusApproved),
		}).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *TransactionRepository) SumUnconsumedHolds(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum *int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND type = ? AND consumed = ?", userID, string(entities.TransactionTypeBidHold), false).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	// Holds are stored as debits; report the held total as a positive number.
	return -*sum, nil
}

func (r *TransactionRepository) MarkHoldConsumed(ctx context.Context, bidID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND related_id = ? AND consumed = ?", string(entities.TransactionTypeBidHold), bidID, false).
		Update("consumed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

func (r *TransactionRepository) ExistsByTypeAndRelatedID(ctx context.Context, txnType entities.TransactionType, relatedID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("type = ? AND related_id = ?", string(txnType), relatedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

func txnToEntity(m *models.Transaction) *entities.Transaction {
	e := &entities.Transaction{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entities.TransactionType(m.Type),
		Amount:    m.Amount,
		Status:    entities.TransactionStatus(m.Status),
		RelatedID: m.RelatedID,
		Consumed:  m.Consumed,
		CreatedAt: m.CreatedAt,
	}
	e.Metadata = null.StringFromPtr(m.Metadata)
	return e
}

// WalletAccountRepository implements the cached balance store
type WalletAccountRepository struct {
	db *gorm.DB
}

// NewWalletAccountRepository creates a new wallet account repository
func NewWalletAccountRepository(db *gorm.DB) *WalletAccountRepository {
	return &WalletAccountRepository{db: db}
}

func (r *WalletAccountRepository) Create(ctx context.Context, account *entities.WalletAccount) error {
	m := &models.WalletAccount{
		UserID:    account.UserID,
		Balance:   account.Balance,
		Version:   1,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	account.Version = m.Version
	return nil
}

func (r *WalletAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.WalletAccount, error) {
	var m models.WalletAccount
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.WalletAccount{
		UserID:    m.UserID,
		Balance:   m.Balance,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// ApplyDelta mutates the cached balance under the version guard. The balance
// check is repeated in SQL so a negative result can never be committed even
// if the caller's pre-check raced.
func (r *WalletAccountRepository) ApplyDelta(ctx context.Context, userID uuid.UUID, delta int64, fromVersion int64) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.WalletAccount{}).
		Where("user_id = ? AND version = ? AND balance + ? >= 0", userID, fromVersion, delta).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"version":    fromVersion + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}
