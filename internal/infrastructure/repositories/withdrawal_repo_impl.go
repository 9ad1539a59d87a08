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

// WithdrawalRepository implements withdrawal request data operations
type WithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(ctx context.Context, req *entities.WithdrawalRequest) error {
	m := &models.WithdrawalRequest{
		ID:        req.ID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		Method:    string(req.Method),
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if req.MethodDetails.Valid {
		m.MethodDetails = &req.MethodDetails.String
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.ID = m.ID
	return nil
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WithdrawalRequest, error) {
	var m models.WithdrawalRequest
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return withdrawalToEntity(&m), nil
}

func (r *WithdrawalRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.WithdrawalRequest, error) {
	var ms []models.WithdrawalRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	reqs := make([]*entities.WithdrawalRequest, 0, len(ms))
	for i := range ms {
		reqs = append(reqs, withdrawalToEntity(&ms[i]))
	}
	return reqs, nil
}

func (r *WithdrawalRepository) SumPendingByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum *int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Select("SUM(amount)").
		Where("user_id = ? AND status = ?", userID, string(entities.WithdrawalStatusPending)).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// TransitionStatus guards the two-phase administrative flow: a request only
// moves out of the status the caller observed.
func (r *WithdrawalRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WithdrawalStatus, at time.Time) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	switch to {
	case entities.WithdrawalStatusApproved, entities.WithdrawalStatusRejected:
		updates["resolved_at"] = at
	case entities.WithdrawalStatusCompleted:
		updates["completed_at"] = at
	}
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

func withdrawalToEntity(m *models.WithdrawalRequest) *entities.WithdrawalRequest {
	e := &entities.WithdrawalRequest{
		ID:        m.ID,
		UserID:    m.UserID,
		Amount:    m.Amount,
		Method:    entities.WithdrawalMethod(m.Method),
		Status:    entities.WithdrawalStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	e.MethodDetails = null.StringFromPtr(m.MethodDetails)
	e.ResolvedAt = null.TimeFromPtr(m.ResolvedAt)
	e.CompletedAt = null.TimeFromPtr(m.CompletedAt)
	return e
}
