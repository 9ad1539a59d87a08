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

// KYCRepository implements verification profile data operations
type KYCRepository struct {
	db *gorm.DB
}

// NewKYCRepository creates a new KYC repository
func NewKYCRepository(db *gorm.DB) *KYCRepository {
	return &KYCRepository{db: db}
}

func (r *KYCRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.KYCProfile, error) {
	var m models.KYCProfile
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return kycToEntity(&m), nil
}

// Upsert creates the profile on first submission; on resubmission it
// overwrites the enrollment fields and clears the previous review.
func (r *KYCRepository) Upsert(ctx context.Context, profile *entities.KYCProfile) error {
	db := GetDB(ctx, r.db)

	var existing models.KYCProfile
	err := db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		m := &models.KYCProfile{
			ID:          profile.ID,
			UserID:      profile.UserID,
			Status:      string(profile.Status),
			LegalName:   profile.LegalName,
			DateOfBirth: profile.DateOfBirth,
			Address:     profile.Address,
			IDType:      profile.IDType,
			IDNumber:    profile.IDNumber,
			IDImageRef:  profile.IDImageRef,
			SubmittedAt: profile.SubmittedAt,
			CreatedAt:   profile.CreatedAt,
			UpdatedAt:   profile.UpdatedAt,
		}
		return db.WithContext(ctx).Create(m).Error
	}

	res := db.WithContext(ctx).Model(&models.KYCProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"status":        string(profile.Status),
			"legal_name":    profile.LegalName,
			"date_of_birth": profile.DateOfBirth,
			"address":       profile.Address,
			"id_type":       profile.IDType,
			"id_number":     profile.IDNumber,
			"id_image_ref":  profile.IDImageRef,
			"remarks":       nil,
			"submitted_at":  profile.SubmittedAt,
			"reviewed_at":   nil,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	profile.ID = existing.ID
	return nil
}

func (r *KYCRepository) Review(ctx context.Context, userID uuid.UUID, status entities.KYCStatus, remarks string, reviewedAt time.Time) error {
	db := GetDB(ctx, r.db)
	updates := map[string]interface{}{
		"status":      string(status),
		"reviewed_at": reviewedAt,
		"updated_at":  time.Now(),
	}
	if remarks != "" {
		updates["remarks"] = remarks
	}
	res := db.WithContext(ctx).Model(&models.KYCProfile{}).
		Where("user_id = ? AND status = ?", userID, string(entities.KYCStatusPending)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrConcurrency
	}
	return nil
}

func kycToEntity(m *models.KYCProfile) *entities.KYCProfile {
	e := &entities.KYCProfile{
		ID:          m.ID,
		UserID:      m.UserID,
		Status:      entities.KYCStatus(m.Status),
		LegalName:   m.LegalName,
		DateOfBirth: m.DateOfBirth,
		Address:     m.Address,
		IDType:      m.IDType,
		IDNumber:    m.IDNumber,
		IDImageRef:  m.IDImageRef,
		SubmittedAt: m.SubmittedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	e.Remarks = null.StringFromPtr(m.Remarks)
	e.ReviewedAt = null.TimeFromPtr(m.ReviewedAt)
	return e
}
