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

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Tier:         string(user.Tier),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier entities.UserTier) error {
	db := GetDB(ctx, r.db)
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"tier": string(tier), "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         entities.UserRole(m.Role),
		Tier:         entities.UserTier(m.Tier),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AdRepository implements ad asset data operations
type AdRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new ad repository
func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Create(ctx context.Context, ad *entities.Ad) error {
	m := &models.Ad{
		ID:        ad.ID,
		OwnerID:   ad.OwnerID,
		Title:     ad.Title,
		CreatedAt: ad.CreatedAt,
		UpdatedAt: ad.UpdatedAt,
	}
	if ad.Description.Valid {
		m.Description = &ad.Description.String
	}
	if ad.MediaRef.Valid {
		m.MediaRef = &ad.MediaRef.String
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	ad.ID = m.ID
	return nil
}

func (r *AdRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Ad, error) {
	var m models.Ad
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return adToEntity(&m), nil
}

func (r *AdRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Ad, error) {
	var ms []models.Ad
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ads := make([]*entities.Ad, 0, len(ms))
	for i := range ms {
		ads = append(ads, adToEntity(&ms[i]))
	}
	return ads, nil
}

func adToEntity(m *models.Ad) *entities.Ad {
	e := &entities.Ad{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	e.Description = null.StringFromPtr(m.Description)
	e.MediaRef = null.StringFromPtr(m.MediaRef)
	return e
}
