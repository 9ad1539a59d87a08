package repositories

import (
	"context"

	"ar-market.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateTier(ctx context.Context, id uuid.UUID, tier entities.UserTier) error
}

// AdRepository defines ad asset data operations
type AdRepository interface {
	Create(ctx context.Context, ad *entities.Ad) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Ad, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.Ad, error)
}
