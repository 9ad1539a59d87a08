package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Ad represents an AR ad campaign owned by a creator. Listings sell the
// slot of an ad; the ad itself (media, AR scene) is managed elsewhere.
type Ad struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	Title       string      `json:"title"`
	Description null.String `json:"description,omitempty"`
	MediaRef    null.String `json:"mediaRef,omitempty"` // external media storage reference
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	DeletedAt   *time.Time  `json:"-"`
}

// CreateAdInput represents input for registering an ad
type CreateAdInput struct {
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description"`
	MediaRef    string `json:"mediaRef"`
}
