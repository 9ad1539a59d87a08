package handlers

import (
	"context"
	"net/http"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/interfaces/http/middleware"
	"ar-market.backend/internal/interfaces/http/response"
	"ar-market.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adService interface {
	CreateAd(ctx context.Context, ownerID uuid.UUID, input *entities.CreateAdInput) (*entities.Ad, error)
	MyAds(ctx context.Context, ownerID uuid.UUID) ([]*entities.Ad, error)
}

// AdHandler handles the ad registry endpoints
type AdHandler struct {
	adUsecase adService
}

// NewAdHandler creates a new ad handler
func NewAdHandler(adUsecase *usecases.AdUsecase) *AdHandler {
	return &AdHandler{adUsecase: adUsecase}
}

// CreateAd registers an ad asset
// POST /api/v1/ads
func (h *AdHandler) CreateAd(c *gin.Context) {
	var input entities.CreateAdInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	ad, err := h.adUsecase.CreateAd(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"ad": ad})
}

// MyAds lists the caller's ads
// GET /api/v1/ads
func (h *AdHandler) MyAds(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	ads, err := h.adUsecase.MyAds(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if ads == nil {
		ads = []*entities.Ad{}
	}

	response.Success(c, http.StatusOK, gin.H{"ads": ads})
}
