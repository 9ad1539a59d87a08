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

type kycService interface {
	SubmitEnrollment(ctx context.Context, userID uuid.UUID, input *entities.KYCEnrollmentInput) (*entities.KYCProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.KYCProfile, error)
}

// KYCHandler handles identity verification endpoints
type KYCHandler struct {
	kycUsecase kycService
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycUsecase *usecases.KYCUsecase) *KYCHandler {
	return &KYCHandler{kycUsecase: kycUsecase}
}

// SubmitEnrollment submits a verification enrollment
// POST /api/v1/user/kyc
func (h *KYCHandler) SubmitEnrollment(c *gin.Context) {
	var input entities.KYCEnrollmentInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	profile, err := h.kycUsecase.SubmitEnrollment(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"kyc": profile})
}

// GetProfile returns the caller's verification status
// GET /api/v1/user/kyc
func (h *KYCHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	profile, err := h.kycUsecase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"kyc": profile})
}
