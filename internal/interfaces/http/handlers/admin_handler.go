package handlers

import (
	"context"
	"net/http"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/interfaces/http/response"
	"ar-market.backend/internal/metrics"
	"ar-market.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adminKYCService interface {
	ReviewEnrollment(ctx context.Context, userID uuid.UUID, input *entities.KYCReviewInput) error
}

type adminWithdrawalService interface {
	ResolveWithdrawal(ctx context.Context, requestID uuid.UUID, input *entities.ResolveWithdrawalInput) error
}

type adminLedgerService interface {
	ResolveTopup(ctx context.Context, txnID uuid.UUID, approve bool) error
}

type adminUserService interface {
	SetTier(ctx context.Context, userID uuid.UUID, tier entities.UserTier) error
}

// AdminHandler handles the administrative review queues
type AdminHandler struct {
	kycUsecase        adminKYCService
	withdrawalUsecase adminWithdrawalService
	ledgerUsecase     adminLedgerService
	authUsecase       adminUserService
	metrics           *metrics.Metrics
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	kycUsecase *usecases.KYCUsecase,
	withdrawalUsecase *usecases.WithdrawalUsecase,
	ledgerUsecase *usecases.LedgerUsecase,
	authUsecase *usecases.AuthUsecase,
	m *metrics.Metrics,
) *AdminHandler {
	return &AdminHandler{
		kycUsecase:        kycUsecase,
		withdrawalUsecase: withdrawalUsecase,
		ledgerUsecase:     ledgerUsecase,
		authUsecase:       authUsecase,
		metrics:           m,
	}
}

// ReviewKYC approves or rejects a pending enrollment
// PUT /api/v1/admin/kyc/:userId
func (h *AdminHandler) ReviewKYC(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.KYCReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.kycUsecase.ReviewEnrollment(c.Request.Context(), userID, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Enrollment reviewed"})
}

// ResolveWithdrawal approves, rejects or completes a withdrawal request
// PUT /api/v1/admin/withdrawals/:id
func (h *AdminHandler) ResolveWithdrawal(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid withdrawal ID"))
		return
	}

	var input entities.ResolveWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.withdrawalUsecase.ResolveWithdrawal(c.Request.Context(), requestID, &input); err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.WithdrawalsResolved.WithLabelValues(input.Decision).Inc()
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Withdrawal updated"})
}

// ResolveTopup approves or rejects a pending manual top-up
// PUT /api/v1/admin/topups/:id
func (h *AdminHandler) ResolveTopup(c *gin.Context) {
	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid transaction ID"))
		return
	}

	var input struct {
		Decision string `json:"decision" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.ledgerUsecase.ResolveTopup(c.Request.Context(), txnID, input.Decision == "approve"); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Top-up resolved"})
}

// SetTier changes a user's subscription tier
// PUT /api/v1/admin/users/:id/tier
func (h *AdminHandler) SetTier(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input entities.SetTierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.authUsecase.SetTier(c.Request.Context(), userID, input.Tier); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Tier updated"})
}
