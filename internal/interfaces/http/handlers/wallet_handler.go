package handlers

import (
	"context"
	"net/http"
	"strconv"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/interfaces/http/middleware"
	"ar-market.backend/internal/interfaces/http/response"
	"ar-market.backend/internal/usecases"
	"ar-market.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type walletService interface {
	RequestTopup(ctx context.Context, userID uuid.UUID, input *entities.TopupInput) (*entities.Transaction, error)
	Transactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Transaction, utils.PaginationMeta, error)
}

type withdrawalService interface {
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.RequestWithdrawalInput) (*entities.WithdrawalRequest, error)
	MyWithdrawals(ctx context.Context, userID uuid.UUID) ([]*entities.WithdrawalRequest, error)
	WalletSummary(ctx context.Context, userID uuid.UUID) (*entities.WalletSummary, error)
}

// WalletHandler handles wallet, top-up and withdrawal endpoints
type WalletHandler struct {
	ledgerUsecase     walletService
	withdrawalUsecase withdrawalService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledgerUsecase *usecases.LedgerUsecase, withdrawalUsecase *usecases.WithdrawalUsecase) *WalletHandler {
	return &WalletHandler{
		ledgerUsecase:     ledgerUsecase,
		withdrawalUsecase: withdrawalUsecase,
	}
}

// GetWallet returns the wallet summary
// GET /api/v1/user/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	summary, err := h.withdrawalUsecase.WalletSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": summary})
}

// RequestTopup submits a manual top-up with a payment proof
// POST /api/v1/user/topup
func (h *WalletHandler) RequestTopup(c *gin.Context) {
	var input entities.TopupInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	txn, err := h.ledgerUsecase.RequestTopup(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transaction": txn})
}

// Transactions returns the ledger history
// GET /api/v1/user/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, meta, err := h.ledgerUsecase.Transactions(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	if txns == nil {
		txns = []*entities.Transaction{}
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"transactions": txns}, meta)
}

// RequestWithdrawal submits a withdrawal request
// POST /api/v1/user/withdraw
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	var input entities.RequestWithdrawalInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	req, err := h.withdrawalUsecase.RequestWithdrawal(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"withdrawal": req})
}

// MyWithdrawals lists the caller's withdrawal requests
// GET /api/v1/user/withdrawals
func (h *WalletHandler) MyWithdrawals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	reqs, err := h.withdrawalUsecase.MyWithdrawals(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if reqs == nil {
		reqs = []*entities.WithdrawalRequest{}
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawals": reqs})
}
