package handlers

import (
	"context"
	"net/http"
	"strconv"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/interfaces/http/middleware"
	"ar-market.backend/internal/interfaces/http/response"
	"ar-market.backend/internal/metrics"
	"ar-market.backend/internal/usecases"
	"ar-market.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type listingService interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, input *entities.CreateListingInput) (*entities.Listing, error)
	ListOpen(ctx context.Context, page, limit int) ([]*entities.Listing, utils.PaginationMeta, error)
	GetListing(ctx context.Context, id uuid.UUID) (*entities.Listing, error)
	MyListings(ctx context.Context, sellerID uuid.UUID) ([]*entities.Listing, error)
	MyPurchases(ctx context.Context, buyerID uuid.UUID) ([]*entities.Bid, error)
	CloseListing(ctx context.Context, sellerID, listingID uuid.UUID) error
}

type bidService interface {
	PlaceBid(ctx context.Context, bidderID uuid.UUID, input *entities.PlaceBidInput) (*entities.Bid, error)
	AcceptBid(ctx context.Context, sellerID, bidID uuid.UUID) (*entities.Bid, error)
	MyBids(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error)
}

type payoutService interface {
	RequestPayout(ctx context.Context, sellerID, listingID uuid.UUID) error
}

// MarketplaceHandler handles listing, bid and payout endpoints
type MarketplaceHandler struct {
	listingUsecase listingService
	bidUsecase     bidService
	payoutUsecase  payoutService
	metrics        *metrics.Metrics
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(
	listingUsecase *usecases.ListingUsecase,
	bidUsecase *usecases.BidUsecase,
	withdrawalUsecase *usecases.WithdrawalUsecase,
	m *metrics.Metrics,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		listingUsecase: listingUsecase,
		bidUsecase:     bidUsecase,
		payoutUsecase:  withdrawalUsecase,
		metrics:        m,
	}
}

// CreateListing opens a listing for an owned ad
// POST /api/v1/marketplace
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var input entities.CreateListingInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	listing, err := h.listingUsecase.CreateListing(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"listing": listing})
}

// ListOpen lists open listings for browsing
// GET /api/v1/marketplace
func (h *MarketplaceHandler) ListOpen(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	listings, meta, err := h.listingUsecase.ListOpen(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	if listings == nil {
		listings = []*entities.Listing{}
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"listings": listings}, meta)
}

// GetListing returns one listing with its bids
// GET /api/v1/marketplace/:id
func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid listing ID"))
		return
	}

	listing, err := h.listingUsecase.GetListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"listing": listing})
}

// MyListings lists the seller's own listings
// GET /api/v1/marketplace/my-listings
func (h *MarketplaceHandler) MyListings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	listings, err := h.listingUsecase.MyListings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if listings == nil {
		listings = []*entities.Listing{}
	}

	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

// CloseListing withdraws an open listing, refunding all active bids
// DELETE /api/v1/marketplace/my-listings/:id
func (h *MarketplaceHandler) CloseListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid listing ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.listingUsecase.CloseListing(c.Request.Context(), userID, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Listing closed"})
}

// MyPurchases lists the listings the buyer won
// GET /api/v1/marketplace/my-purchases
func (h *MarketplaceHandler) MyPurchases(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	purchases, err := h.listingUsecase.MyPurchases(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if purchases == nil {
		purchases = []*entities.Bid{}
	}

	response.Success(c, http.StatusOK, gin.H{"purchases": purchases})
}

// PlaceBid places a bid on an open listing
// POST /api/v1/marketplace/bids
func (h *MarketplaceHandler) PlaceBid(c *gin.Context) {
	var input entities.PlaceBidInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	bid, err := h.bidUsecase.PlaceBid(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BidsPlacedTotal.Inc()
	}

	response.Success(c, http.StatusCreated, gin.H{"bid": bid})
}

// AcceptBid accepts one bid and settles the listing
// PUT /api/v1/marketplace/bids/:id/accept
func (h *MarketplaceHandler) AcceptBid(c *gin.Context) {
	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid bid ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	bid, err := h.bidUsecase.AcceptBid(c.Request.Context(), userID, bidID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ListingsSoldTotal.Inc()
	}

	response.Success(c, http.StatusOK, gin.H{"bid": bid})
}

// MyBids lists the user's bids
// GET /api/v1/marketplace/my-bids
func (h *MarketplaceHandler) MyBids(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	bids, err := h.bidUsecase.MyBids(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if bids == nil {
		bids = []*entities.Bid{}
	}

	response.Success(c, http.StatusOK, gin.H{"bids": bids})
}

// RequestPayout records the payout claim for a sold listing
// POST /api/v1/marketplace/payout
func (h *MarketplaceHandler) RequestPayout(c *gin.Context) {
	var input struct {
		ListingID string `json:"listingId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	listingID, err := uuid.Parse(input.ListingID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid listing ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.payoutUsecase.RequestPayout(c.Request.Context(), userID, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Payout recorded"})
}
