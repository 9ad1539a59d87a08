package repositories

import (
	"context"
	"testing"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedBid(t *testing.T, repo *BidRepository, listingID, bidderID uuid.UUID, amount int64, status entities.BidStatus) *entities.Bid {
	t.Helper()
	b := &entities.Bid{
		ID:        uuid.New(),
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBidRepository_CreateGetAndUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewBidRepository(db)
	ctx := context.Background()

	b := seedBid(t, repo, uuid.New(), uuid.New(), 600, entities.BidStatusActive)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, int64(600), got.Amount)

	require.NoError(t, repo.UpdateStatus(ctx, b.ID, entities.BidStatusAccepted))
	got, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, entities.BidStatusAccepted, got.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), entities.BidStatusRefunded)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBidRepository_ListActiveByListingID_OrdersByAmount(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewBidRepository(db)
	ctx := context.Background()
	listingID := uuid.New()

	seedBid(t, repo, listingID, uuid.New(), 600, entities.BidStatusActive)
	top := seedBid(t, repo, listingID, uuid.New(), 900, entities.BidStatusActive)
	seedBid(t, repo, listingID, uuid.New(), 700, entities.BidStatusRefunded)
	seedBid(t, repo, uuid.New(), uuid.New(), 950, entities.BidStatusActive)

	active, err := repo.ListActiveByListingID(ctx, listingID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, top.ID, active[0].ID)
}

func TestBidRepository_ListByBidderID(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewBidRepository(db)
	ctx := context.Background()
	bidderID := uuid.New()

	seedBid(t, repo, uuid.New(), bidderID, 600, entities.BidStatusActive)
	seedBid(t, repo, uuid.New(), bidderID, 700, entities.BidStatusRefunded)
	seedBid(t, repo, uuid.New(), uuid.New(), 800, entities.BidStatusActive)

	mine, err := repo.ListByBidderID(ctx, bidderID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestBidRepository_ListAcceptedByBidderID(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewBidRepository(db)
	ctx := context.Background()
	bidderID := uuid.New()

	won := seedBid(t, repo, uuid.New(), bidderID, 900, entities.BidStatusAccepted)
	seedBid(t, repo, uuid.New(), bidderID, 600, entities.BidStatusRefunded)

	purchases, err := repo.ListAcceptedByBidderID(ctx, bidderID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, won.ID, purchases[0].ID)
}
