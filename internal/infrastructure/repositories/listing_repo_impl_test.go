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

func seedListing(t *testing.T, repo *ListingRepository, sellerID uuid.UUID, status entities.ListingStatus, expiry time.Time) *entities.Listing {
	t.Helper()
	l := &entities.Listing{
		ID:           uuid.New(),
		AdID:         uuid.New(),
		SellerID:     sellerID,
		BasePrice:    500,
		TargetViews:  10000,
		DurationDays: 7,
		Status:       status,
		ExpiryDate:   expiry,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestListingRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, time.Now().Add(24*time.Hour))
	require.Equal(t, int64(1), l.Version)

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ListingStatusOpen, got.Status)
	require.Equal(t, int64(500), got.BasePrice)

	open, err := repo.GetOpenByAdID(ctx, l.AdID)
	require.NoError(t, err)
	require.Equal(t, l.ID, open.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListingRepository_GetOpenByAdID_IgnoresResolved(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, repo, uuid.New(), entities.ListingStatusSold, time.Now().Add(24*time.Hour))

	_, err := repo.GetOpenByAdID(ctx, l.AdID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListingRepository_ListOpen_Pagination(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, time.Now().Add(24*time.Hour))
	}
	seedListing(t, repo, uuid.New(), entities.ListingStatusClosed, time.Now().Add(24*time.Hour))

	page, total, err := repo.ListOpen(ctx, 2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, page, 2)

	rest, total, err := repo.ListOpen(ctx, 2, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, rest, 1)
}

func TestListingRepository_ListExpiredOpen(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()
	now := time.Now()

	expired := seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, now.Add(-time.Hour))
	seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, now.Add(time.Hour))
	seedListing(t, repo, uuid.New(), entities.ListingStatusExpired, now.Add(-2*time.Hour))

	due, err := repo.ListExpiredOpen(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, expired.ID, due[0].ID)
}

func TestListingRepository_Transition_VersionGuard(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, time.Now().Add(24*time.Hour))
	soldAt := time.Now()

	require.NoError(t, repo.Transition(ctx, l.ID, l.Version, entities.ListingStatusSold, &soldAt))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ListingStatusSold, got.Status)
	require.Equal(t, int64(2), got.Version)
	require.True(t, got.SoldAt.Valid)

	// The losing side of the race still holds the old version.
	err = repo.Transition(ctx, l.ID, l.Version, entities.ListingStatusClosed, nil)
	require.ErrorIs(t, err, domainerrors.ErrConcurrency)

	// Even a fresh version cannot move a listing that already left OPEN.
	err = repo.Transition(ctx, l.ID, got.Version, entities.ListingStatusClosed, nil)
	require.ErrorIs(t, err, domainerrors.ErrConcurrency)
}

func TestListingRepository_SetHighestBid_VersionGuard(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()

	l := seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, time.Now().Add(24*time.Hour))
	bidID := uuid.New()

	require.NoError(t, repo.SetHighestBid(ctx, l.ID, l.Version, bidID))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentHighestBidID)
	require.Equal(t, bidID, *got.CurrentHighestBidID)
	require.Equal(t, int64(2), got.Version)

	err = repo.SetHighestBid(ctx, l.ID, l.Version, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrConcurrency)
}

func TestListingRepository_ListBySellerID(t *testing.T) {
	db := newTestDB(t)
	createMarketTables(t, db)
	repo := NewListingRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()

	seedListing(t, repo, sellerID, entities.ListingStatusOpen, time.Now().Add(24*time.Hour))
	seedListing(t, repo, sellerID, entities.ListingStatusClosed, time.Now().Add(24*time.Hour))
	seedListing(t, repo, uuid.New(), entities.ListingStatusOpen, time.Now().Add(24*time.Hour))

	mine, err := repo.ListBySellerID(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}
