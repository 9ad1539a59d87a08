package usecases

import (
	"context"
	"errors"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/logger"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingUsecase handles the ad-slot listing lifecycle
type ListingUsecase struct {
	listingRepo repositories.ListingRepository
	bidRepo     repositories.BidRepository
	adRepo      repositories.AdRepository
	userRepo    repositories.UserRepository
	kycRepo     repositories.KYCRepository
	ledger      *LedgerUsecase
	uow         repositories.UnitOfWork
}

// NewListingUsecase creates a new listing usecase
func NewListingUsecase(
	listingRepo repositories.ListingRepository,
	bidRepo repositories.BidRepository,
	adRepo repositories.AdRepository,
	userRepo repositories.UserRepository,
	kycRepo repositories.KYCRepository,
	ledger *LedgerUsecase,
	uow repositories.UnitOfWork,
) *ListingUsecase {
	return &ListingUsecase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		adRepo:      adRepo,
		userRepo:    userRepo,
		kycRepo:     kycRepo,
		ledger:      ledger,
		uow:         uow,
	}
}

// CreateListing opens a listing for one of the seller's ads. Requires the
// Pro tier, approved verification, ownership of the ad, and no other open
// listing for the same ad.
func (u *ListingUsecase) CreateListing(ctx context.Context, sellerID uuid.UUID, input *entities.CreateListingInput) (*entities.Listing, error) {
	adID, err := utils.ParseUUID(input.AdID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid ad id")
	}

	seller, err := u.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsPro() {
		return nil, domainerrors.NewAppError(403, domainerrors.CodeForbidden,
			"pro tier required to create listings", domainerrors.ErrProTierRequired)
	}
	if err := requireKYCApproved(ctx, u.kycRepo, sellerID); err != nil {
		return nil, err
	}

	ad, err := u.adRepo.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("ad not found")
		}
		return nil, err
	}
	if ad.OwnerID != sellerID {
		return nil, domainerrors.Forbidden("you do not own this ad")
	}

	if _, err := u.listingRepo.GetOpenByAdID(ctx, adID); err == nil {
		return nil, domainerrors.Conflict("an open listing already exists for this ad")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	listing := &entities.Listing{
		ID:           utils.GenerateUUIDv7(),
		AdID:         adID,
		SellerID:     sellerID,
		BasePrice:    input.BasePrice,
		TargetViews:  input.TargetViews,
		DurationDays: input.DurationDays,
		Status:       entities.ListingStatusOpen,
		ExpiryDate:   now.AddDate(0, 0, input.DurationDays),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// ListOpen returns the public browse view of open listings
func (u *ListingUsecase) ListOpen(ctx context.Context, page, limit int) ([]*entities.Listing, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	listings, total, err := u.listingRepo.ListOpen(ctx, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return listings, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// GetListing returns one listing with its bid history
func (u *ListingUsecase) GetListing(ctx context.Context, id uuid.UUID) (*entities.Listing, error) {
	listing, err := u.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("listing not found")
		}
		return nil, err
	}
	bids, err := u.bidRepo.ListByListingID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing.Bids = bids
	return listing, nil
}

// MyListings returns every listing the seller ever opened
func (u *ListingUsecase) MyListings(ctx context.Context, sellerID uuid.UUID) ([]*entities.Listing, error) {
	return u.listingRepo.ListBySellerID(ctx, sellerID)
}

// MyPurchases returns the listings the buyer won, via their accepted bids
func (u *ListingUsecase) MyPurchases(ctx context.Context, buyerID uuid.UUID) ([]*entities.Bid, error) {
	return u.bidRepo.ListAcceptedByBidderID(ctx, buyerID)
}

// CloseListing lets the seller withdraw an open listing. All active bids are
// refunded; the transition to CLOSED is the serialization point.
func (u *ListingUsecase) CloseListing(ctx context.Context, sellerID, listingID uuid.UUID) error {
	return withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			listing, err := u.listingRepo.GetByID(txCtx, listingID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.NotFound("listing not found")
				}
				return err
			}
			if listing.SellerID != sellerID {
				return domainerrors.Forbidden("only the seller can close this listing")
			}
			if listing.IsTerminal() {
				return domainerrors.Conflict("listing is already resolved")
			}
			if err := releaseActiveBids(txCtx, u.bidRepo, u.ledger, listingID, nil); err != nil {
				return err
			}
			return u.listingRepo.Transition(txCtx, listingID, listing.Version, entities.ListingStatusClosed, nil)
		})
	})
}

// SweepExpired resolves open listings past their expiry date, refunding all
// active bids. Each listing is its own transaction so one lost race does not
// abort the batch; raced listings are picked up on the next pass.
func (u *ListingUsecase) SweepExpired(ctx context.Context) (int, error) {
	listings, err := u.listingRepo.ListExpiredOpen(ctx, time.Now(), ExpirySweepBatchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, listing := range listings {
		listing := listing
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			if err := releaseActiveBids(txCtx, u.bidRepo, u.ledger, listing.ID, nil); err != nil {
				return err
			}
			return u.listingRepo.Transition(txCtx, listing.ID, listing.Version, entities.ListingStatusExpired, nil)
		})
		if err != nil {
			if errors.Is(err, domainerrors.ErrConcurrency) {
				continue
			}
			logger.Error(ctx, "expiry sweep failed for listing",
				zap.String("listingId", listing.ID.String()), zap.Error(err))
			continue
		}
		swept++
	}
	return swept, nil
}

// releaseActiveBids refunds the holds of every active bid on the listing and
// marks the bids refunded. Skip names the accepted bid during settlement.
func releaseActiveBids(ctx context.Context, bidRepo repositories.BidRepository, ledger *LedgerUsecase, listingID uuid.UUID, skip *uuid.UUID) error {
	bids, err := bidRepo.ListActiveByListingID(ctx, listingID)
	if err != nil {
		return err
	}
	for _, bid := range bids {
		if skip != nil && bid.ID == *skip {
			continue
		}
		if err := ledger.ReleaseHold(ctx, bid.BidderID, bid.Amount, bid.ID); err != nil {
			return err
		}
		if err := bidRepo.UpdateStatus(ctx, bid.ID, entities.BidStatusRefunded); err != nil {
			return err
		}
	}
	return nil
}
