package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ar-market.backend/internal/domain/entities"
	domainerrors "ar-market.backend/internal/domain/errors"
	"ar-market.backend/internal/domain/repositories"
	"ar-market.backend/pkg/utils"
	"github.com/google/uuid"
)

// BidUsecase handles the bid book: placing bids against open listings and
// the acceptance that settles the escrow.
type BidUsecase struct {
	listingRepo repositories.ListingRepository
	bidRepo     repositories.BidRepository
	kycRepo     repositories.KYCRepository
	ledger      *LedgerUsecase
	uow         repositories.UnitOfWork
}

// NewBidUsecase creates a new bid usecase
func NewBidUsecase(
	listingRepo repositories.ListingRepository,
	bidRepo repositories.BidRepository,
	kycRepo repositories.KYCRepository,
	ledger *LedgerUsecase,
	uow repositories.UnitOfWork,
) *BidUsecase {
	return &BidUsecase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
		kycRepo:     kycRepo,
		ledger:      ledger,
		uow:         uow,
	}
}

// PlaceBid places a bid on an open listing and holds the amount against the
// bidder's wallet. Bid insert, hold and highest-pointer update commit
// together; the version check on the highest-pointer update serializes
// concurrent bids on the same listing.
func (u *BidUsecase) PlaceBid(ctx context.Context, bidderID uuid.UUID, input *entities.PlaceBidInput) (*entities.Bid, error) {
	listingID, err := utils.ParseUUID(input.ListingID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid listing id")
	}

	if err := requireKYCApproved(ctx, u.kycRepo, bidderID); err != nil {
		return nil, err
	}

	var bid *entities.Bid
	err = withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			listing, err := u.listingRepo.GetByID(txCtx, listingID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.NotFound("listing not found")
				}
				return err
			}
			if listing.IsTerminal() {
				return domainerrors.Conflict("listing is no longer open")
			}
			if listing.IsExpired(time.Now()) {
				return domainerrors.Conflict("listing has expired")
			}
			if listing.SellerID == bidderID {
				return domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeForbidden,
					"you cannot bid on your own listing", domainerrors.ErrSelfBid)
			}

			floor := listing.BasePrice
			if listing.CurrentHighestBidID != nil {
				highest, err := u.bidRepo.GetByID(txCtx, *listing.CurrentHighestBidID)
				if err != nil {
					return err
				}
				if highest.Amount > floor {
					floor = highest.Amount
				}
			}
			if input.Amount <= floor {
				return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest,
					"bid must exceed the current price floor", domainerrors.ErrBidTooLow)
			}

			now := time.Now()
			bid = &entities.Bid{
				ID:        utils.GenerateUUIDv7(),
				ListingID: listingID,
				BidderID:  bidderID,
				Amount:    input.Amount,
				Status:    entities.BidStatusActive,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := u.bidRepo.Create(txCtx, bid); err != nil {
				return err
			}
			if err := u.ledger.Hold(txCtx, bidderID, input.Amount, bid.ID); err != nil {
				if errors.Is(err, domainerrors.ErrInsufficientFunds) {
					return domainerrors.InsufficientFunds("available balance does not cover the bid amount")
				}
				return err
			}
			return u.listingRepo.SetHighestBid(txCtx, listingID, listing.Version, bid.ID)
		})
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// AcceptBid is the seller accepting one active bid. Settlement happens in a
// single transaction: the winner's hold converts to a sale credit, every
// other active bid is refunded, and the listing transitions to SOLD. The
// version-guarded transition is what makes a second concurrent accept fail.
func (u *BidUsecase) AcceptBid(ctx context.Context, sellerID, bidID uuid.UUID) (*entities.Bid, error) {
	var accepted *entities.Bid
	err := withConcurrencyRetry(func() error {
		return u.uow.Do(ctx, func(txCtx context.Context) error {
			bid, err := u.bidRepo.GetByID(txCtx, bidID)
			if err != nil {
				if errors.Is(err, domainerrors.ErrNotFound) {
					return domainerrors.NotFound("bid not found")
				}
				return err
			}
			listing, err := u.listingRepo.GetByID(txCtx, bid.ListingID)
			if err != nil {
				return err
			}
			if listing.SellerID != sellerID {
				return domainerrors.Forbidden("only the seller can accept a bid")
			}
			if listing.IsTerminal() {
				return domainerrors.Conflict("listing is already resolved")
			}
			if bid.Status != entities.BidStatusActive {
				return domainerrors.Conflict("bid is no longer active")
			}

			if err := u.bidRepo.UpdateStatus(txCtx, bid.ID, entities.BidStatusAccepted); err != nil {
				return err
			}
			if err := u.ledger.SettleHold(txCtx, sellerID, bid.Amount, bid.ID, listing.ID); err != nil {
				return err
			}
			if err := releaseActiveBids(txCtx, u.bidRepo, u.ledger, listing.ID, &bid.ID); err != nil {
				return err
			}
			now := time.Now()
			if err := u.listingRepo.Transition(txCtx, listing.ID, listing.Version, entities.ListingStatusSold, &now); err != nil {
				return err
			}
			bid.Status = entities.BidStatusAccepted
			accepted = bid
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// MyBids returns every bid the user placed, most recent first
func (u *BidUsecase) MyBids(ctx context.Context, bidderID uuid.UUID) ([]*entities.Bid, error) {
	return u.bidRepo.ListByBidderID(ctx, bidderID)
}
