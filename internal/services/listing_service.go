package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"auction-house/internal/aucterrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/utils"
)

// ListingService handles listing lifecycle, bidding, comments and watchlists
type ListingService struct {
	repo *repository.Repository
}

// NewListingService creates a new ListingService
func NewListingService(repo *repository.Repository) *ListingService {
	return &ListingService{repo: repo}
}

// CurrentPrice computes the effective price of a listing: its highest bid, or
// the starting bid when no bids exist.
func CurrentPrice(listing *models.Listing, highest *models.Bid) decimal.Decimal {
	if highest == nil {
		return listing.StartingBid
	}
	return highest.Amount
}

// CreateListing validates and persists a new active listing owned by creator
func (s *ListingService) CreateListing(
	ctx context.Context,
	creatorID uint,
	req *models.CreateListingRequest,
) (*models.Listing, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", aucterrors.ErrValidation)
	}

	startingBid, err := decimal.NewFromString(strings.TrimSpace(req.StartingBid))
	if err != nil {
		return nil, fmt.Errorf("%w: starting bid %q is not a valid amount", aucterrors.ErrValidation, req.StartingBid)
	}
	if !startingBid.IsPositive() {
		return nil, fmt.Errorf("%w: starting bid must be positive", aucterrors.ErrValidation)
	}

	if req.CategoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category %d", aucterrors.ErrNotFound, *req.CategoryID)
			}
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
	}

	listing := &models.Listing{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		StartingBid: startingBid,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		CreatorID:   creatorID,
		IsActive:    true,
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	utils.Info("listing created", map[string]any{
		"listing_id": listing.ID,
		"creator_id": creatorID,
		"title":      title,
	})
	return listing, nil
}

// PlaceBid validates and records a bid. The current-price check and the bid
// insert run in one transaction holding the listing row so two concurrent
// bids cannot both validate against a stale price.
func (s *ListingService) PlaceBid(
	ctx context.Context,
	listingID uuid.UUID,
	bidderID uint,
	rawAmount string,
) (*models.Bid, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: bid amount %q is not a valid amount", aucterrors.ErrValidation, rawAmount)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: bid amount must be positive", aucterrors.ErrValidation)
	}

	var bid *models.Bid
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		listing, err := txRepo.GetListingForUpdate(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: listing %s", aucterrors.ErrNotFound, listingID)
			}
			return fmt.Errorf("failed to load listing: %w", err)
		}

		if !listing.IsActive {
			return fmt.Errorf("%w: no further bids accepted", aucterrors.ErrListingClosed)
		}

		highest, err := txRepo.HighestBid(ctx, listingID)
		if err != nil {
			return fmt.Errorf("failed to load highest bid: %w", err)
		}

		current := CurrentPrice(listing, highest)
		if amount.LessThan(listing.StartingBid) {
			return fmt.Errorf("%w: must be at least the starting bid of %s",
				aucterrors.ErrBidTooLow, listing.StartingBid.StringFixed(2))
		}
		if amount.LessThanOrEqual(current) {
			return fmt.Errorf("%w: must exceed the current price of %s",
				aucterrors.ErrBidTooLow, current.StringFixed(2))
		}

		bid = &models.Bid{
			ID:        uuid.New(),
			Amount:    amount,
			BidderID:  bidderID,
			ListingID: listingID,
		}
		if err := txRepo.CreateBid(ctx, bid); err != nil {
			return fmt.Errorf("failed to record bid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Info("bid placed", map[string]any{
		"listing_id": listingID,
		"bidder_id":  bidderID,
		"amount":     amount.StringFixed(2),
	})
	return bid, nil
}

// CloseAuction transitions a listing from active to closed, fixing the winner
// to the highest bidder at that moment. Only the creator may close, and only
// once.
func (s *ListingService) CloseAuction(ctx context.Context, listingID uuid.UUID, actorID uint) (*models.Listing, error) {
	var closed *models.Listing
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		listing, err := txRepo.GetListingForUpdate(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: listing %s", aucterrors.ErrNotFound, listingID)
			}
			return fmt.Errorf("failed to load listing: %w", err)
		}

		if listing.CreatorID != actorID {
			return fmt.Errorf("%w: only the creator may close a listing", aucterrors.ErrForbidden)
		}
		if !listing.IsActive {
			return fmt.Errorf("%w: listing already closed", aucterrors.ErrInvalidState)
		}

		highest, err := txRepo.HighestBid(ctx, listingID)
		if err != nil {
			return fmt.Errorf("failed to load highest bid: %w", err)
		}

		listing.IsActive = false
		if highest != nil {
			listing.WinnerID = &highest.BidderID
		}

		if err := txRepo.UpdateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to close listing: %w", err)
		}
		closed = listing
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"listing_id": listingID}
	if closed.WinnerID != nil {
		fields["winner_id"] = *closed.WinnerID
	}
	utils.Info("listing closed", fields)
	return closed, nil
}

// PostComment validates and records a comment against a listing
func (s *ListingService) PostComment(
	ctx context.Context,
	listingID uuid.UUID,
	authorID uint,
	text string,
) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", aucterrors.ErrValidation)
	}

	if _, err := s.repo.GetListingByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %s", aucterrors.ErrNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		Text:      text,
		AuthorID:  authorID,
		ListingID: listingID,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to record comment: %w", err)
	}
	return comment, nil
}

// AddToWatchlist puts a listing on a user's watchlist. Idempotent.
func (s *ListingService) AddToWatchlist(ctx context.Context, userID uint, listingID uuid.UUID) error {
	if err := s.ensureListingExists(ctx, listingID); err != nil {
		return err
	}

	entry := &models.WatchlistEntry{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
	}
	if err := s.repo.AddWatchlistEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return nil
}

// RemoveFromWatchlist takes a listing off a user's watchlist. Idempotent.
func (s *ListingService) RemoveFromWatchlist(ctx context.Context, userID uint, listingID uuid.UUID) error {
	if err := s.ensureListingExists(ctx, listingID); err != nil {
		return err
	}

	if err := s.repo.RemoveWatchlistEntry(ctx, userID, listingID); err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}

// ActiveListings returns active listings newest first, each carrying its
// computed current price and bid count.
func (s *ListingService) ActiveListings(ctx context.Context, categoryID *uint) ([]models.ListingResponse, error) {
	listings, err := s.repo.GetActiveListings(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	return s.toResponses(ctx, listings)
}

// ListingDetail returns the full detail payload for one listing. viewerID is
// nil for anonymous requests; the watching flag is false in that case.
func (s *ListingService) ListingDetail(
	ctx context.Context,
	listingID uuid.UUID,
	viewerID *uint,
) (*models.ListingDetailResponse, error) {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %s", aucterrors.ErrNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	bids, err := s.repo.GetBidsForListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}

	comments, err := s.repo.GetCommentsForListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	watching := false
	if viewerID != nil {
		watching, err = s.repo.IsWatching(ctx, *viewerID, listingID)
		if err != nil {
			return nil, fmt.Errorf("failed to load watchlist state: %w", err)
		}
	}

	var highest *models.Bid
	if len(bids) > 0 {
		highest = &bids[0]
	}

	return &models.ListingDetailResponse{
		Listing:      *listing,
		CurrentPrice: CurrentPrice(listing, highest),
		Bids:         bids,
		Comments:     comments,
		Watching:     watching,
	}, nil
}

// Watchlist returns the listings a user watches with current prices
func (s *ListingService) Watchlist(ctx context.Context, userID uint) ([]models.ListingResponse, error) {
	listings, err := s.repo.GetWatchedListings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return s.toResponses(ctx, listings)
}

// UserListings returns the listings created by a user with current prices
func (s *ListingService) UserListings(ctx context.Context, userID uint) ([]models.ListingResponse, error) {
	listings, err := s.repo.GetListingsByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user listings: %w", err)
	}
	return s.toResponses(ctx, listings)
}

// WonListings returns the closed listings a user has won
func (s *ListingService) WonListings(ctx context.Context, userID uint) ([]models.ListingResponse, error) {
	listings, err := s.repo.GetWonListings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load won listings: %w", err)
	}
	return s.toResponses(ctx, listings)
}

func (s *ListingService) ensureListingExists(ctx context.Context, listingID uuid.UUID) error {
	if _, err := s.repo.GetListingByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: listing %s", aucterrors.ErrNotFound, listingID)
		}
		return fmt.Errorf("failed to load listing: %w", err)
	}
	return nil
}

func (s *ListingService) toResponses(ctx context.Context, listings []*models.Listing) ([]models.ListingResponse, error) {
	responses := make([]models.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		highest, err := s.repo.HighestBid(ctx, listing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load highest bid: %w", err)
		}
		count, err := s.repo.CountBids(ctx, listing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count bids: %w", err)
		}
		responses = append(responses, models.ListingResponse{
			Listing:      *listing,
			CurrentPrice: CurrentPrice(listing, highest),
			BidCount:     count,
		})
	}
	return responses, nil
}
