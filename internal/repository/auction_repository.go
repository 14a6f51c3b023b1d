package repository

import (
	"context"
	"errors"

	"auction-house/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction, handing it a Repository
// bound to the transactional connection.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// ----- users -----

// CreateUser creates a new user record
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, or nil when absent
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ----- categories -----

// CreateCategory creates a new category
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetCategoryByID retrieves a category by ID
func (r *Repository) GetCategoryByID(ctx context.Context, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories retrieves all categories ordered by name
func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory removes a category, detaching its listings first so they
// survive the delete with no category reference.
func (r *Repository) DeleteCategory(ctx context.Context, categoryID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Listing{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, categoryID).Error
	})
}

// ----- listings -----

// CreateListing creates a new listing
func (r *Repository) CreateListing(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// GetListingByID retrieves a listing by ID with its associations
func (r *Repository) GetListingByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Creator").
		Preload("Winner").
		Where("id = ?", listingID).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingForUpdate retrieves a listing holding a row lock for the duration
// of the surrounding transaction. Must be called through Transaction; the
// lock clause is skipped on sqlite, which serializes writers anyway.
func (r *Repository) GetListingForUpdate(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var listing models.Listing
	if err := query.Where("id = ?", listingID).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListing persists listing field changes
func (r *Repository) UpdateListing(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// GetActiveListings retrieves active listings newest first, optionally
// filtered by category
func (r *Repository) GetActiveListings(ctx context.Context, categoryID *uint) ([]*models.Listing, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true)

	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var listings []*models.Listing
	err := query.Order("created_at DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListingsByCreator retrieves all listings created by a user, newest first
func (r *Repository) GetListingsByCreator(ctx context.Context, creatorID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// GetWonListings retrieves closed listings won by a user, newest first
func (r *Repository) GetWonListings(ctx context.Context, userID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("winner_id = ? AND is_active = ?", userID, false).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ----- bids -----

// CreateBid creates a new bid
func (r *Repository) CreateBid(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// HighestBid retrieves the top bid for a listing, or nil when no bids exist
func (r *Repository) HighestBid(ctx context.Context, listingID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("amount DESC").
		First(&bid).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no bids yet
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// GetBidsForListing retrieves all bids for a listing, highest first
func (r *Repository) GetBidsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("listing_id = ?", listingID).
		Order("amount DESC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}

// CountBids counts the bids placed on a listing
func (r *Repository) CountBids(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count, err
}

// ----- comments -----

// CreateComment creates a new comment
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentsForListing retrieves all comments for a listing, newest first
func (r *Repository) GetCommentsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ----- watchlist -----

// AddWatchlistEntry adds a listing to a user's watchlist. Adding an existing
// membership is a no-op.
func (r *Repository) AddWatchlistEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

// RemoveWatchlistEntry removes a listing from a user's watchlist. Removing an
// absent membership is a no-op.
func (r *Repository) RemoveWatchlistEntry(ctx context.Context, userID uint, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.WatchlistEntry{}).Error
}

// IsWatching reports whether a user watches a listing
func (r *Repository) IsWatching(ctx context.Context, userID uint, listingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WatchlistEntry{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

// GetWatchedListings retrieves the listings a user watches, most recently
// watched first
func (r *Repository) GetWatchedListings(ctx context.Context, userID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Joins("JOIN watchlist_entries ON watchlist_entries.listing_id = listings.id").
		Where("watchlist_entries.user_id = ?", userID).
		Order("watchlist_entries.created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
