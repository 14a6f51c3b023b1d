package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing represents an item open for bidding.
// Lifecycle: created active by its creator, accumulates bids and comments,
// then transitions to inactive exactly once via close, fixing the winner.
type Listing struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"size:64;not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	StartingBid decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"starting_bid"`
	ImageURL    *string         `gorm:"size:500" json:"image_url,omitempty"`
	CategoryID  *uint           `gorm:"index" json:"category_id,omitempty"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatorID   uint            `gorm:"not null;index" json:"creator_id"`
	Creator     *User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	WinnerID    *uint           `gorm:"index" json:"winner_id,omitempty"`
	Winner      *User           `gorm:"foreignKey:WinnerID" json:"winner,omitempty"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for Listing model
func (Listing) TableName() string {
	return "listings"
}

// CreateListingRequest is the payload for creating a listing
type CreateListingRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	StartingBid string  `json:"starting_bid" binding:"required"`
	ImageURL    *string `json:"image_url"`
	CategoryID  *uint   `json:"category_id"`
}

// ListingResponse is a listing enriched with its computed current price
type ListingResponse struct {
	Listing
	CurrentPrice decimal.Decimal `json:"current_price"`
	BidCount     int64           `json:"bid_count"`
}

// ListingDetailResponse is the full detail page payload: the listing, its
// computed price, bids in descending amount order, comments newest first,
// and whether the requesting user is watching it.
type ListingDetailResponse struct {
	Listing
	CurrentPrice decimal.Decimal `json:"current_price"`
	Bids         []Bid           `json:"bids"`
	Comments     []Comment       `json:"comments"`
	Watching     bool            `json:"watching"`
}
