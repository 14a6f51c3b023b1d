package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid is a monetary offer against a listing. Immutable once created.
type Bid struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	BidderID  uint            `gorm:"not null;index" json:"bidder_id"`
	Bidder    *User           `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
	ListingID uuid.UUID       `gorm:"type:uuid;not null;index" json:"listing_id"`
	CreatedAt time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Bid model
func (Bid) TableName() string {
	return "bids"
}

// PlaceBidRequest is the payload for submitting a bid
type PlaceBidRequest struct {
	Amount string `json:"amount" binding:"required"`
}
