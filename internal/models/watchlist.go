package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistEntry is one row of the user↔listing watch relation. The pair is
// unique so repeated adds stay a single membership.
type WatchlistEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_listing" json:"user_id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_listing" json:"listing_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for WatchlistEntry model
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}
