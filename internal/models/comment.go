package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is free text posted against a listing. Immutable once created.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Comment model
func (Comment) TableName() string {
	return "comments"
}

// PostCommentRequest is the payload for posting a comment
type PostCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
