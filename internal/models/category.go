package models

// Category is a label a listing may be filed under
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`

	// Deleting a category detaches its listings rather than deleting them.
	Listings []Listing `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}

// CreateCategoryRequest is the payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}
