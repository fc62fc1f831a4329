package models

import "time"

// ItemCondition describes the wear of a marketplace item
type ItemCondition string

const (
	ItemConditionNew     ItemCondition = "NEW"
	ItemConditionLikeNew ItemCondition = "LIKE_NEW"
	ItemConditionUsed    ItemCondition = "USED"
)

// Item is a marketplace listing
type Item struct {
	ID          int64         `json:"id" db:"id"`
	SellerID    int64         `json:"sellerId" db:"seller_id"`
	SellerName  string        `json:"sellerName,omitempty"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Price       float64       `json:"price" db:"price"`
	Condition   ItemCondition `json:"condition" db:"condition"`
	Category    string        `json:"category" db:"category"`
	ImagePath   *string       `json:"-" db:"image_path"`
	ImageURL    *string       `json:"imageUrl,omitempty"`
	IsSold      bool          `json:"isSold" db:"is_sold"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}
