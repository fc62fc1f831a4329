package dto

import "github.com/campusbeacon/api/internal/app/models"

// CreateLostItemRequest is the multipart form of a new lost-and-found post
type CreateLostItemRequest struct {
	Name        string                `form:"name" binding:"required,max=120"`
	Description string                `form:"description" binding:"max=2000"`
	Location    string                `form:"location" binding:"required,max=200"`
	Contact     string                `form:"contact" binding:"required,max=120"`
	Status      models.LostItemStatus `form:"status" binding:"omitempty,oneof=LOST FOUND CLAIMED"`
}

// UpdateLostItemStatusRequest changes the status of a lost item
type UpdateLostItemStatusRequest struct {
	Status models.LostItemStatus `json:"status" binding:"required,oneof=LOST FOUND CLAIMED"`
}

// LostItemFilter narrows the lost-and-found list
type LostItemFilter struct {
	Search string                `form:"search"`
	Status models.LostItemStatus `form:"status" binding:"omitempty,oneof=LOST FOUND CLAIMED"`
}

// CreateItemRequest is the multipart form of a new marketplace listing
type CreateItemRequest struct {
	Name        string               `form:"name" binding:"required,max=120"`
	Description string               `form:"description" binding:"max=2000"`
	Price       float64              `form:"price" binding:"gte=0"`
	Condition   models.ItemCondition `form:"condition" binding:"required,oneof=NEW LIKE_NEW USED"`
	Category    string               `form:"category" binding:"required,max=60"`
}

// UpdateItemRequest edits a marketplace listing
type UpdateItemRequest struct {
	Name        string               `json:"name" binding:"required,max=120"`
	Description string               `json:"description" binding:"max=2000"`
	Price       float64              `json:"price" binding:"gte=0"`
	Condition   models.ItemCondition `json:"condition" binding:"required,oneof=NEW LIKE_NEW USED"`
	Category    string               `json:"category" binding:"required,max=60"`
}

// MarkSoldRequest toggles the sold flag
type MarkSoldRequest struct {
	IsSold *bool `json:"isSold" binding:"required"`
}

// ItemFilter narrows the marketplace list
type ItemFilter struct {
	Search      string   `form:"search"`
	Category    string   `form:"category"`
	MinPrice    *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice    *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	IncludeSold bool     `form:"includeSold"`
	SellerID    int64    `form:"-"`
}

// CreateMaterialRequest is the multipart form of a study material upload
type CreateMaterialRequest struct {
	Title       string              `form:"title" binding:"required,max=200"`
	Description string              `form:"description" binding:"max=2000"`
	Branch      string              `form:"branch" binding:"required,max=60"`
	Semester    int                 `form:"semester" binding:"required,min=1,max=8"`
	SubjectCode string              `form:"subjectCode" binding:"required,subjectcode"`
	Type        models.MaterialType `form:"type" binding:"required,oneof=NOTES PYQ BOOK LAB OTHER"`
}

// MaterialFilter narrows the study material list
type MaterialFilter struct {
	Branch      string              `form:"branch"`
	Semester    int                 `form:"semester" binding:"omitempty,min=1,max=8"`
	SubjectCode string              `form:"subjectCode"`
	Type        models.MaterialType `form:"type" binding:"omitempty,oneof=NOTES PYQ BOOK LAB OTHER"`
	Search      string              `form:"search"`
}

// DownloadResponse points the client at the stored file
type DownloadResponse struct {
	FileURL   string `json:"fileUrl"`
	FileName  string `json:"fileName"`
	Downloads int64  `json:"downloads"`
}
