package dto

import "github.com/campusbeacon/api/internal/app/models"

// HostelRequest creates or updates a hostel
type HostelRequest struct {
	Name       string            `json:"name" binding:"required,max=120"`
	Type       models.HostelType `json:"type" binding:"required,oneof=BOYS GIRLS"`
	WardenName string            `json:"wardenName" binding:"max=120"`
	Capacity   int               `json:"capacity" binding:"min=0"`
}

// OfficialRequest adds a hostel official
type OfficialRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Designation string `json:"designation" binding:"required,max=120"`
	Phone       string `json:"phone" binding:"max=20"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// NotificationRequest posts a hostel notice
type NotificationRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=5000"`
}

// MenuEntryRequest is one meal in a weekly menu update
type MenuEntryRequest struct {
	Day   models.Weekday `json:"day" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Meal  models.Meal    `json:"meal" binding:"required,oneof=BREAKFAST LUNCH SNACKS DINNER"`
	Items string         `json:"items" binding:"required,max=1000"`
}

// UpdateMenuRequest replaces the whole weekly menu
type UpdateMenuRequest struct {
	Entries []MenuEntryRequest `json:"entries" binding:"required,dive"`
}

// MealItems is one meal of a day in the menu view
type MealItems struct {
	Meal  models.Meal `json:"meal"`
	Items string      `json:"items"`
}

// DayMenu groups the meals of one day
type DayMenu struct {
	Day   models.Weekday `json:"day"`
	Meals []MealItems    `json:"meals"`
}

// CreateComplaintRequest files a complaint
type CreateComplaintRequest struct {
	Category    string `json:"category" binding:"required,max=60"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
}

// UpdateComplaintStatusRequest moves a complaint through its workflow
type UpdateComplaintStatusRequest struct {
	Status   models.ComplaintStatus `json:"status" binding:"required,oneof=PENDING IN_PROGRESS RESOLVED REJECTED"`
	Response *string                `json:"response" binding:"omitempty,max=2000"`
}
