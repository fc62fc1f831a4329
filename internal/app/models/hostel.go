package models

import "time"

// HostelType separates boys' and girls' hostels
type HostelType string

const (
	HostelTypeBoys  HostelType = "BOYS"
	HostelTypeGirls HostelType = "GIRLS"
)

// Hostel is a residence hall
type Hostel struct {
	ID         int64      `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Type       HostelType `json:"type" db:"type"`
	WardenName string     `json:"wardenName" db:"warden_name"`
	Capacity   int        `json:"capacity" db:"capacity"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// Official is a hostel staff contact
type Official struct {
	ID          int64  `json:"id" db:"id"`
	HostelID    int64  `json:"hostelId" db:"hostel_id"`
	Name        string `json:"name" db:"name"`
	Designation string `json:"designation" db:"designation"`
	Phone       string `json:"phone" db:"phone"`
	Email       string `json:"email" db:"email"`
}

// Notification is a notice posted to a hostel board
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	HostelID  int64     `json:"hostelId" db:"hostel_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedBy *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ComplaintStatus is the workflow state of a complaint
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "PENDING"
	ComplaintInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintResolved   ComplaintStatus = "RESOLVED"
	ComplaintRejected   ComplaintStatus = "REJECTED"
)

// complaintTransitions lists the states each status may move to.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintPending:    {ComplaintInProgress, ComplaintResolved, ComplaintRejected},
	ComplaintInProgress: {ComplaintResolved, ComplaintRejected},
}

// CanTransitionTo reports whether a complaint in status s may move to next.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, allowed := range complaintTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ComplaintStatus) IsTerminal() bool {
	return len(complaintTransitions[s]) == 0
}

// Complaint is filed by a resident against a hostel
type Complaint struct {
	ID          int64           `json:"id" db:"id"`
	HostelID    int64           `json:"hostelId" db:"hostel_id"`
	UserID      int64           `json:"userId" db:"user_id"`
	Category    string          `json:"category" db:"category"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Status      ComplaintStatus `json:"status" db:"status"`
	Response    *string         `json:"response,omitempty" db:"response"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Weekday names used by the mess menu
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// WeekOrder is the display order of the mess menu.
var WeekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Meal names used by the mess menu
type Meal string

const (
	Breakfast Meal = "BREAKFAST"
	Lunch     Meal = "LUNCH"
	Snacks    Meal = "SNACKS"
	Dinner    Meal = "DINNER"
)

// MealOrder is the display order of meals within a day.
var MealOrder = []Meal{Breakfast, Lunch, Snacks, Dinner}

// MessMenuEntry is one meal of one day in a hostel's weekly menu
type MessMenuEntry struct {
	HostelID int64   `json:"hostelId" db:"hostel_id"`
	Day      Weekday `json:"day" db:"day"`
	Meal     Meal    `json:"meal" db:"meal"`
	Items    string  `json:"items" db:"items"`
}
