package models

import "time"

// Subject is a course in the attendance catalog
type Subject struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Credits   int       `json:"credits" db:"credits"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AttendanceStatus is the mark recorded for one class day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// IsValid reports whether s is PRESENT or ABSENT.
func (s AttendanceStatus) IsValid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceRecord is one user's mark for a subject on a day
type AttendanceRecord struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"userId" db:"user_id"`
	SubjectID int64            `json:"subjectId" db:"subject_id"`
	Date      time.Time        `json:"date" db:"date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// AttendanceCounts are the aggregated marks of one user for one subject
type AttendanceCounts struct {
	SubjectID int64
	Total     int
	Present   int
}
