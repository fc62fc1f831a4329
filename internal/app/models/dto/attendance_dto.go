package dto

import "github.com/campusbeacon/api/internal/app/models"

// CreateSubjectRequest adds a subject to the catalog
type CreateSubjectRequest struct {
	Code    string `json:"code" binding:"required,subjectcode"`
	Name    string `json:"name" binding:"required,max=120"`
	Credits int    `json:"credits" binding:"min=0,max=10"`
}

// AddSubjectRequest enrolls the caller in a subject
type AddSubjectRequest struct {
	SubjectID int64 `json:"subjectId" binding:"required,gt=0"`
}

// MarkAttendanceRequest records a mark for one day
type MarkAttendanceRequest struct {
	Date   string                  `json:"date" binding:"required,datetime=2006-01-02"`
	Status models.AttendanceStatus `json:"status" binding:"required,oneof=PRESENT ABSENT"`
}

// AttendanceStatusLabel classifies a percentage against a goal
type AttendanceStatusLabel string

const (
	LabelSafe     AttendanceStatusLabel = "SAFE"
	LabelWarning  AttendanceStatusLabel = "WARNING"
	LabelCritical AttendanceStatusLabel = "CRITICAL"
)

// AttendanceStats are the derived figures for a set of marks
type AttendanceStats struct {
	Total         int                   `json:"total"`
	Present       int                   `json:"present"`
	Absent        int                   `json:"absent"`
	Percentage    float64               `json:"percentage"`
	Goal          float64               `json:"goal"`
	ClassesNeeded int                   `json:"classesNeeded"`
	CanSkip       int                   `json:"canSkip"`
	Label         AttendanceStatusLabel `json:"label"`
}

// SubjectAttendance is one tracked subject with its stats
type SubjectAttendance struct {
	Subject *models.Subject `json:"subject"`
	Stats   AttendanceStats `json:"stats"`
}

// AttendanceSummary is the per-subject and overall view
type AttendanceSummary struct {
	Subjects []SubjectAttendance `json:"subjects"`
	Overall  AttendanceStats     `json:"overall"`
}

// CalendarDay is one marked day in the calendar view
type CalendarDay struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
}

// AttendanceCalendar lists the marks of a subject for one month
type AttendanceCalendar struct {
	SubjectID int64         `json:"subjectId"`
	Month     string        `json:"month"`
	Days      []CalendarDay `json:"days"`
}
