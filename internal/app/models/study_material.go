package models

import "time"

// MaterialType classifies an uploaded study resource
type MaterialType string

const (
	MaterialNotes MaterialType = "NOTES"
	MaterialPYQ   MaterialType = "PYQ"
	MaterialBook  MaterialType = "BOOK"
	MaterialLab   MaterialType = "LAB"
	MaterialOther MaterialType = "OTHER"
)

// StudyMaterial is an academic resource shared by a student
type StudyMaterial struct {
	ID           int64        `json:"id" db:"id"`
	UploaderID   int64        `json:"uploaderId" db:"uploader_id"`
	UploaderName string       `json:"uploaderName,omitempty"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Branch       string       `json:"branch" db:"branch"`
	Semester     int          `json:"semester" db:"semester"`
	SubjectCode  string       `json:"subjectCode" db:"subject_code"`
	Type         MaterialType `json:"type" db:"type"`
	FilePath     string       `json:"-" db:"file_path"`
	FileURL      string       `json:"fileUrl"`
	FileName     string       `json:"fileName" db:"file_name"`
	FileSize     int64        `json:"fileSize" db:"file_size"`
	Downloads    int64        `json:"downloads" db:"downloads"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}
