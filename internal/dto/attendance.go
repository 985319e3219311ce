package dto

import "github.com/noah-isme/facegaze-attendance-api/internal/models"

// CheckInRequest is posted by the face-matching client after a successful match.
type CheckInRequest struct {
	StudentID    string   `json:"studentId" validate:"required,max=64"`
	LectureID    string   `json:"lectureId" validate:"required,max=64"`
	ImageDataURL *string  `json:"imageDataUrl"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// AttendanceFeed is today's check-in list for a lecture, most recent first.
type AttendanceFeed struct {
	LectureID  string           `json:"lecture_id"`
	Attendance []models.CheckIn `json:"attendance"`
}

// Export formats for the day's attendance.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportedDocument is a rendered attendance file.
type ExportedDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}
