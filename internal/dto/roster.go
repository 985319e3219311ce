package dto

import "github.com/noah-isme/facegaze-attendance-api/internal/models"

// AddStudentRequest is the enrollment payload posted by the lecturer dashboard.
type AddStudentRequest struct {
	StudentID      string    `json:"studentId" validate:"required,max=64"`
	FirstName      string    `json:"firstName" validate:"required,max=100"`
	LastName       string    `json:"lastName" validate:"required,max=100"`
	FaceDescriptor []float64 `json:"faceDescriptor" validate:"required,min=1"`
	ProfileImage   *string   `json:"profileImage"`
}

// RosterResponse carries the roster snapshot returned after every read or mutation.
type RosterResponse struct {
	LectureID string           `json:"lecture_id"`
	Students  []models.Student `json:"students"`
}
