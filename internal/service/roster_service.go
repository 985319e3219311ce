package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
)

type rosterRepository interface {
	ListByLecture(ctx context.Context, lectureID string) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	DeleteWithAttendance(ctx context.Context, lectureID, studentID string) (int64, error)
}

// RosterConfig toggles the enrollment variant.
type RosterConfig struct {
	RequireProfileImage bool
}

// RosterService manages the students enrolled in a lecture.
type RosterService struct {
	repo      rosterRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       RosterConfig
}

// NewRosterService constructs the roster service.
func NewRosterService(repo rosterRepository, validate *validator.Validate, logger *zap.Logger, cfg RosterConfig) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, validator: validate, logger: logger, cfg: cfg}
}

// ListStudents returns the lecture roster ordered by enrollment time.
func (s *RosterService) ListStudents(ctx context.Context, lectureID string) ([]models.Student, error) {
	lectureID = strings.TrimSpace(lectureID)
	if lectureID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lecture id is required")
	}
	students, err := s.repo.ListByLecture(ctx, lectureID)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "Failed to retrieve students.")
	}
	return students, nil
}

// AddStudent enrolls a student and returns the refreshed roster. A duplicate id within the lecture
// is rejected without touching the roster.
func (s *RosterService) AddStudent(ctx context.Context, lectureID string, req dto.AddStudentRequest) ([]models.Student, error) {
	lectureID = strings.TrimSpace(lectureID)
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.ProfileImage != nil && strings.TrimSpace(*req.ProfileImage) == "" {
		req.ProfileImage = nil
	}

	if lectureID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lecture id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, s.missingFieldsMessage())
	}
	if s.cfg.RequireProfileImage && req.ProfileImage == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, s.missingFieldsMessage())
	}

	student := &models.Student{
		StudentID:      req.StudentID,
		LectureID:      lectureID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		FaceDescriptor: models.FaceDescriptor(req.FaceDescriptor),
		ProfileImage:   req.ProfileImage,
	}
	if student.ProfileImage != nil {
		tag := models.ImageTypeBase64
		student.ImageType = &tag
	}

	if err := s.repo.Create(ctx, student); err != nil {
		switch {
		case errors.Is(err, database.ErrConflict):
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("Student ID %s already exists.", req.StudentID))
		case errors.Is(err, database.ErrMissingReference):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Lecture not found.")
		default:
			return nil, mapStoreError(s.logger, err, "Failed to add student.")
		}
	}

	s.logger.Info("student enrolled", zap.String("lecture_id", lectureID), zap.String("student_id", req.StudentID))
	return s.ListStudents(ctx, lectureID)
}

// RemoveStudent deletes a student together with their attendance history and returns the remaining
// roster. Either both deletions commit or neither does.
func (s *RosterService) RemoveStudent(ctx context.Context, lectureID, studentID string) ([]models.Student, error) {
	lectureID = strings.TrimSpace(lectureID)
	studentID = strings.TrimSpace(studentID)
	if lectureID == "" || studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lecture id and student id are required")
	}

	removedCheckIns, err := s.repo.DeleteWithAttendance(ctx, lectureID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found or not in this lecture.")
		}
		return nil, mapStoreError(s.logger, err, "Failed to remove student.")
	}

	s.logger.Info("student removed",
		zap.String("lecture_id", lectureID),
		zap.String("student_id", studentID),
		zap.Int64("attendance_removed", removedCheckIns),
	)
	return s.ListStudents(ctx, lectureID)
}

func (s *RosterService) missingFieldsMessage() string {
	if s.cfg.RequireProfileImage {
		return "Missing required fields: studentId, firstName, lastName, faceDescriptor, profileImage"
	}
	return "Missing required fields: studentId, firstName, lastName, faceDescriptor"
}
