package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
	"github.com/noah-isme/facegaze-attendance-api/pkg/export"
)

type attendanceRepository interface {
	Insert(ctx context.Context, checkIn models.NewCheckIn) (*models.AttendanceRecord, error)
	ListToday(ctx context.Context, lectureID string) ([]models.CheckIn, error)
	ListTodayDated(ctx context.Context, lectureID string) (time.Time, []models.CheckIn, error)
}

type checkInRecorder interface {
	RecordCheckIn(lectureID string)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
	ContentType() string
	Extension() string
}

var attendanceColumns = []export.Column{
	{Key: "student_id", Label: "Student ID", Weight: 1.2},
	{Key: "first_name", Label: "First Name", Weight: 1.5},
	{Key: "last_name", Label: "Last Name", Weight: 1.5},
	{Key: "check_in_time", Label: "Check-in Time", Weight: 2},
	{Key: "latitude", Label: "Latitude"},
	{Key: "longitude", Label: "Longitude"},
	{Key: "image", Label: "Image", Weight: 0.6},
}

// AttendanceService records check-ins and serves the day's feed.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   checkInRecorder
	renderers map[string]tableRenderer
}

// NewAttendanceService constructs the attendance service. metrics may be nil.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger, metrics checkInRecorder) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		renderers: map[string]tableRenderer{
			dto.ExportFormatCSV: export.NewCSVRenderer(),
			dto.ExportFormatPDF: export.NewPDFRenderer(),
		},
	}
}

// RecordCheckIn appends one check-in event. Repeated check-ins on the same day are all kept.
func (s *AttendanceService) RecordCheckIn(ctx context.Context, req dto.CheckInRequest) (*models.AttendanceRecord, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.LectureID = strings.TrimSpace(req.LectureID)
	if req.ImageDataURL != nil && strings.TrimSpace(*req.ImageDataURL) == "" {
		req.ImageDataURL = nil
	}
	if err := s.validator.Struct(req); err != nil {
		message := "Invalid attendance payload."
		if req.StudentID == "" || req.LectureID == "" {
			message = "Missing student ID or lecture ID."
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	record, err := s.repo.Insert(ctx, models.NewCheckIn{
		StudentID:    req.StudentID,
		LectureID:    req.LectureID,
		CheckInImage: req.ImageDataURL,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		if errors.Is(err, database.ErrMissingReference) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found or not in this lecture.")
		}
		return nil, mapStoreError(s.logger, err, "Failed to record attendance.")
	}

	if s.metrics != nil {
		s.metrics.RecordCheckIn(req.LectureID)
	}
	return record, nil
}

// ListTodaysAttendance returns today's check-ins for a lecture, most recent first.
func (s *AttendanceService) ListTodaysAttendance(ctx context.Context, lectureID string) ([]models.CheckIn, error) {
	lectureID = strings.TrimSpace(lectureID)
	if lectureID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lecture id is required")
	}
	rows, err := s.repo.ListToday(ctx, lectureID)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "Failed to retrieve attendance records.")
	}
	return rows, nil
}

// ExportTodaysAttendance renders today's feed as a downloadable document. The file is labelled with
// the datastore date the rows were selected for.
func (s *AttendanceService) ExportTodaysAttendance(ctx context.Context, lectureID, format string) (*dto.ExportedDocument, error) {
	lectureID = strings.TrimSpace(lectureID)
	if lectureID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lecture id is required")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	date, rows, err := s.repo.ListTodayDated(ctx, lectureID)
	if err != nil {
		return nil, mapStoreError(s.logger, err, "Failed to retrieve attendance records.")
	}

	day := date.Format("2006-01-02")
	table := export.Table{
		Title:    fmt.Sprintf("Attendance %s", lectureID),
		Subtitle: fmt.Sprintf("%s, %d check-ins", day, len(rows)),
		Columns:  attendanceColumns,
		Rows:     make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, map[string]string{
			"student_id":    row.StudentID,
			"first_name":    row.FirstName,
			"last_name":     row.LastName,
			"check_in_time": row.CheckInTime.Format(time.RFC3339),
			"latitude":      formatCoordinate(row.Latitude),
			"longitude":     formatCoordinate(row.Longitude),
			"image":         yesNo(row.CheckInImage != nil),
		})
	}

	body, err := renderer.Render(table)
	if err != nil {
		s.logger.Error("failed to render attendance export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportedDocument{
		Filename:    fmt.Sprintf("attendance_%s_%s.%s", lectureID, day, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
