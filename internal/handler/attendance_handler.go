package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/middleware"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
	"github.com/noah-isme/facegaze-attendance-api/pkg/response"
)

type attendanceService interface {
	RecordCheckIn(ctx context.Context, req dto.CheckInRequest) (*models.AttendanceRecord, error)
	ListTodaysAttendance(ctx context.Context, lectureID string) ([]models.CheckIn, error)
	ExportTodaysAttendance(ctx context.Context, lectureID, format string) (*dto.ExportedDocument, error)
}

// AttendanceHandler receives check-ins from the face-matching client and serves the day's feed.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Record godoc
// @Summary Record check-in
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Check-in"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindJSON(c, &req, "Invalid attendance payload.") {
		return
	}

	record, err := h.service.RecordCheckIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Attendance recorded successfully.", gin.H{"id": record.ID, "check_in_time": record.CheckInTime})
}

// Today godoc
// @Summary Today's attendance
// @Description Check-ins for the lecture dated today by the datastore clock, newest first
// @Tags Attendance
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{lectureId} [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	lectureID := c.Param("lectureId")
	rows, err := h.service.ListTodaysAttendance(c.Request.Context(), lectureID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", dto.AttendanceFeed{LectureID: lectureID, Attendance: rows})
}

// Export godoc
// @Summary Export today's attendance
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param X-Session-ID header string true "Session token"
// @Param lectureId path string true "Lecture ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/{lectureId}/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	lectureID := c.Param("lectureId")
	if identity := middleware.IdentityFrom(c); identity == nil || identity.LectureID != lectureID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Session does not own this lecture."))
		return
	}

	doc, err := h.service.ExportTodaysAttendance(c.Request.Context(), lectureID, c.DefaultQuery("format", dto.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Body)
}
