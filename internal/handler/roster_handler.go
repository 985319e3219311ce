package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/middleware"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
	"github.com/noah-isme/facegaze-attendance-api/pkg/response"
)

type rosterService interface {
	ListStudents(ctx context.Context, lectureID string) ([]models.Student, error)
	AddStudent(ctx context.Context, lectureID string, req dto.AddStudentRequest) ([]models.Student, error)
	RemoveStudent(ctx context.Context, lectureID, studentID string) ([]models.Student, error)
}

// RosterHandler serves the lecture roster. The lecture comes from the session or lecture-scope middleware.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc rosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// List godoc
// @Summary List roster
// @Tags Roster
// @Produce json
// @Param X-Session-ID header string false "Session token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /lecture/students [get]
func (h *RosterHandler) List(c *gin.Context) {
	lectureID, ok := scopedLecture(c)
	if !ok {
		return
	}
	students, err := h.service.ListStudents(c.Request.Context(), lectureID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", dto.RosterResponse{LectureID: lectureID, Students: students})
}

// Add godoc
// @Summary Enroll student
// @Description Adds a student with face descriptor and returns the updated roster
// @Tags Roster
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session token"
// @Param payload body dto.AddStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /lecture/student [post]
func (h *RosterHandler) Add(c *gin.Context) {
	lectureID, ok := scopedLecture(c)
	if !ok {
		return
	}
	var req dto.AddStudentRequest
	if !bindJSON(c, &req, "Invalid student payload.") {
		return
	}

	students, err := h.service.AddStudent(c.Request.Context(), lectureID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("Student %s added successfully.", strings.TrimSpace(req.StudentID)), dto.RosterResponse{LectureID: lectureID, Students: students})
}

// Remove godoc
// @Summary Remove student
// @Description Deletes the student and all of their attendance records in one transaction
// @Tags Roster
// @Produce json
// @Param X-Session-ID header string true "Session token"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lecture/student/{studentId} [delete]
func (h *RosterHandler) Remove(c *gin.Context) {
	lectureID, ok := scopedLecture(c)
	if !ok {
		return
	}
	studentID := strings.TrimSpace(c.Param("studentId"))

	students, err := h.service.RemoveStudent(c.Request.Context(), lectureID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fmt.Sprintf("Student %s removed.", studentID), dto.RosterResponse{LectureID: lectureID, Students: students})
}

func scopedLecture(c *gin.Context) (string, bool) {
	lectureID := middleware.LectureFrom(c)
	if lectureID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Please log in."))
		return "", false
	}
	return lectureID, true
}
