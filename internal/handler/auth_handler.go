package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler exposes lecturer login and logout.
type AuthHandler struct {
	service sessionService
	header  string
}

// NewAuthHandler creates a new handler. header names the session token header.
func NewAuthHandler(svc sessionService, header string) *AuthHandler {
	return &AuthHandler{service: svc, header: header}
}

// Login godoc
// @Summary Lecturer login
// @Description Checks the lecturer credential and opens a session for the lecturer's lecture
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "Email and password are required.") {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Login successful", res)
}

// Logout godoc
// @Summary Lecturer logout
// @Description Ends the session named by the session header. Always succeeds for unknown sessions.
// @Tags Authentication
// @Produce json
// @Param X-Session-ID header string false "Session token"
// @Success 200 {object} response.Envelope
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetHeader(h.header)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Logged out successfully.", nil)
}
