package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/facegaze-attendance-api/internal/middleware"
)

// Routes binds handlers to their paths and gates.
type Routes struct {
	APIPrefix        string
	SessionHeader    string
	DefaultLectureID string
	RequireSession   bool
	Resolver         middleware.CallerResolver

	Auth       *AuthHandler
	Roster     *RosterHandler
	Attendance *AttendanceHandler
	Metrics    *MetricsHandler
}

// Register mounts every endpoint on r.
func (rt Routes) Register(r *gin.Engine) {
	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		r.GET("/metrics", rt.Metrics.Prometheus)
	}

	session := middleware.Session(rt.Resolver, rt.SessionHeader)
	scope := middleware.LectureScope(rt.Resolver, rt.SessionHeader, rt.DefaultLectureID, rt.RequireSession)

	api := r.Group(rt.APIPrefix)
	api.POST("/login", rt.Auth.Login)
	api.POST("/logout", rt.Auth.Logout)

	lecture := api.Group("/lecture")
	lecture.GET("/students", scope, rt.Roster.List)
	lecture.POST("/student", scope, rt.Roster.Add)
	lecture.DELETE("/student/:studentId", session, rt.Roster.Remove)

	attendance := api.Group("/attendance")
	attendance.POST("", rt.Attendance.Record)
	attendance.GET("/:lectureId", rt.Attendance.Today)
	attendance.GET("/:lectureId/export", session, rt.Attendance.Export)
}
