package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

type attendanceService interface {
	MarkAttendance(ctx context.Context, studentID int64, req *dto.MarkAttendanceRequest, markedBy int64) (*models.Attendance, error)
	ListAttendance(ctx context.Context, studentID int64, filter *dto.AttendanceFilterRequest) ([]models.Attendance, error)
	Summary(ctx context.Context, studentID int64) (*dto.AttendanceSummary, error)
}

// AttendanceController handles session attendance endpoints
type AttendanceController struct {
	attendanceService attendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService attendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// MarkAttendance records or corrects attendance for one session
// @Summary Mark attendance
// @Description Records a student's attendance for a session date. Marking the same date again overwrites it.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.MarkAttendanceRequest true "Attendance entry"
// @Success 200 {object} dto.APIResponse{data=models.Attendance} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/attendance [post]
func (c *AttendanceController) MarkAttendance(ctx *gin.Context) {
	employeeID, ok := currentEmployeeID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.MarkAttendance(ctx.Request.Context(), studentID, &req, employeeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record, "Attendance recorded"))
}

// ListAttendance lists a student's attendance
// @Summary List attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param from query string false "First session date (YYYY-MM-DD)"
// @Param to query string false "Last session date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "Attendance retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/attendance [get]
func (c *AttendanceController) ListAttendance(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var filter dto.AttendanceFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	records, err := c.attendanceService.ListAttendance(ctx.Request.Context(), studentID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records, ""))
}

// Summary reports attendance totals and percentage
// @Summary Attendance summary
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceSummary} "Attendance summary"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/attendance/summary [get]
func (c *AttendanceController) Summary(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	summary, err := c.attendanceService.Summary(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}
