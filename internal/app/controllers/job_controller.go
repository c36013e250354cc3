package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

type jobService interface {
	CreateJob(ctx context.Context, req *dto.CreateJobRequest, createdBy int64) (*models.Job, error)
	PreviewNextCode(ctx context.Context, department, date string) (*dto.NextCodeResponse, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	ListJobs(ctx context.Context, filter *dto.JobFilterRequest) (*dto.JobListResponse, error)
	DeleteJob(ctx context.Context, id int64) error
	MatchStudents(ctx context.Context, jobID int64, minScore float64) (*dto.JobMatchesResponse, error)
}

// JobController handles job opening endpoints
type JobController struct {
	jobService jobService
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService jobService, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService: jobService,
		logger:     logger,
	}
}

// CreateJob posts a job opening and assigns its job code
// @Summary Create job
// @Description Creates a job opening. The job code (department, posting date, sequence) is generated on the server.
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job information"
// @Success 201 {object} dto.APIResponse{data=models.Job} "Job created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or missing department"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "Code allocation collided"
// @Failure 503 {object} dto.ErrorResponse "Identifier storage unavailable"
// @Router /jobs [post]
func (c *JobController) CreateJob(ctx *gin.Context) {
	employeeID, ok := currentEmployeeID(ctx)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	job, err := c.jobService.CreateJob(ctx.Request.Context(), &req, employeeID)
	if err != nil {
		c.logger.Warn().Err(err).Str("department", req.Department).Msg("Job creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(job, "Job created"))
}

// PreviewNextCode shows the code the next job would receive
// @Summary Preview next job code
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param department query string true "Department name" example(Information Technology)
// @Param date query string false "Posting date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.APIResponse{data=dto.NextCodeResponse} "Next code"
// @Failure 400 {object} dto.ErrorResponse "Missing department or malformed date"
// @Router /jobs/next-code [get]
func (c *JobController) PreviewNextCode(ctx *gin.Context) {
	code, err := c.jobService.PreviewNextCode(ctx.Request.Context(), ctx.Query("department"), ctx.Query("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(code, ""))
}

// GetJob retrieves a job
// @Summary Get job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Job} "Job retrieved"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Job")
	if !ok {
		return
	}

	job, err := c.jobService.GetJob(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(job, ""))
}

// ListJobs lists job openings, newest first
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department filter"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.JobListResponse} "Jobs retrieved"
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	var filter dto.JobFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	page, err := c.jobService.ListJobs(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page, ""))
}

// DeleteJob removes a job
// @Summary Delete job
// @Tags jobs
// @Security BearerAuth
// @Param id path int true "Job ID" Format(int64) minimum(1)
// @Success 204 "Job deleted"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id} [delete]
func (c *JobController) DeleteJob(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Job")
	if !ok {
		return
	}

	if err := c.jobService.DeleteJob(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// MatchStudents ranks students against a job's skills
// @Summary Match students to a job
// @Description Ranks students by the share of the job's skills they hold
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID" Format(int64) minimum(1)
// @Param minScore query number false "Minimum score between 0 and 1"
// @Success 200 {object} dto.APIResponse{data=dto.JobMatchesResponse} "Matches"
// @Failure 400 {object} dto.ErrorResponse "Invalid minScore"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id}/matches [get]
func (c *JobController) MatchStudents(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Job")
	if !ok {
		return
	}

	minScore := 0.0
	if raw := ctx.Query("minScore"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid minScore").WithField("minScore")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		minScore = parsed
	}

	matches, err := c.jobService.MatchStudents(ctx.Request.Context(), id, minScore)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(matches, ""))
}
