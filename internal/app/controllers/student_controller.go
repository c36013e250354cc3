package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

type studentService interface {
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error)
	PreviewNextCode(ctx context.Context, branch, courseType string) (*dto.NextCodeResponse, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByCode(ctx context.Context, code string) (*models.Student, error)
	ListStudents(ctx context.Context, filter *dto.StudentFilterRequest) (*dto.StudentListResponse, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	UploadResume(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*dto.ResumeUploadResponse, error)
}

// StudentController handles student registration and profile endpoints
type StudentController struct {
	studentService studentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService studentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// RegisterStudent registers a student and assigns their student code
// @Summary Register a student
// @Description Registers a student. The student code (course type, branch, sequence) is generated on the server.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists or code allocation collided"
// @Failure 503 {object} dto.ErrorResponse "Identifier storage unavailable"
// @Router /students [post]
func (c *StudentController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("branch", req.Branch).Msg("Student registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student, "Student registered"))
}

// PreviewNextCode shows the code the next registration would receive
// @Summary Preview next student code
// @Description Computes the next student code for a branch and course type without storing anything
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Branch name" example(Tambaram)
// @Param courseType query string false "Course type name" example(Career Development)
// @Success 200 {object} dto.APIResponse{data=dto.NextCodeResponse} "Next code"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 503 {object} dto.ErrorResponse "Identifier storage unavailable"
// @Router /students/next-code [get]
func (c *StudentController) PreviewNextCode(ctx *gin.Context) {
	code, err := c.studentService.PreviewNextCode(ctx.Request.Context(), ctx.Query("branch"), ctx.Query("courseType"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(code, ""))
}

// GetStudent retrieves a student by ID
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// GetStudentByCode retrieves a student by student code
// @Summary Get student by code
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param code path string true "Student code" example(CD-TM-1001)
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/code/{code} [get]
func (c *StudentController) GetStudentByCode(ctx *gin.Context) {
	student, err := c.studentService.GetStudentByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// ListStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Branch name filter"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var filter dto.StudentFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	page, err := c.studentService.ListStudents(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page, ""))
}

// UpdateStudent updates contact details and skills
// @Summary Update student
// @Description Updates a student's contact details and skills. The student code never changes.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.UpdateStudentRequest true "Updated details"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Student updated"))
}

// DeleteStudent removes a student
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 204 "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UploadResume stores a student's resume
// @Summary Upload resume
// @Description Uploads a PDF or Word resume for a student, replacing any previous one
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param resume formData file true "Resume file (.pdf, .doc, .docx)"
// @Success 200 {object} dto.APIResponse{data=dto.ResumeUploadResponse} "Resume stored"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/resume [post]
func (c *StudentController) UploadResume(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("resume")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Resume file is required").WithField("resume")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.studentService.UploadResume(ctx.Request.Context(), id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Resume uploaded"))
}
