package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

// CatalogService manages courses and exposes the identifier code tables
type CatalogService struct {
	courseRepo courseStore
	generator  *idgen.Generator
	logger     zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courseRepo courseStore, generator *idgen.Generator, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		generator:  generator,
		logger:     logger,
	}
}

// CreateCourse adds a course to the catalog
func (s *CatalogService) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	course := &models.Course{
		Name:          strings.TrimSpace(req.Name),
		CourseType:    strings.TrimSpace(req.CourseType),
		Fee:           req.Fee,
		DurationWeeks: req.DurationWeeks,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("name", course.Name).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *CatalogService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses returns a page of courses
func (s *CatalogService) ListCourses(ctx context.Context, page, size int) (*dto.CourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	courses, total, err := s.courseRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.CourseListResponse{
		Courses:        courses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// UpdateCourse overwrites a course
func (s *CatalogService) UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error) {
	course := &models.Course{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		CourseType:    strings.TrimSpace(req.CourseType),
		Fee:           req.Fee,
		DurationWeeks: req.DurationWeeks,
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course with no enrolled students
func (s *CatalogService) DeleteCourse(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

// CodeTables returns the branch, course type and department abbreviations
func (s *CatalogService) CodeTables() *dto.CodeTablesResponse {
	branches, courseTypes, departments := s.generator.Tables()
	return &dto.CodeTablesResponse{
		Branches:    branches,
		CourseTypes: courseTypes,
		Departments: departments,
	}
}
