package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/app/repositories"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

// JobService handles job openings and student matching
type JobService struct {
	jobRepo     jobStore
	studentRepo studentStore
	generator   *idgen.Generator
	allocator   *idgen.Allocator
	logger      zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo jobStore,
	studentRepo studentStore,
	generator *idgen.Generator,
	allocator *idgen.Allocator,
	logger zerolog.Logger,
) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		studentRepo: studentRepo,
		generator:   generator,
		allocator:   allocator,
		logger:      logger,
	}
}

// CreateJob stores a job opening under a freshly allocated job code
func (s *JobService) CreateJob(ctx context.Context, req *dto.CreateJobRequest, createdBy int64) (*models.Job, error) {
	department := strings.TrimSpace(req.Department)
	if department == "" {
		return nil, apperrors.NewInvalidArgumentError("department name is required")
	}

	postedOn, err := s.postedOn(req.PostedOn)
	if err != nil {
		return nil, err
	}

	openings := req.Openings
	if openings <= 0 {
		openings = 1
	}

	job := &models.Job{
		CompanyName: strings.TrimSpace(req.CompanyName),
		Department:  department,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Skills:      normalizeSkills(req.Skills),
		Openings:    openings,
		PostedOn:    postedOn,
		CreatedBy:   createdBy,
	}

	partition, err := s.generator.JobPartition(department, postedOn)
	if err != nil {
		return nil, err
	}
	next := s.generator.JobCodeFunc(department, postedOn)

	_, err = s.allocator.Allocate(ctx, idgen.KindJob, func(ctx context.Context) (string, error) {
		if err := s.jobRepo.CreateWithCode(ctx, job, partition, next); err != nil {
			return "", err
		}
		return job.JobCode, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("jobID", job.ID).Str("jobCode", job.JobCode).Msg("Job created")
	return job, nil
}

// PreviewNextCode returns the code the next job for department on date would receive.
// An empty date means today.
func (s *JobService) PreviewNextCode(ctx context.Context, department, date string) (*dto.NextCodeResponse, error) {
	postedOn, err := s.postedOn(date)
	if err != nil {
		return nil, err
	}

	code, err := s.generator.GenerateJobID(ctx, department, postedOn)
	if err != nil {
		return nil, err
	}
	return &dto.NextCodeResponse{Code: code}, nil
}

// GetJob retrieves a job by ID
func (s *JobService) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// ListJobs returns a page of jobs, newest first
func (s *JobService) ListJobs(ctx context.Context, filter *dto.JobFilterRequest) (*dto.JobListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	jobs, total, err := s.jobRepo.List(ctx, repositories.JobFilter{
		Department: strings.TrimSpace(filter.Department),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return &dto.JobListResponse{
		Jobs:           jobs,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// DeleteJob removes a job
func (s *JobService) DeleteJob(ctx context.Context, id int64) error {
	return s.jobRepo.Delete(ctx, id)
}

// MatchStudents ranks students against the job's skills. Students scoring below minScore are left out.
func (s *JobService) MatchStudents(ctx context.Context, jobID int64, minScore float64) (*dto.JobMatchesResponse, error) {
	if minScore < 0 || minScore > 1 {
		return nil, apperrors.NewInvalidArgumentError("minScore must be between 0 and 1")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	response := &dto.JobMatchesResponse{
		JobID:   job.ID,
		JobCode: job.JobCode,
		Matches: []dto.StudentMatch{},
	}

	required := normalizeSkills(job.Skills)
	if len(required) == 0 {
		return response, nil
	}

	students, err := s.studentRepo.ListWithSkills(ctx)
	if err != nil {
		return nil, err
	}

	response.Matches = rankStudents(required, students, minScore)
	return response, nil
}

func (s *JobService) postedOn(value string) (time.Time, error) {
	date, err := helpers.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidArgumentError("date must be formatted as YYYY-MM-DD")
	}
	if date.IsZero() {
		return s.generator.Today(), nil
	}
	return date, nil
}

// rankStudents scores each student by the share of required skills they hold.
// required must already be normalized. Zero scores are dropped and ties are ordered by student code.
func rankStudents(required []string, students []models.Student, minScore float64) []dto.StudentMatch {
	matches := []dto.StudentMatch{}
	for _, student := range students {
		has := make(map[string]bool, len(student.Skills))
		for _, skill := range normalizeSkills(student.Skills) {
			has[skill] = true
		}

		var matched []string
		for _, skill := range required {
			if has[skill] {
				matched = append(matched, skill)
			}
		}
		if len(matched) == 0 {
			continue
		}

		score := float64(len(matched)) / float64(len(required))
		if score < minScore {
			continue
		}

		matches = append(matches, dto.StudentMatch{
			StudentID:     student.ID,
			StudentCode:   student.StudentCode,
			FullName:      student.FullName(),
			Branch:        student.Branch,
			Score:         score,
			MatchedSkills: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].StudentCode < matches[j].StudentCode
	})
	return matches
}
