package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/app/repositories"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/email"
	"github.com/yigit/placementcrm/internal/pkg/filestorage"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

// MaxResumeSize is the largest resume upload accepted, in bytes
const MaxResumeSize = 5 << 20

const resumeDir = "resumes"

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// StudentService handles student registration and profile operations
type StudentService struct {
	studentRepo  studentStore
	courseRepo   courseStore
	generator    *idgen.Generator
	allocator    *idgen.Allocator
	emailService email.EmailService
	fileStorage  filestorage.FileStorage
	logger       zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo studentStore,
	courseRepo courseStore,
	generator *idgen.Generator,
	allocator *idgen.Allocator,
	emailService email.EmailService,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo:  studentRepo,
		courseRepo:   courseRepo,
		generator:    generator,
		allocator:    allocator,
		emailService: emailService,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

// RegisterStudent stores a new student under a freshly allocated student code
func (s *StudentService) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	student := &models.Student{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		Branch:     strings.TrimSpace(req.Branch),
		CourseType: strings.TrimSpace(req.CourseType),
		CourseID:   req.CourseID,
		Skills:     normalizeSkills(req.Skills),
	}

	if req.CourseID != nil {
		course, err := s.courseRepo.GetByID(ctx, *req.CourseID)
		if err != nil {
			return nil, err
		}
		if student.CourseType == "" {
			student.CourseType = course.CourseType
		}
		student.Course = course
	}

	partition := s.generator.StudentPartition(student.Branch)
	next := s.generator.StudentCodeFunc(student.Branch, student.CourseType)

	_, err := s.allocator.Allocate(ctx, idgen.KindStudent, func(ctx context.Context) (string, error) {
		if err := s.studentRepo.CreateWithCode(ctx, student, partition, next); err != nil {
			return "", err
		}
		return student.StudentCode, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", student.ID).
		Str("studentCode", student.StudentCode).
		Str("branch", student.Branch).
		Msg("Student registered")

	if err := s.emailService.SendWelcomeEmail(student.Email, student.FullName(), student.StudentCode); err != nil {
		s.logger.Error().Err(err).Str("studentCode", student.StudentCode).Msg("Failed to send welcome email")
	}

	return student, nil
}

// PreviewNextCode returns the code the next registration for branch would receive, without storing anything
func (s *StudentService) PreviewNextCode(ctx context.Context, branch, courseType string) (*dto.NextCodeResponse, error) {
	code, err := s.generator.GenerateStudentID(ctx, branch, courseType)
	if err != nil {
		return nil, err
	}
	return &dto.NextCodeResponse{Code: code}, nil
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetStudentByCode retrieves a student by student code
func (s *StudentService) GetStudentByCode(ctx context.Context, code string) (*models.Student, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.studentRepo.GetByCode(ctx, code)
}

// ListStudents returns a page of students, optionally limited to one branch
func (s *StudentService) ListStudents(ctx context.Context, filter *dto.StudentFilterRequest) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	students, total, err := s.studentRepo.List(ctx, repositories.StudentFilter{
		Branch: strings.TrimSpace(filter.Branch),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &dto.StudentListResponse{
		Students:       students,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// UpdateStudent changes contact details and skills. The student code is never reassigned.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FirstName = strings.TrimSpace(req.FirstName)
	student.LastName = strings.TrimSpace(req.LastName)
	student.Email = strings.ToLower(strings.TrimSpace(req.Email))
	student.Phone = strings.TrimSpace(req.Phone)
	if req.Skills != nil {
		student.Skills = normalizeSkills(req.Skills)
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student and their stored resume
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if student.ResumeURL != nil {
		s.removeFile(*student.ResumeURL)
	}
	return nil
}

// UploadResume stores a resume file and links it to the student, replacing any earlier one
func (s *StudentService) UploadResume(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*dto.ResumeUploadResponse, error) {
	if fileHeader == nil {
		return nil, apperrors.NewValidationError("resume file is required")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedResumeExtensions[ext] {
		return nil, apperrors.NewValidationError("resume must be a PDF or Word document")
	}
	if fileHeader.Size > MaxResumeSize {
		return nil, apperrors.NewValidationError(fmt.Sprintf("resume must be at most %d MB", MaxResumeSize>>20))
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.fileStorage.SaveFileWithPath(fileHeader, resumeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	if err := s.studentRepo.SetResumeURL(ctx, id, url); err != nil {
		s.removeFile(url)
		return nil, err
	}

	if student.ResumeURL != nil && *student.ResumeURL != url {
		s.removeFile(*student.ResumeURL)
	}

	return &dto.ResumeUploadResponse{StudentID: id, ResumeURL: url}, nil
}

func (s *StudentService) removeFile(url string) {
	if err := s.fileStorage.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to delete stored file")
	}
}

// normalizeSkills lower-cases, trims and de-duplicates skills, keeping first-seen order
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, skill)
	}
	return out
}
