package services

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
)

// AttendanceService records and summarises session attendance
type AttendanceService struct {
	attendanceRepo attendanceStore
	studentRepo    studentStore
	logger         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(attendanceRepo attendanceStore, studentRepo studentStore, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

// MarkAttendance records a student's status for a session date. Marking the same date again overwrites it.
func (s *AttendanceService) MarkAttendance(ctx context.Context, studentID int64, req *dto.MarkAttendanceRequest, markedBy int64) (*models.Attendance, error) {
	sessionDate, err := helpers.ParseDate(req.SessionDate)
	if err != nil || sessionDate.IsZero() {
		return nil, apperrors.NewValidationError("sessionDate must be formatted as YYYY-MM-DD")
	}

	status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate:
	default:
		return nil, apperrors.NewValidationError("status must be PRESENT, ABSENT or LATE")
	}

	record := &models.Attendance{
		StudentID:   studentID,
		SessionDate: sessionDate,
		Status:      status,
		Remarks:     strings.TrimSpace(req.Remarks),
		MarkedBy:    markedBy,
	}
	if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListAttendance returns a student's attendance within an optional date range
func (s *AttendanceService) ListAttendance(ctx context.Context, studentID int64, filter *dto.AttendanceFilterRequest) ([]models.Attendance, error) {
	from, err := helpers.ParseDate(filter.From)
	if err != nil {
		return nil, apperrors.NewValidationError("from must be formatted as YYYY-MM-DD")
	}
	to, err := helpers.ParseDate(filter.To)
	if err != nil {
		return nil, apperrors.NewValidationError("to must be formatted as YYYY-MM-DD")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, apperrors.NewInvalidArgumentError("from must not be after to")
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListByStudent(ctx, studentID, from, to)
}

// Summary counts sessions per status. Late arrivals count as attended.
func (s *AttendanceService) Summary(ctx context.Context, studentID int64) (*dto.AttendanceSummary, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	counts, err := s.attendanceRepo.CountByStatus(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return summarise(studentID, counts), nil
}

func summarise(studentID int64, counts map[models.AttendanceStatus]int) *dto.AttendanceSummary {
	summary := &dto.AttendanceSummary{
		StudentID: studentID,
		Present:   counts[models.AttendancePresent],
		Absent:    counts[models.AttendanceAbsent],
		Late:      counts[models.AttendanceLate],
	}
	summary.Total = summary.Present + summary.Absent + summary.Late
	if summary.Total > 0 {
		pct := float64(summary.Present+summary.Late) / float64(summary.Total) * 100
		summary.Percentage = math.Round(pct*100) / 100
	}
	return summary
}
