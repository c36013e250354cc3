package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
)

type fakeAttendanceStore struct {
	records map[string]models.Attendance
}

func (f *fakeAttendanceStore) Upsert(_ context.Context, a *models.Attendance) error {
	if f.records == nil {
		f.records = map[string]models.Attendance{}
	}
	key := a.SessionDate.Format("2006-01-02")
	if existing, ok := f.records[key]; ok {
		a.ID = existing.ID
	} else {
		a.ID = int64(len(f.records) + 1)
	}
	f.records[key] = *a
	return nil
}

func (f *fakeAttendanceStore) ListByStudent(_ context.Context, studentID int64, from, to time.Time) ([]models.Attendance, error) {
	out := []models.Attendance{}
	for _, a := range f.records {
		if a.StudentID != studentID {
			continue
		}
		if (!from.IsZero() && a.SessionDate.Before(from)) || (!to.IsZero() && a.SessionDate.After(to)) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttendanceStore) CountByStatus(_ context.Context, studentID int64) (map[models.AttendanceStatus]int, error) {
	counts := map[models.AttendanceStatus]int{}
	for _, a := range f.records {
		if a.StudentID == studentID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func TestMarkAttendanceUpserts(t *testing.T) {
	students := newFakeStudentStore()
	student := students.add(models.Student{StudentCode: "CD-TM-1001"})
	store := &fakeAttendanceStore{}
	service := NewAttendanceService(store, students, zerolog.Nop())
	ctx := context.Background()

	first, err := service.MarkAttendance(ctx, student.ID, &dto.MarkAttendanceRequest{SessionDate: "2024-03-05", Status: "absent"}, 9)
	require.NoError(t, err)
	second, err := service.MarkAttendance(ctx, student.ID, &dto.MarkAttendanceRequest{SessionDate: "2024-03-05", Status: "LATE"}, 9)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.records, 1)
	assert.Equal(t, models.AttendanceLate, store.records["2024-03-05"].Status)

	_, err = service.MarkAttendance(ctx, student.ID, &dto.MarkAttendanceRequest{SessionDate: "2024-03-05", Status: "HOLIDAY"}, 9)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = service.MarkAttendance(ctx, student.ID, &dto.MarkAttendanceRequest{SessionDate: "5/3/2024", Status: "PRESENT"}, 9)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListAttendanceRange(t *testing.T) {
	students := newFakeStudentStore()
	student := students.add(models.Student{StudentCode: "CD-TM-1001"})
	store := &fakeAttendanceStore{}
	service := NewAttendanceService(store, students, zerolog.Nop())
	ctx := context.Background()

	for _, day := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		_, err := service.MarkAttendance(ctx, student.ID, &dto.MarkAttendanceRequest{SessionDate: day, Status: "PRESENT"}, 1)
		require.NoError(t, err)
	}

	records, err := service.ListAttendance(ctx, student.ID, &dto.AttendanceFilterRequest{From: "2024-03-02"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = service.ListAttendance(ctx, student.ID, &dto.AttendanceFilterRequest{From: "2024-03-03", To: "2024-03-01"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.ListAttendance(ctx, 404, &dto.AttendanceFilterRequest{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestSummarise(t *testing.T) {
	summary := summarise(3, map[models.AttendanceStatus]int{
		models.AttendancePresent: 6,
		models.AttendanceLate:    1,
		models.AttendanceAbsent:  1,
	})
	assert.Equal(t, 8, summary.Total)
	assert.Equal(t, 87.5, summary.Percentage)

	thirds := summarise(3, map[models.AttendanceStatus]int{models.AttendancePresent: 2, models.AttendanceAbsent: 1})
	assert.Equal(t, 66.67, thirds.Percentage)

	empty := summarise(3, nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Percentage)
}
