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
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

func newJobFixture() (*JobService, *fakeJobStore, *fakeStudentStore) {
	jobs := newFakeJobStore()
	students := newFakeStudentStore()
	service := NewJobService(jobs, students, newTestGenerator(students, jobs), idgen.NewAllocator(3, nil), zerolog.Nop())
	return service, jobs, students
}

func TestCreateJobAllocatesDailySequence(t *testing.T) {
	service, _, _ := newJobFixture()
	ctx := context.Background()
	req := &dto.CreateJobRequest{CompanyName: "Acme", Department: "Information Technology", Title: "Go Developer"}

	first, err := service.CreateJob(ctx, req, 1)
	require.NoError(t, err)
	second, err := service.CreateJob(ctx, req, 1)
	require.NoError(t, err)

	assert.Equal(t, "INF-050324-01", first.JobCode)
	assert.Equal(t, "INF-050324-02", second.JobCode)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), first.PostedOn)
	assert.Equal(t, 1, first.Openings)
	assert.Equal(t, int64(1), first.CreatedBy)

	dated, err := service.CreateJob(ctx, &dto.CreateJobRequest{
		CompanyName: "Acme",
		Department:  "Information Technology",
		Title:       "SRE",
		PostedOn:    "2024-12-31",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "INF-311224-01", dated.JobCode)
}

func TestCreateJobRejectsBadInput(t *testing.T) {
	service, _, _ := newJobFixture()
	ctx := context.Background()

	_, err := service.CreateJob(ctx, &dto.CreateJobRequest{CompanyName: "Acme", Department: "   ", Title: "x"}, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = service.CreateJob(ctx, &dto.CreateJobRequest{CompanyName: "Acme", Department: "Finance", Title: "x", PostedOn: "05-03-2024"}, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestPreviewNextJobCode(t *testing.T) {
	service, jobs, _ := newJobFixture()
	jobs.add(models.Job{JobCode: "FIN-050324-07"})

	preview, err := service.PreviewNextCode(context.Background(), "Finance", "")
	require.NoError(t, err)
	assert.Equal(t, "FIN-050324-08", preview.Code)

	preview, err = service.PreviewNextCode(context.Background(), "Finance", "2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, "FIN-060324-01", preview.Code)

	_, err = service.PreviewNextCode(context.Background(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRankStudents(t *testing.T) {
	students := []models.Student{
		{ID: 1, StudentCode: "CD-TM-1002", FirstName: "B", Skills: []string{"Go", "SQL"}},
		{ID: 2, StudentCode: "CD-TM-1001", FirstName: "A", Skills: []string{"sql", " go "}},
		{ID: 3, StudentCode: "CD-VL-1001", FirstName: "C", Skills: []string{"docker"}},
		{ID: 4, StudentCode: "CD-AN-1001", FirstName: "D", Skills: []string{"excel"}},
	}
	required := []string{"go", "sql", "docker", "kubernetes"}

	matches := rankStudents(required, students, 0)
	require.Len(t, matches, 3)
	assert.Equal(t, "CD-TM-1001", matches[0].StudentCode)
	assert.Equal(t, "CD-TM-1002", matches[1].StudentCode)
	assert.Equal(t, "CD-VL-1001", matches[2].StudentCode)
	assert.InDelta(t, 0.5, matches[0].Score, 1e-9)
	assert.InDelta(t, 0.25, matches[2].Score, 1e-9)
	assert.Equal(t, []string{"go", "sql"}, matches[0].MatchedSkills)

	assert.Len(t, rankStudents(required, students, 0.5), 2)
}

func TestMatchStudents(t *testing.T) {
	service, jobs, students := newJobFixture()
	ctx := context.Background()
	students.add(models.Student{StudentCode: "CD-TM-1001", Skills: []string{"go"}})
	withSkills := jobs.add(models.Job{JobCode: "INF-050324-01", Skills: []string{"Go", "Rust"}})
	noSkills := jobs.add(models.Job{JobCode: "INF-050324-02"})

	result, err := service.MatchStudents(ctx, withSkills.ID, 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.InDelta(t, 0.5, result.Matches[0].Score, 1e-9)

	result, err = service.MatchStudents(ctx, noSkills.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)

	_, err = service.MatchStudents(ctx, 404, 0)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	_, err = service.MatchStudents(ctx, withSkills.ID, 1.5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
