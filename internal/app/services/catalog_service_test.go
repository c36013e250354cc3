package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
)

func TestCatalogCourses(t *testing.T) {
	service := NewCatalogService(newFakeCourseStore(), newTestGenerator(newFakeStudentStore(), newFakeJobStore()), zerolog.Nop())
	ctx := context.Background()

	course, err := service.CreateCourse(ctx, &dto.CourseRequest{Name: " Full Stack Java ", CourseType: "Career Development", Fee: 45000, DurationWeeks: 24})
	require.NoError(t, err)
	assert.Equal(t, "Full Stack Java", course.Name)

	_, err = service.CreateCourse(ctx, &dto.CourseRequest{Name: "full stack java", CourseType: "Short Term", DurationWeeks: 4})
	assert.ErrorIs(t, err, apperrors.ErrCourseAlreadyExists)

	updated, err := service.UpdateCourse(ctx, course.ID, &dto.CourseRequest{Name: "Full Stack Java", CourseType: "Career Development", Fee: 48000, DurationWeeks: 26})
	require.NoError(t, err)
	assert.Equal(t, 48000.0, updated.Fee)

	page, err := service.ListCourses(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Courses, 1)

	require.NoError(t, service.DeleteCourse(ctx, course.ID))
	_, err = service.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCatalogCodeTables(t *testing.T) {
	service := NewCatalogService(newFakeCourseStore(), newTestGenerator(newFakeStudentStore(), newFakeJobStore()), zerolog.Nop())

	tables := service.CodeTables()
	assert.Equal(t, "TM", tables.Branches["tambaram"])
	assert.Equal(t, "CD", tables.CourseTypes["career development"])
	assert.Empty(t, tables.Departments)
}
