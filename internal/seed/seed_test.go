package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/auth"
)

type memEmployees struct {
	existing map[string]bool
	created  []*models.Employee
}

func (m *memEmployees) EmailExists(_ context.Context, email string) (bool, error) {
	return m.existing[email], nil
}

func (m *memEmployees) Create(_ context.Context, e *models.Employee) error {
	e.ID = int64(len(m.created) + 1)
	m.created = append(m.created, e)
	return nil
}

type memCourses struct {
	names map[string]bool
	err   error
}

func (m *memCourses) Create(_ context.Context, c *models.Course) error {
	if m.err != nil {
		return m.err
	}
	if m.names[c.Name] {
		return apperrors.ErrCourseAlreadyExists
	}
	m.names[c.Name] = true
	return nil
}

func TestCreateDefaultDataCreatesAdminAndCourses(t *testing.T) {
	employees := &memEmployees{existing: map[string]bool{}}
	courses := &memCourses{names: map[string]bool{}}

	err := CreateDefaultData(context.Background(), employees, courses, " Admin@PlacementCRM.local ", "Admin123!", zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, employees.created, 1)
	admin := employees.created[0]
	assert.Equal(t, "admin@placementcrm.local", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, auth.CheckPassword(admin.Password, "Admin123!"))
	assert.Len(t, courses.names, len(DefaultCourses()))
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	employees := &memEmployees{existing: map[string]bool{"admin@placementcrm.local": true}}
	courses := &memCourses{names: map[string]bool{"Go Fundamentals": true}}

	err := CreateDefaultData(context.Background(), employees, courses, "admin@placementcrm.local", "Admin123!", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, employees.created)
	assert.Len(t, courses.names, len(DefaultCourses()))
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	boom := errors.New("connection reset")
	employees := &memEmployees{existing: map[string]bool{}}
	courses := &memCourses{names: map[string]bool{}, err: boom}

	err := CreateDefaultData(context.Background(), employees, courses, "admin@placementcrm.local", "Admin123!", zerolog.Nop())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, employees.created, 1)
}
