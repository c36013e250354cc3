// Package seed creates the records a fresh installation needs to be usable
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/auth"
)

type employeeStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
}

type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
}

// DefaultCourses is the starter catalog, one course per course type
func DefaultCourses() []models.Course {
	return []models.Course{
		{Name: "Full Stack Java Developer", CourseType: "Career Development", Fee: 45000, DurationWeeks: 24},
		{Name: "Python with Data Science", CourseType: "Placement and Internship", Fee: 38000, DurationWeeks: 16},
		{Name: "Go Fundamentals", CourseType: "Short Term", Fee: 12000, DurationWeeks: 4},
		{Name: "Cloud DevOps Bootcamp", CourseType: "Corporate Training", Fee: 60000, DurationWeeks: 8},
	}
}

// CreateDefaultData creates the admin account and starter courses if they don't exist.
// Failures are collected so one bad record does not stop the rest.
func CreateDefaultData(ctx context.Context, employees employeeStore, courses courseStore, adminEmail, adminPassword string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin account, courses)...")
	var finalErr error

	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))
	exists, err := employees.EmailExists(ctx, adminEmail)
	switch {
	case err != nil:
		lgr.Error().Err(err).Msg("Error checking if admin employee exists")
		finalErr = errors.Join(finalErr, err)
	case exists:
		lgr.Info().Msg("Admin employee already exists, skipping creation")
	default:
		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
			break
		}

		admin := &models.Employee{
			Email:     adminEmail,
			Password:  hashed,
			FullName:  "System Administrator",
			Role:      models.RoleAdmin,
			IsActive:  true,
			CreatedAt: time.Now(),
		}
		if err := employees.Create(ctx, admin); err != nil {
			lgr.Error().Err(err).Msg("Error creating admin employee")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int64("adminID", admin.ID).Msg("Default admin employee created successfully")
		}
	}

	for _, course := range DefaultCourses() {
		course := course
		err := courses.Create(ctx, &course)
		if err != nil && !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			lgr.Error().Err(err).Str("course", course.Name).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
