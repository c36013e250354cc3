package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

var courseColumns = []string{"id", "name", "course_type", "fee", "duration_weeks", "created_at"}

// CourseRepository handles course catalog database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a course and sets its ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("name", "course_type", "fee", "duration_weeks", "created_at").
		Values(course.Name, course.CourseType, course.Fee, course.DurationWeeks, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_name_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Str("name", course.Name).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.CourseType, &c.Fee, &c.DurationWeeks, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &c, nil
}

// List returns a page of courses ordered by name, plus the total count
func (r *CourseRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Course, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM courses").Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		OrderBy("name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying courses")
		return nil, 0, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CourseType, &c.Fee, &c.DurationWeeks, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, total, nil
}

// Update overwrites a course's editable fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("course_type", course.CourseType).
		Set("fee", course.Fee).
		Set("duration_weeks", course.DurationWeeks).
		Where(squirrel.Eq{"id": course.ID}).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrCourseNotFound
		case dberrors.IsDuplicateConstraintError(err, "courses_name_key"):
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error updating course")
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// Delete removes a course. Courses with enrolled students cannot be removed.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCourseHasStudents
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
