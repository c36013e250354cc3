package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/db"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

const (
	studentsTable          = "students"
	studentCodeConstraint  = "students_student_code_key"
	studentEmailConstraint = "students_email_key"
)

var studentColumns = []string{
	"id", "student_code", "first_name", "last_name", "email", "phone", "branch",
	"course_type", "course_id", "skills", "resume_url", "created_at", "updated_at",
}

// StudentFilter narrows a student listing
type StudentFilter struct {
	Branch string
	Offset uint64
	Limit  int
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db    *pgxpool.Pool
	begin db.TxBeginner
	sb    squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db:    db,
		begin: db,
		sb:    statementBuilder(),
	}
}

// FindMatchingIdentifiers returns every stored student code matching the pattern
func (r *StudentRepository) FindMatchingIdentifiers(ctx context.Context, pattern idgen.Pattern) ([]string, error) {
	return newCodeSource(r.db, r.sb, studentsTable, "student_code").FindMatchingIdentifiers(ctx, pattern)
}

// CreateWithCode serializes on partition, computes the student code with next and inserts the student,
// all in one transaction. A collision on the code column is reported as apperrors.ErrUniquenessViolation.
func (r *StudentRepository) CreateWithCode(ctx context.Context, student *models.Student, partition string, next idgen.NextFunc) error {
	return db.WithTransaction(ctx, r.begin, func(ctx context.Context, tx pgx.Tx) error {
		if err := db.LockPartition(ctx, tx, partition); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
		}

		code, err := next(ctx, newCodeSource(tx, r.sb, studentsTable, "student_code"))
		if err != nil {
			return err
		}
		student.StudentCode = code

		now := time.Now()
		sql, args, err := r.sb.Insert(studentsTable).
			Columns("student_code", "first_name", "last_name", "email", "phone", "branch",
				"course_type", "course_id", "skills", "created_at", "updated_at").
			Values(student.StudentCode, student.FirstName, student.LastName, student.Email, student.Phone,
				student.Branch, student.CourseType, student.CourseID, nonNilSkills(student.Skills), now, now).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			return mapStudentWriteError(err, student)
		}
		return nil
	})
}

func mapStudentWriteError(err error, student *models.Student) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, studentCodeConstraint):
		logger.Warn().Str("studentCode", student.StudentCode).Msg("Student code collision on insert")
		return fmt.Errorf("%w: student code %s", apperrors.ErrUniquenessViolation, student.StudentCode)
	case dberrors.IsDuplicateConstraintError(err, studentEmailConstraint):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsForeignKeyError(err):
		return apperrors.ErrCourseNotFound
	}
	logger.Error().Err(err).Str("email", student.Email).Msg("Error writing student")
	return fmt.Errorf("error writing student: %w", err)
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a student by student code
func (r *StudentRepository) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"student_code": strings.ToUpper(strings.TrimSpace(code))})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// List returns a page of students ordered by code, plus the total count
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	where := squirrel.And{}
	if branch := strings.TrimSpace(filter.Branch); branch != "" {
		where = append(where, squirrel.Expr("LOWER(branch) = LOWER(?)", branch))
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From(studentsTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(where).
		OrderBy("student_code ASC").
		Offset(filter.Offset).
		Limit(uint64(filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	students, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListWithSkills returns every student that has at least one skill recorded
func (r *StudentRepository) ListWithSkills(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where("cardinality(skills) > 0").
		OrderBy("student_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students with skills query: %w", err)
	}
	return r.query(ctx, sql, args...)
}

func (r *StudentRepository) query(ctx context.Context, sql string, args ...any) ([]models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// Update writes the editable contact fields and skills. The student code is never updated.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update(studentsTable).
		Set("first_name", student.FirstName).
		Set("last_name", student.LastName).
		Set("email", student.Email).
		Set("phone", student.Phone).
		Set("skills", nonNilSkills(student.Skills)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": student.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return mapStudentWriteError(err, student)
	}
	return nil
}

// SetResumeURL stores the resume location for a student
func (r *StudentRepository) SetResumeURL(ctx context.Context, id int64, url string) error {
	sql, args, err := r.sb.Update(studentsTable).
		Set("resume_url", url).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set resume query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error updating resume URL")
		return fmt.Errorf("error updating resume url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(studentsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.StudentCode, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.Branch,
		&s.CourseType, &s.CourseID, &s.Skills, &s.ResumeURL, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return &s, nil
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
