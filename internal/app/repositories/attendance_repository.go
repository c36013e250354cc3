package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

var attendanceColumns = []string{"id", "student_id", "session_date", "status", "remarks", "marked_by", "created_at"}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Upsert records attendance for a student and session date, replacing any earlier mark for that date
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	sql, args, err := r.sb.Insert("attendance").
		Columns("student_id", "session_date", "status", "remarks", "marked_by", "created_at").
		Values(a.StudentID, a.SessionDate, a.Status, a.Remarks, a.MarkedBy, time.Now()).
		Suffix(`ON CONFLICT (student_id, session_date) DO UPDATE
			SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, marked_by = EXCLUDED.marked_by
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", a.StudentID).Msg("Error upserting attendance")
		return fmt.Errorf("error recording attendance: %w", err)
	}
	return nil
}

// ListByStudent returns attendance for a student ordered by date. Zero bounds are open.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64, from, to time.Time) ([]models.Attendance, error) {
	where := squirrel.And{squirrel.Eq{"student_id": studentID}}
	if !from.IsZero() {
		where = append(where, squirrel.GtOrEq{"session_date": from})
	}
	if !to.IsZero() {
		where = append(where, squirrel.LtOrEq{"session_date": to})
	}

	sql, args, err := r.sb.Select(attendanceColumns...).
		From("attendance").
		Where(where).
		OrderBy("session_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying attendance")
		return nil, fmt.Errorf("error querying attendance: %w", err)
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SessionDate, &a.Status, &a.Remarks, &a.MarkedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

// CountByStatus returns the number of sessions per status for a student
func (r *AttendanceRepository) CountByStatus(ctx context.Context, studentID int64) (map[models.AttendanceStatus]int, error) {
	sql, args, err := r.sb.Select("status", "COUNT(*)").
		From("attendance").
		Where(squirrel.Eq{"student_id": studentID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error summarising attendance")
		return nil, fmt.Errorf("error summarising attendance: %w", err)
	}
	defer rows.Close()

	counts := map[models.AttendanceStatus]int{}
	for rows.Next() {
		var status models.AttendanceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning attendance summary row: %w", err)
		}
		counts[models.AttendanceStatus(strings.ToUpper(string(status)))] = n
	}
	return counts, rows.Err()
}
