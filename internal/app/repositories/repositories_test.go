package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

type stringRows struct {
	values []string
	pos    int
}

func (r *stringRows) Close()                                       {}
func (r *stringRows) Err() error                                   { return nil }
func (r *stringRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stringRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stringRows) RawValues() [][]byte                          { return nil }
func (r *stringRows) Conn() *pgx.Conn                              { return nil }
func (r *stringRows) Values() ([]any, error)                       { return []any{r.values[r.pos-1]}, nil }

func (r *stringRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *stringRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.pos-1]
	return nil
}

type recordingQuerier struct {
	sql   string
	args  []any
	codes []string
	err   error
}

func (q *recordingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return &stringRows{values: q.codes}, nil
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestCodeSourceScansWithEscapedLike(t *testing.T) {
	q := &recordingQuerier{codes: []string{"CD-TM-1001", "ST-TM-1002"}}
	src := newCodeSource(q, statementBuilder(), studentsTable, "student_code")

	codes, err := src.FindMatchingIdentifiers(context.Background(), idgen.Pattern{Segment: "TM"})
	require.NoError(t, err)

	assert.Equal(t, []string{"CD-TM-1001", "ST-TM-1002"}, codes)
	assert.Equal(t, `SELECT student_code FROM students WHERE student_code LIKE $1 ESCAPE '\'`, q.sql)
	assert.Equal(t, []any{"%-TM-%"}, q.args)
}

func TestCodeSourceJobPrefix(t *testing.T) {
	q := &recordingQuerier{}
	src := newCodeSource(q, statementBuilder(), jobsTable, "job_code")

	codes, err := src.FindMatchingIdentifiers(context.Background(), idgen.Pattern{Prefix: "INF-050324-"})
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.Equal(t, []any{"INF-050324-%"}, q.args)
}

func TestCodeSourceQueryFailure(t *testing.T) {
	q := &recordingQuerier{err: errors.New("connection refused")}
	src := newCodeSource(q, statementBuilder(), studentsTable, "student_code")

	_, err := src.FindMatchingIdentifiers(context.Background(), idgen.Pattern{Segment: "VL"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestMapStudentWriteError(t *testing.T) {
	student := &models.Student{StudentCode: "CD-TM-1001", Email: "arun@example.com"}

	err := mapStudentWriteError(&pgconn.PgError{Code: "23505", ConstraintName: studentCodeConstraint}, student)
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)

	err = mapStudentWriteError(&pgconn.PgError{Code: "23505", ConstraintName: studentEmailConstraint}, student)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	err = mapStudentWriteError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), student)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	err = mapStudentWriteError(errors.New("disk full"), student)
	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, apperrors.ErrUniquenessViolation)
}

func TestNonNilSkills(t *testing.T) {
	assert.Equal(t, []string{}, nonNilSkills(nil))
	assert.Equal(t, []string{"go"}, nonNilSkills([]string{"go"}))
}
