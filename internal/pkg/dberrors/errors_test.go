package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "jobs_job_code_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fee_invoices_student_id_fkey"}

	assert.True(t, IsDuplicateConstraintError(dup, "jobs_job_code_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "students_email_key"))
	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsDuplicateKeyError(fk))

	assert.True(t, IsForeignKeyError(fk))
	assert.False(t, IsForeignKeyError(dup))
	assert.False(t, IsForeignKeyError(errors.New("plain")))
}
