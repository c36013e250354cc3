package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	EmployeeRepository   *EmployeeRepository
	TokenRepository      *TokenRepository
	CourseRepository     *CourseRepository
	StudentRepository    *StudentRepository
	JobRepository        *JobRepository
	InvoiceRepository    *InvoiceRepository
	AttendanceRepository *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EmployeeRepository:   NewEmployeeRepository(db),
		TokenRepository:      NewTokenRepository(db),
		CourseRepository:     NewCourseRepository(db),
		StudentRepository:    NewStudentRepository(db),
		JobRepository:        NewJobRepository(db),
		InvoiceRepository:    NewInvoiceRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
