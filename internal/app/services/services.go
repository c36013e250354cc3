package services

import (
	"context"
	"time"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/repositories"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
)

// Services defined in this package:
// - AuthService: login, token refresh and employee accounts
// - CatalogService: courses and the code tables used for generated identifiers
// - StudentService: registration with student codes, profile updates and resumes
// - JobService: job openings with job codes and skill matching
// - InvoiceService: fee invoices
// - AttendanceService: session attendance and summaries
//
// Each service depends on the narrow store interfaces below. The repositories package satisfies them.

type employeeStore interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Employee, error)
}

type tokenStore interface {
	CreateToken(ctx context.Context, token string, employeeID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllEmployeeTokens(ctx context.Context, employeeID int64) error
}

type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, offset uint64, limit int) ([]models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type studentStore interface {
	CreateWithCode(ctx context.Context, student *models.Student, partition string, next idgen.NextFunc) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter) ([]models.Student, int64, error)
	ListWithSkills(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	SetResumeURL(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
}

type jobStore interface {
	CreateWithCode(ctx context.Context, job *models.Job, partition string, next idgen.NextFunc) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, filter repositories.JobFilter) ([]models.Job, int64, error)
	Delete(ctx context.Context, id int64) error
}

type invoiceStore interface {
	Create(ctx context.Context, invoice *models.FeeInvoice) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.FeeInvoice, error)
	MarkPaid(ctx context.Context, id int64) (*models.FeeInvoice, error)
	Outstanding(ctx context.Context, studentID int64) (float64, int, error)
}

type attendanceStore interface {
	Upsert(ctx context.Context, a *models.Attendance) error
	ListByStudent(ctx context.Context, studentID int64, from, to time.Time) ([]models.Attendance, error)
	CountByStatus(ctx context.Context, studentID int64) (map[models.AttendanceStatus]int, error)
}
