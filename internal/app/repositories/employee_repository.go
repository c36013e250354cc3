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
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

var employeeColumns = []string{
	"id", "email", "password", "full_name", "role", "branch", "is_active", "last_login_at", "created_at",
}

// EmployeeRepository handles staff account database operations
type EmployeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts an employee and sets its ID
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))

	sql, args, err := r.sb.Insert("employees").
		Columns("email", "password", "full_name", "role", "branch", "is_active", "created_at").
		Values(employee.Email, employee.Password, employee.FullName, employee.Role, employee.Branch, employee.IsActive, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create employee SQL")
		return fmt.Errorf("failed to build create employee query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&employee.ID, &employee.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "employees_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", employee.Email).Msg("Error executing create employee query")
		return fmt.Errorf("error creating employee: %w", err)
	}
	return nil
}

// GetByEmail retrieves an employee by email
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *EmployeeRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).From("employees").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	var e models.Employee
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&e.ID, &e.Email, &e.Password, &e.FullName, &e.Role, &e.Branch, &e.IsActive, &e.LastLoginAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		logger.Error().Err(err).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return &e, nil
}

// EmailExists checks if an email already exists
func (r *EmployeeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("employees").
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking employee email")
		return false, fmt.Errorf("error checking employee email: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin updates the last login time
func (r *EmployeeRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("employees").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("employeeID", id).Msg("Error updating last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// List returns all employees ordered by name
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).From("employees").OrderBy("full_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying employees")
		return nil, fmt.Errorf("error querying employees: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Email, &e.Password, &e.FullName, &e.Role, &e.Branch, &e.IsActive, &e.LastLoginAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning employee row: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
