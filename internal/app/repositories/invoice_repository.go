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

var invoiceColumns = []string{"id", "student_id", "amount", "description", "due_date", "is_paid", "paid_at", "created_at"}

// InvoiceRepository handles fee invoice database operations
type InvoiceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts an invoice and sets its ID
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.FeeInvoice) error {
	sql, args, err := r.sb.Insert("fee_invoices").
		Columns("student_id", "amount", "description", "due_date", "is_paid", "created_at").
		Values(invoice.StudentID, invoice.Amount, invoice.Description, invoice.DueDate, false, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create invoice query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&invoice.ID, &invoice.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", invoice.StudentID).Msg("Error creating invoice")
		return fmt.Errorf("error creating invoice: %w", err)
	}
	return nil
}

// ListByStudent returns a student's invoices, latest due date first
func (r *InvoiceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.FeeInvoice, error) {
	sql, args, err := r.sb.Select(invoiceColumns...).
		From("fee_invoices").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("due_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list invoices query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying invoices")
		return nil, fmt.Errorf("error querying invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.FeeInvoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invoice row: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// MarkPaid flags an unpaid invoice as paid.
// Returns ErrInvoiceAlreadyPaid when it was paid before and ErrInvoiceNotFound when it does not exist.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int64) (*models.FeeInvoice, error) {
	sql, args, err := r.sb.Update("fee_invoices").
		Set("is_paid", true).
		Set("paid_at", time.Now()).
		Where(squirrel.Eq{"id": id, "is_paid": false}).
		Suffix("RETURNING " + joinColumns(invoiceColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build mark paid query: %w", err)
	}

	invoice, err := scanInvoice(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return invoice, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("invoiceID", id).Msg("Error marking invoice paid")
		return nil, fmt.Errorf("error marking invoice paid: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM fee_invoices WHERE id = $1)", id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("error checking invoice: %w", err)
	}
	if exists {
		return nil, apperrors.ErrInvoiceAlreadyPaid
	}
	return nil, apperrors.ErrInvoiceNotFound
}

// Outstanding returns the unpaid total and unpaid invoice count for a student
func (r *InvoiceRepository) Outstanding(ctx context.Context, studentID int64) (float64, int, error) {
	sql, args, err := r.sb.Select("COALESCE(SUM(amount), 0)", "COUNT(*)").
		From("fee_invoices").
		Where(squirrel.Eq{"student_id": studentID, "is_paid": false}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build outstanding query: %w", err)
	}

	var total float64
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total, &count); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error computing outstanding fees")
		return 0, 0, fmt.Errorf("error computing outstanding fees: %w", err)
	}
	return total, count, nil
}

func scanInvoice(row pgx.Row) (*models.FeeInvoice, error) {
	var i models.FeeInvoice
	if err := row.Scan(&i.ID, &i.StudentID, &i.Amount, &i.Description, &i.DueDate, &i.IsPaid, &i.PaidAt, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
