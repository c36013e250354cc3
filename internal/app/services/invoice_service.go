package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/email"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
)

// InvoiceService handles student fee invoices
type InvoiceService struct {
	invoiceRepo  invoiceStore
	studentRepo  studentStore
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo invoiceStore, studentRepo studentStore, emailService email.EmailService, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		studentRepo:  studentRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// CreateInvoice bills a student and notifies them by email
func (s *InvoiceService) CreateInvoice(ctx context.Context, studentID int64, req *dto.CreateInvoiceRequest) (*models.FeeInvoice, error) {
	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	dueDate, err := helpers.ParseDate(req.DueDate)
	if err != nil || dueDate.IsZero() {
		return nil, apperrors.NewValidationError("dueDate must be formatted as YYYY-MM-DD")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	invoice := &models.FeeInvoice{
		StudentID:   studentID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		DueDate:     dueDate,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.emailService.SendInvoiceEmail(student.Email, student.FullName(), invoice.Description,
		invoice.Amount, invoice.DueDate.Format(helpers.DateLayout)); err != nil {
		s.logger.Error().Err(err).Int64("invoiceID", invoice.ID).Msg("Failed to send invoice email")
	}

	return invoice, nil
}

// ListInvoices returns a student's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, studentID int64) ([]models.FeeInvoice, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListByStudent(ctx, studentID)
}

// MarkPaid records payment of an invoice. Paying twice is a conflict.
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID int64) (*models.FeeInvoice, error) {
	invoice, err := s.invoiceRepo.MarkPaid(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("invoiceID", invoice.ID).Float64("amount", invoice.Amount).Msg("Invoice paid")
	return invoice, nil
}

// Outstanding returns the unpaid balance for a student
func (s *InvoiceService) Outstanding(ctx context.Context, studentID int64) (*dto.OutstandingResponse, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	total, unpaid, err := s.invoiceRepo.Outstanding(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.OutstandingResponse{
		StudentID:   studentID,
		Outstanding: total,
		Unpaid:      unpaid,
	}, nil
}
