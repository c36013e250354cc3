package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
)

type fakeInvoiceStore struct {
	invoices []*models.FeeInvoice
}

func (f *fakeInvoiceStore) Create(_ context.Context, invoice *models.FeeInvoice) error {
	invoice.ID = int64(len(f.invoices) + 1)
	stored := *invoice
	f.invoices = append(f.invoices, &stored)
	return nil
}

func (f *fakeInvoiceStore) ListByStudent(_ context.Context, studentID int64) ([]models.FeeInvoice, error) {
	out := []models.FeeInvoice{}
	for _, i := range f.invoices {
		if i.StudentID == studentID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeInvoiceStore) MarkPaid(_ context.Context, id int64) (*models.FeeInvoice, error) {
	for _, i := range f.invoices {
		if i.ID != id {
			continue
		}
		if i.IsPaid {
			return nil, apperrors.ErrInvoiceAlreadyPaid
		}
		now := time.Now()
		i.IsPaid = true
		i.PaidAt = &now
		cp := *i
		return &cp, nil
	}
	return nil, apperrors.ErrInvoiceNotFound
}

func (f *fakeInvoiceStore) Outstanding(_ context.Context, studentID int64) (float64, int, error) {
	var total float64
	var count int
	for _, i := range f.invoices {
		if i.StudentID == studentID && !i.IsPaid {
			total += i.Amount
			count++
		}
	}
	return total, count, nil
}

func TestInvoiceLifecycle(t *testing.T) {
	students := newFakeStudentStore()
	student := students.add(models.Student{StudentCode: "CD-TM-1001", FirstName: "Priya", Email: "priya@example.com"})
	emails := &fakeEmailService{}
	service := NewInvoiceService(&fakeInvoiceStore{}, students, emails, zerolog.Nop())
	ctx := context.Background()

	first, err := service.CreateInvoice(ctx, student.ID, &dto.CreateInvoiceRequest{Amount: 15000, Description: "Term 1", DueDate: "2024-04-30"})
	require.NoError(t, err)
	_, err = service.CreateInvoice(ctx, student.ID, &dto.CreateInvoiceRequest{Amount: 5000.5, Description: "Lab", DueDate: "2024-05-31"})
	require.NoError(t, err)

	require.Len(t, emails.sent, 2)
	assert.Equal(t, sentEmail{kind: "invoice", to: "priya@example.com", body: "Term 1 2024-04-30"}, emails.sent[0])

	outstanding, err := service.Outstanding(ctx, student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20000.5, outstanding.Outstanding, 1e-9)
	assert.Equal(t, 2, outstanding.Unpaid)

	paid, err := service.MarkPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	_, err = service.MarkPaid(ctx, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvoiceAlreadyPaid)
	_, err = service.MarkPaid(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrInvoiceNotFound)

	outstanding, err = service.Outstanding(ctx, student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5000.5, outstanding.Outstanding, 1e-9)
	assert.Equal(t, 1, outstanding.Unpaid)

	invoices, err := service.ListInvoices(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestCreateInvoiceValidation(t *testing.T) {
	students := newFakeStudentStore()
	student := students.add(models.Student{StudentCode: "CD-TM-1001"})
	service := NewInvoiceService(&fakeInvoiceStore{}, students, &fakeEmailService{}, zerolog.Nop())
	ctx := context.Background()

	_, err := service.CreateInvoice(ctx, student.ID, &dto.CreateInvoiceRequest{Amount: 0, Description: "x", DueDate: "2024-04-30"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.CreateInvoice(ctx, student.ID, &dto.CreateInvoiceRequest{Amount: 10, Description: "x", DueDate: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.CreateInvoice(ctx, 404, &dto.CreateInvoiceRequest{Amount: 10, Description: "x", DueDate: "2024-04-30"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
