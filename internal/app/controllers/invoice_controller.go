package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

type invoiceService interface {
	CreateInvoice(ctx context.Context, studentID int64, req *dto.CreateInvoiceRequest) (*models.FeeInvoice, error)
	ListInvoices(ctx context.Context, studentID int64) ([]models.FeeInvoice, error)
	MarkPaid(ctx context.Context, invoiceID int64) (*models.FeeInvoice, error)
	Outstanding(ctx context.Context, studentID int64) (*dto.OutstandingResponse, error)
}

// InvoiceController handles fee invoice endpoints
type InvoiceController struct {
	invoiceService invoiceService
	logger         zerolog.Logger
}

// NewInvoiceController creates a new InvoiceController
func NewInvoiceController(invoiceService invoiceService, logger zerolog.Logger) *InvoiceController {
	return &InvoiceController{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// CreateInvoice bills a student
// @Summary Create fee invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.CreateInvoiceRequest true "Invoice information"
// @Success 201 {object} dto.APIResponse{data=models.FeeInvoice} "Invoice created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/invoices [post]
func (c *InvoiceController) CreateInvoice(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	invoice, err := c.invoiceService.CreateInvoice(ctx.Request.Context(), studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(invoice, "Invoice created"))
}

// ListInvoices lists a student's invoices, latest due date first
// @Summary List fee invoices
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.FeeInvoice} "Invoices retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/invoices [get]
func (c *InvoiceController) ListInvoices(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	invoices, err := c.invoiceService.ListInvoices(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invoices, ""))
}

// Outstanding reports the unpaid balance for a student
// @Summary Outstanding fees
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.OutstandingResponse} "Outstanding balance"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/outstanding [get]
func (c *InvoiceController) Outstanding(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	resp, err := c.invoiceService.Outstanding(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// MarkPaid settles an invoice
// @Summary Mark invoice paid
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invoice ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.FeeInvoice} "Invoice paid"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice already paid"
// @Router /invoices/{id}/pay [post]
func (c *InvoiceController) MarkPaid(ctx *gin.Context) {
	invoiceID, ok := parseIDParam(ctx, "id", "Invoice")
	if !ok {
		return
	}

	invoice, err := c.invoiceService.MarkPaid(ctx.Request.Context(), invoiceID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("invoiceID", invoiceID).Msg("Marking invoice paid failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invoice, "Invoice paid"))
}
