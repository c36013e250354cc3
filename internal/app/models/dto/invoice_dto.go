package dto

// CreateInvoiceRequest bills a student
type CreateInvoiceRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required,max=255"`
	DueDate     string  `json:"dueDate" binding:"required,datetime=2006-01-02" example:"2024-04-30"`
}

// OutstandingResponse is the unpaid total for a student
type OutstandingResponse struct {
	StudentID   int64   `json:"studentId"`
	Outstanding float64 `json:"outstanding"`
	Unpaid      int     `json:"unpaidInvoices"`
}
