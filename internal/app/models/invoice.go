package models

import "time"

// FeeInvoice is an amount billed to a student
type FeeInvoice struct {
	ID          int64      `json:"id" db:"id"`
	StudentID   int64      `json:"studentId" db:"student_id"`
	Amount      float64    `json:"amount" db:"amount"`
	Description string     `json:"description" db:"description"`
	DueDate     time.Time  `json:"dueDate" db:"due_date"`
	IsPaid      bool       `json:"isPaid" db:"is_paid"`
	PaidAt      *time.Time `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
