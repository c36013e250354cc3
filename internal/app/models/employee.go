package models

import (
	"time"
)

// Employee defines the staff account model based on the 'employees' table
type Employee struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	Email    string `json:"email" db:"email" example:"counselor@institute.in"`
	Password string `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FullName string `json:"fullName" db:"full_name" example:"Priya Raman"`
	// Role is one of ADMIN, COUNSELOR or TRAINER
	Role        RoleType   `json:"role" db:"role" example:"COUNSELOR"`
	Branch      string     `json:"branch" db:"branch" example:"Tambaram"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
}
