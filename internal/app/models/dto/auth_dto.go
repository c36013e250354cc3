package dto

import (
	"time"

	"github.com/yigit/placementcrm/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CreateEmployeeRequest is used by admins to open staff accounts
type CreateEmployeeRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"fullName" binding:"required,min=2,max=100"`
	Role     models.RoleType `json:"role" binding:"required,oneof=ADMIN COUNSELOR TRAINER"`
	Branch   string          `json:"branch" binding:"max=100"`
}

// EmployeeResponse represents basic employee information
type EmployeeResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role" example:"COUNSELOR" enums:"ADMIN,COUNSELOR,TRAINER"`
	Branch      string     `json:"branch,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewEmployeeResponse maps an employee model to its public representation
func NewEmployeeResponse(e *models.Employee) *EmployeeResponse {
	if e == nil {
		return nil
	}
	return &EmployeeResponse{
		ID:          e.ID,
		Email:       e.Email,
		FullName:    e.FullName,
		Role:        string(e.Role),
		Branch:      e.Branch,
		IsActive:    e.IsActive,
		LastLoginAt: e.LastLoginAt,
		CreatedAt:   e.CreatedAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token    TokenResponse     `json:"token"`
	Employee *EmployeeResponse `json:"employee"`
}
