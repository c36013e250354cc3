package dto

import "github.com/yigit/placementcrm/internal/app/models"

// RegisterStudentRequest represents the data captured at student registration
type RegisterStudentRequest struct {
	FirstName  string   `json:"firstName" binding:"required,min=1,max=100"`
	LastName   string   `json:"lastName" binding:"max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Phone      string   `json:"phone" binding:"required,max=20,phone"`
	Branch     string   `json:"branch" binding:"max=100" example:"Tambaram"`
	CourseType string   `json:"courseType" binding:"max=100" example:"Career Development"`
	CourseID   *int64   `json:"courseId" binding:"omitempty,gt=0"`
	Skills     []string `json:"skills" binding:"omitempty,dive,max=50,skill"`
}

// UpdateStudentRequest updates contact details and skills. The student code never changes.
type UpdateStudentRequest struct {
	FirstName string   `json:"firstName" binding:"required,min=1,max=100"`
	LastName  string   `json:"lastName" binding:"max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Phone     string   `json:"phone" binding:"required,max=20,phone"`
	Skills    []string `json:"skills" binding:"omitempty,dive,max=50,skill"`
}

// StudentFilterRequest represents student list filters
type StudentFilterRequest struct {
	Branch   string `form:"branch"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students []models.Student `json:"students"`
	PaginationInfo
}

// NextCodeResponse previews the code the next record would receive
type NextCodeResponse struct {
	Code string `json:"code" example:"CD-TM-1001"`
}

// ResumeUploadResponse is returned after a resume is stored
type ResumeUploadResponse struct {
	StudentID int64  `json:"studentId"`
	ResumeURL string `json:"resumeUrl"`
}
