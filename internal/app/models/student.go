package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID int64 `json:"id" db:"id" example:"1"`
	// StudentCode is assigned once at registration and never changes
	StudentCode string `json:"studentCode" db:"student_code" example:"CD-TM-1001"`
	FirstName   string `json:"firstName" db:"first_name" example:"Arun"`
	LastName    string `json:"lastName" db:"last_name" example:"Kumar"`
	Email       string `json:"email" db:"email" example:"arun.kumar@example.com"`
	Phone       string `json:"phone" db:"phone" example:"+919876543210"`
	Branch      string `json:"branch" db:"branch" example:"Tambaram"`
	CourseType  string `json:"courseType" db:"course_type" example:"Career Development"`
	CourseID    *int64 `json:"courseId,omitempty" db:"course_id"`
	// Skills is stored as text[]
	Skills    []string  `json:"skills" db:"skills"`
	ResumeURL *string   `json:"resumeUrl,omitempty" db:"resume_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// FullName returns the student's first and last name
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
