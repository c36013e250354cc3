package dto

import "github.com/yigit/placementcrm/internal/app/models"

// CreateJobRequest represents a new placement opening
type CreateJobRequest struct {
	CompanyName string   `json:"companyName" binding:"required,max=200"`
	Department  string   `json:"department" binding:"required,max=100" example:"Information Technology"`
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	Skills      []string `json:"skills" binding:"omitempty,dive,max=50,skill"`
	Openings    int      `json:"openings" binding:"omitempty,min=1"`
	// PostedOn is YYYY-MM-DD; empty means today
	PostedOn string `json:"postedOn" binding:"omitempty,datetime=2006-01-02" example:"2024-03-05"`
}

// JobFilterRequest represents job list filters
type JobFilterRequest struct {
	Department string `form:"department"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// JobListResponse represents a page of jobs
type JobListResponse struct {
	Jobs []models.Job `json:"jobs"`
	PaginationInfo
}

// StudentMatch is a student ranked against a job's required skills
type StudentMatch struct {
	StudentID     int64    `json:"studentId"`
	StudentCode   string   `json:"studentCode"`
	FullName      string   `json:"fullName"`
	Branch        string   `json:"branch"`
	Score         float64  `json:"score" example:"0.75"`
	MatchedSkills []string `json:"matchedSkills"`
}

// JobMatchesResponse lists the students matching a job
type JobMatchesResponse struct {
	JobID   int64          `json:"jobId"`
	JobCode string         `json:"jobCode"`
	Matches []StudentMatch `json:"matches"`
}
