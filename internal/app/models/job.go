package models

import "time"

// Job is a placement opening posted by a company
type Job struct {
	ID int64 `json:"id" db:"id" example:"1"`
	// JobCode is assigned once at creation and never changes
	JobCode     string    `json:"jobCode" db:"job_code" example:"INF-050324-01"`
	CompanyName string    `json:"companyName" db:"company_name" example:"Acme Software"`
	Department  string    `json:"department" db:"department" example:"Information Technology"`
	Title       string    `json:"title" db:"title" example:"Junior Go Developer"`
	Description string    `json:"description" db:"description"`
	Skills      []string  `json:"skills" db:"skills"`
	Openings    int       `json:"openings" db:"openings" example:"3"`
	PostedOn    time.Time `json:"postedOn" db:"posted_on"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
