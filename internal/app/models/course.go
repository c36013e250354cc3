package models

import "time"

// Course represents a training program offered by the institute.
type Course struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CourseType    string    `json:"courseType" db:"course_type"`
	Fee           float64   `json:"fee" db:"fee"`
	DurationWeeks int       `json:"durationWeeks" db:"duration_weeks"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
