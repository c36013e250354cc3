package dto

import "github.com/yigit/placementcrm/internal/app/models"

// CourseRequest is used to create or update a course
type CourseRequest struct {
	Name          string  `json:"name" binding:"required,max=150"`
	CourseType    string  `json:"courseType" binding:"required,max=100" example:"Career Development"`
	Fee           float64 `json:"fee" binding:"gte=0"`
	DurationWeeks int     `json:"durationWeeks" binding:"required,min=1,max=520"`
}

// CourseListResponse represents a page of courses
type CourseListResponse struct {
	Courses []models.Course `json:"courses"`
	PaginationInfo
}

// CodeTablesResponse exposes the abbreviation tables used for generated codes
type CodeTablesResponse struct {
	Branches    map[string]string `json:"branches"`
	CourseTypes map[string]string `json:"courseTypes"`
	Departments map[string]string `json:"departments"`
}
