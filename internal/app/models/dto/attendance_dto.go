package dto

// MarkAttendanceRequest records attendance for one session
type MarkAttendanceRequest struct {
	SessionDate string `json:"sessionDate" binding:"required,datetime=2006-01-02" example:"2024-03-05"`
	Status      string `json:"status" binding:"required,oneof=PRESENT ABSENT LATE"`
	Remarks     string `json:"remarks" binding:"max=255"`
}

// AttendanceFilterRequest limits attendance listings to a date range
type AttendanceFilterRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceSummary aggregates a student's attendance
type AttendanceSummary struct {
	StudentID  int64   `json:"studentId"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Percentage float64 `json:"percentage" example:"87.5"`
}
