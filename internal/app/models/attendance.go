package models

import "time"

// Attendance records a student's presence for one session date
type Attendance struct {
	ID          int64            `json:"id" db:"id"`
	StudentID   int64            `json:"studentId" db:"student_id"`
	SessionDate time.Time        `json:"sessionDate" db:"session_date"`
	Status      AttendanceStatus `json:"status" db:"status"`
	Remarks     string           `json:"remarks,omitempty" db:"remarks"`
	MarkedBy    int64            `json:"markedBy" db:"marked_by"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
}
