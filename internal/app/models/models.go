package models

// RoleType defines the employee role type
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleCounselor RoleType = "COUNSELOR"
	RoleTrainer   RoleType = "TRAINER"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleCounselor, RoleTrainer:
		return true
	}
	return false
}

// AttendanceStatus is the outcome recorded for a student on a session date
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)
