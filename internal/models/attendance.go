package models

import (
	"time"

	"github.com/schoolmgmt/core-api/internal/validation"
)

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusLate    AttendanceStatus = "LATE"
	AttendanceStatusExcused AttendanceStatus = "EXCUSED"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attendance represents a daily attendance row owned by a student.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Remarks   *string          `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Rules returns the field constraint table for an attendance record.
func (a *Attendance) Rules() []validation.Rule {
	return []validation.Rule{
		{Field: "student_id", Check: func() bool { return a.StudentID > 0 }, Message: "Student is required"},
		{Field: "date", Value: a.Date, Tag: "required", Message: "Date is required"},
		{Field: "status", Check: func() bool { return a.Status.Valid() }, Message: "Status must be one of PRESENT, ABSENT, LATE, EXCUSED"},
	}
}
