package models

import (
	"time"

	"github.com/schoolmgmt/core-api/internal/validation"
)

// Grade represents a single grade entry owned by a student for a subject.
type Grade struct {
	ID         int64     `db:"id" json:"id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	SubjectID  int64     `db:"subject_id" json:"subject_id"`
	GradeValue float64   `db:"grade_value" json:"grade_value"`
	GradeType  *string   `db:"grade_type" json:"grade_type,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Rules returns the field constraint table for a grade record.
func (g *Grade) Rules() []validation.Rule {
	return []validation.Rule{
		{Field: "student_id", Check: func() bool { return g.StudentID > 0 }, Message: "Student is required"},
		{Field: "subject_id", Check: func() bool { return g.SubjectID > 0 }, Message: "Subject is required"},
		{Field: "grade_value", Check: func() bool { return g.GradeValue >= 0 }, Message: "Grade value cannot be negative"},
		{Field: "grade_value", Check: func() bool { return g.GradeValue <= 100 }, Message: "Grade value cannot exceed 100"},
	}
}

// GradeDetail includes the subject name for student-facing listings.
type GradeDetail struct {
	Grade
	SubjectName string `db:"subject_name" json:"subject_name"`
}
