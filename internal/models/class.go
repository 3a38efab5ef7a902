package models

import "time"

// SchoolClass represents a class section owned by a teacher. The table is
// managed outside this module; only the columns the core reads are mapped.
type SchoolClass struct {
	ID         int64     `db:"id" json:"id"`
	ClassName  string    `db:"class_name" json:"class_name"`
	GradeLevel string    `db:"grade_level" json:"grade_level"`
	Section    *string   `db:"section" json:"section,omitempty"`
	TeacherID  int64     `db:"teacher_id" json:"teacher_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
