package models

import "time"

// TeacherSubject maps a teacher to a subject they are assigned to teach.
// The pair (teacher_id, subject_id) is unique.
type TeacherSubject struct {
	ID           int64     `db:"id" json:"id"`
	TeacherID    int64     `db:"teacher_id" json:"teacher_id"`
	SubjectID    int64     `db:"subject_id" json:"subject_id"`
	AcademicYear *string   `db:"academic_year" json:"academic_year,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TeacherSubjectDetail enriches an assignment with names for responses.
// Subject fields are populated when listing by teacher, teacher fields when
// listing by subject.
type TeacherSubjectDetail struct {
	TeacherSubject
	SubjectCode *string `db:"subject_code" json:"subject_code,omitempty"`
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}
