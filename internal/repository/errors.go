package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

// Postgres error codes surfaced as conflicts.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// constraintKeys maps unique/foreign-key constraint names to the business
// key reported in conflict errors.
var constraintKeys = map[string]string{
	"teachers_teacher_id_key":                   "teacher_id",
	"teachers_email_key":                        "email",
	"students_student_id_key":                   "student_id",
	"subjects_subject_code_key":                 "subject_code",
	"teacher_subject_teacher_id_subject_id_key": "teacher_subject",
	"students_class_id_fkey":                    "class_id",
	"teacher_subject_teacher_id_fkey":           "teacher_id",
	"teacher_subject_subject_id_fkey":           "subject_id",
	"grade_student_id_fkey":                     "student_id",
	"grade_subject_id_fkey":                     "subject_id",
	"attendance_student_id_fkey":                "student_id",
	"school_class_teacher_id_fkey":              "teacher_id",
}

// translateError converts unique-index and referential-integrity failures
// reported by the store into typed conflict errors; everything else is
// wrapped with the operation name. Conflicts caught here cover races that
// slip past the service-level existence pre-checks.
func translateError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		key := constraintKeys[pqErr.Constraint]
		if key == "" {
			key = pqErr.Constraint
		}
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return appErrors.Conflict(key, fmt.Sprintf("%s already used", key))
		case pqForeignKeyViolation:
			return appErrors.Conflict(key, fmt.Sprintf("referenced %s does not exist", key))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
