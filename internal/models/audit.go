package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionTeacherCreate = "TEACHER_CREATE"
	AuditActionTeacherUpdate = "TEACHER_UPDATE"
	AuditActionTeacherDelete = "TEACHER_DELETE"
	AuditActionStudentCreate = "STUDENT_CREATE"
	AuditActionStudentUpdate = "STUDENT_UPDATE"
	AuditActionStudentDelete = "STUDENT_DELETE"
	AuditActionSubjectCreate = "SUBJECT_CREATE"
	AuditActionSubjectUpdate = "SUBJECT_UPDATE"
	AuditActionSubjectDelete = "SUBJECT_DELETE"
	AuditActionAssignCreate  = "ASSIGNMENT_CREATE"
	AuditActionAssignDelete  = "ASSIGNMENT_DELETE"
)

// AuditLog represents an audit trail record written best-effort after a
// successful mutation.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *int64    `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
