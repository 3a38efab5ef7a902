package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgmt/core-api/internal/models"
)

// AttendanceRepository manages attendance rows owned by students.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByStudent returns a student's attendance rows, newest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error) {
	const query = `SELECT id, student_id, date, status, remarks, created_at, updated_at
		FROM attendance WHERE student_id = $1 ORDER BY date DESC`
	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return rows, nil
}

// Create inserts an attendance row.
func (r *AttendanceRepository) Create(ctx context.Context, att *models.Attendance) error {
	now := time.Now().UTC()
	att.CreatedAt = now
	att.UpdatedAt = now

	const query = `INSERT INTO attendance (student_id, date, status, remarks, created_at, updated_at)
		VALUES (:student_id, :date, :status, :remarks, :created_at, :updated_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, att)
	if err != nil {
		return translateError(err, "create attendance")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&att.ID); err != nil {
			return fmt.Errorf("create attendance: scan id: %w", err)
		}
	}
	return rows.Err()
}
