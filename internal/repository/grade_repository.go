package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgmt/core-api/internal/models"
)

// GradeRepository manages grade rows owned by students.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByStudent returns a student's grades with subject names. This is the
// only path that materializes the student-grade collection.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.GradeDetail, error) {
	const query = `SELECT g.id, g.student_id, g.subject_id, g.grade_value, g.grade_type, g.created_at, g.updated_at, s.subject_name
		FROM grade g
		JOIN subjects s ON s.id = g.subject_id
		WHERE g.student_id = $1
		ORDER BY g.created_at DESC`
	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("list grades by student: %w", err)
	}
	return grades, nil
}

// ListBySubject returns the grades recorded for a subject.
func (r *GradeRepository) ListBySubject(ctx context.Context, subjectID int64) ([]models.Grade, error) {
	const query = `SELECT id, student_id, subject_id, grade_value, grade_type, created_at, updated_at
		FROM grade WHERE subject_id = $1 ORDER BY created_at DESC`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, subjectID); err != nil {
		return nil, fmt.Errorf("list grades by subject: %w", err)
	}
	return grades, nil
}

// Create inserts a grade row.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now

	const query = `INSERT INTO grade (student_id, subject_id, grade_value, grade_type, created_at, updated_at)
		VALUES (:student_id, :subject_id, :grade_value, :grade_type, :created_at, :updated_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, grade)
	if err != nil {
		return translateError(err, "create grade")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&grade.ID); err != nil {
			return fmt.Errorf("create grade: scan id: %w", err)
		}
	}
	return rows.Err()
}
