package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgmt/core-api/internal/models"
)

// TeacherSubjectRepository manages teacher-subject assignments.
type TeacherSubjectRepository struct {
	db *sqlx.DB
}

// NewTeacherSubjectRepository constructs a TeacherSubjectRepository.
func NewTeacherSubjectRepository(db *sqlx.DB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{db: db}
}

// Exists reports whether the teacher already has the subject assigned.
func (r *TeacherSubjectRepository) Exists(ctx context.Context, teacherID, subjectID int64) (bool, error) {
	const query = "SELECT 1 FROM teacher_subject WHERE teacher_id = $1 AND subject_id = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return true, nil
}

// FindByID fetches an assignment row.
func (r *TeacherSubjectRepository) FindByID(ctx context.Context, id int64) (*models.TeacherSubject, error) {
	const query = "SELECT id, teacher_id, subject_id, academic_year, created_at FROM teacher_subject WHERE id = $1"
	var ts models.TeacherSubject
	if err := r.db.GetContext(ctx, &ts, query, id); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Create inserts an assignment row.
func (r *TeacherSubjectRepository) Create(ctx context.Context, ts *models.TeacherSubject) error {
	ts.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO teacher_subject (teacher_id, subject_id, academic_year, created_at)
		VALUES (:teacher_id, :subject_id, :academic_year, :created_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, ts)
	if err != nil {
		return translateError(err, "create assignment")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&ts.ID); err != nil {
			return fmt.Errorf("create assignment: scan id: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes an assignment row.
func (r *TeacherSubjectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM teacher_subject WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's assignments with subject info attached.
func (r *TeacherSubjectRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherSubjectDetail, error) {
	const query = `SELECT ts.id, ts.teacher_id, ts.subject_id, ts.academic_year, ts.created_at, s.subject_code, s.subject_name
		FROM teacher_subject ts
		JOIN subjects s ON s.id = ts.subject_id
		WHERE ts.teacher_id = $1
		ORDER BY s.subject_code`
	var out []models.TeacherSubjectDetail
	if err := r.db.SelectContext(ctx, &out, query, teacherID); err != nil {
		return nil, fmt.Errorf("list assignments by teacher: %w", err)
	}
	return out, nil
}

// ListBySubject returns a subject's assignments with teacher names attached.
func (r *TeacherSubjectRepository) ListBySubject(ctx context.Context, subjectID int64) ([]models.TeacherSubjectDetail, error) {
	const query = `SELECT ts.id, ts.teacher_id, ts.subject_id, ts.academic_year, ts.created_at, t.first_name || ' ' || t.last_name AS teacher_name
		FROM teacher_subject ts
		JOIN teachers t ON t.id = ts.teacher_id
		WHERE ts.subject_id = $1
		ORDER BY t.last_name`
	var out []models.TeacherSubjectDetail
	if err := r.db.SelectContext(ctx, &out, query, subjectID); err != nil {
		return nil, fmt.Errorf("list assignments by subject: %w", err)
	}
	return out, nil
}
