package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgmt/core-api/internal/models"
)

const classColumns = "id, class_name, grade_level, section, teacher_id, created_at, updated_at"

// ClassRepository reads the school_class table. Classes are owned by
// teachers; students reference them through a nullable foreign key.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID fetches a class by id. Used for referential checks before a
// student is pointed at a class.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	query := fmt.Sprintf("SELECT %s FROM school_class WHERE id = $1", classColumns)
	var class models.SchoolClass
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListByTeacher returns the classes a teacher owns. This is the lazy side of
// the teacher-class relation: nothing loads until this call.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.SchoolClass, error) {
	query := fmt.Sprintf("SELECT %s FROM school_class WHERE teacher_id = $1 ORDER BY class_name", classColumns)
	var classes []models.SchoolClass
	if err := r.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classes by teacher: %w", err)
	}
	return classes, nil
}
