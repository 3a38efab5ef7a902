package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgmt/core-api/internal/models"
)

const studentColumns = "id, student_id, first_name, last_name, date_of_birth, address, city, state, postal_code, enrollment_date, status, gender, blood_group, medical_conditions, parent_guardian_name, parent_guardian_phone, parent_guardian_email, emergency_contact_name, emergency_contact_phone, profile_image_url, class_id, created_at, updated_at"

// studentOwned lists the relations removed together with a student.
var studentOwned = []ownedRelation{
	{Table: "grade", FK: "student_id"},
	{Table: "attendance", FK: "student_id"},
}

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching filters along with total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.ClassID != nil {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, *filter.ClassID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(student_id) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"student_id":      "student_id",
		"last_name":       "last_name",
		"enrollment_date": "enrollment_date",
		"created_at":      "created_at",
		"updated_at":      "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, column, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}

// FindByID fetches a student by surrogate id. Child collections are never
// joined here; grades and attendances load through their own repositories.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByStudentID fetches a student by business key.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE student_id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByStudentID checks if another student uses the same business key.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_id = $1"
	args := []interface{}{studentID}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student id: %w", err)
	}
	return true, nil
}

// Create inserts a new student record, running the insert hook first so the
// status and enrollment date defaults land in the same write.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.BeforeInsert(time.Now().UTC())

	const query = `INSERT INTO students (student_id, first_name, last_name, date_of_birth, address, city, state, postal_code, enrollment_date, status, gender, blood_group, medical_conditions, parent_guardian_name, parent_guardian_phone, parent_guardian_email, emergency_contact_name, emergency_contact_phone, profile_image_url, class_id, created_at, updated_at)
		VALUES (:student_id, :first_name, :last_name, :date_of_birth, :address, :city, :state, :postal_code, :enrollment_date, :status, :gender, :blood_group, :medical_conditions, :parent_guardian_name, :parent_guardian_phone, :parent_guardian_email, :emergency_contact_name, :emergency_contact_phone, :profile_image_url, :class_id, :created_at, :updated_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, student)
	if err != nil {
		return translateError(err, "create student")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&student.ID); err != nil {
			return fmt.Errorf("create student: scan id: %w", err)
		}
	}
	return rows.Err()
}

// Update modifies an existing student record.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.BeforeUpdate(time.Now().UTC())

	const query = `UPDATE students SET student_id = :student_id, first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth, address = :address, city = :city, state = :state, postal_code = :postal_code, enrollment_date = :enrollment_date, status = :status, gender = :gender, blood_group = :blood_group, medical_conditions = :medical_conditions, parent_guardian_name = :parent_guardian_name, parent_guardian_phone = :parent_guardian_phone, parent_guardian_email = :parent_guardian_email, emergency_contact_name = :emergency_contact_name, emergency_contact_phone = :emergency_contact_phone, profile_image_url = :profile_image_url, class_id = :class_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return translateError(err, "update student")
	}
	return nil
}

// Delete removes a student and its owned relations in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete student: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteOwned(ctx, tx, studentOwned, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return translateError(err, "delete student")
	}
	return tx.Commit()
}
