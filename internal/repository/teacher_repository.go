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

const teacherColumns = "id, teacher_id, first_name, last_name, email, phone_number, date_of_birth, address, city, state, postal_code, hire_date, qualification, specialization, years_experience, salary, status, gender, emergency_contact_name, emergency_contact_phone, profile_image_url, created_at, updated_at"

// teacherOwned lists the relations removed together with a teacher.
var teacherOwned = []ownedRelation{
	{Table: "school_class", FK: "teacher_id"},
	{Table: "teacher_subject", FK: "teacher_id"},
}

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(teacher_id) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1, len(args)+1))
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
		"teacher_id": "teacher_id",
		"last_name":  "last_name",
		"email":      "email",
		"hire_date":  "hire_date",
		"created_at": "created_at",
		"updated_at": "updated_at",
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", teacherColumns, base, column, order, size, offset)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}

// FindByID fetches a teacher by surrogate id.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByTeacherID fetches a teacher by business key.
func (r *TeacherRepository) FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE teacher_id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, teacherID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsByTeacherID checks if another teacher uses the same business key.
func (r *TeacherRepository) ExistsByTeacherID(ctx context.Context, teacherID string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE teacher_id = $1"
	args := []interface{}{teacherID}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher id: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks if another teacher uses the same email. The compare
// is exact so the pre-check mirrors the unique index on the column.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE email = $1"
	args := []interface{}{email}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher email: %w", err)
	}
	return true, nil
}

// Create inserts a new teacher record. The insert hook runs here so the
// defaults and timestamps are stamped in the same transaction as the write.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.BeforeInsert(time.Now().UTC())

	const query = `INSERT INTO teachers (teacher_id, first_name, last_name, email, phone_number, date_of_birth, address, city, state, postal_code, hire_date, qualification, specialization, years_experience, salary, status, gender, emergency_contact_name, emergency_contact_phone, profile_image_url, created_at, updated_at)
		VALUES (:teacher_id, :first_name, :last_name, :email, :phone_number, :date_of_birth, :address, :city, :state, :postal_code, :hire_date, :qualification, :specialization, :years_experience, :salary, :status, :gender, :emergency_contact_name, :emergency_contact_phone, :profile_image_url, :created_at, :updated_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, teacher)
	if err != nil {
		return translateError(err, "create teacher")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&teacher.ID); err != nil {
			return fmt.Errorf("create teacher: scan id: %w", err)
		}
	}
	return rows.Err()
}

// Update modifies an existing teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.BeforeUpdate(time.Now().UTC())

	const query = `UPDATE teachers SET teacher_id = :teacher_id, first_name = :first_name, last_name = :last_name, email = :email, phone_number = :phone_number, date_of_birth = :date_of_birth, address = :address, city = :city, state = :state, postal_code = :postal_code, hire_date = :hire_date, qualification = :qualification, specialization = :specialization, years_experience = :years_experience, salary = :salary, status = :status, gender = :gender, emergency_contact_name = :emergency_contact_name, emergency_contact_phone = :emergency_contact_phone, profile_image_url = :profile_image_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return translateError(err, "update teacher")
	}
	return nil
}

// Delete removes a teacher and its owned relations in one transaction.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete teacher: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteOwned(ctx, tx, teacherOwned, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM teachers WHERE id = $1", id); err != nil {
		return translateError(err, "delete teacher")
	}
	return tx.Commit()
}
