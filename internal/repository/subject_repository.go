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

const subjectColumns = "id, subject_code, subject_name, description, credits, department, subject_type, status, prerequisites, created_at, updated_at"

// subjectOwned lists the relations removed together with a subject.
var subjectOwned = []ownedRelation{
	{Table: "teacher_subject", FK: "subject_id"},
	{Table: "grade", FK: "subject_id"},
}

// SubjectRepository manages persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching filters along with total count.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(department) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(subject_name) LIKE $%d OR LOWER(subject_code) LIKE $%d)", len(args)+1, len(args)+1))
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
		"subject_code": "subject_code",
		"subject_name": "subject_name",
		"credits":      "credits",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", subjectColumns, base, column, order, size, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	return subjects, total, nil
}

// FindByID fetches a subject by surrogate id.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindBySubjectCode fetches a subject by business key.
func (r *SubjectRepository) FindBySubjectCode(ctx context.Context, code string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE subject_code = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, code); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsBySubjectCode checks if another subject uses the same code.
func (r *SubjectRepository) ExistsBySubjectCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE subject_code = $1"
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// Create inserts a new subject record.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	subject.BeforeInsert(time.Now().UTC())

	const query = `INSERT INTO subjects (subject_code, subject_name, description, credits, department, subject_type, status, prerequisites, created_at, updated_at)
		VALUES (:subject_code, :subject_name, :description, :credits, :department, :subject_type, :status, :prerequisites, :created_at, :updated_at)
		RETURNING id`
	rows, err := sqlx.NamedQueryContext(ctx, r.db, query, subject)
	if err != nil {
		return translateError(err, "create subject")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&subject.ID); err != nil {
			return fmt.Errorf("create subject: scan id: %w", err)
		}
	}
	return rows.Err()
}

// Update modifies an existing subject record.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.BeforeUpdate(time.Now().UTC())

	const query = `UPDATE subjects SET subject_code = :subject_code, subject_name = :subject_name, description = :description, credits = :credits, department = :department, subject_type = :subject_type, status = :status, prerequisites = :prerequisites, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return translateError(err, "update subject")
	}
	return nil
}

// Delete removes a subject and its owned relations in one transaction.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete subject: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteOwned(ctx, tx, subjectOwned, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id); err != nil {
		return translateError(err, "delete subject")
	}
	return tx.Commit()
}
