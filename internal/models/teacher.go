package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolmgmt/core-api/internal/validation"
)

// TeacherStatus represents the employment status of a teacher.
type TeacherStatus string

const (
	TeacherStatusActive     TeacherStatus = "ACTIVE"
	TeacherStatusInactive   TeacherStatus = "INACTIVE"
	TeacherStatusOnLeave    TeacherStatus = "ON_LEAVE"
	TeacherStatusTerminated TeacherStatus = "TERMINATED"
)

// Valid returns true when the status is a supported value.
func (s TeacherStatus) Valid() bool {
	switch s {
	case TeacherStatusActive, TeacherStatusInactive, TeacherStatusOnLeave, TeacherStatusTerminated:
		return true
	default:
		return false
	}
}

// Teacher represents an instructor record persisted in the teachers table.
// Salary is carried as a decimal to match the NUMERIC(12,2) column.
type Teacher struct {
	ID                    int64           `db:"id" json:"id"`
	TeacherID             string          `db:"teacher_id" json:"teacher_id"`
	FirstName             string          `db:"first_name" json:"first_name"`
	LastName              string          `db:"last_name" json:"last_name"`
	Email                 string          `db:"email" json:"email"`
	PhoneNumber           string          `db:"phone_number" json:"phone_number"`
	DateOfBirth           time.Time       `db:"date_of_birth" json:"date_of_birth"`
	Address               string          `db:"address" json:"address"`
	City                  *string         `db:"city" json:"city,omitempty"`
	State                 *string         `db:"state" json:"state,omitempty"`
	PostalCode            *string         `db:"postal_code" json:"postal_code,omitempty"`
	HireDate              time.Time       `db:"hire_date" json:"hire_date"`
	Qualification         string          `db:"qualification" json:"qualification"`
	Specialization        *string         `db:"specialization" json:"specialization,omitempty"`
	YearsExperience       int             `db:"years_experience" json:"years_experience"`
	Salary                decimal.Decimal `db:"salary" json:"salary"`
	Status                TeacherStatus   `db:"status" json:"status"`
	Gender                Gender          `db:"gender" json:"gender"`
	EmergencyContactName  *string         `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string         `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	ProfileImageURL       *string         `db:"profile_image_url" json:"profile_image_url,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name with a single space.
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// BeforeInsert applies insert-time defaults and stamps both audit
// timestamps. The status guard is on absence, so an explicitly supplied
// non-default status survives.
func (t *Teacher) BeforeInsert(now time.Time) {
	if t.Status == "" {
		t.Status = TeacherStatusActive
	}
	t.CreatedAt = now
	t.UpdatedAt = now
}

// BeforeUpdate refreshes the update timestamp.
func (t *Teacher) BeforeUpdate(now time.Time) {
	t.UpdatedAt = now
}

// Rules returns the field constraint table for a teacher record. Every row
// is evaluated independently so a caller receives the full set of failures.
func (t *Teacher) Rules() []validation.Rule {
	return []validation.Rule{
		{Field: "teacher_id", Value: t.TeacherID, Tag: "notblank", Message: "Teacher ID is required"},
		{Field: "first_name", Value: t.FirstName, Tag: "notblank", Message: "First name is required"},
		{Field: "first_name", Value: t.FirstName, Tag: "min=2,max=50", Message: "First name must be between 2 and 50 characters"},
		{Field: "last_name", Value: t.LastName, Tag: "notblank", Message: "Last name is required"},
		{Field: "last_name", Value: t.LastName, Tag: "min=2,max=50", Message: "Last name must be between 2 and 50 characters"},
		{Field: "email", Value: t.Email, Tag: "notblank", Message: "Email is required"},
		{Field: "email", Value: t.Email, Tag: "omitempty,email", Message: "Email should be valid"},
		{Field: "phone_number", Value: t.PhoneNumber, Tag: "notblank", Message: "Phone number is required"},
		{Field: "phone_number", Value: t.PhoneNumber, Tag: "omitempty,phone", Message: "Phone number should be valid"},
		{Field: "date_of_birth", Value: t.DateOfBirth, Tag: "required", Message: "Date of birth is required"},
		{Field: "date_of_birth", Value: t.DateOfBirth, Tag: "pastdate", Message: "Date of birth must be in the past"},
		{Field: "address", Value: t.Address, Tag: "notblank", Message: "Address is required"},
		{Field: "hire_date", Value: t.HireDate, Tag: "required", Message: "Hire date is required"},
		{Field: "qualification", Value: t.Qualification, Tag: "notblank", Message: "Qualification is required"},
		{Field: "years_experience", Check: func() bool { return t.YearsExperience >= 0 }, Message: "Years of experience cannot be negative"},
		{Field: "salary", Check: func() bool { return t.Salary.IsPositive() }, Message: "Salary must be greater than 0"},
		{Field: "status", Check: func() bool { return t.Status == "" || t.Status.Valid() }, Message: "Status must be one of ACTIVE, INACTIVE, ON_LEAVE, TERMINATED"},
		{Field: "gender", Check: func() bool { return t.Gender == "" || t.Gender.Valid() }, Message: "Gender must be one of MALE, FEMALE, OTHER"},
	}
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Status    *TeacherStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
