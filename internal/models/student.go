package models

import (
	"time"

	"github.com/schoolmgmt/core-api/internal/validation"
)

// StudentStatus represents the enrollment status of a student.
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "ACTIVE"
	StudentStatusInactive    StudentStatus = "INACTIVE"
	StudentStatusGraduated   StudentStatus = "GRADUATED"
	StudentStatusTransferred StudentStatus = "TRANSFERRED"
	StudentStatusSuspended   StudentStatus = "SUSPENDED"
	StudentStatusExpelled    StudentStatus = "EXPELLED"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated,
		StudentStatusTransferred, StudentStatusSuspended, StudentStatusExpelled:
		return true
	default:
		return false
	}
}

// Student represents a learner registered in the institution. The class
// reference is nullable; grades and attendances hang off the student and are
// loaded only on explicit access.
type Student struct {
	ID                    int64         `db:"id" json:"id"`
	StudentID             string        `db:"student_id" json:"student_id"`
	FirstName             string        `db:"first_name" json:"first_name"`
	LastName              string        `db:"last_name" json:"last_name"`
	DateOfBirth           time.Time     `db:"date_of_birth" json:"date_of_birth"`
	Address               string        `db:"address" json:"address"`
	City                  *string       `db:"city" json:"city,omitempty"`
	State                 *string       `db:"state" json:"state,omitempty"`
	PostalCode            *string       `db:"postal_code" json:"postal_code,omitempty"`
	EnrollmentDate        time.Time     `db:"enrollment_date" json:"enrollment_date"`
	Status                StudentStatus `db:"status" json:"status"`
	Gender                Gender        `db:"gender" json:"gender"`
	BloodGroup            *string       `db:"blood_group" json:"blood_group,omitempty"`
	MedicalConditions     *string       `db:"medical_conditions" json:"medical_conditions,omitempty"`
	ParentGuardianName    string        `db:"parent_guardian_name" json:"parent_guardian_name"`
	ParentGuardianPhone   string        `db:"parent_guardian_phone" json:"parent_guardian_phone"`
	ParentGuardianEmail   *string       `db:"parent_guardian_email" json:"parent_guardian_email,omitempty"`
	EmergencyContactName  *string       `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string       `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	ProfileImageURL       *string       `db:"profile_image_url" json:"profile_image_url,omitempty"`
	ClassID               *int64        `db:"class_id" json:"class_id,omitempty"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name with a single space.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Age approximates the student's age as the calendar-year difference from
// the birth year. A student born on 31 December reads one year older on
// 1 January; the behaviour is intentional and kept as found.
func (s *Student) Age(now time.Time) int {
	return now.UTC().Year() - s.DateOfBirth.UTC().Year()
}

// BeforeInsert applies insert-time defaults and stamps both audit
// timestamps. Status and enrollment date default only when absent.
func (s *Student) BeforeInsert(now time.Time) {
	if s.Status == "" {
		s.Status = StudentStatusActive
	}
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = validation.DateOf(now)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate refreshes the update timestamp.
func (s *Student) BeforeUpdate(now time.Time) {
	s.UpdatedAt = now
}

// Rules returns the field constraint table for a student record. The
// enrollment date carries no required rule here because the insert hook
// defaults it before the row is written.
func (s *Student) Rules() []validation.Rule {
	return []validation.Rule{
		{Field: "student_id", Value: s.StudentID, Tag: "notblank", Message: "Student ID is required"},
		{Field: "first_name", Value: s.FirstName, Tag: "notblank", Message: "First name is required"},
		{Field: "first_name", Value: s.FirstName, Tag: "min=2,max=50", Message: "First name must be between 2 and 50 characters"},
		{Field: "last_name", Value: s.LastName, Tag: "notblank", Message: "Last name is required"},
		{Field: "last_name", Value: s.LastName, Tag: "min=2,max=50", Message: "Last name must be between 2 and 50 characters"},
		{Field: "date_of_birth", Value: s.DateOfBirth, Tag: "required", Message: "Date of birth is required"},
		{Field: "date_of_birth", Value: s.DateOfBirth, Tag: "pastdate", Message: "Date of birth must be in the past"},
		{Field: "address", Value: s.Address, Tag: "notblank", Message: "Address is required"},
		{Field: "parent_guardian_name", Value: s.ParentGuardianName, Tag: "notblank", Message: "Parent/Guardian name is required"},
		{Field: "parent_guardian_phone", Value: s.ParentGuardianPhone, Tag: "notblank", Message: "Parent/Guardian phone is required"},
		{Field: "parent_guardian_phone", Value: s.ParentGuardianPhone, Tag: "omitempty,phone", Message: "Phone number should be valid"},
		{Field: "parent_guardian_email", Value: s.ParentGuardianEmail, Tag: "omitempty,email", Message: "Email should be valid"},
		{Field: "status", Check: func() bool { return s.Status == "" || s.Status.Valid() }, Message: "Status must be one of ACTIVE, INACTIVE, GRADUATED, TRANSFERRED, SUSPENDED, EXPELLED"},
		{Field: "gender", Check: func() bool { return s.Gender == "" || s.Gender.Valid() }, Message: "Gender must be one of MALE, FEMALE, OTHER"},
	}
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	ClassID   *int64
	Status    *StudentStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
