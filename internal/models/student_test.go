package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schoolmgmt/core-api/internal/validation"
)

func validStudent() *Student {
	return &Student{
		StudentID:           "S001",
		FirstName:           "Grace",
		LastName:            "Hopper",
		DateOfBirth:         time.Date(2010, 12, 9, 0, 0, 0, 0, time.UTC),
		Address:             "10 Navy Rd",
		ParentGuardianName:  "Mary Hopper",
		ParentGuardianPhone: "+15557654321",
		Gender:              GenderFemale,
	}
}

func TestStudentFullName(t *testing.T) {
	assert.Equal(t, "Grace Hopper", validStudent().FullName())
}

func TestStudentAgeIsYearDifferenceOnly(t *testing.T) {
	s := validStudent()
	s.DateOfBirth = time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC)

	// One day after the birthday boundary the year difference already moved.
	assert.Equal(t, 15, s.Age(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 14, s.Age(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
}

func TestStudentBeforeInsertDefaults(t *testing.T) {
	s := validStudent()
	now := time.Date(2026, 8, 29, 13, 45, 0, 0, time.UTC)
	s.BeforeInsert(now)

	assert.Equal(t, StudentStatusActive, s.Status)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), s.EnrollmentDate)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now, s.UpdatedAt)
}

func TestStudentBeforeInsertKeepsSuppliedValues(t *testing.T) {
	s := validStudent()
	s.Status = StudentStatusTransferred
	s.EnrollmentDate = time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	s.BeforeInsert(time.Now().UTC())

	assert.Equal(t, StudentStatusTransferred, s.Status)
	assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), s.EnrollmentDate)
}

func TestStudentRulesPassForValidRecord(t *testing.T) {
	v := validation.New()
	assert.Empty(t, v.Apply(validStudent().Rules()))
}

func TestStudentGuardianEmailOptionalButValidated(t *testing.T) {
	v := validation.New()

	s := validStudent()
	assert.Empty(t, v.Apply(s.Rules()))

	bad := "not-an-email"
	s.ParentGuardianEmail = &bad
	violations := v.Apply(s.Rules())
	assert.Len(t, violations, 1)
	assert.Equal(t, "parent_guardian_email", violations[0].Field)

	good := "parent@ex.org"
	s.ParentGuardianEmail = &good
	assert.Empty(t, v.Apply(s.Rules()))
}

func TestStudentGuardianPhoneRequired(t *testing.T) {
	v := validation.New()
	s := validStudent()
	s.ParentGuardianPhone = ""
	violations := v.Apply(s.Rules())
	assert.Len(t, violations, 1)
	assert.Equal(t, "Parent/Guardian phone is required", violations[0].Message)
}

func TestStudentStatusValid(t *testing.T) {
	assert.True(t, StudentStatusGraduated.Valid())
	assert.True(t, StudentStatusExpelled.Valid())
	assert.False(t, StudentStatus("ENROLLED").Valid())
}
