package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmgmt/core-api/internal/validation"
)

func validTeacher() *Teacher {
	return &Teacher{
		TeacherID:       "T001",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@ex.org",
		PhoneNumber:     "+15551234567",
		DateOfBirth:     time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
		Address:         "1 Byron St",
		HireDate:        time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
		Qualification:   "PhD",
		YearsExperience: 5,
		Salary:          decimal.RequireFromString("60000.00"),
		Gender:          GenderFemale,
	}
}

func TestTeacherFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", validTeacher().FullName())
}

func TestTeacherBeforeInsertDefaults(t *testing.T) {
	teacher := validTeacher()
	now := time.Now().UTC()
	teacher.BeforeInsert(now)

	assert.Equal(t, TeacherStatusActive, teacher.Status)
	assert.Equal(t, now, teacher.CreatedAt)
	assert.Equal(t, now, teacher.UpdatedAt)
}

func TestTeacherBeforeInsertKeepsExplicitStatus(t *testing.T) {
	teacher := validTeacher()
	teacher.Status = TeacherStatusOnLeave
	teacher.BeforeInsert(time.Now().UTC())
	assert.Equal(t, TeacherStatusOnLeave, teacher.Status)
}

func TestTeacherBeforeUpdateAdvancesTimestamp(t *testing.T) {
	teacher := validTeacher()
	created := time.Now().UTC().Add(-time.Hour)
	teacher.BeforeInsert(created)

	later := time.Now().UTC()
	teacher.BeforeUpdate(later)

	assert.Equal(t, created, teacher.CreatedAt)
	assert.Equal(t, later, teacher.UpdatedAt)
	assert.True(t, !teacher.UpdatedAt.Before(teacher.CreatedAt))
}

func TestTeacherRulesPassForValidRecord(t *testing.T) {
	v := validation.New()
	assert.Empty(t, v.Apply(validTeacher().Rules()))
}

func TestTeacherRulesReportAllViolations(t *testing.T) {
	v := validation.New()
	teacher := &Teacher{
		TeacherID:       "",
		FirstName:       "A",
		LastName:        "Lovelace",
		Email:           "not-an-email",
		PhoneNumber:     "12345",
		DateOfBirth:     time.Now().UTC().AddDate(1, 0, 0),
		Address:         " ",
		Qualification:   "",
		YearsExperience: -1,
		Salary:          decimal.Zero,
	}

	violations := v.Apply(teacher.Rules())

	fields := make(map[string]int)
	for _, fv := range violations {
		fields[fv.Field]++
	}
	assert.Equal(t, 2, fields["first_name"], "blank and too short")
	assert.NotZero(t, fields["teacher_id"])
	assert.NotZero(t, fields["email"])
	assert.NotZero(t, fields["phone_number"])
	assert.NotZero(t, fields["date_of_birth"])
	assert.NotZero(t, fields["address"])
	assert.NotZero(t, fields["hire_date"])
	assert.NotZero(t, fields["qualification"])
	assert.NotZero(t, fields["years_experience"])
	assert.NotZero(t, fields["salary"])
}

func TestTeacherSalaryBoundaries(t *testing.T) {
	v := validation.New()

	teacher := validTeacher()
	teacher.Salary = decimal.Zero
	assert.NotEmpty(t, v.Apply(teacher.Rules()))

	teacher.Salary = decimal.RequireFromString("-1")
	assert.NotEmpty(t, v.Apply(teacher.Rules()))

	teacher.Salary = decimal.RequireFromString("0.01")
	assert.Empty(t, v.Apply(teacher.Rules()))
}

func TestTeacherStatusValid(t *testing.T) {
	require.True(t, TeacherStatusActive.Valid())
	require.True(t, TeacherStatusTerminated.Valid())
	require.False(t, TeacherStatus("RETIRED").Valid())
}
