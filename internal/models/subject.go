package models

import (
	"time"

	"github.com/schoolmgmt/core-api/internal/validation"
)

// SubjectType classifies how a subject fits the curriculum.
type SubjectType string

const (
	SubjectTypeCore      SubjectType = "CORE"
	SubjectTypeElective  SubjectType = "ELECTIVE"
	SubjectTypeMandatory SubjectType = "MANDATORY"
	SubjectTypeOptional  SubjectType = "OPTIONAL"
)

// Valid returns true when the type is a supported value.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectTypeCore, SubjectTypeElective, SubjectTypeMandatory, SubjectTypeOptional:
		return true
	default:
		return false
	}
}

// SubjectStatus represents the curriculum status of a subject.
type SubjectStatus string

const (
	SubjectStatusActive   SubjectStatus = "ACTIVE"
	SubjectStatusInactive SubjectStatus = "INACTIVE"
	SubjectStatusArchived SubjectStatus = "ARCHIVED"
)

// Valid returns true when the status is a supported value.
func (s SubjectStatus) Valid() bool {
	switch s {
	case SubjectStatusActive, SubjectStatusInactive, SubjectStatusArchived:
		return true
	default:
		return false
	}
}

// Subject represents a curriculum item.
type Subject struct {
	ID            int64         `db:"id" json:"id"`
	SubjectCode   string        `db:"subject_code" json:"subject_code"`
	SubjectName   string        `db:"subject_name" json:"subject_name"`
	Description   *string       `db:"description" json:"description,omitempty"`
	Credits       int           `db:"credits" json:"credits"`
	Department    string        `db:"department" json:"department"`
	SubjectType   *SubjectType  `db:"subject_type" json:"subject_type,omitempty"`
	Status        SubjectStatus `db:"status" json:"status"`
	Prerequisites *string       `db:"prerequisites" json:"prerequisites,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// BeforeInsert applies insert-time defaults and stamps both audit timestamps.
func (s *Subject) BeforeInsert(now time.Time) {
	if s.Status == "" {
		s.Status = SubjectStatusActive
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate refreshes the update timestamp.
func (s *Subject) BeforeUpdate(now time.Time) {
	s.UpdatedAt = now
}

// Rules returns the field constraint table for a subject record.
func (s *Subject) Rules() []validation.Rule {
	return []validation.Rule{
		{Field: "subject_code", Value: s.SubjectCode, Tag: "notblank", Message: "Subject code is required"},
		{Field: "subject_code", Value: s.SubjectCode, Tag: "min=2,max=20", Message: "Subject code must be between 2 and 20 characters"},
		{Field: "subject_name", Value: s.SubjectName, Tag: "notblank", Message: "Subject name is required"},
		{Field: "subject_name", Value: s.SubjectName, Tag: "min=2,max=100", Message: "Subject name must be between 2 and 100 characters"},
		{Field: "credits", Check: func() bool { return s.Credits >= 1 }, Message: "Credits must be at least 1"},
		{Field: "credits", Check: func() bool { return s.Credits <= 10 }, Message: "Credits cannot exceed 10"},
		{Field: "department", Value: s.Department, Tag: "notblank", Message: "Department is required"},
		{Field: "subject_type", Check: func() bool { return s.SubjectType == nil || s.SubjectType.Valid() }, Message: "Subject type must be one of CORE, ELECTIVE, MANDATORY, OPTIONAL"},
		{Field: "status", Check: func() bool { return s.Status == "" || s.Status.Valid() }, Message: "Status must be one of ACTIVE, INACTIVE, ARCHIVED"},
	}
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search     string
	Department string
	Status     *SubjectStatus
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
