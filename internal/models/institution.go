package models

import "time"

// InstitutionType is informational only.
type InstitutionType string

const (
	InstitutionCollege    InstitutionType = "college"
	InstitutionSchool     InstitutionType = "school"
	InstitutionUniversity InstitutionType = "university"
	InstitutionHospital   InstitutionType = "hospital"
	InstitutionOther      InstitutionType = "other"
)

// Institution is a client organisation hosting events.
type Institution struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	ShortCode *string          `db:"short_code" json:"short_code"`
	Type      *InstitutionType `db:"type" json:"type"`
	IsActive  bool             `db:"is_active" json:"is_active"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// CreateInstitutionRequest is the payload for creating an institution.
type CreateInstitutionRequest struct {
	Name      string           `json:"name" validate:"required"`
	ShortCode *string          `json:"short_code"`
	Type      *InstitutionType `json:"type" validate:"omitempty,oneof=college school university hospital other"`
	IsActive  *bool            `json:"is_active"`
}

// UpdateInstitutionRequest carries the fields to change; absent fields are kept.
type UpdateInstitutionRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1"`
	ShortCode *string          `json:"short_code"`
	Type      *InstitutionType `json:"type" validate:"omitempty,oneof=college school university hospital other"`
	IsActive  *bool            `json:"is_active"`
}
