package models

import "time"

// UserRole represents the available roles for the policy table.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleMediaHead  UserRole = "media_head"
	RoleTeamMember UserRole = "team_member"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMediaHead, RoleTeamMember:
		return true
	}
	return false
}

// Specialization is a team member's declared deliverable focus. It is
// informational only and never checked on assignment.
type Specialization string

const (
	SpecializationPhoto   Specialization = "photo"
	SpecializationVideo   Specialization = "video"
	SpecializationEditing Specialization = "editing"
	SpecializationOther   Specialization = "other"
)

// User represents an application user stored in the users table.
type User struct {
	ID             string          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Email          string          `db:"email" json:"email"`
	PasswordHash   string          `db:"password_hash" json:"-"`
	Role           UserRole        `db:"role" json:"role"`
	Specialization *Specialization `db:"specialization" json:"specialization"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role *UserRole
}

// UpdateUserRequest is a partial user update applied by an administrator.
type UpdateUserRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=1"`
	Email          *string         `json:"email" validate:"omitempty,email"`
	Role           *UserRole       `json:"role" validate:"omitempty,oneof=admin media_head team_member"`
	Specialization *Specialization `json:"specialization" validate:"omitempty,oneof=photo video editing other"`
}
