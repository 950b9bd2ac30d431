package models

import (
	"strings"
	"time"
)

// Teacher is a directory entry. Only active teachers are considered as substitutes.
type Teacher struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Specializes reports whether the specialization tag contains subject, ignoring case.
// An empty subject never matches.
func (t Teacher) Specializes(subject string) bool {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" || t.Specialization == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*t.Specialization), subject)
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
