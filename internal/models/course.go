package models

import "time"

// Course is a grade and section group of students, e.g. 6A.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Grade        string    `db:"grade" json:"grade"`
	Section      string    `db:"section" json:"section"`
	AcademicYear int       `db:"academic_year" json:"academic_year"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (c Course) DisplayName() string {
	return c.Grade + c.Section
}
