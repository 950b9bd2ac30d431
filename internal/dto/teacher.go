package dto

// CreateTeacherRequest registers a teacher in the directory.
type CreateTeacherRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"fullName" validate:"required,max=200"`
	Phone          *string `json:"phone" validate:"omitempty,max=50"`
	Specialization *string `json:"specialization" validate:"omitempty,max=200"`
}

// UpdateTeacherRequest replaces a teacher's directory entry. Active toggles availability as a substitute.
type UpdateTeacherRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"fullName" validate:"required,max=200"`
	Phone          *string `json:"phone" validate:"omitempty,max=50"`
	Specialization *string `json:"specialization" validate:"omitempty,max=200"`
	Active         *bool   `json:"active"`
}

// TeacherQuery mirrors the directory listing filters.
type TeacherQuery struct {
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
