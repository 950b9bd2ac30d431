package dto

// CreateScheduleSlotRequest adds a weekly class to the timetable.
type CreateScheduleSlotRequest struct {
	DayOfWeek int     `json:"dayOfWeek" validate:"required,min=1,max=5"`
	StartTime string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string  `json:"endTime" validate:"required,datetime=15:04"`
	CourseID  string  `json:"courseId" validate:"required"`
	SubjectID *string `json:"subjectId"`
	TeacherID string  `json:"teacherId" validate:"required"`
	Room      *string `json:"room" validate:"omitempty,max=50"`
}

// ScheduleSlotQuery mirrors the slot listing filters.
type ScheduleSlotQuery struct {
	TeacherID string `form:"teacherId"`
	CourseID  string `form:"courseId"`
	DayOfWeek int    `form:"dayOfWeek"`
	All       bool   `form:"all"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}
