package models

import "time"

// LiveClass is a slot on the live board, flagged when a confirmed substitute covers it today.
type LiveClass struct {
	Slot           ScheduleSlot `json:"slot"`
	SubstituteID   *string      `json:"substitute_teacher_id,omitempty"`
	SubstituteName *string      `json:"substitute_teacher_name,omitempty"`
}

// LiveBoard is the current and next class for a course at a point in time.
type LiveBoard struct {
	CourseID       string              `json:"course_id"`
	At             time.Time           `json:"at"`
	SchoolDay      bool                `json:"school_day"`
	Current        *LiveClass          `json:"current,omitempty"`
	Next           *LiveClass          `json:"next,omitempty"`
	ChangesToday   int                 `json:"changes_today"`
	ConfirmedToday []ReplacementDetail `json:"confirmed_today"`
}

// WeekDay groups the active slots taught on one school day.
type WeekDay struct {
	DayOfWeek int            `json:"day_of_week"`
	Name      string         `json:"name"`
	Slots     []ScheduleSlot `json:"slots"`
}

// WeekSummary is the Monday to Friday timetable.
type WeekSummary struct {
	Days        []WeekDay `json:"days"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CourseNotice tells students of a course that a class will be covered by someone else.
type CourseNotice struct {
	NotificationID string    `json:"notification_id"`
	CourseID       string    `json:"course_id"`
	AbsenceDate    time.Time `json:"absence_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	SubjectName    string    `json:"subject_name"`
	AbsentTeacher  string    `json:"absent_teacher_name"`
	SubstituteName string    `json:"substitute_teacher_name"`
	Message        string    `json:"message"`
}

// SubstitutionDashboard summarises open work for administrators.
type SubstitutionDashboard struct {
	UpcomingAbsences    int       `json:"upcoming_absences"`
	PendingReplacements int       `json:"pending_replacements"`
	Unassignable        int       `json:"unassignable"`
	ActiveTeachers      int       `json:"active_teachers"`
	GeneratedAt         time.Time `json:"generated_at"`
}
