package models

import "time"

// ConflictMode selects how two slots of the same teacher are considered to collide.
type ConflictMode string

const (
	// ConflictStartTime treats slots as conflicting only when day and start time are equal.
	ConflictStartTime ConflictMode = "start_time"
	// ConflictOverlap treats any intersection of [start, end) intervals on the same day as a conflict.
	ConflictOverlap ConflictMode = "overlap"
)

const clockLayout = "15:04"

// School days use ISO numbering.
const (
	Monday = 1
	Friday = 5
)

// ScheduleSlot is a recurring weekly class.
type ScheduleSlot struct {
	ID        string    `db:"id" json:"id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CourseID  string    `db:"course_id" json:"course_id"`
	SubjectID *string   `db:"subject_id" json:"subject_id,omitempty"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Room      *string   `db:"room" json:"room,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	SubjectName string `db:"subject_name" json:"subject_name,omitempty"`
	CourseName  string `db:"course_name" json:"course_name,omitempty"`
	TeacherName string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// ConflictsWith reports whether both slots cannot be taught by the same teacher.
func (s ScheduleSlot) ConflictsWith(other ScheduleSlot, mode ConflictMode) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	if mode != ConflictOverlap {
		return s.StartTime == other.StartTime
	}

	aStart, aEnd, okA := s.interval()
	bStart, bEnd, okB := other.interval()
	if !okA || !okB {
		return s.StartTime == other.StartTime
	}
	return aStart < bEnd && bStart < aEnd
}

func (s ScheduleSlot) interval() (int, int, bool) {
	start, err := ClockMinutes(s.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err := ClockMinutes(s.EndTime)
	if err != nil || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// ClockMinutes converts an HH:MM clock value into minutes after midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ISOWeekday numbers the date's weekday from Monday=1 to Sunday=7.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsSchoolDay reports whether day falls between Monday and Friday.
func IsSchoolDay(day int) bool {
	return day >= Monday && day <= Friday
}

// ScheduleSlotFilter describes query params for listing slots.
type ScheduleSlotFilter struct {
	TeacherID  string
	CourseID   string
	DayOfWeek  int
	ActiveOnly bool
	Page       int
	PageSize   int
}

// ScheduleConflictError is returned when a new slot would double-book its teacher or course.
type ScheduleConflictError struct {
	Type     string       `json:"type"`
	Message  string       `json:"message"`
	Conflict ScheduleSlot `json:"conflict"`
}

func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
