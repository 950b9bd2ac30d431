package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

var weekdayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
}

type timetableSlots interface {
	ListByCourseDay(ctx context.Context, courseID string, day int) ([]models.ScheduleSlot, error)
	ListWeek(ctx context.Context) ([]models.ScheduleSlot, error)
}

type confirmedChanges interface {
	ListConfirmedOn(ctx context.Context, date time.Time, courseID string) ([]models.ReplacementDetail, error)
	CountByStatusFrom(ctx context.Context, status models.ReplacementStatus, from time.Time) (int, error)
	CountAbsencesFrom(ctx context.Context, from time.Time) (int, error)
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type activeTeacherCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// TimetableConfig configures the read-side views.
type TimetableConfig struct {
	CacheTTL time.Duration
	Location *time.Location
}

// TimetableService serves the live board, weekly summary, course notices and dashboard.
type TimetableService struct {
	slots    timetableSlots
	changes  confirmedChanges
	courses  courseLookup
	teachers activeTeacherCounter
	cache    *CacheService
	cfg      TimetableConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewTimetableService constructs the service. cache may be nil.
func NewTimetableService(slots timetableSlots, changes confirmedChanges, courses courseLookup, teachers activeTeacherCounter, cache *CacheService, cfg TimetableConfig, logger *zap.Logger) *TimetableService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		slots:    slots,
		changes:  changes,
		courses:  courses,
		teachers: teachers,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// schoolDate returns now in the school timezone and the matching calendar date at UTC midnight.
func (s *TimetableService) schoolDate() (time.Time, time.Time) {
	local := s.now().In(s.cfg.Location)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return local, date
}

// Live returns the current and next class of a course right now.
func (s *TimetableService) Live(ctx context.Context, courseID string) (*models.LiveBoard, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	local, date := s.schoolDate()
	board := &models.LiveBoard{CourseID: courseID, At: local, ConfirmedToday: []models.ReplacementDetail{}}
	day := models.ISOWeekday(date)
	if !models.IsSchoolDay(day) {
		return board, nil
	}
	board.SchoolDay = true

	slots, err := s.slots.ListByCourseDay(ctx, courseID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	confirmed, err := s.changes.ListConfirmedOn(ctx, date, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load confirmed replacements")
	}
	if confirmed != nil {
		board.ConfirmedToday = confirmed
	}
	board.ChangesToday = len(board.ConfirmedToday)

	bySlot := make(map[string]models.ReplacementDetail, len(confirmed))
	for _, c := range confirmed {
		bySlot[c.ScheduleSlotID] = c
	}

	minute := local.Hour()*60 + local.Minute()
	for _, slot := range slots {
		start, err := models.ClockMinutes(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := models.ClockMinutes(slot.EndTime)
		if err != nil {
			continue
		}
		switch {
		case board.Current == nil && start <= minute && minute < end:
			board.Current = liveClass(slot, bySlot)
		case board.Next == nil && start > minute:
			board.Next = liveClass(slot, bySlot)
		}
	}
	return board, nil
}

func liveClass(slot models.ScheduleSlot, confirmed map[string]models.ReplacementDetail) *models.LiveClass {
	class := &models.LiveClass{Slot: slot}
	if c, ok := confirmed[slot.ID]; ok {
		class.SubstituteID = c.SubstituteTeacherID
		class.SubstituteName = c.SubstituteName
	}
	return class
}

// Week returns the active Monday to Friday timetable and whether it came from cache.
func (s *TimetableService) Week(ctx context.Context) (*models.WeekSummary, bool, error) {
	var cached models.WeekSummary
	if s.cache.Get(ctx, cacheKeyTimetableWeek, &cached) {
		return &cached, true, nil
	}

	slots, err := s.slots.ListWeek(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	summary := &models.WeekSummary{Days: make([]models.WeekDay, 0, models.Friday), GeneratedAt: s.now().UTC()}
	byDay := make(map[int][]models.ScheduleSlot, models.Friday)
	for _, slot := range slots {
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot)
	}
	for day := models.Monday; day <= models.Friday; day++ {
		daySlots := byDay[day]
		if daySlots == nil {
			daySlots = []models.ScheduleSlot{}
		}
		sort.SliceStable(daySlots, func(i, j int) bool { return daySlots[i].StartTime < daySlots[j].StartTime })
		summary.Days = append(summary.Days, models.WeekDay{DayOfWeek: day, Name: weekdayNames[day], Slots: daySlots})
	}

	s.cache.Set(ctx, cacheKeyTimetableWeek, summary, s.cfg.CacheTTL)
	return summary, false, nil
}

// InvalidateWeek drops cached timetable views after a slot change.
func (s *TimetableService) InvalidateWeek(ctx context.Context) {
	s.cache.Invalidate(ctx, cachePatternTimetableAll)
}

// CourseNotices lists the confirmed changes students of a course should be told about.
// A nil date means today in the school timezone.
func (s *TimetableService) CourseNotices(ctx context.Context, courseID string, date *time.Time) ([]models.CourseNotice, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}
	day := s.dateOrToday(date)

	confirmed, err := s.changes.ListConfirmedOn(ctx, day, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load confirmed replacements")
	}

	notices := make([]models.CourseNotice, 0, len(confirmed))
	for _, c := range confirmed {
		substitute := ""
		if c.SubstituteName != nil {
			substitute = *c.SubstituteName
		}
		notices = append(notices, models.CourseNotice{
			NotificationID: c.ID,
			CourseID:       c.CourseID,
			AbsenceDate:    c.AbsenceDate,
			StartTime:      c.StartTime,
			EndTime:        c.EndTime,
			SubjectName:    c.SubjectName,
			AbsentTeacher:  c.AbsentTeacher,
			SubstituteName: substitute,
			Message:        classChangeMessage(c.SubjectName, c.StartTime, c.EndTime, substitute, c.AbsentTeacher),
		})
	}
	return notices, nil
}

func classChangeMessage(subject, start, end, substitute, absent string) string {
	if subject == "" {
		subject = "scheduled"
	}
	return fmt.Sprintf("CLASS CHANGE: the %s class from %s to %s will be taught by %s in place of %s.", subject, start, end, substitute, absent)
}

// Dashboard counts open substitution work from today on.
func (s *TimetableService) Dashboard(ctx context.Context) (*models.SubstitutionDashboard, error) {
	_, today := s.schoolDate()

	absences, err := s.changes.CountAbsencesFrom(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count absences")
	}
	pending, err := s.changes.CountByStatusFrom(ctx, models.ReplacementPending, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending replacements")
	}
	unassignable, err := s.changes.CountByStatusFrom(ctx, models.ReplacementUnassignable, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unassignable replacements")
	}
	active, err := s.teachers.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}

	return &models.SubstitutionDashboard{
		UpcomingAbsences:    absences,
		PendingReplacements: pending,
		Unassignable:        unassignable,
		ActiveTeachers:      active,
		GeneratedAt:         s.now().UTC(),
	}, nil
}

func (s *TimetableService) dateOrToday(date *time.Time) time.Time {
	if date != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	_, today := s.schoolDate()
	return today
}

func (s *TimetableService) ensureCourse(ctx context.Context, courseID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
