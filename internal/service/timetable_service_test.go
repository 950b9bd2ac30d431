package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type timetableSlotsStub struct {
	slots     []models.ScheduleSlot
	weekCalls int
}

func (s *timetableSlotsStub) ListByCourseDay(ctx context.Context, courseID string, day int) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.CourseID == courseID && slot.DayOfWeek == day && slot.Active {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *timetableSlotsStub) ListWeek(ctx context.Context) ([]models.ScheduleSlot, error) {
	s.weekCalls++
	return s.slots, nil
}

type confirmedChangesStub struct {
	confirmed    []models.ReplacementDetail
	askedDate    time.Time
	counts       map[models.ReplacementStatus]int
	absences     int
	countedSince time.Time
}

func (s *confirmedChangesStub) ListConfirmedOn(ctx context.Context, date time.Time, courseID string) ([]models.ReplacementDetail, error) {
	s.askedDate = date
	return s.confirmed, nil
}

func (s *confirmedChangesStub) CountByStatusFrom(ctx context.Context, status models.ReplacementStatus, from time.Time) (int, error) {
	s.countedSince = from
	return s.counts[status], nil
}

func (s *confirmedChangesStub) CountAbsencesFrom(ctx context.Context, from time.Time) (int, error) {
	return s.absences, nil
}

type courseLookupStub struct{}

func (courseLookupStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if id != "6A" {
		return nil, sql.ErrNoRows
	}
	return &models.Course{ID: "6A", Grade: "6", Section: "A", Active: true}, nil
}

type teacherCounterStub int

func (c teacherCounterStub) CountActive(ctx context.Context) (int, error) { return int(c), nil }

func newTimetableFixture(at time.Time, slots *timetableSlotsStub, changes *confirmedChangesStub, cache *CacheService) *TimetableService {
	svc := NewTimetableService(slots, changes, courseLookupStub{}, teacherCounterStub(7), cache, TimetableConfig{CacheTTL: time.Minute}, nil)
	svc.now = func() time.Time { return at }
	return svc
}

func TestLiveBoardCurrentAndNextWithSubstitute(t *testing.T) {
	slots := &timetableSlotsStub{slots: []models.ScheduleSlot{
		slotAt("s1", "T", 1, "08:00", "09:00", "Math", "6A"),
		slotAt("s2", "T", 1, "09:00", "10:00", "Math", "6A"),
		slotAt("s3", "V", 1, "10:00", "11:00", "Art", "6A"),
	}}
	sub := "U"
	subName := "Una"
	changes := &confirmedChangesStub{confirmed: []models.ReplacementDetail{{
		ReplacementNotification: models.ReplacementNotification{ID: "n1", ScheduleSlotID: "s1", SubstituteTeacherID: &sub, Status: models.ReplacementConfirmed},
		SubstituteName:          &subName,
	}}}
	svc := newTimetableFixture(time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), slots, changes, nil)

	board, err := svc.Live(context.Background(), "6A")
	require.NoError(t, err)
	assert.True(t, board.SchoolDay)
	require.NotNil(t, board.Current)
	assert.Equal(t, "s1", board.Current.Slot.ID)
	assert.Equal(t, "Una", *board.Current.SubstituteName)
	require.NotNil(t, board.Next)
	assert.Equal(t, "s2", board.Next.Slot.ID)
	assert.Nil(t, board.Next.SubstituteID)
	assert.Equal(t, 1, board.ChangesToday)
	assert.Equal(t, "2024-01-01", changes.askedDate.Format("2006-01-02"))
}

func TestLiveBoardWeekendHasNoClasses(t *testing.T) {
	svc := newTimetableFixture(time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC), &timetableSlotsStub{}, &confirmedChangesStub{}, nil)

	board, err := svc.Live(context.Background(), "6A")
	require.NoError(t, err)
	assert.False(t, board.SchoolDay)
	assert.Nil(t, board.Current)
	assert.Empty(t, board.ConfirmedToday)
}

func TestLiveBoardValidatesCourse(t *testing.T) {
	svc := newTimetableFixture(time.Now(), &timetableSlotsStub{}, &confirmedChangesStub{}, nil)

	_, err := svc.Live(context.Background(), "")
	assertAppError(t, err, appErrors.ErrValidation.Code)
	_, err = svc.Live(context.Background(), "9Z")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestWeekGroupsSchoolDaysAndCaches(t *testing.T) {
	slots := &timetableSlotsStub{slots: []models.ScheduleSlot{
		slotAt("s2", "T", 1, "09:00", "10:00", "Math", "6A"),
		slotAt("s1", "T", 1, "08:00", "09:00", "Math", "6A"),
		slotAt("s5", "V", 5, "08:00", "09:00", "Art", "6A"),
	}}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil)
	svc := newTimetableFixture(time.Now(), slots, &confirmedChangesStub{}, cache)

	week, hit, err := svc.Week(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, week.Days, 5)
	assert.Equal(t, "Monday", week.Days[0].Name)
	assert.Equal(t, []string{"s1", "s2"}, []string{week.Days[0].Slots[0].ID, week.Days[0].Slots[1].ID})
	assert.Empty(t, week.Days[2].Slots)
	assert.Len(t, week.Days[4].Slots, 1)

	_, hit, err = svc.Week(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, slots.weekCalls)

	svc.InvalidateWeek(context.Background())
	_, hit, err = svc.Week(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, slots.weekCalls)
}

func TestCourseNoticesMessage(t *testing.T) {
	subName := "Una Díaz"
	sub := "U"
	changes := &confirmedChangesStub{confirmed: []models.ReplacementDetail{{
		ReplacementNotification: models.ReplacementNotification{ID: "n1", ScheduleSlotID: "s1", SubstituteTeacherID: &sub, Status: models.ReplacementConfirmed},
		CourseID:                "6A",
		StartTime:               "08:00",
		EndTime:                 "09:00",
		SubjectName:             "Math",
		AbsentTeacher:           "Tomás Ruiz",
		SubstituteName:          &subName,
	}}}
	svc := newTimetableFixture(time.Now(), &timetableSlotsStub{}, changes, nil)

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notices, err := svc.CourseNotices(context.Background(), "6A", &date)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "CLASS CHANGE: the Math class from 08:00 to 09:00 will be taught by Una Díaz in place of Tomás Ruiz.", notices[0].Message)
	assert.Equal(t, date, changes.askedDate)
}

func TestDashboardCountsFromToday(t *testing.T) {
	changes := &confirmedChangesStub{
		counts:   map[models.ReplacementStatus]int{models.ReplacementPending: 3, models.ReplacementUnassignable: 1},
		absences: 2,
	}
	svc := newTimetableFixture(time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC), &timetableSlotsStub{}, changes, nil)

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dash.UpcomingAbsences)
	assert.Equal(t, 3, dash.PendingReplacements)
	assert.Equal(t, 1, dash.Unassignable)
	assert.Equal(t, 7, dash.ActiveTeachers)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), changes.countedSince)
}
