package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type scheduleRepoStub struct {
	slotStoreStub
	created     []models.ScheduleSlot
	deactivated []string
	listFilter  models.ScheduleSlotFilter
}

func (s *scheduleRepoStub) List(ctx context.Context, filter models.ScheduleSlotFilter) ([]models.ScheduleSlot, int, error) {
	s.listFilter = filter
	return s.slots, len(s.slots), nil
}

func (s *scheduleRepoStub) ListByCourseDay(ctx context.Context, courseID string, day int) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.Active && slot.CourseID == courseID && slot.DayOfWeek == day {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *scheduleRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.ScheduleSlot) error {
	slot.ID = "slot-new"
	slot.Active = true
	s.created = append(s.created, *slot)
	return nil
}

func (s *scheduleRepoStub) Deactivate(ctx context.Context, exec sqlx.ExtContext, id string) error {
	for i := range s.slots {
		if s.slots[i].ID == id && s.slots[i].Active {
			s.slots[i].Active = false
			s.deactivated = append(s.deactivated, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type subjectLookupStub struct{}

func (subjectLookupStub) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if id != "math" {
		return nil, sql.ErrNoRows
	}
	return &models.Subject{ID: "math", Name: "Math"}, nil
}

func newScheduleFixture(t *testing.T, mode models.ConflictMode, slots ...models.ScheduleSlot) (*ScheduleService, *scheduleRepoStub, *memoryCache, *auditWriterStub, func()) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	repo := &scheduleRepoStub{slotStoreStub: slotStoreStub{slots: slots}}
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("T", "Tomás", true, "Math"),
		teacher("V", "Vera", true, ""),
	}}
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Minute, nil)
	audit := &auditWriterStub{}
	svc := NewScheduleService(tx, repo, teacherLookupStub{dir: dir}, courseLookupStub{}, subjectLookupStub{}, audit, cache, mode, nil, nil)
	expectTx := func() {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	t.Cleanup(func() { require.NoError(t, mock.ExpectationsWereMet()) })
	return svc, repo, store, audit, expectTx
}

func slotRequest(teacherID, course string, day int, start, end string) dto.CreateScheduleSlotRequest {
	math := "math"
	return dto.CreateScheduleSlotRequest{DayOfWeek: day, StartTime: start, EndTime: end, CourseID: course, SubjectID: &math, TeacherID: teacherID}
}

func TestScheduleServiceCreateInvalidatesTimetable(t *testing.T) {
	svc, repo, store, audit, expectTx := newScheduleFixture(t, models.ConflictStartTime)
	store.items[cacheKeyTimetableWeek] = []byte(`{"days":[]}`)

	expectTx()
	slot, err := svc.Create(context.Background(), slotRequest("T", "6A", 1, "08:00", "09:00"), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "slot-new", slot.ID)
	assert.Equal(t, "Math", slot.SubjectName)
	assert.Equal(t, "6A", slot.CourseName)
	assert.Len(t, repo.created, 1)
	assert.Empty(t, store.items)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionSlotCreate, audit.entries[0].Action)
}

func TestScheduleServiceCreateRejectsTeacherDoubleBooking(t *testing.T) {
	existing := slotAt("s1", "T", 1, "08:00", "09:00", "Math", "6B")
	svc, repo, _, _, _ := newScheduleFixture(t, models.ConflictStartTime, existing)

	_, err := svc.Create(context.Background(), slotRequest("T", "6A", 1, "08:00", "08:45"), "")
	assertAppError(t, err, appErrors.ErrConflict.Code)
	var domainErr *models.ScheduleConflictError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TEACHER", domainErr.Type)
	assert.Equal(t, "s1", domainErr.Conflict.ID)
	assert.Empty(t, repo.created)
}

func TestScheduleServiceConflictModeGovernsOverlap(t *testing.T) {
	existing := slotAt("s1", "T", 1, "08:00", "09:00", "Math", "6B")

	svc, _, _, _, expectTx := newScheduleFixture(t, models.ConflictStartTime, existing)
	expectTx()
	_, err := svc.Create(context.Background(), slotRequest("T", "6A", 1, "08:30", "09:30"), "")
	require.NoError(t, err)

	svc, _, _, _, _ = newScheduleFixture(t, models.ConflictOverlap, existing)
	_, err = svc.Create(context.Background(), slotRequest("T", "6A", 1, "08:30", "09:30"), "")
	assertAppError(t, err, appErrors.ErrConflict.Code)
}

func TestScheduleServiceCreateRejectsCourseDoubleBooking(t *testing.T) {
	existing := slotAt("s1", "V", 2, "10:00", "11:00", "Art", "6A")
	svc, _, _, _, _ := newScheduleFixture(t, models.ConflictStartTime, existing)

	_, err := svc.Create(context.Background(), slotRequest("T", "6A", 2, "10:00", "11:00"), "")
	var domainErr *models.ScheduleConflictError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "COURSE", domainErr.Type)
}

func TestScheduleServiceCreateValidation(t *testing.T) {
	svc, _, _, _, _ := newScheduleFixture(t, models.ConflictStartTime)

	_, err := svc.Create(context.Background(), slotRequest("T", "6A", 6, "08:00", "09:00"), "")
	assertAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), slotRequest("T", "6A", 1, "09:00", "08:00"), "")
	assertAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), slotRequest("ghost", "6A", 1, "08:00", "09:00"), "")
	assertAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), slotRequest("T", "9Z", 1, "08:00", "09:00"), "")
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestScheduleServiceDeactivate(t *testing.T) {
	existing := slotAt("s1", "T", 1, "08:00", "09:00", "Math", "6A")
	svc, repo, _, audit, expectTx := newScheduleFixture(t, models.ConflictStartTime, existing)

	expectTx()
	require.NoError(t, svc.Deactivate(context.Background(), "s1", "admin-1"))
	assert.Equal(t, []string{"s1"}, repo.deactivated)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionSlotDeactivate, audit.entries[0].Action)

	require.NoError(t, svc.Deactivate(context.Background(), "s1", "admin-1"))
	assert.Len(t, repo.deactivated, 1)

	err := svc.Deactivate(context.Background(), "missing", "")
	assertAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestScheduleServiceListDefaultsToActive(t *testing.T) {
	svc, repo, _, _, _ := newScheduleFixture(t, models.ConflictStartTime)

	slots, page, err := svc.List(context.Background(), dto.ScheduleSlotQuery{CourseID: "6A"})
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.True(t, repo.listFilter.ActiveOnly)
	assert.Equal(t, 50, page.PageSize)

	_, _, err = svc.List(context.Background(), dto.ScheduleSlotQuery{All: true})
	require.NoError(t, err)
	assert.False(t, repo.listFilter.ActiveOnly)
}
