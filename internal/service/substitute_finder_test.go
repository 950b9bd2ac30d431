package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

type teacherDirectoryStub struct {
	teachers []models.Teacher
	err      error
}

func (s *teacherDirectoryStub) ListActive(ctx context.Context, excludeIDs ...string) ([]models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	skip := map[string]bool{}
	for _, id := range excludeIDs {
		skip[id] = true
	}
	var out []models.Teacher
	for _, t := range s.teachers {
		if t.Active && !skip[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

type slotStoreStub struct {
	slots []models.ScheduleSlot
	err   error
}

func (s *slotStoreStub) ListByDay(ctx context.Context, day int) ([]models.ScheduleSlot, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.Active && slot.DayOfWeek == day {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotStoreStub) ListByTeacherDay(ctx context.Context, teacherID string, day int) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range s.slots {
		if slot.Active && slot.DayOfWeek == day && slot.TeacherID == teacherID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotStoreStub) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	for _, slot := range s.slots {
		if slot.ID == id {
			found := slot
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func tag(v string) *string { return &v }

func teacher(id, name string, active bool, specialization string) models.Teacher {
	t := models.Teacher{ID: id, FullName: name, Active: active}
	if specialization != "" {
		t.Specialization = tag(specialization)
	}
	return t
}

func slotAt(id, teacherID string, day int, start, end, subject, course string) models.ScheduleSlot {
	return models.ScheduleSlot{ID: id, TeacherID: teacherID, DayOfWeek: day, StartTime: start, EndTime: end, SubjectName: subject, CourseID: course, Active: true}
}

func TestFindSubstituteNoActiveAlternative(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, ""),
		teacher("t2", "Retired", false, "Math"),
	}}
	finder := NewSubstituteFinder(dir, &slotStoreStub{}, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "Math", "6A"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindSubstituteNeverReturnsSlotOwnerOrInactive(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, "Math"),
		teacher("t2", "Inactive", false, "Math"),
		teacher("t3", "Active", true, ""),
	}}
	finder := NewSubstituteFinder(dir, &slotStoreStub{}, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "Math", "6A"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t3", got.ID)
	assert.True(t, got.Active)
}

func TestFindSubstituteSkipsDoubleBooking(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, ""),
		teacher("t2", "Busy", true, "Math"),
		teacher("t3", "Free", true, ""),
	}}
	slots := &slotStoreStub{slots: []models.ScheduleSlot{
		slotAt("s1", "t1", 1, "08:00", "09:00", "Math", "6A"),
		slotAt("s9", "t2", 1, "08:00", "08:45", "Art", "7B"),
		slotAt("s10", "t3", 2, "08:00", "09:00", "Art", "7B"),
	}}
	finder := NewSubstituteFinder(dir, slots, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slots.slots[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t3", got.ID)
}

func TestFindSubstituteConflictModes(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, ""),
		teacher("t2", "Overlapping", true, ""),
	}}
	slots := &slotStoreStub{slots: []models.ScheduleSlot{
		slotAt("s1", "t1", 1, "08:00", "09:00", "Math", "6A"),
		slotAt("s2", "t2", 1, "08:30", "09:30", "Art", "7B"),
	}}

	startOnly := NewSubstituteFinder(dir, slots, models.ConflictStartTime, nil)
	got, err := startOnly.FindSubstitute(context.Background(), slots.slots[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t2", got.ID)

	overlap := NewSubstituteFinder(dir, slots, models.ConflictOverlap, nil)
	got, err = overlap.FindSubstitute(context.Background(), slots.slots[0])
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindSubstitutePrefersSpecialization(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, ""),
		teacher("t2", "Ana", true, "Historia"),
		teacher("t3", "Bruno", true, "Profesor de MATEMÁTICAS"),
		teacher("t4", "Carla", true, "Matemáticas"),
	}}
	finder := NewSubstituteFinder(dir, &slotStoreStub{}, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "matemáticas", "6A"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t3", got.ID)

	got, err = finder.FindSubstitute(context.Background(), slotAt("s2", "t1", 1, "10:00", "11:00", "Química", "6A"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t2", got.ID, "falls back to the first free teacher")

	got, err = finder.FindSubstitute(context.Background(), slotAt("s3", "t1", 1, "10:00", "11:00", "", "6A"))
	require.NoError(t, err)
	assert.Equal(t, "t2", got.ID)
}

func TestFindSubstituteHonoursExclusions(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("t1", "Absent", true, ""),
		teacher("t2", "Ana", true, "Math"),
		teacher("t3", "Bruno", true, ""),
	}}
	finder := NewSubstituteFinder(dir, &slotStoreStub{}, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "Math", "6A"), "t2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t3", got.ID)
}

func TestFindSubstituteOnlyOtherTeacherBusy(t *testing.T) {
	dir := &teacherDirectoryStub{teachers: []models.Teacher{
		teacher("T", "Teacher T", true, ""),
		teacher("V", "Teacher V", true, ""),
	}}
	slots := &slotStoreStub{slots: []models.ScheduleSlot{
		slotAt("mon-0800", "T", 1, "08:00", "09:00", "Math", "6A"),
		slotAt("v-0800", "V", 1, "08:00", "09:00", "Art", "5C"),
	}}
	finder := NewSubstituteFinder(dir, slots, models.ConflictStartTime, nil)

	got, err := finder.FindSubstitute(context.Background(), slots.slots[0])
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindSubstitutePropagatesStoreErrors(t *testing.T) {
	finder := NewSubstituteFinder(&teacherDirectoryStub{err: errors.New("db down")}, &slotStoreStub{}, "", nil)
	_, err := finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "", "6A"))
	require.Error(t, err)

	dir := &teacherDirectoryStub{teachers: []models.Teacher{teacher("t2", "Ana", true, "")}}
	finder = NewSubstituteFinder(dir, &slotStoreStub{err: errors.New("db down")}, "", nil)
	_, err = finder.FindSubstitute(context.Background(), slotAt("s1", "t1", 1, "08:00", "09:00", "", "6A"))
	require.Error(t, err)
}
