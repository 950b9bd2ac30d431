package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

var slotRowColumns = []string{"id", "day_of_week", "start_time", "end_time", "course_id", "subject_id", "teacher_id", "room", "active", "created_at", "updated_at", "subject_name", "course_name", "teacher_name"}

func TestScheduleRepositoryListByTeacherDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(slotRowColumns).
		AddRow("s1", 1, "08:00", "09:00", "c6a", "math", "t1", nil, true, now, now, "Math", "6A", "Teacher T").
		AddRow("s2", 1, "09:00", "10:00", "c6b", "math", "t1", "B2", true, now, now, "Math", "6B", "Teacher T")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.active = TRUE AND s.teacher_id = $1 AND s.day_of_week = $2 ORDER BY s.start_time ASC")).
		WithArgs("t1", 1).
		WillReturnRows(rows)

	slots, err := repo.ListByTeacherDay(context.Background(), "t1", 1)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Math", slots[0].SubjectName)
	assert.Equal(t, "6B", slots[1].CourseName)
	assert.Equal(t, "B2", *slots[1].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(slotRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.active = TRUE AND s.course_id = $1 AND s.day_of_week = $2 ORDER BY s.day_of_week ASC, s.start_time ASC, s.id ASC LIMIT 50 OFFSET 0")).
		WithArgs("c6a", 3).
		WillReturnRows(sqlmock.NewRows(slotRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedule_slots s WHERE s.active = TRUE AND s.course_id = $1 AND s.day_of_week = $2")).
		WithArgs("c6a", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	slots, total, err := repo.List(context.Background(), models.ScheduleSlotFilter{ActiveOnly: true, CourseID: "c6a", DayOfWeek: 3})
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateAndDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_slots")).
		WithArgs(sqlmock.AnyArg(), 2, "10:00", "11:00", "c6a", nil, "t1", nil, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slot := &models.ScheduleSlot{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00", CourseID: "c6a", TeacherID: "t1"}
	require.NoError(t, repo.Create(context.Background(), nil, slot))
	assert.True(t, slot.Active)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots SET active = FALSE")).
		WithArgs(slot.ID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Deactivate(context.Background(), nil, slot.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
