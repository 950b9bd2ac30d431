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

var replacementRowColumns = []string{"id", "schedule_slot_id", "absent_teacher_id", "substitute_teacher_id", "absence_date", "status", "reason", "message", "created_at", "responded_at", "updated_at", "version"}

func TestReplacementRepositoryCreateBatchInTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReplacementRepository(db)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sub := "u1"
	batch := []models.ReplacementNotification{
		{ScheduleSlotID: "s1", AbsentTeacherID: "t1", SubstituteTeacherID: &sub, AbsenceDate: date, Status: models.ReplacementPending, Message: "flu"},
		{ScheduleSlotID: "s2", AbsentTeacherID: "t1", AbsenceDate: date, Status: models.ReplacementUnassignable, Message: "flu"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO replacement_notifications").
		WithArgs(sqlmock.AnyArg(), "s1", "t1", "u1", date, models.ReplacementPending, "", "flu", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO replacement_notifications").
		WithArgs(sqlmock.AnyArg(), "s2", "t1", nil, date, models.ReplacementUnassignable, "", "flu", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), tx, batch))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, batch[0].ID)
	assert.Equal(t, 1, batch[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacementRepositoryGetForUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReplacementRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM replacement_notifications WHERE id = $1 FOR UPDATE")).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(replacementRowColumns).
			AddRow("n1", "s1", "t1", "u1", now, "PENDING", "flu", "flu", now, nil, now, 3))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	n, err := repo.GetForUpdate(context.Background(), tx, "n1")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, models.ReplacementPending, n.Status)
	assert.Equal(t, "u1", *n.SubstituteTeacherID)
	assert.Equal(t, 3, n.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacementRepositoryUpdateAssignmentVersionCheck(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReplacementRepository(db)

	n := &models.ReplacementNotification{ID: "n1", Status: models.ReplacementUnassignable, Message: "flu", UpdatedAt: time.Now(), Version: 2}

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND version = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateAssignment(context.Background(), nil, n)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, 2, n.Version)

	mock.ExpectExec("UPDATE replacement_notifications").
		WithArgs(models.ReplacementUnassignable, nil, "flu", nil, sqlmock.AnyArg(), "n1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateAssignment(context.Background(), nil, n))
	assert.Equal(t, 3, n.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacementRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReplacementRepository(db)

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.status = $1 AND n.absence_date >= $2 AND n.substitute_teacher_id = $3 ORDER BY n.created_at DESC, n.id ASC LIMIT 50 OFFSET 0")).
		WithArgs(models.ReplacementPending, from, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM replacement_notifications n JOIN schedule_slots s ON s.id = n.schedule_slot_id WHERE n.status = $1")).
		WithArgs(models.ReplacementPending, from, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.List(context.Background(), models.ReplacementFilter{Status: models.ReplacementPending, From: &from, SubstituteTeacherID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacementRepositoryDashboardCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReplacementRepository(db)

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM replacement_notifications WHERE status = $1 AND absence_date >= $2")).
		WithArgs(models.ReplacementPending, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT (absent_teacher_id, absence_date))")).
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	pending, err := repo.CountByStatusFrom(context.Background(), models.ReplacementPending, from)
	require.NoError(t, err)
	absences, err := repo.CountAbsencesFrom(context.Background(), from)
	require.NoError(t, err)
	assert.Equal(t, 4, pending)
	assert.Equal(t, 2, absences)
	assert.NoError(t, mock.ExpectationsWereMet())
}
