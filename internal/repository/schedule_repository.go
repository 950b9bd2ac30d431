package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const slotSelect = `SELECT s.id, s.day_of_week, to_char(s.start_time, 'HH24:MI') AS start_time, to_char(s.end_time, 'HH24:MI') AS end_time,
	s.course_id, s.subject_id, s.teacher_id, s.room, s.active, s.created_at, s.updated_at,
	COALESCE(sub.name, '') AS subject_name, (c.grade || c.section) AS course_name, t.full_name AS teacher_name
FROM schedule_slots s
JOIN courses c ON c.id = s.course_id
JOIN teachers t ON t.id = s.teacher_id
LEFT JOIN subjects sub ON sub.id = s.subject_id`

// ScheduleRepository is the weekly schedule store.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID fetches a slot regardless of its active flag.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, slotSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByTeacherDay returns the active slots a teacher teaches on the given weekday.
func (r *ScheduleRepository) ListByTeacherDay(ctx context.Context, teacherID string, day int) ([]models.ScheduleSlot, error) {
	query := slotSelect + " WHERE s.active = TRUE AND s.teacher_id = $1 AND s.day_of_week = $2 ORDER BY s.start_time ASC, s.id ASC"
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID, day); err != nil {
		return nil, fmt.Errorf("list teacher slots: %w", err)
	}
	return slots, nil
}

// ListByDay returns every active slot on the given weekday.
func (r *ScheduleRepository) ListByDay(ctx context.Context, day int) ([]models.ScheduleSlot, error) {
	query := slotSelect + " WHERE s.active = TRUE AND s.day_of_week = $1 ORDER BY s.start_time ASC, s.id ASC"
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, day); err != nil {
		return nil, fmt.Errorf("list day slots: %w", err)
	}
	return slots, nil
}

// ListByCourseDay returns a course's active slots on the given weekday ordered by start time.
func (r *ScheduleRepository) ListByCourseDay(ctx context.Context, courseID string, day int) ([]models.ScheduleSlot, error) {
	query := slotSelect + " WHERE s.active = TRUE AND s.course_id = $1 AND s.day_of_week = $2 ORDER BY s.start_time ASC, s.id ASC"
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, courseID, day); err != nil {
		return nil, fmt.Errorf("list course slots: %w", err)
	}
	return slots, nil
}

// ListWeek returns all active slots from Monday to Friday.
func (r *ScheduleRepository) ListWeek(ctx context.Context) ([]models.ScheduleSlot, error) {
	query := slotSelect + " WHERE s.active = TRUE AND s.day_of_week BETWEEN 1 AND 5 ORDER BY s.day_of_week ASC, s.start_time ASC, course_name ASC"
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list week slots: %w", err)
	}
	return slots, nil
}

// List returns slots with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleSlotFilter) ([]models.ScheduleSlot, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ActiveOnly {
		conditions = append(conditions, "s.active = TRUE")
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("s.teacher_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)))
	}
	if filter.DayOfWeek > 0 {
		args = append(args, filter.DayOfWeek)
		conditions = append(conditions, fmt.Sprintf("s.day_of_week = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s%s ORDER BY s.day_of_week ASC, s.start_time ASC, s.id ASC LIMIT %d OFFSET %d", slotSelect, where, size, offset)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule slots: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM schedule_slots s"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule slots: %w", err)
	}
	return slots, total, nil
}

// Create inserts a new slot.
func (r *ScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	slot.Active = true

	const query = `INSERT INTO schedule_slots (id, day_of_week, start_time, end_time, course_id, subject_id, teacher_id, room, active, created_at, updated_at)
VALUES (:id, :day_of_week, CAST(:start_time AS TIME), CAST(:end_time AS TIME), :course_id, :subject_id, :teacher_id, :room, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("create schedule slot: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a slot. Ledger rows keep referencing it.
func (r *ScheduleRepository) Deactivate(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `UPDATE schedule_slots SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	result, err := r.exec(exec).ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate schedule slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check schedule slot rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
