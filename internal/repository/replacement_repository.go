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

const replacementColumns = `id, schedule_slot_id, absent_teacher_id, substitute_teacher_id, absence_date, status,
	reason, message, created_at, responded_at, updated_at, version`

const replacementDetailSelect = `SELECT n.id, n.schedule_slot_id, n.absent_teacher_id, n.substitute_teacher_id, n.absence_date, n.status,
	n.reason, n.message, n.created_at, n.responded_at, n.updated_at, n.version,
	s.day_of_week, to_char(s.start_time, 'HH24:MI') AS start_time, to_char(s.end_time, 'HH24:MI') AS end_time,
	s.course_id, (c.grade || c.section) AS course_name, COALESCE(sub.name, '') AS subject_name,
	absent.full_name AS absent_teacher_name, substitute.full_name AS substitute_teacher_name
FROM replacement_notifications n
JOIN schedule_slots s ON s.id = n.schedule_slot_id
JOIN courses c ON c.id = s.course_id
JOIN teachers absent ON absent.id = n.absent_teacher_id
LEFT JOIN teachers substitute ON substitute.id = n.substitute_teacher_id
LEFT JOIN subjects sub ON sub.id = s.subject_id`

// ReplacementRepository is the replacement notification ledger.
type ReplacementRepository struct {
	db *sqlx.DB
}

// NewReplacementRepository constructs the ledger repository.
func NewReplacementRepository(db *sqlx.DB) *ReplacementRepository {
	return &ReplacementRepository{db: db}
}

func (r *ReplacementRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts every notification through exec. Callers own the transaction.
func (r *ReplacementRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, notifications []models.ReplacementNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO replacement_notifications
	(id, schedule_slot_id, absent_teacher_id, substitute_teacher_id, absence_date, status, reason, message, created_at, responded_at, updated_at, version)
	VALUES (:id, :schedule_slot_id, :absent_teacher_id, :substitute_teacher_id, :absence_date, :status, :reason, :message, :created_at, :responded_at, :updated_at, :version)`

	for i := range notifications {
		n := &notifications[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.CreatedAt
		}
		if n.Version == 0 {
			n.Version = 1
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, n); err != nil {
			return fmt.Errorf("create replacement notification: %w", err)
		}
	}
	return nil
}

// GetByID fetches a notification without locking.
func (r *ReplacementRepository) GetByID(ctx context.Context, id string) (*models.ReplacementNotification, error) {
	query := "SELECT " + replacementColumns + " FROM replacement_notifications WHERE id = $1"
	var n models.ReplacementNotification
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetForUpdate fetches and row-locks a notification inside exec's transaction.
func (r *ReplacementRepository) GetForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ReplacementNotification, error) {
	query := "SELECT " + replacementColumns + " FROM replacement_notifications WHERE id = $1 FOR UPDATE"
	var n models.ReplacementNotification
	if err := sqlx.GetContext(ctx, r.exec(exec), &n, query, id); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateAssignment persists status, substitute and message when the stored version
// still matches n.Version. On success n.Version is advanced; a stale version yields sql.ErrNoRows.
func (r *ReplacementRepository) UpdateAssignment(ctx context.Context, exec sqlx.ExtContext, n *models.ReplacementNotification) error {
	const query = `UPDATE replacement_notifications
	SET status = :status, substitute_teacher_id = :substitute_teacher_id, message = :message,
	    responded_at = :responded_at, updated_at = :updated_at, version = version + 1
	WHERE id = :id AND version = :version`
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, n)
	if err != nil {
		return fmt.Errorf("update replacement notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check replacement update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	n.Version++
	return nil
}

// GetDetail fetches a notification joined with its slot and teachers.
func (r *ReplacementRepository) GetDetail(ctx context.Context, id string) (*models.ReplacementDetail, error) {
	var detail models.ReplacementDetail
	if err := r.db.GetContext(ctx, &detail, replacementDetailSelect+" WHERE n.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns ledger entries newest first along with the total count.
func (r *ReplacementRepository) List(ctx context.Context, filter models.ReplacementFilter) ([]models.ReplacementDetail, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("n.status = $%d", len(args)))
	}
	if filter.AbsenceDate != nil {
		args = append(args, *filter.AbsenceDate)
		conditions = append(conditions, fmt.Sprintf("n.absence_date = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("n.absence_date >= $%d", len(args)))
	}
	if filter.AbsentTeacherID != "" {
		args = append(args, filter.AbsentTeacherID)
		conditions = append(conditions, fmt.Sprintf("n.absent_teacher_id = $%d", len(args)))
	}
	if filter.SubstituteTeacherID != "" {
		args = append(args, filter.SubstituteTeacherID)
		conditions = append(conditions, fmt.Sprintf("n.substitute_teacher_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)))
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

	query := fmt.Sprintf("%s%s ORDER BY n.created_at DESC, n.id ASC LIMIT %d OFFSET %d", replacementDetailSelect, where, size, offset)
	var items []models.ReplacementDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list replacement notifications: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM replacement_notifications n JOIN schedule_slots s ON s.id = n.schedule_slot_id" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count replacement notifications: %w", err)
	}
	return items, total, nil
}

// ListConfirmedOn returns confirmed changes for a date, optionally limited to one course.
func (r *ReplacementRepository) ListConfirmedOn(ctx context.Context, date time.Time, courseID string) ([]models.ReplacementDetail, error) {
	query := replacementDetailSelect + " WHERE n.status = $1 AND n.absence_date = $2"
	args := []interface{}{models.ReplacementConfirmed, date}
	if courseID != "" {
		query += " AND s.course_id = $3"
		args = append(args, courseID)
	}
	query += " ORDER BY s.start_time ASC, n.id ASC"

	var items []models.ReplacementDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list confirmed replacements: %w", err)
	}
	return items, nil
}

// CountByStatusFrom counts notifications in status whose absence date is on or after from.
func (r *ReplacementRepository) CountByStatusFrom(ctx context.Context, status models.ReplacementStatus, from time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM replacement_notifications WHERE status = $1 AND absence_date >= $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, status, from); err != nil {
		return 0, fmt.Errorf("count replacements by status: %w", err)
	}
	return total, nil
}

// CountAbsencesFrom counts distinct teacher absences dated on or after from.
func (r *ReplacementRepository) CountAbsencesFrom(ctx context.Context, from time.Time) (int, error) {
	const query = `SELECT COUNT(DISTINCT (absent_teacher_id, absence_date)) FROM replacement_notifications WHERE absence_date >= $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, from); err != nil {
		return 0, fmt.Errorf("count absences: %w", err)
	}
	return total, nil
}
