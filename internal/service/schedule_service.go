package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleSlotFilter) ([]models.ScheduleSlot, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	ListByTeacherDay(ctx context.Context, teacherID string, day int) ([]models.ScheduleSlot, error)
	ListByCourseDay(ctx context.Context, courseID string, day int) ([]models.ScheduleSlot, error)
	Create(ctx context.Context, exec sqlx.ExtContext, slot *models.ScheduleSlot) error
	Deactivate(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type subjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// ScheduleService maintains the weekly timetable.
type ScheduleService struct {
	tx        txProvider
	repo      scheduleRepository
	teachers  teacherLookup
	courses   courseLookup
	subjects  subjectLookup
	audit     auditWriter
	cache     *CacheService
	mode      models.ConflictMode
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService. cache may be nil.
func NewScheduleService(
	tx txProvider,
	repo scheduleRepository,
	teachers teacherLookup,
	courses courseLookup,
	subjects subjectLookup,
	audit auditWriter,
	cache *CacheService,
	mode models.ConflictMode,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		tx:        tx,
		repo:      repo,
		teachers:  teachers,
		courses:   courses,
		subjects:  subjects,
		audit:     audit,
		cache:     cache,
		mode:      mode,
		validator: validate,
		logger:    logger,
	}
}

// List returns slots with pagination. Inactive slots are included only when query.All is set.
func (s *ScheduleService) List(ctx context.Context, query dto.ScheduleSlotQuery) ([]models.ScheduleSlot, *models.Pagination, error) {
	filter := models.ScheduleSlotFilter{
		TeacherID:  query.TeacherID,
		CourseID:   query.CourseID,
		DayOfWeek:  query.DayOfWeek,
		ActiveOnly: !query.All,
		Page:       query.Page,
		PageSize:   query.Limit,
	}
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule slots")
	}
	if slots == nil {
		slots = []models.ScheduleSlot{}
	}
	return slots, paginationFor(filter.Page, filter.PageSize, 50, total), nil
}

// Get returns a slot by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}
	return slot, nil
}

// Create adds a slot after checking that neither its teacher nor its course is already busy.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleSlotRequest, actorID string) (result *models.ScheduleSlot, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule slot payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}

	slot := models.ScheduleSlot{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CourseID:  req.CourseID,
		SubjectID: normalizeOptional(req.SubjectID),
		TeacherID: req.TeacherID,
		Room:      normalizeOptional(req.Room),
	}
	if err := s.ensureReferences(ctx, &slot); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, slot); err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.Create(ctx, tx, &slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule slot")
	}
	if err = s.writeAudit(ctx, tx, actorID, models.AuditActionSlotCreate, slot.ID, nil, &slot); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule slot")
	}

	s.cache.Invalidate(ctx, cachePatternTimetableAll)
	return &slot, nil
}

// Deactivate soft-deletes a slot. Existing notifications keep pointing at it.
func (s *ScheduleService) Deactivate(ctx context.Context, id, actorID string) (err error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Active {
		return nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.Deactivate(ctx, tx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrConflict, "schedule slot was already deactivated")
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate schedule slot")
	}
	after := *existing
	after.Active = false
	if err = s.writeAudit(ctx, tx, actorID, models.AuditActionSlotDeactivate, id, existing, &after); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule slot")
	}

	s.cache.Invalidate(ctx, cachePatternTimetableAll)
	return nil
}

func (s *ScheduleService) ensureReferences(ctx context.Context, slot *models.ScheduleSlot) error {
	teacher, err := s.teachers.FindByID(ctx, slot.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	slot.TeacherName = teacher.FullName

	course, err := s.courses.FindByID(ctx, slot.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	slot.CourseName = course.DisplayName()

	if slot.SubjectID != nil {
		subject, err := s.subjects.FindByID(ctx, *slot.SubjectID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "subject not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
		}
		slot.SubjectName = subject.Name
	}
	return nil
}

func (s *ScheduleService) ensureNoConflict(ctx context.Context, slot models.ScheduleSlot) error {
	teacherSlots, err := s.repo.ListByTeacherDay(ctx, slot.TeacherID, slot.DayOfWeek)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	for _, existing := range teacherSlots {
		if existing.ConflictsWith(slot, s.mode) {
			return wrapSlotConflict("TEACHER", "teacher already scheduled for this slot", existing)
		}
	}

	courseSlots, err := s.repo.ListByCourseDay(ctx, slot.CourseID, slot.DayOfWeek)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	for _, existing := range courseSlots {
		if existing.ConflictsWith(slot, s.mode) {
			return wrapSlotConflict("COURSE", "course already has a class in this slot", existing)
		}
	}
	return nil
}

func wrapSlotConflict(conflictType, message string, existing models.ScheduleSlot) error {
	domainErr := &models.ScheduleConflictError{Type: conflictType, Message: message, Conflict: existing}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", message))
}

func (s *ScheduleService) writeAudit(ctx context.Context, exec sqlx.ExtContext, actorID, action, slotID string, before, after *models.ScheduleSlot) error {
	if s.audit == nil {
		return nil
	}
	entry := &models.AuditLog{Action: action, Resource: models.AuditResourceSlot, ResourceID: &slotID}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if before != nil {
		entry.OldValues, _ = json.Marshal(before)
	}
	if after != nil {
		entry.NewValues, _ = json.Marshal(after)
	}
	if err := s.audit.Create(ctx, exec, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write audit log")
	}
	return nil
}
