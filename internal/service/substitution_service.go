package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"

	// maxAbsencePeriodDays bounds a single period report.
	maxAbsencePeriodDays = 62

	triggerReport = "report"
	triggerReject = "reject"
	triggerRetry  = "retry"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type substituteSearch interface {
	FindSubstitute(ctx context.Context, slot models.ScheduleSlot, exclude ...string) (*models.Teacher, error)
	Available(ctx context.Context, slot models.ScheduleSlot, exclude ...string) ([]models.Teacher, error)
}

type absenceSchedule interface {
	ListByTeacherDay(ctx context.Context, teacherID string, day int) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
}

type teacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type replacementLedger interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, notifications []models.ReplacementNotification) error
	GetForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ReplacementNotification, error)
	UpdateAssignment(ctx context.Context, exec sqlx.ExtContext, n *models.ReplacementNotification) error
	GetDetail(ctx context.Context, id string) (*models.ReplacementDetail, error)
	List(ctx context.Context, filter models.ReplacementFilter) ([]models.ReplacementDetail, int, error)
}

type auditWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, log *models.AuditLog) error
}

type replacementPublisher interface {
	Publish(ctx context.Context, event models.ReplacementEvent)
}

// SubstitutionConfig tunes lifecycle behaviour.
type SubstitutionConfig struct {
	// RejectExcludesCurrent keeps a rejected substitute out of the re-run search.
	RejectExcludesCurrent bool
}

// SubstitutionService reports absences and drives replacement notifications through
// their lifecycle. Each public operation runs in a single transaction.
type SubstitutionService struct {
	tx        txProvider
	finder    substituteSearch
	schedule  absenceSchedule
	teachers  teacherLookup
	ledger    replacementLedger
	audit     auditWriter
	publisher replacementPublisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SubstitutionConfig
	now       func() time.Time
}

// SubstitutionServiceOption configures optional collaborators.
type SubstitutionServiceOption func(*SubstitutionService)

// WithReplacementPublisher sets where committed changes are announced.
func WithReplacementPublisher(p replacementPublisher) SubstitutionServiceOption {
	return func(s *SubstitutionService) {
		s.publisher = p
	}
}

func WithSubstitutionMetrics(m *MetricsService) SubstitutionServiceOption {
	return func(s *SubstitutionService) {
		s.metrics = m
	}
}

// WithSubstitutionClock overrides time.Now, mostly for tests.
func WithSubstitutionClock(now func() time.Time) SubstitutionServiceOption {
	return func(s *SubstitutionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSubstitutionService constructs the lifecycle controller.
func NewSubstitutionService(
	tx txProvider,
	finder substituteSearch,
	schedule absenceSchedule,
	teachers teacherLookup,
	ledger replacementLedger,
	audit auditWriter,
	cfg SubstitutionConfig,
	validate *validator.Validate,
	logger *zap.Logger,
	opts ...SubstitutionServiceOption,
) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SubstitutionService{
		tx:        tx,
		finder:    finder,
		schedule:  schedule,
		teachers:  teachers,
		ledger:    ledger,
		audit:     audit,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// ReportAbsence creates one notification per active slot the teacher has on the
// weekday of date. A day without classes yields an empty list and writes nothing.
func (s *SubstitutionService) ReportAbsence(ctx context.Context, req dto.ReportAbsenceRequest, actorID string) ([]models.ReplacementNotification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	date, err := parseDate(req.AbsenceDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	notifications, err := s.buildNotifications(ctx, req.TeacherID, date, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, notifications, actorID); err != nil {
		return nil, err
	}

	s.logger.Info("absence reported",
		zap.String("teacher_id", req.TeacherID),
		zap.String("absence_date", date.Format(dateLayout)),
		zap.Int("notifications", len(notifications)),
	)
	return notifications, nil
}

// ReportAbsencePeriod reports every school day between From and To inclusive in one batch.
func (s *SubstitutionService) ReportAbsencePeriod(ctx context.Context, req dto.ReportAbsencePeriodRequest, actorID string) ([]models.ReplacementNotification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence period payload")
	}
	from, err := parseDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(req.To)
	if err != nil {
		return nil, err
	}
	days, err := schoolDays(from, to)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	notifications := make([]models.ReplacementNotification, 0)
	for _, day := range days {
		batch, err := s.buildNotifications(ctx, req.TeacherID, day, req.Reason)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, batch...)
	}
	if err := s.persist(ctx, notifications, actorID); err != nil {
		return nil, err
	}

	s.logger.Info("absence period reported",
		zap.String("teacher_id", req.TeacherID),
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int("school_days", len(days)),
		zap.Int("notifications", len(notifications)),
	)
	return notifications, nil
}

// Confirm accepts the proposed substitute. Confirming a confirmed notification returns it unchanged.
func (s *SubstitutionService) Confirm(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error) {
	return s.mutate(ctx, id, actorID, func(ctx context.Context, n *models.ReplacementNotification, now time.Time) (*transition, error) {
		changed, err := n.Confirm(now)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "replacement cannot be confirmed")
		}
		if !changed {
			return nil, nil
		}
		return &transition{action: models.AuditActionReplacementConfirm, event: models.EventReplacementConfirmed}, nil
	})
}

// Reject discards the current proposal and searches again for the original slot.
// The notification ends pending with a new substitute or unassignable.
func (s *SubstitutionService) Reject(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error) {
	return s.mutate(ctx, id, actorID, func(ctx context.Context, n *models.ReplacementNotification, now time.Time) (*transition, error) {
		var exclude []string
		if s.cfg.RejectExcludesCurrent && n.SubstituteTeacherID != nil {
			exclude = append(exclude, *n.SubstituteTeacherID)
		}
		return s.reassign(ctx, n, now, triggerReject, exclude)
	})
}

// Retry re-runs the search for a rejected or unassignable notification, for example
// after more teachers were activated.
func (s *SubstitutionService) Retry(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error) {
	return s.mutate(ctx, id, actorID, func(ctx context.Context, n *models.ReplacementNotification, now time.Time) (*transition, error) {
		if n.Status != models.ReplacementRejected && n.Status != models.ReplacementUnassignable {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("only rejected or unassignable replacements can be retried, got %s", n.Status))
		}
		return s.reassign(ctx, n, now, triggerRetry, nil)
	})
}

// Respond records the proposed substitute's answer. Accepting confirms; declining
// rejects and never proposes the same teacher again.
func (s *SubstitutionService) Respond(ctx context.Context, id, teacherID string, req dto.RespondReplacementRequest) (*models.ReplacementNotification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	return s.mutate(ctx, id, teacherID, func(ctx context.Context, n *models.ReplacementNotification, now time.Time) (*transition, error) {
		if !n.IsSubstitute(teacherID) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "replacement is not assigned to you")
		}
		if n.Status != models.ReplacementPending {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("replacement is %s", n.Status))
		}
		n.AppendResponse(req.Message)

		if *req.Accept {
			if _, err := n.Confirm(now); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "replacement cannot be confirmed")
			}
			return &transition{action: models.AuditActionReplacementRespond, event: models.EventReplacementConfirmed}, nil
		}

		t, err := s.reassign(ctx, n, now, triggerReject, []string{teacherID})
		if err != nil {
			return nil, err
		}
		t.action = models.AuditActionReplacementRespond
		return t, nil
	})
}

// Get returns a notification with its slot and teacher names.
func (s *SubstitutionService) Get(ctx context.Context, id string) (*models.ReplacementDetail, error) {
	detail, err := s.ledger.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "replacement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load replacement")
	}
	return detail, nil
}

// List returns ledger entries newest first.
func (s *SubstitutionService) List(ctx context.Context, query dto.ReplacementQuery) ([]models.ReplacementDetail, *models.Pagination, error) {
	filter, err := replacementFilterFromQuery(query)
	if err != nil {
		return nil, nil, err
	}
	items, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list replacements")
	}
	if items == nil {
		items = []models.ReplacementDetail{}
	}
	return items, paginationFor(filter.Page, filter.PageSize, 50, total), nil
}

// Inbox lists the notifications where teacherID is the proposed or confirmed substitute.
func (s *SubstitutionService) Inbox(ctx context.Context, teacherID string, query dto.ReplacementQuery) ([]models.ReplacementDetail, *models.Pagination, error) {
	query.TeacherID = ""
	filter, err := replacementFilterFromQuery(query)
	if err != nil {
		return nil, nil, err
	}
	filter.SubstituteTeacherID = teacherID
	items, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list replacements")
	}
	if items == nil {
		items = []models.ReplacementDetail{}
	}
	return items, paginationFor(filter.Page, filter.PageSize, 50, total), nil
}

// FindForSlot runs the search engine for a slot without writing anything.
func (s *SubstitutionService) FindForSlot(ctx context.Context, slotID string) (*dto.SlotSubstitutePreview, error) {
	slot, err := s.schedule.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}
	candidates, err := s.finder.Available(ctx, *slot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search substitutes")
	}
	substitute, err := s.finder.FindSubstitute(ctx, *slot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search substitutes")
	}
	if candidates == nil {
		candidates = []models.Teacher{}
	}
	return &dto.SlotSubstitutePreview{Slot: *slot, Substitute: substitute, Candidates: candidates}, nil
}

func (s *SubstitutionService) ensureTeacher(ctx context.Context, teacherID string) error {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return nil
}

func (s *SubstitutionService) buildNotifications(ctx context.Context, teacherID string, date time.Time, reason string) ([]models.ReplacementNotification, error) {
	day := models.ISOWeekday(date)
	if !models.IsSchoolDay(day) {
		return []models.ReplacementNotification{}, nil
	}
	slots, err := s.schedule.ListByTeacherDay(ctx, teacherID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedule")
	}

	now := s.now()
	notifications := make([]models.ReplacementNotification, 0, len(slots))
	for _, slot := range slots {
		substitute, err := s.finder.FindSubstitute(ctx, slot)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search substitutes")
		}
		s.metrics.RecordSearch(triggerReport, substitute != nil)

		n := models.NewReplacement(uuid.NewString(), slot, date, substitute, reason, now)
		// The ledger row names the reported teacher even if the slot changed hands.
		n.AbsentTeacherID = teacherID
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (s *SubstitutionService) persist(ctx context.Context, notifications []models.ReplacementNotification, actorID string) (err error) {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if vErr := n.Validate(); vErr != nil {
			return appErrors.Wrap(vErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "inconsistent replacement notification")
		}
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

	if err = s.ledger.CreateBatch(ctx, tx, notifications); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store replacement notifications")
		return err
	}
	for i := range notifications {
		if err = s.writeAudit(ctx, tx, actorID, models.AuditActionReplacementCreate, nil, &notifications[i]); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit replacement notifications")
		return err
	}

	now := s.now()
	for _, n := range notifications {
		s.metrics.RecordTransition(string(n.Status))
		s.publish(ctx, models.EventFor(n, models.EventReplacementCreated, now))
	}
	return nil
}

// transition describes a committed lifecycle change.
type transition struct {
	action string
	event  string
}

type mutation func(ctx context.Context, n *models.ReplacementNotification, now time.Time) (*transition, error)

// mutate locks the notification, applies fn and persists the result with a version
// check. A nil transition from fn means nothing changed and nothing is written.
func (s *SubstitutionService) mutate(ctx context.Context, id, actorID string, fn mutation) (result *models.ReplacementNotification, err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	n, err := s.ledger.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "replacement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load replacement")
	}
	before := *n

	now := s.now()
	t, err := fn(ctx, n, now)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return n, nil
	}
	if vErr := n.Validate(); vErr != nil {
		return nil, appErrors.Wrap(vErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "inconsistent replacement notification")
	}

	if err = s.ledger.UpdateAssignment(ctx, tx, n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "replacement was modified concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update replacement")
	}
	if err = s.writeAudit(ctx, tx, actorID, t.action, &before, n); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit replacement")
	}
	committed = true

	s.metrics.RecordTransition(string(n.Status))
	s.publish(ctx, models.EventFor(*n, t.event, now))
	s.logger.Info("replacement transitioned",
		zap.String("notification_id", n.ID),
		zap.String("action", t.action),
		zap.String("from", string(before.Status)),
		zap.String("to", string(n.Status)),
		zap.Stringp("substitute_teacher_id", n.SubstituteTeacherID),
	)
	return n, nil
}

// reassign marks n rejected and re-runs the search against its original slot.
func (s *SubstitutionService) reassign(ctx context.Context, n *models.ReplacementNotification, now time.Time, trigger string, exclude []string) (*transition, error) {
	if err := n.MarkRejected(now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "replacement cannot be rejected")
	}

	slot, err := s.schedule.FindByID(ctx, n.ScheduleSlotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}

	exclude = append(exclude, n.AbsentTeacherID)
	substitute, err := s.finder.FindSubstitute(ctx, *slot, exclude...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search substitutes")
	}
	s.metrics.RecordSearch(trigger, substitute != nil)

	if err := n.Reassign(substitute, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign replacement")
	}
	if substitute == nil {
		return &transition{action: models.AuditActionReplacementUnassigned, event: models.EventReplacementUnassignable}, nil
	}
	return &transition{action: models.AuditActionReplacementReassign, event: models.EventReplacementReassigned}, nil
}

func (s *SubstitutionService) writeAudit(ctx context.Context, exec sqlx.ExtContext, actorID, action string, before, after *models.ReplacementNotification) error {
	if s.audit == nil {
		return nil
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   models.AuditResourceReplacement,
		ResourceID: &after.ID,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if before != nil {
		entry.OldValues = auditSnapshot(*before)
	}
	entry.NewValues = auditSnapshot(*after)
	if err := s.audit.Create(ctx, exec, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write audit log")
	}
	return nil
}

func (s *SubstitutionService) publish(ctx context.Context, event models.ReplacementEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, event)
}

func auditSnapshot(n models.ReplacementNotification) []byte {
	payload, err := json.Marshal(map[string]interface{}{
		"status":                n.Status,
		"substitute_teacher_id": n.SubstituteTeacherID,
		"version":               n.Version,
	})
	if err != nil {
		return nil
	}
	return payload
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return date, nil
}

// schoolDays expands [from, to] into its Monday to Friday dates.
func schoolDays(from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period end must not be before its start")
	}
	if to.Sub(from) > maxAbsencePeriodDays*24*time.Hour {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period cannot exceed %d days", maxAbsencePeriodDays))
	}
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   from,
		Until:     to,
		Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence period")
	}
	return rule.All(), nil
}

func replacementFilterFromQuery(query dto.ReplacementQuery) (models.ReplacementFilter, error) {
	filter := models.ReplacementFilter{
		AbsentTeacherID: query.TeacherID,
		CourseID:        query.CourseID,
		Page:            query.Page,
		PageSize:        query.Limit,
	}
	if query.Status != "" {
		status := models.ReplacementStatus(query.Status)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", query.Status))
		}
		filter.Status = status
	}
	if query.Date != "" {
		date, err := parseDate(query.Date)
		if err != nil {
			return filter, err
		}
		filter.AbsenceDate = &date
	}
	if query.From != "" {
		from, err := parseDate(query.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	return filter, nil
}

func paginationFor(page, size, defaultSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
