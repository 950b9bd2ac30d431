package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
)

type teacherDirectory interface {
	ListActive(ctx context.Context, excludeIDs ...string) ([]models.Teacher, error)
}

type slotAvailability interface {
	ListByDay(ctx context.Context, day int) ([]models.ScheduleSlot, error)
}

// SubstituteFinder picks a replacement teacher for a single slot. It is a first-match
// greedy policy: each slot is resolved on its own, without coordinating with other absences.
type SubstituteFinder struct {
	teachers teacherDirectory
	slots    slotAvailability
	mode     models.ConflictMode
	logger   *zap.Logger
}

// NewSubstituteFinder constructs the search engine. An empty mode means start-time conflicts.
func NewSubstituteFinder(teachers teacherDirectory, slots slotAvailability, mode models.ConflictMode, logger *zap.Logger) *SubstituteFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = models.ConflictStartTime
	}
	return &SubstituteFinder{teachers: teachers, slots: slots, mode: mode, logger: logger}
}

// Available returns active teachers, other than the slot's own teacher and exclude,
// who are free at the slot's time. Directory order is preserved.
func (f *SubstituteFinder) Available(ctx context.Context, slot models.ScheduleSlot, exclude ...string) ([]models.Teacher, error) {
	excluded := append([]string{slot.TeacherID}, exclude...)
	pool, err := f.teachers.ListActive(ctx, excluded...)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	candidates := make([]models.Teacher, 0, len(pool))
	for _, teacher := range pool {
		if _, ok := skip[teacher.ID]; ok || !teacher.Active {
			continue
		}
		candidates = append(candidates, teacher)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	daySlots, err := f.slots.ListByDay(ctx, slot.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("load day schedule: %w", err)
	}
	busy := make(map[string]struct{})
	for _, other := range daySlots {
		if !other.Active || other.ID == slot.ID {
			continue
		}
		if slot.ConflictsWith(other, f.mode) {
			busy[other.TeacherID] = struct{}{}
		}
	}

	free := candidates[:0]
	for _, teacher := range candidates {
		if _, ok := busy[teacher.ID]; ok {
			continue
		}
		free = append(free, teacher)
	}
	if len(free) == 0 {
		return nil, nil
	}
	return free, nil
}

// FindSubstitute returns the first free teacher whose specialization matches the slot's
// subject, falling back to the first free teacher. A nil teacher with a nil error means
// nobody is eligible.
func (f *SubstituteFinder) FindSubstitute(ctx context.Context, slot models.ScheduleSlot, exclude ...string) (*models.Teacher, error) {
	free, err := f.Available(ctx, slot, exclude...)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		f.logger.Debug("no substitute available", zap.String("slot_id", slot.ID), zap.Int("day", slot.DayOfWeek), zap.String("start", slot.StartTime))
		return nil, nil
	}

	chosen := free[0]
	if slot.SubjectName != "" {
		for _, teacher := range free {
			if teacher.Specializes(slot.SubjectName) {
				chosen = teacher
				break
			}
		}
	}

	f.logger.Debug("substitute selected",
		zap.String("slot_id", slot.ID),
		zap.String("teacher_id", chosen.ID),
		zap.Bool("specialized", chosen.Specializes(slot.SubjectName)),
	)
	return &chosen, nil
}
