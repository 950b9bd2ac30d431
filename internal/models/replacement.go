package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReplacementStatus is the lifecycle state of a replacement notification.
type ReplacementStatus string

const (
	ReplacementPending      ReplacementStatus = "PENDING"
	ReplacementConfirmed    ReplacementStatus = "CONFIRMED"
	ReplacementRejected     ReplacementStatus = "REJECTED"
	ReplacementUnassignable ReplacementStatus = "UNASSIGNABLE"
)

// Valid reports whether s is a known status.
func (s ReplacementStatus) Valid() bool {
	switch s {
	case ReplacementPending, ReplacementConfirmed, ReplacementRejected, ReplacementUnassignable:
		return true
	}
	return false
}

var (
	// ErrReplacementTransition is returned when the requested transition is not defined for the current status.
	ErrReplacementTransition = errors.New("replacement transition not allowed")
	// ErrReplacementInvariant is returned when status and substitute disagree.
	ErrReplacementInvariant = errors.New("replacement substitute inconsistent with status")
)

const (
	dateLayout            = "2006-01-02"
	substituteReplyPrefix = "Substitute response: "
)

// ReplacementNotification records the substitute proposal for one slot on one absence date.
// Rows are never deleted; they accumulate as history.
type ReplacementNotification struct {
	ID                  string            `db:"id" json:"id"`
	ScheduleSlotID      string            `db:"schedule_slot_id" json:"schedule_slot_id"`
	AbsentTeacherID     string            `db:"absent_teacher_id" json:"absent_teacher_id"`
	SubstituteTeacherID *string           `db:"substitute_teacher_id" json:"substitute_teacher_id,omitempty"`
	AbsenceDate         time.Time         `db:"absence_date" json:"absence_date"`
	Status              ReplacementStatus `db:"status" json:"status"`
	Reason              string            `db:"reason" json:"reason,omitempty"`
	Message             string            `db:"message" json:"message"`
	CreatedAt           time.Time         `db:"created_at" json:"created_at"`
	RespondedAt         *time.Time        `db:"responded_at" json:"responded_at,omitempty"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updated_at"`
	Version             int               `db:"version" json:"version"`
}

// NewReplacement builds the ledger row for slot. A nil substitute yields an unassignable row.
func NewReplacement(id string, slot ScheduleSlot, absenceDate time.Time, substitute *Teacher, reason string, now time.Time) ReplacementNotification {
	n := ReplacementNotification{
		ID:              id,
		ScheduleSlotID:  slot.ID,
		AbsentTeacherID: slot.TeacherID,
		AbsenceDate:     absenceDate,
		Status:          ReplacementUnassignable,
		Reason:          strings.TrimSpace(reason),
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}
	n.Message = n.Reason
	if n.Message == "" {
		n.Message = fmt.Sprintf("Absence reported for %s", absenceDate.Format(dateLayout))
	}
	if substitute != nil {
		subID := substitute.ID
		n.SubstituteTeacherID = &subID
		n.Status = ReplacementPending
	}
	return n
}

// Validate checks the status/substitute invariant.
func (n ReplacementNotification) Validate() error {
	switch n.Status {
	case ReplacementPending, ReplacementConfirmed:
		if n.SubstituteTeacherID == nil || *n.SubstituteTeacherID == "" {
			return fmt.Errorf("%w: %s requires a substitute", ErrReplacementInvariant, n.Status)
		}
	case ReplacementUnassignable:
		if n.SubstituteTeacherID != nil {
			return fmt.Errorf("%w: %s must not carry a substitute", ErrReplacementInvariant, n.Status)
		}
	case ReplacementRejected:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrReplacementInvariant, n.Status)
	}
	return nil
}

// Confirm moves a pending row to confirmed. Confirming an already confirmed row
// reports changed=false and leaves it untouched.
func (n *ReplacementNotification) Confirm(now time.Time) (changed bool, err error) {
	switch n.Status {
	case ReplacementConfirmed:
		return false, nil
	case ReplacementPending:
		n.Status = ReplacementConfirmed
		n.RespondedAt = &now
		n.UpdatedAt = now
		return true, nil
	default:
		return false, fmt.Errorf("%w: cannot confirm %s", ErrReplacementTransition, n.Status)
	}
}

// MarkRejected is the transient step before Reassign. Confirmed rows are terminal.
func (n *ReplacementNotification) MarkRejected(now time.Time) error {
	switch n.Status {
	case ReplacementPending:
		n.RespondedAt = &now
	case ReplacementRejected, ReplacementUnassignable:
	default:
		return fmt.Errorf("%w: cannot reject %s", ErrReplacementTransition, n.Status)
	}
	n.Status = ReplacementRejected
	n.UpdatedAt = now
	return nil
}

// Reassign resolves a rejected row: pending with the new substitute, or unassignable when nil.
func (n *ReplacementNotification) Reassign(substitute *Teacher, now time.Time) error {
	if n.Status != ReplacementRejected {
		return fmt.Errorf("%w: reassign requires %s, got %s", ErrReplacementTransition, ReplacementRejected, n.Status)
	}
	if substitute == nil {
		n.Status = ReplacementUnassignable
		n.SubstituteTeacherID = nil
	} else {
		subID := substitute.ID
		n.Status = ReplacementPending
		n.SubstituteTeacherID = &subID
	}
	n.UpdatedAt = now
	return nil
}

// AppendResponse records a substitute's reply below the existing message.
func (n *ReplacementNotification) AppendResponse(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n.Message == "" {
		n.Message = substituteReplyPrefix + text
		return
	}
	n.Message += "\n\n" + substituteReplyPrefix + text
}

// IsSubstitute reports whether teacherID is the currently proposed substitute.
func (n ReplacementNotification) IsSubstitute(teacherID string) bool {
	return n.SubstituteTeacherID != nil && *n.SubstituteTeacherID == teacherID
}

// ReplacementDetail joins a notification with its slot and the people involved.
type ReplacementDetail struct {
	ReplacementNotification
	DayOfWeek      int     `db:"day_of_week" json:"day_of_week"`
	StartTime      string  `db:"start_time" json:"start_time"`
	EndTime        string  `db:"end_time" json:"end_time"`
	CourseID       string  `db:"course_id" json:"course_id"`
	CourseName     string  `db:"course_name" json:"course_name"`
	SubjectName    string  `db:"subject_name" json:"subject_name"`
	AbsentTeacher  string  `db:"absent_teacher_name" json:"absent_teacher_name"`
	SubstituteName *string `db:"substitute_teacher_name" json:"substitute_teacher_name,omitempty"`
}

// ReplacementFilter narrows ledger queries. Zero values are ignored.
type ReplacementFilter struct {
	Status              ReplacementStatus
	AbsenceDate         *time.Time
	From                *time.Time
	AbsentTeacherID     string
	SubstituteTeacherID string
	CourseID            string
	Page                int
	PageSize            int
}

// Replacement event types published after commit.
const (
	EventReplacementCreated      = "replacement.created"
	EventReplacementConfirmed    = "replacement.confirmed"
	EventReplacementReassigned   = "replacement.reassigned"
	EventReplacementUnassignable = "replacement.unassignable"
)

// ReplacementEvent is the payload handed to external delivery collaborators.
type ReplacementEvent struct {
	Type                string            `json:"type"`
	NotificationID      string            `json:"notification_id"`
	ScheduleSlotID      string            `json:"schedule_slot_id"`
	AbsentTeacherID     string            `json:"absent_teacher_id"`
	SubstituteTeacherID *string           `json:"substitute_teacher_id,omitempty"`
	AbsenceDate         string            `json:"absence_date"`
	Status              ReplacementStatus `json:"status"`
	OccurredAt          time.Time         `json:"occurred_at"`
}

// EventFor derives the event describing n's current status.
func EventFor(n ReplacementNotification, eventType string, now time.Time) ReplacementEvent {
	return ReplacementEvent{
		Type:                eventType,
		NotificationID:      n.ID,
		ScheduleSlotID:      n.ScheduleSlotID,
		AbsentTeacherID:     n.AbsentTeacherID,
		SubstituteTeacherID: n.SubstituteTeacherID,
		AbsenceDate:         n.AbsenceDate.Format(dateLayout),
		Status:              n.Status,
		OccurredAt:          now,
	}
}
