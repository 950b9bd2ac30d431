package models

import "time"

const (
	AuditActionReplacementCreate     = "REPLACEMENT_CREATE"
	AuditActionReplacementConfirm    = "REPLACEMENT_CONFIRM"
	AuditActionReplacementReject     = "REPLACEMENT_REJECT"
	AuditActionReplacementReassign   = "REPLACEMENT_REASSIGN"
	AuditActionReplacementUnassigned = "REPLACEMENT_UNASSIGNABLE"
	AuditActionReplacementRespond    = "REPLACEMENT_RESPOND"
	AuditActionSlotCreate            = "SLOT_CREATE"
	AuditActionSlotDeactivate        = "SLOT_DEACTIVATE"
	AuditActionTeacherCreate         = "TEACHER_CREATE"
	AuditActionTeacherUpdate         = "TEACHER_UPDATE"
)

const (
	AuditResourceReplacement = "replacement_notification"
	AuditResourceSlot        = "schedule_slot"
	AuditResourceTeacher     = "teacher"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
