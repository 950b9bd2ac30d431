package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// ReportAbsenceRequest is submitted when a teacher will miss a school day.
type ReportAbsenceRequest struct {
	TeacherID   string `json:"teacherId" validate:"required"`
	AbsenceDate string `json:"absenceDate" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"max=300"`
}

// ReportAbsencePeriodRequest covers an inclusive range of dates.
type ReportAbsencePeriodRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	From      string `json:"from" validate:"required,datetime=2006-01-02"`
	To        string `json:"to" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=300"`
}

// RespondReplacementRequest is the substitute's answer to a proposal.
type RespondReplacementRequest struct {
	Accept  *bool  `json:"accept" validate:"required"`
	Message string `json:"message" validate:"max=300"`
}

// ReplacementQuery mirrors the ledger listing filters.
type ReplacementQuery struct {
	Status    string `form:"status"`
	Date      string `form:"date"`
	From      string `form:"from"`
	TeacherID string `form:"teacherId"`
	CourseID  string `form:"courseId"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// SlotSubstitutePreview is the ad hoc search result for one slot.
type SlotSubstitutePreview struct {
	Slot       models.ScheduleSlot `json:"slot"`
	Substitute *models.Teacher     `json:"substitute"`
	Candidates []models.Teacher    `json:"candidates"`
}

// AbsenceReportResult summarises a report for callers that show a count.
type AbsenceReportResult struct {
	Notifications []models.ReplacementNotification `json:"notifications"`
	Total         int                              `json:"total"`
	Assigned      int                              `json:"assigned"`
}

// NewAbsenceReportResult counts how many notifications already carry a substitute.
func NewAbsenceReportResult(notifications []models.ReplacementNotification) AbsenceReportResult {
	if notifications == nil {
		notifications = []models.ReplacementNotification{}
	}
	result := AbsenceReportResult{Notifications: notifications, Total: len(notifications)}
	for _, n := range notifications {
		if n.SubstituteTeacherID != nil {
			result.Assigned++
		}
	}
	return result
}
