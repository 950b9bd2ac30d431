package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type substitutionService interface {
	ReportAbsence(ctx context.Context, req dto.ReportAbsenceRequest, actorID string) ([]models.ReplacementNotification, error)
	ReportAbsencePeriod(ctx context.Context, req dto.ReportAbsencePeriodRequest, actorID string) ([]models.ReplacementNotification, error)
	Confirm(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error)
	Reject(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error)
	Retry(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error)
	Respond(ctx context.Context, id, teacherID string, req dto.RespondReplacementRequest) (*models.ReplacementNotification, error)
	Get(ctx context.Context, id string) (*models.ReplacementDetail, error)
	List(ctx context.Context, query dto.ReplacementQuery) ([]models.ReplacementDetail, *models.Pagination, error)
	Inbox(ctx context.Context, teacherID string, query dto.ReplacementQuery) ([]models.ReplacementDetail, *models.Pagination, error)
	FindForSlot(ctx context.Context, slotID string) (*dto.SlotSubstitutePreview, error)
}

// SubstitutionHandler exposes absence reporting and the replacement lifecycle.
type SubstitutionHandler struct {
	service substitutionService
}

// NewSubstitutionHandler constructs the handler.
func NewSubstitutionHandler(service substitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: service}
}

// ReportAbsence godoc
// @Summary Report a teacher absence
// @Description Creates one replacement notification per class the teacher has on that weekday.
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.ReportAbsenceRequest true "Absence"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /absences [post]
func (h *SubstitutionHandler) ReportAbsence(c *gin.Context) {
	var req dto.ReportAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	notifications, err := h.service.ReportAbsence(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAbsenceReportResult(notifications))
}

// ReportAbsencePeriod godoc
// @Summary Report an absence spanning several days
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.ReportAbsencePeriodRequest true "Absence period"
// @Success 201 {object} response.Envelope
// @Router /absences/period [post]
func (h *SubstitutionHandler) ReportAbsencePeriod(c *gin.Context) {
	var req dto.ReportAbsencePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence period payload"))
		return
	}
	notifications, err := h.service.ReportAbsencePeriod(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAbsenceReportResult(notifications))
}

// Confirm godoc
// @Summary Confirm the proposed substitute
// @Tags Substitutions
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /replacements/{id}/confirm [post]
func (h *SubstitutionHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// Reject godoc
// @Summary Reject the proposed substitute and search again
// @Tags Substitutions
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /replacements/{id}/reject [post]
func (h *SubstitutionHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Retry godoc
// @Summary Search again for a rejected or unassignable notification
// @Tags Substitutions
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /replacements/{id}/retry [post]
func (h *SubstitutionHandler) Retry(c *gin.Context) {
	h.transition(c, h.service.Retry)
}

func (h *SubstitutionHandler) transition(c *gin.Context, fn func(ctx context.Context, id, actorID string) (*models.ReplacementNotification, error)) {
	notification, err := fn(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}

// List godoc
// @Summary List replacement notifications
// @Tags Substitutions
// @Produce json
// @Param status query string false "PENDING, CONFIRMED, REJECTED or UNASSIGNABLE"
// @Param date query string false "Absence date (YYYY-MM-DD)"
// @Param from query string false "Absence date lower bound (YYYY-MM-DD)"
// @Param teacherId query string false "Absent teacher"
// @Param courseId query string false "Course"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /replacements [get]
func (h *SubstitutionHandler) List(c *gin.Context) {
	var query dto.ReplacementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a replacement notification
// @Tags Substitutions
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /replacements/{id} [get]
func (h *SubstitutionHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// FindForSlot godoc
// @Summary Preview the substitute the engine would pick for a slot
// @Tags Substitutions
// @Produce json
// @Param id path string true "Schedule slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id}/substitute [get]
func (h *SubstitutionHandler) FindForSlot(c *gin.Context) {
	preview, err := h.service.FindForSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Inbox godoc
// @Summary List replacements proposed to the calling teacher
// @Tags Substitute Inbox
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /me/replacements [get]
func (h *SubstitutionHandler) Inbox(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.ReplacementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	items, pagination, err := h.service.Inbox(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Respond godoc
// @Summary Accept or decline a proposed replacement
// @Tags Substitute Inbox
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Param payload body dto.RespondReplacementRequest true "Answer"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /me/replacements/{id}/respond [post]
func (h *SubstitutionHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RespondReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}
	notification, err := h.service.Respond(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notification, nil)
}
