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

type scheduleService interface {
	List(ctx context.Context, query dto.ScheduleSlotQuery) ([]models.ScheduleSlot, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Create(ctx context.Context, req dto.CreateScheduleSlotRequest, actorID string) (*models.ScheduleSlot, error)
	Deactivate(ctx context.Context, id, actorID string) error
}

// ScheduleHandler maintains weekly schedule slots.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary List schedule slots
// @Tags Schedule
// @Produce json
// @Param teacherId query string false "Teacher ID"
// @Param courseId query string false "Course ID"
// @Param dayOfWeek query int false "ISO weekday 1-5"
// @Param all query bool false "Include inactive slots"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleSlotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	slots, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}

// Get godoc
// @Summary Get a schedule slot
// @Tags Schedule
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule-slots/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	slot, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Create godoc
// @Summary Create a schedule slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule-slots [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule slot payload"))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Deactivate godoc
// @Summary Deactivate a schedule slot
// @Tags Schedule
// @Param id path string true "Slot ID"
// @Success 204
// @Router /schedule-slots/{id} [delete]
func (h *ScheduleHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
