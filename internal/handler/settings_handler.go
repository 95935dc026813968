package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
	"github.com/andrino-academy/andrino-api/pkg/response"
)

type settingsService interface {
	Get(ctx context.Context) (*models.ScheduleSettings, error)
	Update(ctx context.Context, actor models.Actor, req dto.UpdateScheduleSettingsRequest) (*models.ScheduleSettings, error)
}

// SettingsHandler exposes the schedule settings.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds a new handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get godoc
// @Summary Get schedule settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.ScheduleSettingsResponse}
// @Router /settings/schedule [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ScheduleSettingsResponse{Settings: *settings}, nil)
}

// Update godoc
// @Summary Update schedule settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body dto.UpdateScheduleSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope{data=dto.ScheduleSettingsResponse}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /settings/schedule [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid payload"))
		return
	}

	settings, err := h.service.Update(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ScheduleSettingsResponse{Settings: *settings}, nil)
}
