package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/middleware"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
	"github.com/andrino-academy/andrino-api/pkg/response"
)

type availabilityService interface {
	List(ctx context.Context, actor models.Actor, query dto.AvailabilityQuery) (*dto.AvailabilityResponse, bool, error)
	Save(ctx context.Context, actor models.Actor, req dto.SaveAvailabilityRequest) (*dto.SaveAvailabilityResponse, error)
	Confirm(ctx context.Context, actor models.Actor, req dto.ConfirmAvailabilityRequest) (*dto.ConfirmAvailabilityResponse, error)
	SetBooking(ctx context.Context, actor models.Actor, id string, req dto.UpdateBookingRequest) (*models.AvailabilitySlot, error)
	ListForTrack(ctx context.Context, actor models.Actor, query dto.AvailabilityQuery) (*dto.AvailabilityResponse, error)
	Export(ctx context.Context, actor models.Actor, query dto.ExportAvailabilityQuery) (*dto.ExportFile, error)
}

// AvailabilityHandler exposes the instructor availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// List godoc
// @Summary Get the caller's availability for a track week
// @Tags Availability
// @Produce json
// @Param trackId query string true "Track ID"
// @Param weekStartDate query string true "Any date of the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.AvailabilityResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	res, cacheHit, err := h.service.List(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}

// Save godoc
// @Summary Replace the caller's unconfirmed availability for a track week
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.SaveAvailabilityRequest true "Selected unit slots"
// @Success 200 {object} response.Envelope{data=dto.SaveAvailabilityResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/availability [post]
func (h *AvailabilityHandler) Save(c *gin.Context) {
	var req dto.SaveAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid payload"))
		return
	}

	res, err := h.service.Save(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Confirm godoc
// @Summary Lock every unconfirmed slot of the caller's track week
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.ConfirmAvailabilityRequest true "Week to confirm"
// @Success 200 {object} response.Envelope{data=dto.ConfirmAvailabilityResponse}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /instructor/availability/confirm [put]
func (h *AvailabilityHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid payload"))
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// SetBooking godoc
// @Summary Mark an availability slot booked or free
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Availability ID"
// @Param payload body dto.UpdateBookingRequest true "Booking flag"
// @Success 200 {object} response.Envelope{data=dto.BookingResponse}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructor/availability/{id}/booking [put]
func (h *AvailabilityHandler) SetBooking(c *gin.Context) {
	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid payload"))
		return
	}

	slot, err := h.service.SetBooking(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BookingResponse{Availability: *slot}, nil)
}

// ListForTrack godoc
// @Summary Get the assigned instructor's availability for a track week
// @Tags Availability
// @Produce json
// @Param trackId query string true "Track ID"
// @Param weekStartDate query string true "Any date of the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.AvailabilityResponse}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) ListForTrack(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	res, err := h.service.ListForTrack(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Export godoc
// @Summary Download a track week as CSV or PDF
// @Tags Availability
// @Produce text/csv
// @Produce application/pdf
// @Param trackId query string true "Track ID"
// @Param weekStartDate query string true "Any date of the week (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /availability/export [get]
func (h *AvailabilityHandler) Export(c *gin.Context) {
	var query dto.ExportAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	file, err := h.service.Export(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
