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

type trackService interface {
	List(ctx context.Context, actor models.Actor, query dto.TrackListQuery) ([]models.Track, error)
	Get(ctx context.Context, id string) (*models.Track, error)
}

// TrackHandler exposes read-only track endpoints.
type TrackHandler struct {
	service trackService
}

// NewTrackHandler builds a new handler.
func NewTrackHandler(service trackService) *TrackHandler {
	return &TrackHandler{service: service}
}

// List godoc
// @Summary List tracks
// @Tags Tracks
// @Produce json
// @Param mine query bool false "Only tracks assigned to the caller"
// @Param includeInactive query bool false "Include inactive tracks"
// @Success 200 {object} response.Envelope{data=dto.TrackListResponse}
// @Router /tracks [get]
func (h *TrackHandler) List(c *gin.Context) {
	var query dto.TrackListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	tracks, err := h.service.List(c.Request.Context(), actorFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TrackListResponse{Tracks: tracks}, nil)
}

// Get godoc
// @Summary Get a track
// @Tags Tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} response.Envelope{data=models.Track}
// @Failure 404 {object} response.Envelope
// @Router /tracks/{id} [get]
func (h *TrackHandler) Get(c *gin.Context) {
	track, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, track, nil)
}
