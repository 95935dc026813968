package dto

import "github.com/andrino-academy/andrino-api/internal/models"

// TrackListQuery filters the track listing.
type TrackListQuery struct {
	Mine        bool `form:"mine"`
	IncludeIdle bool `form:"includeInactive"`
}

// TrackListResponse wraps a track listing.
type TrackListResponse struct {
	Tracks []models.Track `json:"tracks"`
}
