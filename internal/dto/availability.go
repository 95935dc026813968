package dto

import "github.com/andrino-academy/andrino-api/internal/models"

// AvailabilityQuery selects one instructor week of a track.
type AvailabilityQuery struct {
	TrackID       string `form:"trackId" json:"trackId" validate:"required"`
	WeekStartDate string `form:"weekStartDate" json:"weekStartDate" validate:"required"`
}

// SaveAvailabilityRequest replaces the caller's unconfirmed selection.
type SaveAvailabilityRequest struct {
	TrackID       string             `json:"trackId" validate:"required"`
	WeekStartDate string             `json:"weekStartDate" validate:"required"`
	Slots         []models.SlotInput `json:"slots" validate:"dive"`
}

// ConfirmAvailabilityRequest locks the week. ETag is optional; when present
// the confirm only applies if the rows still match it.
type ConfirmAvailabilityRequest struct {
	TrackID       string `json:"trackId" validate:"required"`
	WeekStartDate string `json:"weekStartDate" validate:"required"`
	ETag          string `json:"etag,omitempty"`
}

// UpdateBookingRequest sets the booking flag of a single row.
type UpdateBookingRequest struct {
	IsBooked *bool `json:"isBooked" validate:"required"`
}

// ExportAvailabilityQuery selects the week and document format to export.
type ExportAvailabilityQuery struct {
	TrackID       string `form:"trackId" validate:"required"`
	WeekStartDate string `form:"weekStartDate" validate:"required"`
	Format        string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// AvailabilityResponse is the read-back of one week.
type AvailabilityResponse struct {
	Availability  []models.AvailabilitySlot `json:"availability"`
	WeekStartDate string                    `json:"weekStartDate"`
	ETag          string                    `json:"etag"`
}

// SaveAvailabilityResponse reports what a save changed.
type SaveAvailabilityResponse struct {
	Message string `json:"message"`
	models.SaveResult
}

// ConfirmAvailabilityResponse reports how many rows were locked.
type ConfirmAvailabilityResponse struct {
	Message        string `json:"message"`
	ConfirmedCount int64  `json:"confirmedCount"`
}

// BookingResponse returns the updated row.
type BookingResponse struct {
	Availability models.AvailabilitySlot `json:"availability"`
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
