package dto

import "github.com/andrino-academy/andrino-api/internal/models"

// UpdateScheduleSettingsRequest changes the weekday that starts a week.
type UpdateScheduleSettingsRequest struct {
	WeekResetDay *int `json:"weekResetDay" validate:"required,min=0,max=6"`
}

// ScheduleSettingsResponse wraps the settings for the API.
type ScheduleSettingsResponse struct {
	Settings models.ScheduleSettings `json:"settings"`
}
