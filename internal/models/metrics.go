package models

import "time"

// SystemMetrics is a point-in-time summary of the process counters.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	AvailabilitySaves        uint64    `json:"availabilitySaves"`
	AvailabilityConfirms     uint64    `json:"availabilityConfirms"`
	SlotsConfirmed           uint64    `json:"slotsConfirmed"`
	RateLimited              uint64    `json:"rateLimited"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
