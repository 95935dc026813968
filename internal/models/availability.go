package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Grid bounds for instructor availability. Hours are half-open: a slot covers
// [StartHour, EndHour).
const (
	GridStartHour = 13
	GridEndHour   = 23
	DaysPerWeek   = 7
	HoursPerDay   = GridEndHour - GridStartHour
)

// AvailabilityKey partitions availability rows: one instructor, one track, one week.
type AvailabilityKey struct {
	InstructorID  string
	TrackID       string
	WeekStartDate time.Time
}

// CacheKey returns the redis key holding the rows of k.
func (k AvailabilityKey) CacheKey() string {
	return fmt.Sprintf("availability:%s:%s:%s", k.InstructorID, k.TrackID, FormatDate(k.WeekStartDate))
}

// AvailabilitySlot is one persisted hour range an instructor offers for a track.
type AvailabilitySlot struct {
	ID            string     `db:"id" json:"id"`
	InstructorID  string     `db:"instructor_id" json:"instructorId"`
	TrackID       string     `db:"track_id" json:"trackId"`
	WeekStartDate time.Time  `db:"week_start_date" json:"weekStartDate"`
	DayOfWeek     int        `db:"day_of_week" json:"dayOfWeek"`
	StartHour     int        `db:"start_hour" json:"startHour"`
	EndHour       int        `db:"end_hour" json:"endHour"`
	IsBooked      bool       `db:"is_booked" json:"isBooked"`
	IsConfirmed   bool       `db:"is_confirmed" json:"isConfirmed"`
	ConfirmedAt   *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Position identifies a unit cell inside one week.
type Position struct {
	DayOfWeek int
	StartHour int
}

// Position returns the (day, start hour) slot identity within the key.
func (s AvailabilitySlot) Position() Position {
	return Position{DayOfWeek: s.DayOfWeek, StartHour: s.StartHour}
}

// SlotInput is a requested unit slot.
type SlotInput struct {
	DayOfWeek int `json:"dayOfWeek" validate:"min=0,max=6"`
	StartHour int `json:"startHour" validate:"min=13,max=22"`
	EndHour   int `json:"endHour" validate:"min=14,max=23"`
}

// Position returns the (day, start hour) identity of the input.
func (s SlotInput) Position() Position {
	return Position{DayOfWeek: s.DayOfWeek, StartHour: s.StartHour}
}

// IsUnit reports whether the input covers exactly one in-grid hour.
func (s SlotInput) IsUnit() bool {
	return s.DayOfWeek >= 0 && s.DayOfWeek < DaysPerWeek &&
		s.StartHour >= GridStartHour && s.StartHour < GridEndHour &&
		s.EndHour == s.StartHour+1
}

// SaveResult summarises a save against one key.
type SaveResult struct {
	Created   int `json:"created"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// SortSlots orders rows by day then start hour.
func SortSlots(slots []AvailabilitySlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].StartHour < slots[j].StartHour
	})
}

// Fingerprint hashes the observable state of a key's rows. Equal row sets give
// equal fingerprints regardless of order.
func Fingerprint(slots []AvailabilitySlot) string {
	lines := make([]string, len(slots))
	for i, s := range slots {
		lines[i] = fmt.Sprintf("%s|%d|%d|%d|%t|%t", s.ID, s.DayOfWeek, s.StartHour, s.EndHour, s.IsBooked, s.IsConfirmed)
	}
	sort.Strings(lines)
	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
