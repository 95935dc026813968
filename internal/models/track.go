package models

import "time"

// Track is a course track taught by at most one instructor.
type Track struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	GradeID       *string   `db:"grade_id" json:"gradeId,omitempty"`
	InstructorID  *string   `db:"instructor_id" json:"instructorId,omitempty"`
	CoordinatorID *string   `db:"coordinator_id" json:"coordinatorId,omitempty"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// AssignedTo reports whether userID is the track's instructor.
func (t *Track) AssignedTo(userID string) bool {
	return t != nil && t.InstructorID != nil && userID != "" && *t.InstructorID == userID
}

// TrackFilter narrows track listings.
type TrackFilter struct {
	InstructorID string
	ActiveOnly   bool
}
