package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingAttendance records that a person attended a meeting. One row per
// (meeting, person); marking attendance on a credit-bearing meeting also
// records a CMECredit.
type MeetingAttendance struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MeetingID  uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex:idx_meeting_person"`
	PersonID   uuid.UUID `json:"person_id" gorm:"type:uuid;not null;uniqueIndex:idx_meeting_person"`
	AttendedAt time.Time `json:"attended_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ma *MeetingAttendance) BeforeCreate(tx *gorm.DB) error {
	if ma.ID == uuid.Nil {
		ma.ID = uuid.New()
	}
	if ma.AttendedAt.IsZero() {
		ma.AttendedAt = time.Now()
	}
	return nil
}

type MarkAttendanceRequest struct {
	PersonID uuid.UUID `json:"person_id" validate:"required"`
}

// AttendanceSummary is one attendee row for a meeting.
type AttendanceSummary struct {
	MeetingAttendance
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
}
