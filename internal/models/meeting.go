package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meeting is a scheduled session (grand rounds, M&M conference, course
// session). CreditHours overrides the linked course's hours when set.
type Meeting struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	MeetingDate time.Time  `json:"meeting_date" gorm:"not null"`
	Location    string     `json:"location"`
	CourseID    *uuid.UUID `json:"course_id" gorm:"type:uuid;index"`
	CreditHours *float64   `json:"credit_hours"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Meeting DTOs
type CreateMeetingRequest struct {
	Title       string     `json:"title" validate:"required"`
	MeetingDate time.Time  `json:"meeting_date" validate:"required"`
	Location    string     `json:"location"`
	CourseID    *uuid.UUID `json:"course_id"`
	CreditHours *float64   `json:"credit_hours"`
}

type UpdateMeetingRequest struct {
	Title       *string    `json:"title"`
	MeetingDate *time.Time `json:"meeting_date"`
	Location    *string    `json:"location"`
	CourseID    *uuid.UUID `json:"course_id"`
	CreditHours *float64   `json:"credit_hours"`
}
