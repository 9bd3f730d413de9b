package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CMECredit sources
const (
	CMESourceCourse   = "COURSE"
	CMESourceMeeting  = "MEETING"
	CMESourceExternal = "EXTERNAL"
)

// CMECredit is one continuing-medical-education credit entry for a person.
type CMECredit struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PersonID    uuid.UUID  `json:"person_id" gorm:"type:uuid;index;not null"`
	Source      string     `json:"source" gorm:"not null;default:'EXTERNAL'"`
	CourseID    *uuid.UUID `json:"course_id" gorm:"type:uuid"`
	MeetingID   *uuid.UUID `json:"meeting_id" gorm:"type:uuid"`
	Description string     `json:"description"`
	CreditHours float64    `json:"credit_hours" gorm:"not null"`
	Year        int        `json:"year" gorm:"index;not null"`
	AwardedAt   time.Time  `json:"awarded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *CMECredit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.AwardedAt.IsZero() {
		c.AwardedAt = time.Now()
	}
	if c.Year == 0 {
		c.Year = c.AwardedAt.Year()
	}
	return nil
}

type CreateCMECreditRequest struct {
	Description string  `json:"description"`
	CreditHours float64 `json:"credit_hours" validate:"required,gt=0"`
	Year        int     `json:"year"`
}

// CMEYearTotal is one row of the per-year credit summary.
type CMEYearTotal struct {
	Year       int     `json:"year"`
	TotalHours float64 `json:"total_hours"`
	EntryCount int     `json:"entry_count"`
}
