package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PathStep is one course inside a phase of a training path. step_group is the
// 1-based phase number, step_order the 1-based position within the phase;
// both are kept dense and contiguous by the step editor.
type PathStep struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PathID     uuid.UUID `json:"path_id" gorm:"type:uuid;index;not null"`
	CourseID   uuid.UUID `json:"course_id" gorm:"type:uuid;not null"`
	StepGroup  int       `json:"step_group" gorm:"not null"`
	StepOrder  int       `json:"step_order" gorm:"not null"`
	IsRequired bool      `json:"is_required" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *PathStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StepInput is one element of the bulk step-replace payload.
type StepInput struct {
	CourseID   uuid.UUID `json:"course_id" validate:"required"`
	StepGroup  int       `json:"step_group"`
	StepOrder  int       `json:"step_order"`
	IsRequired *bool     `json:"is_required"`
}

// PathStepDetail is a step joined with its course for the detail view.
type PathStepDetail struct {
	PathStep
	CourseTitle       string  `json:"course_title"`
	CourseCreditHours float64 `json:"course_credit_hours"`
}
