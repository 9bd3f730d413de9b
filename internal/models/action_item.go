package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionItem statuses
const (
	ActionStatusOpen = "OPEN"
	ActionStatusDone = "DONE"
)

// ActionItem is a follow-up assigned to a person, optionally tied to a path
// step. The composite index dedupes repeated assignment of the same item.
type ActionItem struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PersonID    uuid.UUID  `json:"person_id" gorm:"type:uuid;not null;uniqueIndex:idx_action_dedupe"`
	PathStepID  *uuid.UUID `json:"path_step_id" gorm:"type:uuid;uniqueIndex:idx_action_dedupe"`
	Title       string     `json:"title" gorm:"not null;uniqueIndex:idx_action_dedupe"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssignedBy  *uuid.UUID `json:"assigned_by" gorm:"type:uuid"`
	Status      string     `json:"status" gorm:"not null;default:'OPEN'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type CreateActionItemRequest struct {
	PersonID    uuid.UUID  `json:"person_id" validate:"required"`
	PathStepID  *uuid.UUID `json:"path_step_id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}
