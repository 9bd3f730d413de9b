package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TraineePath statuses
const (
	TraineeStatusActive    = "ACTIVE"
	TraineeStatusCompleted = "COMPLETED"
	TraineeStatusPaused    = "PAUSED"
	TraineeStatusDropped   = "DROPPED"
)

// TraineePath is one person's enrollment in a training path.
type TraineePath struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PersonID    uuid.UUID  `json:"person_id" gorm:"type:uuid;not null;uniqueIndex:idx_person_path"`
	PathID      uuid.UUID  `json:"path_id" gorm:"type:uuid;not null;uniqueIndex:idx_person_path"`
	Status      string     `json:"status" gorm:"not null;default:'ACTIVE'"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (tp *TraineePath) BeforeCreate(tx *gorm.DB) error {
	if tp.ID == uuid.Nil {
		tp.ID = uuid.New()
	}
	if tp.EnrolledAt.IsZero() {
		tp.EnrolledAt = time.Now()
	}
	return nil
}

// Trainee DTOs
type EnrollRequest struct {
	PersonID  *uuid.UUID `json:"person_id"`
	QuickAdd  bool       `json:"quick_add"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     *string    `json:"email"`
}

type UpdateTraineeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TraineeSummary is one trainee row of the path detail view.
type TraineeSummary struct {
	TraineePath
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PersonTitle   string `json:"person_title"`
	Department    string `json:"department"`
	ProgressCount int    `json:"progress_count"`
	TotalSteps    int    `json:"total_steps"`
}

// PipelineTrainee is one trainee row of the pipeline view, bucketed by the
// trainee's current phase.
type PipelineTrainee struct {
	TraineePathID uuid.UUID `json:"trainee_path_id"`
	PersonID      uuid.UUID `json:"person_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Status        string    `json:"status"`
	CurrentPhase  int       `json:"current_phase"`
}
