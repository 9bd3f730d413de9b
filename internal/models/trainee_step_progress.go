package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TraineeStepProgress statuses
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// TraineeStepProgress is one trainee's state on one path step. started_at is
// set on the first transition away from NOT_STARTED and never cleared;
// completed_at is set whenever the status becomes COMPLETED.
type TraineeStepProgress struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TraineePathID uuid.UUID  `json:"trainee_path_id" gorm:"type:uuid;not null;uniqueIndex:idx_trainee_step"`
	PathStepID    uuid.UUID  `json:"path_step_id" gorm:"type:uuid;not null;uniqueIndex:idx_trainee_step"`
	Status        string     `json:"status" gorm:"not null;default:'NOT_STARTED'"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (sp *TraineeStepProgress) BeforeCreate(tx *gorm.DB) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	return nil
}

type UpdateStepProgressRequest struct {
	Status string `json:"status" validate:"required"`
}
