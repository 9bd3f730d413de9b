package handlers

import (
	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/pathsteps"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type replaceStepsRequest struct {
	Steps []models.StepInput `json:"steps"`
}

// ReplaceSteps atomically replaces the full step list of a path. The input
// is normalized to dense 1-based (step_group, step_order) numbering before
// insert. Enrolled trainees keep progress on courses that survive the
// replacement; progress for removed courses is dropped and new courses get
// NOT_STARTED rows, all inside the same transaction.
func ReplaceSteps(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}

	var path models.TrainingPath
	if err := database.DB.First(&path, pathID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Path not found",
		})
	}

	var req replaceStepsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	for _, s := range req.Steps {
		if s.CourseID == uuid.Nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Each step requires a course_id",
			})
		}
	}

	// Normalize client numbering so persisted steps are always dense,
	// 1-based and contiguous
	work := make([]pathsteps.Step, len(req.Steps))
	for i, s := range req.Steps {
		required := true
		if s.IsRequired != nil {
			required = *s.IsRequired
		}
		work[i] = pathsteps.Step{
			CourseID:   s.CourseID,
			StepGroup:  s.StepGroup,
			StepOrder:  s.StepOrder,
			IsRequired: required,
		}
	}
	normalized := pathsteps.Normalize(work)

	inserted := make([]models.PathStep, len(normalized))
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Prior steps, keyed for progress carry-over by course
		var oldSteps []models.PathStep
		if err := tx.Where("path_id = ?", pathID).Find(&oldSteps).Error; err != nil {
			return err
		}
		oldCourseByStep := make(map[uuid.UUID]uuid.UUID, len(oldSteps))
		oldStepIDs := make([]uuid.UUID, len(oldSteps))
		for i, s := range oldSteps {
			oldStepIDs[i] = s.ID
			oldCourseByStep[s.ID] = s.CourseID
		}

		var traineePaths []models.TraineePath
		if err := tx.Where("path_id = ?", pathID).Find(&traineePaths).Error; err != nil {
			return err
		}

		// Remember each trainee's progress per course before wiping rows
		type courseKey struct {
			traineePathID uuid.UUID
			courseID      uuid.UUID
		}
		carried := make(map[courseKey]models.TraineeStepProgress)
		if len(oldStepIDs) > 0 && len(traineePaths) > 0 {
			var oldProgress []models.TraineeStepProgress
			if err := tx.Where("path_step_id IN ?", oldStepIDs).Find(&oldProgress).Error; err != nil {
				return err
			}
			for _, pr := range oldProgress {
				carried[courseKey{pr.TraineePathID, oldCourseByStep[pr.PathStepID]}] = pr
			}
		}

		if len(oldStepIDs) > 0 {
			if err := tx.Where("path_step_id IN ?", oldStepIDs).
				Delete(&models.TraineeStepProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("path_id = ?", pathID).Delete(&models.PathStep{}).Error; err != nil {
				return err
			}
		}

		for i, s := range normalized {
			row := models.PathStep{
				PathID:     pathID,
				CourseID:   s.CourseID,
				StepGroup:  s.StepGroup,
				StepOrder:  s.StepOrder,
				IsRequired: s.IsRequired,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			inserted[i] = row
		}

		// Rebuild progress rows for every enrolled trainee
		for _, tp := range traineePaths {
			for _, step := range inserted {
				pr := models.TraineeStepProgress{
					TraineePathID: tp.ID,
					PathStepID:    step.ID,
					Status:        models.ProgressNotStarted,
				}
				if prev, ok := carried[courseKey{tp.ID, step.CourseID}]; ok {
					pr.Status = prev.Status
					pr.StartedAt = prev.StartedAt
					pr.CompletedAt = prev.CompletedAt
				}
				if err := tx.Create(&pr).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		logger.L.Error("failed to replace path steps", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	WS.Broadcast(pathID, uuid.Nil, WSEvent{
		Type:   EventStepsReplaced,
		PathID: pathID.String(),
		Data:   inserted,
	})

	return c.JSON(inserted)
}
