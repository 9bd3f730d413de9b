package handlers

import (
	"sort"
	"strconv"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetPipeline groups a path's trainees by their current phase, computed at
// read time: the lowest phase holding an incomplete step, or the path's
// last phase when every step is complete.
func GetPipeline(c *fiber.Ctx) error {
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

	var steps []models.PathStep
	if err := database.DB.Where("path_id = ?", pathID).Find(&steps).Error; err != nil {
		logger.L.Error("failed to load steps", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	phaseByStep := make(map[uuid.UUID]int, len(steps))
	maxPhase := 0
	for _, s := range steps {
		phaseByStep[s.ID] = s.StepGroup
		if s.StepGroup > maxPhase {
			maxPhase = s.StepGroup
		}
	}

	// No steps means no phases to bucket anyone into
	if maxPhase == 0 {
		return c.JSON(map[string][]models.PipelineTrainee{})
	}

	var trainees []models.TraineePath
	if err := database.DB.Where("path_id = ?", pathID).Find(&trainees).Error; err != nil {
		logger.L.Error("failed to load trainees", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	traineePathIDs := make([]uuid.UUID, len(trainees))
	personIDs := make([]uuid.UUID, len(trainees))
	for i, tp := range trainees {
		traineePathIDs[i] = tp.ID
		personIDs[i] = tp.PersonID
	}

	// Lowest incomplete phase per trainee; absent means all steps complete
	incomplete := make(map[uuid.UUID]int)
	if len(traineePathIDs) > 0 {
		var progress []models.TraineeStepProgress
		if err := database.DB.Where("trainee_path_id IN ?", traineePathIDs).
			Find(&progress).Error; err != nil {
			logger.L.Error("failed to load progress", "error", err, "path_id", pathID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		for _, pr := range progress {
			if pr.Status == models.ProgressCompleted {
				continue
			}
			phase, ok := phaseByStep[pr.PathStepID]
			if !ok {
				continue
			}
			if cur, seen := incomplete[pr.TraineePathID]; !seen || phase < cur {
				incomplete[pr.TraineePathID] = phase
			}
		}
	}

	people, err := loadPeople(database.DB, personIDs)
	if err != nil {
		logger.L.Error("failed to load people", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	pipeline := make(map[string][]models.PipelineTrainee)
	for _, tp := range trainees {
		phase, ok := incomplete[tp.ID]
		if !ok {
			phase = maxPhase
		}
		person := people[tp.PersonID]
		pipeline[strconv.Itoa(phase)] = append(pipeline[strconv.Itoa(phase)], models.PipelineTrainee{
			TraineePathID: tp.ID,
			PersonID:      tp.PersonID,
			FirstName:     person.FirstName,
			LastName:      person.LastName,
			Status:        tp.Status,
			CurrentPhase:  phase,
		})
	}
	for _, rows := range pipeline {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].LastName != rows[j].LastName {
				return rows[i].LastName < rows[j].LastName
			}
			return rows[i].FirstName < rows[j].FirstName
		})
	}

	return c.JSON(pipeline)
}
