package handlers

import (
	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetPathActions lists action items attached to a path, either directly via
// one of its steps or via any currently enrolled trainee
func GetPathActions(c *fiber.Ctx) error {
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

	var stepIDs []uuid.UUID
	database.DB.Model(&models.PathStep{}).Where("path_id = ?", pathID).
		Pluck("id", &stepIDs)

	var personIDs []uuid.UUID
	database.DB.Model(&models.TraineePath{}).Where("path_id = ?", pathID).
		Pluck("person_id", &personIDs)

	actions := []models.ActionItem{}
	query := database.DB.Order("created_at DESC")
	switch {
	case len(stepIDs) > 0 && len(personIDs) > 0:
		query = query.Where("path_step_id IN ? OR person_id IN ?", stepIDs, personIDs)
	case len(stepIDs) > 0:
		query = query.Where("path_step_id IN ?", stepIDs)
	case len(personIDs) > 0:
		query = query.Where("person_id IN ?", personIDs)
	default:
		return c.JSON(actions)
	}
	if err := query.Find(&actions).Error; err != nil {
		logger.L.Error("failed to load action items", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(actions)
}

// CreateActionItem assigns a follow-up item to a person, optionally tied to
// a step of this path. Re-assigning the same item to the same person is a
// conflict.
func CreateActionItem(c *fiber.Ctx) error {
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

	var req models.CreateActionItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	if req.PathStepID != nil {
		var step models.PathStep
		if err := database.DB.Where("id = ? AND path_id = ?", *req.PathStepID, pathID).
			First(&step).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Step not found in this path",
			})
		}
	}

	// The unique index can't catch step-less duplicates (SQL treats NULLs
	// as distinct), so check for an existing assignment explicitly
	dup := database.DB.Model(&models.ActionItem{}).
		Where("person_id = ? AND title = ?", req.PersonID, req.Title)
	if req.PathStepID != nil {
		dup = dup.Where("path_step_id = ?", *req.PathStepID)
	} else {
		dup = dup.Where("path_step_id IS NULL")
	}
	var existing int64
	if err := dup.Count(&existing).Error; err != nil {
		logger.L.Error("failed to check action item dedupe", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This action item is already assigned",
		})
	}

	actorID := middleware.GetPersonID(c)
	action := models.ActionItem{
		PersonID:    req.PersonID,
		PathStepID:  req.PathStepID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssignedBy:  &actorID,
		Status:      models.ActionStatusOpen,
	}

	if err := database.DB.Create(&action).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "This action item is already assigned",
			})
		}
		logger.L.Error("failed to create action item", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if action.PersonID != actorID {
		CreateNotification(action.PersonID, "action_assigned",
			"New action item", action.Title,
			map[string]interface{}{
				"pathId":   pathID.String(),
				"actionId": action.ID.String(),
			})
	}

	return c.Status(fiber.StatusCreated).JSON(action)
}

// UpdateActionItem changes an action item's status
func UpdateActionItem(c *fiber.Ctx) error {
	actionID, err := uuid.Parse(c.Params("actionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action ID",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status is required",
		})
	}

	var action models.ActionItem
	if err := database.DB.First(&action, actionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Action item not found",
		})
	}

	action.Status = req.Status
	if err := database.DB.Save(&action).Error; err != nil {
		logger.L.Error("failed to update action item", "error", err, "action_id", actionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(action)
}
