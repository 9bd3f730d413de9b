package handlers

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollTrainee enrolls a person into a path. Supports quick-add: when
// quick_add is set a minimal person record is created in the same
// transaction. Every current step of the path gets a NOT_STARTED progress
// row for the new trainee.
func EnrollTrainee(c *fiber.Ctx) error {
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

	var req models.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.QuickAdd {
		if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "First and last name are required for quick add",
			})
		}
	} else if req.PersonID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "person_id is required",
		})
	}

	var traineePath models.TraineePath
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		personID := uuid.Nil
		if req.QuickAdd {
			person := models.Person{
				FirstName:  strings.TrimSpace(req.FirstName),
				LastName:   strings.TrimSpace(req.LastName),
				Email:      req.Email,
				Status:     models.PersonStatusActive,
				IsComplete: false,
			}
			if err := tx.Create(&person).Error; err != nil {
				// A duplicate here is the person's email, not the enrollment
				if database.IsDuplicate(err) {
					return errEmailTaken
				}
				return err
			}
			personID = person.ID
		} else {
			personID = *req.PersonID
			var person models.Person
			if err := tx.First(&person, personID).Error; err != nil {
				return errPersonNotFound
			}
		}

		traineePath = models.TraineePath{
			PersonID: personID,
			PathID:   pathID,
			Status:   models.TraineeStatusActive,
		}
		if err := tx.Create(&traineePath).Error; err != nil {
			return err
		}

		var steps []models.PathStep
		if err := tx.Where("path_id = ?", pathID).Find(&steps).Error; err != nil {
			return err
		}
		for _, step := range steps {
			pr := models.TraineeStepProgress{
				TraineePathID: traineePath.ID,
				PathStepID:    step.ID,
				Status:        models.ProgressNotStarted,
			}
			if err := tx.Create(&pr).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, errPersonNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Person not found",
			})
		}
		if errors.Is(txErr, errEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A person with this email already exists",
			})
		}
		if database.IsDuplicate(txErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Person is already enrolled in this path",
			})
		}
		logger.L.Error("failed to enroll trainee", "error", txErr, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	actorID := middleware.GetPersonID(c)
	if traineePath.PersonID != actorID {
		CreateNotification(traineePath.PersonID, "path_enrolled",
			"Enrolled in training path",
			"You have been enrolled in "+path.Name,
			map[string]interface{}{"pathId": pathID.String()})
	}

	WS.Broadcast(pathID, actorID, WSEvent{
		Type:     EventTraineeEnrolled,
		PathID:   pathID.String(),
		PersonID: traineePath.PersonID.String(),
		Data:     traineePath,
	})

	return c.Status(fiber.StatusCreated).JSON(traineePath)
}

var (
	errPersonNotFound = errors.New("person not found")
	errEmailTaken     = errors.New("email already in use")
)

// UnenrollTrainee removes an enrollment and all of its progress rows
func UnenrollTrainee(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}
	personID, err := uuid.Parse(c.Params("personId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var tp models.TraineePath
		if err := tx.Where("path_id = ? AND person_id = ?", pathID, personID).
			First(&tp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already gone, nothing to clean up
			}
			return err
		}
		if err := tx.Where("trainee_path_id = ?", tp.ID).
			Delete(&models.TraineeStepProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tp).Error
	})
	if txErr != nil {
		logger.L.Error("failed to unenroll trainee", "error", txErr, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	WS.Broadcast(pathID, middleware.GetPersonID(c), WSEvent{
		Type:     EventTraineeRemoved,
		PathID:   pathID.String(),
		PersonID: personID.String(),
	})

	return c.JSON(fiber.Map{"deleted": true})
}

// UpdateTraineeStatus changes an enrollment's status. COMPLETED stamps
// completed_at; no other transition rules are enforced.
func UpdateTraineeStatus(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}
	personID, err := uuid.Parse(c.Params("personId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var req models.UpdateTraineeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var tp models.TraineePath
	if err := database.DB.Where("path_id = ? AND person_id = ?", pathID, personID).
		First(&tp).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Trainee is not enrolled in this path",
		})
	}

	tp.Status = strings.ToUpper(req.Status)
	if tp.Status == models.TraineeStatusCompleted {
		now := time.Now()
		tp.CompletedAt = &now
	}

	if err := database.DB.Save(&tp).Error; err != nil {
		logger.L.Error("failed to update trainee status", "error", err, "trainee_path_id", tp.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	WS.Broadcast(pathID, middleware.GetPersonID(c), WSEvent{
		Type:     EventTraineeUpdated,
		PathID:   pathID.String(),
		PersonID: personID.String(),
		Data:     tp,
	})

	return c.JSON(tp)
}

// progressRow is a progress entry joined with its step position
type progressRow struct {
	models.TraineeStepProgress
	StepGroup int       `json:"step_group"`
	StepOrder int       `json:"step_order"`
	CourseID  uuid.UUID `json:"course_id"`
}

// GetStepProgress returns the trainee's per-step progress ordered by
// phase and position within the phase
func GetStepProgress(c *fiber.Ctx) error {
	traineePathID, err := uuid.Parse(c.Params("traineePathId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid trainee path ID",
		})
	}

	var tp models.TraineePath
	if err := database.DB.First(&tp, traineePathID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	var progress []models.TraineeStepProgress
	if err := database.DB.Where("trainee_path_id = ?", traineePathID).
		Find(&progress).Error; err != nil {
		logger.L.Error("failed to load progress", "error", err, "trainee_path_id", traineePathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var steps []models.PathStep
	if err := database.DB.Where("path_id = ?", tp.PathID).Find(&steps).Error; err != nil {
		logger.L.Error("failed to load steps", "error", err, "path_id", tp.PathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	stepByID := make(map[uuid.UUID]models.PathStep, len(steps))
	for _, s := range steps {
		stepByID[s.ID] = s
	}

	rows := make([]progressRow, 0, len(progress))
	for _, pr := range progress {
		step, ok := stepByID[pr.PathStepID]
		if !ok {
			continue
		}
		rows = append(rows, progressRow{
			TraineeStepProgress: pr,
			StepGroup:           step.StepGroup,
			StepOrder:           step.StepOrder,
			CourseID:            step.CourseID,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StepGroup != rows[j].StepGroup {
			return rows[i].StepGroup < rows[j].StepGroup
		}
		return rows[i].StepOrder < rows[j].StepOrder
	})

	return c.JSON(rows)
}

// UpdateStepProgress sets the status of a single step for a trainee.
// IN_PROGRESS stamps started_at only when it is still unset; COMPLETED
// stamps completed_at every time and backfills started_at if missing.
// Status values are accepted as-is with no transition validation.
func UpdateStepProgress(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}
	traineePathID, err := uuid.Parse(c.Params("traineePathId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid trainee path ID",
		})
	}
	stepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step ID",
		})
	}

	var req models.UpdateStepProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var pr models.TraineeStepProgress
	if err := database.DB.Where("trainee_path_id = ? AND path_step_id = ?", traineePathID, stepID).
		First(&pr).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Progress record not found",
		})
	}

	now := time.Now()
	pr.Status = strings.ToUpper(req.Status)
	switch pr.Status {
	case models.ProgressInProgress:
		if pr.StartedAt == nil {
			pr.StartedAt = &now
		}
	case models.ProgressCompleted:
		if pr.StartedAt == nil {
			pr.StartedAt = &now
		}
		pr.CompletedAt = &now
	}

	if err := database.DB.Save(&pr).Error; err != nil {
		logger.L.Error("failed to update step progress", "error", err, "progress_id", pr.ID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	WS.Broadcast(pathID, middleware.GetPersonID(c), WSEvent{
		Type:   EventProgressUpdated,
		PathID: pathID.String(),
		Data:   pr,
	})

	return c.JSON(pr)
}
