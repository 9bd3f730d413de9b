package handlers

import (
	"errors"
	"strings"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pathCountRow struct {
	PathID     uuid.UUID
	StepCount  int
	PhaseCount int
}

type traineeCountRow struct {
	PathID uuid.UUID
	Count  int
}

// GetPaths lists training paths with optional status/search filters,
// offset pagination, and per-path step/trainee/phase counts.
func GetPaths(c *fiber.Ctx) error {
	page, limit, offset := pagination(c, 50, 200)

	q := database.DB.Model(&models.TrainingPath{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.L.Error("failed to count paths", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var paths []models.TrainingPath
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&paths).Error; err != nil {
		logger.L.Error("failed to fetch paths", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	pathIDs := make([]uuid.UUID, len(paths))
	var creatorIDs []uuid.UUID
	for i, p := range paths {
		pathIDs[i] = p.ID
		if p.CreatedBy != nil {
			creatorIDs = append(creatorIDs, *p.CreatedBy)
		}
	}

	// Batch-load step/phase counts per path
	stepCounts := make(map[uuid.UUID]pathCountRow)
	if len(pathIDs) > 0 {
		var rows []pathCountRow
		if err := database.DB.Model(&models.PathStep{}).
			Select("path_id, COUNT(*) AS step_count, COUNT(DISTINCT step_group) AS phase_count").
			Where("path_id IN ?", pathIDs).
			Group("path_id").
			Find(&rows).Error; err != nil {
			logger.L.Error("failed to count path steps", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		for _, r := range rows {
			stepCounts[r.PathID] = r
		}
	}

	// Batch-load trainee counts per path
	traineeCounts := make(map[uuid.UUID]int)
	if len(pathIDs) > 0 {
		var rows []traineeCountRow
		if err := database.DB.Model(&models.TraineePath{}).
			Select("path_id, COUNT(*) AS count").
			Where("path_id IN ?", pathIDs).
			Group("path_id").
			Find(&rows).Error; err != nil {
			logger.L.Error("failed to count trainees", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		for _, r := range rows {
			traineeCounts[r.PathID] = r.Count
		}
	}

	creators, err := loadPeople(database.DB, creatorIDs)
	if err != nil {
		logger.L.Error("failed to load path creators", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	data := make([]models.PathSummary, len(paths))
	for i, p := range paths {
		s := models.PathSummary{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Status:       p.Status,
			CreatedBy:    p.CreatedBy,
			StepCount:    stepCounts[p.ID].StepCount,
			PhaseCount:   stepCounts[p.ID].PhaseCount,
			TraineeCount: traineeCounts[p.ID],
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		}
		if p.CreatedBy != nil {
			if creator, ok := creators[*p.CreatedBy]; ok {
				s.CreatedByName = creator.FullName()
			}
		}
		data[i] = s
	}

	return c.JSON(fiber.Map{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type pathDetailResponse struct {
	models.TrainingPath
	CreatedByName string                  `json:"created_by_name"`
	Steps         []models.PathStepDetail `json:"steps"`
	Trainees      []models.TraineeSummary `json:"trainees"`
	Actions       []models.ActionItem     `json:"actions"`
}

// GetPath returns one path with its ordered steps, enrolled trainees
// (with progress counts) and reachable action items.
func GetPath(c *fiber.Ctx) error {
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

	resp := pathDetailResponse{TrainingPath: path}

	// Steps ordered by phase then position, joined with course info
	var steps []models.PathStep
	if err := database.DB.Where("path_id = ?", pathID).
		Order("step_group ASC, step_order ASC").
		Find(&steps).Error; err != nil {
		logger.L.Error("failed to fetch path steps", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	courseIDs := make([]uuid.UUID, 0, len(steps))
	for _, s := range steps {
		courseIDs = append(courseIDs, s.CourseID)
	}
	courses := make(map[uuid.UUID]models.Course)
	if len(courseIDs) > 0 {
		var rows []models.Course
		if err := database.DB.Where("id IN ?", courseIDs).Find(&rows).Error; err != nil {
			logger.L.Error("failed to fetch step courses", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		for _, course := range rows {
			courses[course.ID] = course
		}
	}

	resp.Steps = make([]models.PathStepDetail, len(steps))
	stepIDs := make([]uuid.UUID, len(steps))
	for i, s := range steps {
		stepIDs[i] = s.ID
		resp.Steps[i] = models.PathStepDetail{
			PathStep:          s,
			CourseTitle:       courses[s.CourseID].Title,
			CourseCreditHours: courses[s.CourseID].CreditHours,
		}
	}

	// Trainees with completed-step counts
	var traineePaths []models.TraineePath
	if err := database.DB.Where("path_id = ?", pathID).Find(&traineePaths).Error; err != nil {
		logger.L.Error("failed to fetch trainees", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	traineePathIDs := make([]uuid.UUID, len(traineePaths))
	personIDs := make([]uuid.UUID, len(traineePaths))
	for i, tp := range traineePaths {
		traineePathIDs[i] = tp.ID
		personIDs[i] = tp.PersonID
	}

	progressCounts := make(map[uuid.UUID]int)
	if len(traineePathIDs) > 0 {
		type progressRow struct {
			TraineePathID uuid.UUID
			Count         int
		}
		var rows []progressRow
		if err := database.DB.Model(&models.TraineeStepProgress{}).
			Select("trainee_path_id, COUNT(*) AS count").
			Where("trainee_path_id IN ? AND status = ?", traineePathIDs, models.ProgressCompleted).
			Group("trainee_path_id").
			Find(&rows).Error; err != nil {
			logger.L.Error("failed to count progress", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		for _, r := range rows {
			progressCounts[r.TraineePathID] = r.Count
		}
	}

	people, err := loadPeople(database.DB, personIDs)
	if err != nil {
		logger.L.Error("failed to load trainee people", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	resp.Trainees = make([]models.TraineeSummary, len(traineePaths))
	for i, tp := range traineePaths {
		person := people[tp.PersonID]
		resp.Trainees[i] = models.TraineeSummary{
			TraineePath:   tp,
			FirstName:     person.FirstName,
			LastName:      person.LastName,
			PersonTitle:   person.Title,
			Department:    person.Department,
			ProgressCount: progressCounts[tp.ID],
			TotalSteps:    len(steps),
		}
	}

	// Action items reachable directly via a path step or via any trainee
	// currently on the path
	resp.Actions = []models.ActionItem{}
	if len(stepIDs) > 0 || len(personIDs) > 0 {
		q := database.DB.Model(&models.ActionItem{})
		switch {
		case len(stepIDs) > 0 && len(personIDs) > 0:
			q = q.Where("path_step_id IN ? OR person_id IN ?", stepIDs, personIDs)
		case len(stepIDs) > 0:
			q = q.Where("path_step_id IN ?", stepIDs)
		default:
			q = q.Where("person_id IN ?", personIDs)
		}
		if err := q.Order("created_at DESC").Find(&resp.Actions).Error; err != nil {
			logger.L.Error("failed to fetch action items", "error", err, "path_id", pathID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
	}

	if path.CreatedBy != nil {
		var creator models.Person
		if err := database.DB.First(&creator, *path.CreatedBy).Error; err == nil {
			resp.CreatedByName = creator.FullName()
		}
	}

	return c.JSON(resp)
}

func CreatePath(c *fiber.Ctx) error {
	var req models.CreatePathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if msg := validation.Check(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	status := strings.ToUpper(req.Status)
	if status == "" {
		status = models.PathStatusDraft
	}

	createdBy := req.CreatedBy
	if createdBy == nil {
		if id := middleware.GetPersonID(c); id != uuid.Nil {
			createdBy = &id
		}
	}

	path := models.TrainingPath{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CreatedBy:   createdBy,
	}

	if err := database.DB.Create(&path).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A path with this name already exists",
			})
		}
		logger.L.Error("failed to create path", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(path)
}

func UpdatePath(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}

	var req models.UpdatePathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Only name, description and status may change
	if req.Name == nil && req.Description == nil && req.Status == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No updatable fields provided",
		})
	}

	var path models.TrainingPath
	if err := database.DB.First(&path, pathID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Path not found",
		})
	}

	if req.Name != nil {
		path.Name = *req.Name
	}
	if req.Description != nil {
		path.Description = *req.Description
	}
	if req.Status != nil {
		path.Status = strings.ToUpper(*req.Status)
	}

	if err := database.DB.Save(&path).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A path with this name already exists",
			})
		}
		logger.L.Error("failed to update path", "error", err, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(path)
}

func DeletePath(c *fiber.Ctx) error {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid path ID",
		})
	}

	// Path row and dependents go together; a failed cleanup rolls the whole
	// delete back
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.TrainingPath{}, pathID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var traineePathIDs []uuid.UUID
		if err := tx.Model(&models.TraineePath{}).Where("path_id = ?", pathID).
			Pluck("id", &traineePathIDs).Error; err != nil {
			return err
		}
		if len(traineePathIDs) > 0 {
			if err := tx.Where("trainee_path_id IN ?", traineePathIDs).
				Delete(&models.TraineeStepProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("path_id = ?", pathID).Delete(&models.TraineePath{}).Error; err != nil {
			return err
		}
		return tx.Where("path_id = ?", pathID).Delete(&models.PathStep{}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Path not found",
			})
		}
		logger.L.Error("failed to delete path", "error", txErr, "path_id", pathID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
