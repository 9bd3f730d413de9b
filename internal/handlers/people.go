package handlers

import (
	"strconv"
	"strings"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pagination reads page/limit query params with the listing defaults.
func pagination(c *fiber.Ctx, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

// GetPeople returns paginated personnel records with optional search and
// department filters.
func GetPeople(c *fiber.Ctx) error {
	page, limit, offset := pagination(c, 50, 200)

	q := database.DB.Model(&models.Person{})
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if dept := c.Query("department"); dept != "" {
		q = q.Where("department = ?", dept)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.L.Error("failed to count people", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var people []models.Person
	if err := q.Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&people).Error; err != nil {
		logger.L.Error("failed to fetch people", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"data":  people,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func GetPerson(c *fiber.Ctx) error {
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var person models.Person
	if err := database.DB.First(&person, personID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	return c.JSON(person)
}

func CreatePerson(c *fiber.Ctx) error {
	var req models.CreatePersonRequest
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

	person := models.Person{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Title:      req.Title,
		Email:      req.Email,
		Department: req.Department,
		IsComplete: true,
		Status:     models.PersonStatusActive,
	}

	if err := database.DB.Create(&person).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A person with this email already exists",
			})
		}
		logger.L.Error("failed to create person", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(person)
}

func UpdatePerson(c *fiber.Ctx) error {
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	var person models.Person
	if err := database.DB.First(&person, personID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	var req models.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.Title != nil {
		person.Title = *req.Title
	}
	if req.Email != nil {
		person.Email = req.Email
	}
	if req.Department != nil {
		person.Department = *req.Department
	}
	if req.Status != nil {
		person.Status = strings.ToUpper(*req.Status)
	}

	// A quick-added record becomes complete once it has names, a title and
	// an email.
	if !person.IsComplete && person.FirstName != "" && person.LastName != "" &&
		person.Title != "" && person.Email != nil {
		person.IsComplete = true
	}

	if err := database.DB.Save(&person).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A person with this email already exists",
			})
		}
		logger.L.Error("failed to update person", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(person)
}

func DeletePerson(c *fiber.Ctx) error {
	personID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	result := database.DB.Delete(&models.Person{}, personID)
	if result.Error != nil {
		logger.L.Error("failed to delete person", "error", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// loadPeople fetches a batch of people keyed by ID, for joining names into
// list rows.
func loadPeople(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Person, error) {
	out := make(map[uuid.UUID]models.Person, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var people []models.Person
	if err := tx.Where("id IN ?", ids).Find(&people).Error; err != nil {
		return nil, err
	}
	for _, p := range people {
		out[p.ID] = p
	}
	return out, nil
}
