package handlers

import (
	"strconv"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetCMECredits lists a person's CME entries, newest first, optionally
// filtered by year
func GetCMECredits(c *fiber.Ctx) error {
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

	query := database.DB.Where("person_id = ?", personID)
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid year",
			})
		}
		query = query.Where("year = ?", year)
	}

	credits := []models.CMECredit{}
	if err := query.Order("awarded_at DESC").Find(&credits).Error; err != nil {
		logger.L.Error("failed to load cme credits", "error", err, "person_id", personID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(credits)
}

// CreateCMECredit records an external (self-reported) CME entry for a
// person. Course and meeting credits are awarded automatically elsewhere.
func CreateCMECredit(c *fiber.Ctx) error {
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

	var req models.CreateCMECreditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	credit := models.CMECredit{
		PersonID:    personID,
		Source:      models.CMESourceExternal,
		Description: req.Description,
		CreditHours: req.CreditHours,
		Year:        req.Year,
	}
	if err := database.DB.Create(&credit).Error; err != nil {
		logger.L.Error("failed to create cme credit", "error", err, "person_id", personID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(credit)
}

// GetCMESummary returns per-year credit totals for a person, newest year
// first
func GetCMESummary(c *fiber.Ctx) error {
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

	totals := []models.CMEYearTotal{}
	if err := database.DB.Model(&models.CMECredit{}).
		Select("year, SUM(credit_hours) AS total_hours, COUNT(*) AS entry_count").
		Where("person_id = ?", personID).
		Group("year").
		Order("year DESC").
		Scan(&totals).Error; err != nil {
		logger.L.Error("failed to summarize cme credits", "error", err, "person_id", personID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(totals)
}
