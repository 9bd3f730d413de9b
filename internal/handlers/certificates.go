package handlers

import (
	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetCertificateTemplates lists templates, active ones first
func GetCertificateTemplates(c *fiber.Ctx) error {
	query := database.DB.Model(&models.CertificateTemplate{})
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	templates := []models.CertificateTemplate{}
	if err := query.Order("is_active DESC, name ASC").Find(&templates).Error; err != nil {
		logger.L.Error("failed to list certificate templates", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(templates)
}

// GetCertificateTemplate returns a single template
func GetCertificateTemplate(c *fiber.Ctx) error {
	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	var template models.CertificateTemplate
	if err := database.DB.First(&template, templateID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	return c.JSON(template)
}

// CreateCertificateTemplate adds a template; names are unique
func CreateCertificateTemplate(c *fiber.Ctx) error {
	var req models.CreateCertificateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	template := models.CertificateTemplate{
		Name:        req.Name,
		Description: req.Description,
		Body:        req.Body,
		IsActive:    true,
	}
	if err := database.DB.Create(&template).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A template with this name already exists",
			})
		}
		logger.L.Error("failed to create certificate template", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

// UpdateCertificateTemplate applies a partial update
func UpdateCertificateTemplate(c *fiber.Ctx) error {
	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	var template models.CertificateTemplate
	if err := database.DB.First(&template, templateID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	var req models.UpdateCertificateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Body != nil {
		template.Body = *req.Body
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&template).Error; err != nil {
		if database.IsDuplicate(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A template with this name already exists",
			})
		}
		logger.L.Error("failed to update certificate template", "error", err, "template_id", templateID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(template)
}

// DeleteCertificateTemplate removes a template
func DeleteCertificateTemplate(c *fiber.Ctx) error {
	templateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template ID",
		})
	}

	result := database.DB.Delete(&models.CertificateTemplate{}, templateID)
	if result.Error != nil {
		logger.L.Error("failed to delete certificate template", "error", result.Error, "template_id", templateID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
