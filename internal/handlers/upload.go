package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadFile accepts a multipart document (certificate scans, rosters,
// syllabi) and stores it via the configured storage backend
func UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	// Validate file type
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{
		".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
		".csv": true, ".xlsx": true, ".docx": true,
	}
	if !allowed[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type",
		})
	}

	// Limit to 10MB
	if file.Size > 10*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File must be under 10MB",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer src.Close()

	key := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	url, err := services.Storage.Save(c.Context(), key, src)
	if err != nil {
		logger.L.Error("failed to store upload", "error", err, "key", key)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save file",
		})
	}

	return c.JSON(fiber.Map{
		"url":      url,
		"key":      key,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
