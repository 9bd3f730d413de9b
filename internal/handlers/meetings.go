package handlers

import (
	"errors"
	"time"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMeetings returns paginated meetings, newest first. Supports from/to
// date filters (RFC 3339) and a course filter.
func GetMeetings(c *fiber.Ctx) error {
	page, limit, offset := pagination(c, 20, 100)

	query := database.DB.Model(&models.Meeting{})
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("meeting_date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("meeting_date <= ?", t)
		}
	}
	if courseID := c.Query("course_id"); courseID != "" {
		if id, err := uuid.Parse(courseID); err == nil {
			query = query.Where("course_id = ?", id)
		}
	}

	var total int64
	query.Count(&total)

	meetings := []models.Meeting{}
	if err := query.Order("meeting_date DESC").Offset(offset).Limit(limit).
		Find(&meetings).Error; err != nil {
		logger.L.Error("failed to list meetings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"data":  meetings,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetMeeting returns a single meeting
func GetMeeting(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}

	var meeting models.Meeting
	if err := database.DB.First(&meeting, meetingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	return c.JSON(meeting)
}

// CreateMeeting schedules a meeting
func CreateMeeting(c *fiber.Ctx) error {
	var req models.CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	if req.CourseID != nil {
		var course models.Course
		if err := database.DB.First(&course, *req.CourseID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
	}

	meeting := models.Meeting{
		Title:       req.Title,
		MeetingDate: req.MeetingDate,
		Location:    req.Location,
		CourseID:    req.CourseID,
		CreditHours: req.CreditHours,
	}
	if err := database.DB.Create(&meeting).Error; err != nil {
		logger.L.Error("failed to create meeting", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(meeting)
}

// UpdateMeeting applies a partial update to a meeting
func UpdateMeeting(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}

	var meeting models.Meeting
	if err := database.DB.First(&meeting, meetingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	var req models.UpdateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		meeting.Title = *req.Title
	}
	if req.MeetingDate != nil {
		meeting.MeetingDate = *req.MeetingDate
	}
	if req.Location != nil {
		meeting.Location = *req.Location
	}
	if req.CourseID != nil {
		meeting.CourseID = req.CourseID
	}
	if req.CreditHours != nil {
		meeting.CreditHours = req.CreditHours
	}

	if err := database.DB.Save(&meeting).Error; err != nil {
		logger.L.Error("failed to update meeting", "error", err, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(meeting)
}

// DeleteMeeting removes a meeting and its attendance rows
func DeleteMeeting(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}

	result := database.DB.Delete(&models.Meeting{}, meetingID)
	if result.Error != nil {
		logger.L.Error("failed to delete meeting", "error", result.Error, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	database.DB.Where("meeting_id = ?", meetingID).Delete(&models.MeetingAttendance{})

	return c.JSON(fiber.Map{"deleted": true})
}

// GetAttendance lists a meeting's attendees with their names
func GetAttendance(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}

	var meeting models.Meeting
	if err := database.DB.First(&meeting, meetingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	var attendance []models.MeetingAttendance
	if err := database.DB.Where("meeting_id = ?", meetingID).
		Order("attended_at ASC").Find(&attendance).Error; err != nil {
		logger.L.Error("failed to load attendance", "error", err, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	personIDs := make([]uuid.UUID, len(attendance))
	for i, a := range attendance {
		personIDs[i] = a.PersonID
	}
	people, err := loadPeople(database.DB, personIDs)
	if err != nil {
		logger.L.Error("failed to load people", "error", err, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	rows := make([]models.AttendanceSummary, len(attendance))
	for i, a := range attendance {
		person := people[a.PersonID]
		rows[i] = models.AttendanceSummary{
			MeetingAttendance: a,
			FirstName:         person.FirstName,
			LastName:          person.LastName,
			Department:        person.Department,
		}
	}

	return c.JSON(rows)
}

// MarkAttendance records that a person attended a meeting. If the meeting
// carries credit hours (its own or the linked course's), a CME credit is
// awarded in the same transaction.
func MarkAttendance(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}

	var meeting models.Meeting
	if err := database.DB.First(&meeting, meetingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Meeting not found",
		})
	}

	var req models.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if msg := validation.Check(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var person models.Person
	if err := database.DB.First(&person, req.PersonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Person not found",
		})
	}

	hours := creditHoursFor(meeting)

	var attendance models.MeetingAttendance
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		attendance = models.MeetingAttendance{
			MeetingID: meetingID,
			PersonID:  req.PersonID,
		}
		if err := tx.Create(&attendance).Error; err != nil {
			return err
		}

		if hours > 0 {
			credit := models.CMECredit{
				PersonID:    req.PersonID,
				Source:      models.CMESourceMeeting,
				MeetingID:   &meetingID,
				CourseID:    meeting.CourseID,
				Description: meeting.Title,
				CreditHours: hours,
				AwardedAt:   attendance.AttendedAt,
			}
			if err := tx.Create(&credit).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		if database.IsDuplicate(txErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Attendance already recorded",
			})
		}
		logger.L.Error("failed to mark attendance", "error", txErr, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(attendance)
}

// RemoveAttendance deletes an attendance row and its awarded CME credit
func RemoveAttendance(c *fiber.Ctx) error {
	meetingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting ID",
		})
	}
	personID, err := uuid.Parse(c.Params("personId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid person ID",
		})
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("meeting_id = ? AND person_id = ?", meetingID, personID).
			Delete(&models.MeetingAttendance{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("meeting_id = ? AND person_id = ?", meetingID, personID).
			Delete(&models.CMECredit{}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Attendance not found",
			})
		}
		logger.L.Error("failed to remove attendance", "error", txErr, "meeting_id", meetingID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// creditHoursFor resolves a meeting's CME hours: its own override wins,
// otherwise the linked course's hours, otherwise zero
func creditHoursFor(meeting models.Meeting) float64 {
	if meeting.CreditHours != nil {
		return *meeting.CreditHours
	}
	if meeting.CourseID != nil {
		var course models.Course
		if err := database.DB.First(&course, *meeting.CourseID).Error; err == nil {
			return course.CreditHours
		}
	}
	return 0
}
