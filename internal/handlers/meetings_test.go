package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
)

func TestMarkAttendanceAwardsCME(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Meetings"))

	hours := 1.5
	meeting := models.Meeting{
		Title:       "Grand Rounds: Sepsis Update",
		MeetingDate: time.Now(),
		CreditHours: &hours,
	}
	require.NoError(t, database.DB.Create(&meeting).Error)

	attendee := seedPerson(t, "Rowan", "Achebe")
	resp := doJSON(t, app, "POST", "/api/meetings/"+meeting.ID.String()+"/attendance", token, fiber.Map{
		"person_id": attendee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var credit models.CMECredit
	require.NoError(t, database.DB.Where("person_id = ? AND meeting_id = ?", attendee.ID, meeting.ID).
		First(&credit).Error)
	assert.Equal(t, models.CMESourceMeeting, credit.Source)
	assert.Equal(t, 1.5, credit.CreditHours)
	assert.Equal(t, time.Now().Year(), credit.Year)
}

func TestMarkAttendanceDuplicate(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "MeetingsDup"))

	meeting := models.Meeting{Title: "M&M Conference", MeetingDate: time.Now()}
	require.NoError(t, database.DB.Create(&meeting).Error)
	attendee := seedPerson(t, "Devi", "Raman")

	body := fiber.Map{"person_id": attendee.ID}
	resp := doJSON(t, app, "POST", "/api/meetings/"+meeting.ID.String()+"/attendance", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/meetings/"+meeting.ID.String()+"/attendance", token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Non-credit meeting awards nothing
	var credits int64
	database.DB.Model(&models.CMECredit{}).Where("person_id = ?", attendee.ID).Count(&credits)
	assert.Zero(t, credits)
}

func TestCMESummaryGroupsByYear(t *testing.T) {
	app := setupApp(t)
	person := seedPerson(t, "Sasha", "Volkov")
	token := authToken(t, person)

	resp := doJSON(t, app, "POST", "/api/people/"+person.ID.String()+"/cme", token, fiber.Map{
		"description":  "Regional conference",
		"credit_hours": 6.0,
		"year":         2024,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/people/"+person.ID.String()+"/cme", token, fiber.Map{
		"description":  "Online module",
		"credit_hours": 2.0,
		"year":         2024,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/people/"+person.ID.String()+"/cme/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var totals []models.CMEYearTotal
	decode(t, resp, &totals)
	require.Len(t, totals, 1)
	assert.Equal(t, 2024, totals[0].Year)
	assert.Equal(t, 8.0, totals[0].TotalHours)
	assert.Equal(t, 2, totals[0].EntryCount)
}

func TestCreateCMERejectsNonPositiveHours(t *testing.T) {
	app := setupApp(t)
	person := seedPerson(t, "Eli", "Stone")
	token := authToken(t, person)

	resp := doJSON(t, app, "POST", "/api/people/"+person.ID.String()+"/cme", token, fiber.Map{
		"description":  "Bad entry",
		"credit_hours": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
