package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
)

func TestCreateActionItemDeduped(t *testing.T) {
	app := setupApp(t)
	admin := seedPerson(t, "Admin", "Actions")
	token := authToken(t, admin)
	path := seedPath(t, "Hospitalist Track")
	trainee := seedPerson(t, "Billie", "Moreau")

	resp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/trainees", token, fiber.Map{
		"person_id": trainee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body := fiber.Map{
		"person_id": trainee.ID,
		"title":     "Submit procedure log",
	}
	resp = doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/actions", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var action models.ActionItem
	decode(t, resp, &action)
	assert.Equal(t, models.ActionStatusOpen, action.Status)
	require.NotNil(t, action.AssignedBy)
	assert.Equal(t, admin.ID, *action.AssignedBy)

	// Assignment also leaves a notification for the assignee
	var notifs int64
	database.DB.Model(&models.Notification{}).Where("person_id = ?", trainee.ID).Count(&notifs)
	assert.NotZero(t, notifs)

	resp = doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/actions", token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The rejected duplicate must not have inserted a second row
	var count int64
	database.DB.Model(&models.ActionItem{}).
		Where("person_id = ? AND title = ? AND path_step_id IS NULL", trainee.ID, "Submit procedure log").
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateActionItemSameTitleDifferentStep(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "ActionsStep"))
	path := seedPath(t, "Trauma Track")
	course := seedCourse(t, "ATLS", 4)
	step := models.PathStep{PathID: path.ID, CourseID: course.ID, StepGroup: 1, StepOrder: 1, IsRequired: true}
	require.NoError(t, database.DB.Create(&step).Error)
	trainee := seedPerson(t, "Alix", "Ferreira")

	resp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/actions", token, fiber.Map{
		"person_id": trainee.ID,
		"title":     "Upload case write-up",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same title tied to a step is a distinct assignment, not a duplicate
	resp = doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/actions", token, fiber.Map{
		"person_id":    trainee.ID,
		"path_step_id": step.ID,
		"title":        "Upload case write-up",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestGetPathActionsViaTrainee(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "ActionsList"))
	path := seedPath(t, "ICU Track")
	trainee := seedPerson(t, "Frankie", "Adeyemi")

	resp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/trainees", token, fiber.Map{
		"person_id": trainee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// An item assigned directly to the person shows up in the path view
	require.NoError(t, database.DB.Create(&models.ActionItem{
		PersonID: trainee.ID,
		Title:    "Renew BLS certification",
		Status:   models.ActionStatusOpen,
	}).Error)

	resp = doJSON(t, app, "GET", "/api/paths/"+path.ID.String()+"/actions", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var actions []models.ActionItem
	decode(t, resp, &actions)
	require.Len(t, actions, 1)
	assert.Equal(t, "Renew BLS certification", actions[0].Title)
}

func TestUpdateActionItemStatus(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "ActionsDone"))
	path := seedPath(t, "Clinic Track")
	trainee := seedPerson(t, "Remy", "Sato")

	action := models.ActionItem{
		PersonID: trainee.ID,
		Title:    "Complete chart audit",
		Status:   models.ActionStatusOpen,
	}
	require.NoError(t, database.DB.Create(&action).Error)

	resp := doJSON(t, app, "PATCH",
		"/api/paths/"+path.ID.String()+"/actions/"+action.ID.String(),
		token, fiber.Map{"status": "DONE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.ActionItem
	decode(t, resp, &updated)
	assert.Equal(t, models.ActionStatusDone, updated.Status)
}
