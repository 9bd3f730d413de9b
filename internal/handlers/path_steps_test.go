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

func TestReplaceStepsNormalizesNumbering(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Steps"))
	path := seedPath(t, "Emergency Medicine Track")
	courseA := seedCourse(t, "Trauma Basics", 4)
	courseB := seedCourse(t, "Airway Management", 2)
	courseC := seedCourse(t, "Toxicology", 3)

	// Sparse client numbering collapses to dense 1-based groups and orders
	resp := doJSON(t, app, "PUT", "/api/paths/"+path.ID.String()+"/steps", token, fiber.Map{
		"steps": []fiber.Map{
			{"course_id": courseC.ID, "step_group": 9, "step_order": 5},
			{"course_id": courseA.ID, "step_group": 3, "step_order": 2},
			{"course_id": courseB.ID, "step_group": 3, "step_order": 7},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var steps []models.PathStep
	decode(t, resp, &steps)
	require.Len(t, steps, 3)

	assert.Equal(t, courseA.ID, steps[0].CourseID)
	assert.Equal(t, 1, steps[0].StepGroup)
	assert.Equal(t, 1, steps[0].StepOrder)

	assert.Equal(t, courseB.ID, steps[1].CourseID)
	assert.Equal(t, 1, steps[1].StepGroup)
	assert.Equal(t, 2, steps[1].StepOrder)

	assert.Equal(t, courseC.ID, steps[2].CourseID)
	assert.Equal(t, 2, steps[2].StepGroup)
	assert.Equal(t, 1, steps[2].StepOrder)
}

func TestReplaceStepsBackfillsEnrolledTrainees(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Backfill"))
	path := seedPath(t, "Pediatrics Track")
	courseA := seedCourse(t, "PALS", 4)
	courseB := seedCourse(t, "Neonatal Care", 2)

	trainee := seedPerson(t, "Riley", "Okafor")
	tp := models.TraineePath{PersonID: trainee.ID, PathID: path.ID, Status: models.TraineeStatusActive}
	require.NoError(t, database.DB.Create(&tp).Error)

	resp := doJSON(t, app, "PUT", "/api/paths/"+path.ID.String()+"/steps", token, fiber.Map{
		"steps": []fiber.Map{
			{"course_id": courseA.ID, "step_group": 1, "step_order": 1},
			{"course_id": courseB.ID, "step_group": 2, "step_order": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var progress []models.TraineeStepProgress
	require.NoError(t, database.DB.Where("trainee_path_id = ?", tp.ID).Find(&progress).Error)
	require.Len(t, progress, 2)
	for _, pr := range progress {
		assert.Equal(t, models.ProgressNotStarted, pr.Status)
	}
}

func TestReplaceStepsCarriesOverProgressByCourse(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Carry"))
	path := seedPath(t, "Anesthesia Track")
	courseA := seedCourse(t, "Pharmacology", 4)
	courseB := seedCourse(t, "Regional Blocks", 2)
	courseC := seedCourse(t, "OR Safety", 1)

	put := func(stepInputs []fiber.Map) []models.PathStep {
		resp := doJSON(t, app, "PUT", "/api/paths/"+path.ID.String()+"/steps", token, fiber.Map{
			"steps": stepInputs,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var steps []models.PathStep
		decode(t, resp, &steps)
		return steps
	}

	steps := put([]fiber.Map{
		{"course_id": courseA.ID, "step_group": 1, "step_order": 1},
		{"course_id": courseB.ID, "step_group": 1, "step_order": 2},
	})

	trainee := seedPerson(t, "Sam", "Lindqvist")
	enrollResp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/trainees", token, fiber.Map{
		"person_id": trainee.ID,
	})
	require.Equal(t, http.StatusCreated, enrollResp.StatusCode)
	var tp models.TraineePath
	decode(t, enrollResp, &tp)

	// Complete the course A step before the replacement
	resp := doJSON(t, app, "PATCH",
		"/api/paths/"+path.ID.String()+"/progress/"+tp.ID.String()+"/"+steps[0].ID.String(),
		token, fiber.Map{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Replace: keep course A, drop B, add C
	newSteps := put([]fiber.Map{
		{"course_id": courseA.ID, "step_group": 1, "step_order": 1},
		{"course_id": courseC.ID, "step_group": 2, "step_order": 1},
	})

	var progress []models.TraineeStepProgress
	require.NoError(t, database.DB.Where("trainee_path_id = ?", tp.ID).Find(&progress).Error)
	require.Len(t, progress, 2)

	byStep := make(map[string]models.TraineeStepProgress)
	for _, pr := range progress {
		byStep[pr.PathStepID.String()] = pr
	}

	carried := byStep[newSteps[0].ID.String()]
	assert.Equal(t, models.ProgressCompleted, carried.Status)
	assert.NotNil(t, carried.CompletedAt)

	fresh := byStep[newSteps[1].ID.String()]
	assert.Equal(t, models.ProgressNotStarted, fresh.Status)
	assert.Nil(t, fresh.StartedAt)
}

func TestReplaceStepsRejectsMissingCourse(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Reject"))
	path := seedPath(t, "Dermatology Track")

	resp := doJSON(t, app, "PUT", "/api/paths/"+path.ID.String()+"/steps", token, fiber.Map{
		"steps": []fiber.Map{{"step_group": 1, "step_order": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
