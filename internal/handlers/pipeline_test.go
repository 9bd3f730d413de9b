package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
)

func TestPipelineBucketsByPhase(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Pipeline"))
	path, steps := seedPathWithSteps(t, "Endocrinology Track",
		seedCourse(t, "Diabetes Care", 3),
		seedCourse(t, "Thyroid Disorders", 2))

	trainee := seedPerson(t, "Morgan", "Diallo")
	resp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/trainees", token, fiber.Map{
		"person_id": trainee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tp models.TraineePath
	decode(t, resp, &tp)

	pipeline := func() map[string][]models.PipelineTrainee {
		resp := doJSON(t, app, "GET", "/api/paths/"+path.ID.String()+"/pipeline", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string][]models.PipelineTrainee
		decode(t, resp, &out)
		return out
	}

	// Nothing done yet: the trainee sits in phase 1
	out := pipeline()
	require.Len(t, out["1"], 1)
	assert.Equal(t, trainee.ID, out["1"][0].PersonID)
	assert.Equal(t, 1, out["1"][0].CurrentPhase)

	complete := func(stepID string) {
		resp := doJSON(t, app, "PATCH",
			"/api/paths/"+path.ID.String()+"/progress/"+tp.ID.String()+"/"+stepID,
			token, fiber.Map{"status": "COMPLETED"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Phase 1 complete moves the trainee to phase 2
	complete(steps[0].ID.String())
	out = pipeline()
	assert.Empty(t, out["1"])
	require.Len(t, out["2"], 1)

	// All steps complete: the trainee stays bucketed in the last phase
	complete(steps[1].ID.String())
	out = pipeline()
	require.Len(t, out["2"], 1)
	assert.Equal(t, 2, out["2"][0].CurrentPhase)
}

func TestPipelineStepLessPath(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "PipelineEmpty"))
	path := seedPath(t, "Unconfigured Track")
	trainee := seedPerson(t, "Val", "Iversen")

	resp := doJSON(t, app, "POST", "/api/paths/"+path.ID.String()+"/trainees", token, fiber.Map{
		"person_id": trainee.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Phases are 1-based; a path without steps has no buckets at all
	resp = doJSON(t, app, "GET", "/api/paths/"+path.ID.String()+"/pipeline", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string][]models.PipelineTrainee
	decode(t, resp, &out)
	assert.Empty(t, out)
}

func TestPipelineUnknownPath(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "PipelineMissing"))

	resp := doJSON(t, app, "GET", "/api/paths/00000000-0000-0000-0000-000000000009/pipeline", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
