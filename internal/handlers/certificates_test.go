package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
)

func TestCertificateTemplateLifecycle(t *testing.T) {
	app := setupApp(t)
	token := authToken(t, seedPerson(t, "Admin", "Certs"))

	resp := doJSON(t, app, "POST", "/api/certificates/", token, fiber.Map{
		"name": "CME Completion",
		"body": "This certifies that {{name}} completed {{course}}.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.CertificateTemplate
	decode(t, resp, &created)
	assert.True(t, created.IsActive)

	resp = doJSON(t, app, "POST", "/api/certificates/", token, fiber.Map{
		"name": "CME Completion",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "PUT", "/api/certificates/"+created.ID.String(), token, fiber.Map{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.CertificateTemplate
	decode(t, resp, &updated)
	assert.False(t, updated.IsActive)

	resp = doJSON(t, app, "GET", "/api/certificates/?active=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var active []models.CertificateTemplate
	decode(t, resp, &active)
	assert.Empty(t, active)
}
