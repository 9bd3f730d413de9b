package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/database"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/models"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/routes"
)

// setupApp gives each test a fresh sqlite database and a fully routed app
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())

	app := fiber.New()
	routes.Setup(app)
	return app
}

func seedPerson(t *testing.T, first, last string) models.Person {
	t.Helper()
	email := fmt.Sprintf("%s.%s.%s@example.org",
		strings.ToLower(first), strings.ToLower(last), uuid.NewString()[:8])
	p := models.Person{
		FirstName:  first,
		LastName:   last,
		Email:      &email,
		IsComplete: true,
		Status:     models.PersonStatusActive,
	}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func seedCourse(t *testing.T, title string, hours float64) models.Course {
	t.Helper()
	c := models.Course{Title: title, CreditHours: hours, IsActive: true}
	require.NoError(t, database.DB.Create(&c).Error)
	return c
}

func seedPath(t *testing.T, name string) models.TrainingPath {
	t.Helper()
	p := models.TrainingPath{Name: name, Status: models.PathStatusActive}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func authToken(t *testing.T, p models.Person) string {
	t.Helper()
	email := ""
	if p.Email != nil {
		email = *p.Email
	}
	token, err := middleware.GenerateToken(p.ID, email)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRegisterLoginMe(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"email":      "chief@hospital.org",
		"password":   "resident1",
		"first_name": "Dana",
		"last_name":  "Ito",
		"title":      "MD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reg models.AuthResponse
	decode(t, resp, &reg)
	assert.NotEmpty(t, reg.Token)
	assert.True(t, reg.Person.IsComplete)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    "chief@hospital.org",
		"password": "resident1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login models.AuthResponse
	decode(t, resp, &login)

	resp = doJSON(t, app, "GET", "/api/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.Person
	decode(t, resp, &me)
	assert.Equal(t, reg.Person.ID, me.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	body := fiber.Map{
		"email":      "dup@hospital.org",
		"password":   "resident1",
		"first_name": "A",
		"last_name":  "B",
	}
	resp := doJSON(t, app, "POST", "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginQuickAddRejected(t *testing.T) {
	app := setupApp(t)

	// Quick-added people have no password and cannot log in
	email := "quickadd@hospital.org"
	p := models.Person{FirstName: "Quick", LastName: "Add", Email: &email}
	require.NoError(t, database.DB.Create(&p).Error)

	resp := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": "anything",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "GET", "/api/paths/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/people/", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
