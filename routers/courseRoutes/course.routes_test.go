package courseRoutes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authControllers "edusphere/controllers/auth"
	courseControllers "edusphere/controllers/course"
	"edusphere/models"
	authRoutes "edusphere/routers/authRoutes"
	"edusphere/store"
)

const testJWTKey = "test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}))

	courseStore := store.NewCourseStore(db)
	ledger := store.NewEnrollmentLedger(db)
	coordinator := store.NewCoordinator(db, courseStore, ledger)

	authCtl := authControllers.NewController(db, courseStore, ledger, testJWTKey, 4)
	courseCtl := courseControllers.NewController(courseStore, ledger, coordinator, t.TempDir())

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app, testJWTKey, authCtl, courseCtl)
	SetupCourseRoutes(app, testJWTKey, courseCtl)
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	code, env := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func createCourse(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	code, env := doJSON(t, app, http.MethodPost, "/courses/", token, fiber.Map{
		"title":       title,
		"description": "About " + title,
		"category":    "Development",
		"instructor":  "Alex Johnson",
		"price":       "19.99",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var course models.Course
	require.NoError(t, json.Unmarshal(env.Data, &course))
	require.NotZero(t, course.ID)
	return course.ID
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	code, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	register(t, app, "alice")

	// Duplicate email or username conflicts
	code, _ = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestLoginAndMe(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "alice")

	code, env := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	code, _ = doJSON(t, app, http.MethodGet, "/auth/me", data.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCourseEndpoints(t *testing.T) {
	app := newTestApp(t)
	aliceToken := register(t, app, "alice")
	bobToken := register(t, app, "bob")

	// Creating a course requires auth
	code, _ := doJSON(t, app, http.MethodPost, "/courses/", "", fiber.Map{
		"title": "x", "description": "y", "category": "z", "instructor": "w",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	courseID := createCourse(t, app, aliceToken, "Go Basics")

	// Public catalog
	code, env := doJSON(t, app, http.MethodGet, "/courses/?category=Development", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list store.CourseList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)

	// Bob cannot update or delete Alice's course
	code, _ = doJSON(t, app, http.MethodPut, courseURL(courseID), bobToken, fiber.Map{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = doJSON(t, app, http.MethodDelete, courseURL(courseID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Bob enrolls; a second attempt conflicts
	code, _ = doJSON(t, app, http.MethodPost, courseURL(courseID)+"/enroll", bobToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, app, http.MethodPost, courseURL(courseID)+"/enroll", bobToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = doJSON(t, app, http.MethodGet, "/auth/my-courses", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	var mine struct {
		Courses []store.EnrolledCourse `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine.Courses, 1)
	assert.Equal(t, int64(1), mine.Courses[0].EnrolledCount)

	// Owner deletes; Bob's enrollments disappear with the course
	code, _ = doJSON(t, app, http.MethodDelete, courseURL(courseID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, app, http.MethodGet, "/auth/my-courses", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	mine.Courses = nil
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Empty(t, mine.Courses)

	code, _ = doJSON(t, app, http.MethodGet, courseURL(courseID), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func courseURL(id uint) string {
	return "/courses/" + strconv.FormatUint(uint64(id), 10)
}
