package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/database"
	"learnhub/backend/models"
	"learnhub/backend/routes"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func setup() {
	cfg = &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
	}

	var err error
	db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)
}

// register creates an account through the API and returns its token.
func register(t *testing.T, email string) (string, uint) {
	t.Helper()

	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "password123",
		"full_name": "Test User",
		"branch":    "Berlin",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	return token, uint(id)
}

// registerAdmin registers an account and promotes it to the admin role
// directly in the database, the way ops would.
func registerAdmin(t *testing.T, email string) (string, uint) {
	t.Helper()

	token, id := register(t, email)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).
		Update("role", models.RoleAdmin).Error)
	return token, id
}

func doJSON(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// data unwraps the success envelope.
func data(t *testing.T, resp *http.Response) interface{} {
	t.Helper()

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"], "expected success envelope, got %v", body)
	return body["data"]
}

var emailCounter int

func uniqueEmail(prefix string) string {
	emailCounter++
	return fmt.Sprintf("%s-%d@example.com", prefix, emailCounter)
}
