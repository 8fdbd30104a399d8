package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func TestRegister(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"email":     uniqueEmail("register"),
		"password":  "password123",
		"full_name": "New Student",
		"branch":    "Hamburg",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "New Student", user["full_name"])
	assert.Equal(t, models.RoleStudent, user["role"])
}

func TestRegisterValidation(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	email := uniqueEmail("login")
	register(t, email)

	resp := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	email := uniqueEmail("badlogin")
	register(t, email)

	resp := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	token, _ := register(t, uniqueEmail("profile"))

	resp := doJSON(t, "GET", "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	profile, ok := data(t, resp).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Test User", profile["full_name"])
	assert.Equal(t, "Berlin", profile["branch"])
}

func TestProfileRequiresToken(t *testing.T) {
	resp := doJSON(t, "GET", "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/user/profile", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
