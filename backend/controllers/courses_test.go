package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCourse(t *testing.T, adminToken, title string) uint {
	t.Helper()

	resp := doJSON(t, "POST", "/api/admin/courses/", adminToken, map[string]string{
		"title":      title,
		"short_desc": "short",
		"category":   "Training",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	course, ok := data(t, resp).(map[string]interface{})
	require.True(t, ok)
	id, _ := course["ID"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

func addLesson(t *testing.T, adminToken string, courseID uint, title string) uint {
	t.Helper()

	resp := doJSON(t, "POST", fmt.Sprintf("/api/admin/courses/%d/lessons", courseID), adminToken,
		map[string]string{"title": title, "content": "body"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	lesson, ok := data(t, resp).(map[string]interface{})
	require.True(t, ok)
	id, _ := lesson["ID"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	studentToken, _ := register(t, uniqueEmail("student"))

	resp := doJSON(t, "POST", "/api/admin/courses/", studentToken, map[string]string{
		"title": "Forbidden",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCourseLifecycle(t *testing.T) {
	adminToken, _ := registerAdmin(t, uniqueEmail("admin"))
	studentToken, _ := register(t, uniqueEmail("student"))

	courseID := createCourse(t, adminToken, "Lifecycle course")
	addLesson(t, adminToken, courseID, "Lesson one")

	// update
	resp := doJSON(t, "PUT", fmt.Sprintf("/api/admin/courses/%d", courseID), adminToken,
		map[string]string{"category": "Product"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated, _ := data(t, resp).(map[string]interface{})
	assert.Equal(t, "Product", updated["category"])
	assert.Equal(t, "Lifecycle course", updated["title"])

	// students see it in the list
	resp = doJSON(t, "GET", "/api/courses/?category=Product", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list, ok := data(t, resp).([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, list)

	// detail carries lessons plus the caller's progress
	resp = doJSON(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail, _ := data(t, resp).(map[string]interface{})
	require.NotNil(t, detail["course"])
	assert.NotNil(t, detail["stats"])
	assert.NotNil(t, detail["completed_lessons"])

	// delete
	resp = doJSON(t, "DELETE", fmt.Sprintf("/api/admin/courses/%d", courseID), adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReorderCoursesEndpoint(t *testing.T) {
	adminToken, _ := registerAdmin(t, uniqueEmail("admin"))

	first := createCourse(t, adminToken, "Reorder A")
	second := createCourse(t, adminToken, "Reorder B")

	resp := doJSON(t, "PUT", "/api/admin/courses/reorder", adminToken,
		map[string][]uint{"ids": {second, first}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the response is the authoritative list in the new order
	list, ok := data(t, resp).([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, list)
	top, _ := list[0].(map[string]interface{})
	assert.Equal(t, "Reorder B", top["title"])
}

func TestReorderCoursesValidation(t *testing.T) {
	adminToken, _ := registerAdmin(t, uniqueEmail("admin"))

	resp := doJSON(t, "PUT", "/api/admin/courses/reorder", adminToken,
		map[string][]uint{"ids": {}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLessonLifecycle(t *testing.T) {
	adminToken, _ := registerAdmin(t, uniqueEmail("admin"))

	courseID := createCourse(t, adminToken, "Lesson course")
	a := addLesson(t, adminToken, courseID, "Alpha")
	b := addLesson(t, adminToken, courseID, "Beta")
	c := addLesson(t, adminToken, courseID, "Gamma")

	resp := doJSON(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/lessons/%d", courseID, b), adminToken,
		map[string]string{"title": "Beta revised"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "PUT", fmt.Sprintf("/api/admin/courses/%d/lessons/reorder", courseID), adminToken,
		map[string][]uint{"ids": {c, b, a}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "DELETE", fmt.Sprintf("/api/admin/courses/%d/lessons/%d", courseID, b), adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCategoriesEndpoint(t *testing.T) {
	adminToken, _ := registerAdmin(t, uniqueEmail("admin"))
	studentToken, _ := register(t, uniqueEmail("student"))

	resp := doJSON(t, "PUT", "/api/admin/courses/categories", studentToken,
		map[string][]string{"categories": {"Hacking"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, "PUT", "/api/admin/courses/categories", adminToken,
		map[string][]string{"categories": {"Training", "Ops"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/courses/categories", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	categories, ok := data(t, resp).([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Training", "Ops"}, categories)
}
