package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Courses  *services.CourseService
	Progress *services.ProgressService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{
		DB:       db,
		Cfg:      cfg,
		Courses:  services.NewCourseService(db),
		Progress: services.NewProgressService(db),
	}
}

func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	courses, err := cc.Courses.ListCourses(c.Query("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// GetCourseDetails returns the course with its lessons and quizzes, plus the
// requesting user's progress on it.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	detail, err := cc.Courses.GetCourseDetail(uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}

	merged, err := cc.Progress.UserProgress(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	stats := services.ComputeCourseStats(len(detail.Lessons), merged[detail.ID])

	completed := []uint{}
	if view := merged[detail.ID]; view != nil {
		completed = view.CompletedLessons
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":            detail,
		"completed_lessons": completed,
		"stats":             stats,
	})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	course, err := cc.Courses.CreateCourse(user, input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := cc.Courses.UpdateCourse(user, uint(courseID), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	if err := cc.Courses.DeleteCourse(user, uint(courseID)); err != nil {
		return serviceError(c, err)
	}
	return utils.NoContent(c)
}

type ReorderInput struct {
	IDs []uint `json:"ids" validate:"min=1"`
}

// ReorderCourses persists the submitted sequence and responds with the
// authoritative list so the client never keeps a diverged order.
func (cc *CoursesController) ReorderCourses(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input ReorderInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if err := cc.Courses.ReorderCourses(user, input.IDs); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return serviceError(c, err)
		}
		// Attach the authoritative order so the client can drop its
		// speculative reorder.
		if courses, listErr := cc.Courses.ListCourses(""); listErr == nil {
			return utils.Error(c, fiber.StatusInternalServerError, err, courses)
		}
		return serviceError(c, err)
	}
	return cc.respondWithCourseList(c)
}

func (cc *CoursesController) respondWithCourseList(c *fiber.Ctx) error {
	courses, err := cc.Courses.ListCourses("")
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

func (cc *CoursesController) GetCategories(c *fiber.Ctx) error {
	categories, err := cc.Courses.Categories()
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, categories)
}

func (cc *CoursesController) UpdateCategories(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Categories []string `json:"categories" validate:"min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if err := cc.Courses.UpdateCategories(user, input.Categories); err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, input.Categories)
}
