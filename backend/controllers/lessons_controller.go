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

type LessonsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Courses  *services.CourseService
	Progress *services.ProgressService
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{
		DB:       db,
		Cfg:      cfg,
		Courses:  services.NewCourseService(db),
		Progress: services.NewProgressService(db),
	}
}

func (lc *LessonsController) AddLesson(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input services.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	lesson, err := lc.Courses.AddLesson(user, uint(courseID), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Created(c, lesson)
}

func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input services.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	lesson, err := lc.Courses.UpdateLesson(user, uint(courseID), uint(lessonID), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	if err := lc.Courses.DeleteLesson(user, uint(courseID), uint(lessonID)); err != nil {
		return serviceError(c, err)
	}
	return utils.NoContent(c)
}

// ReorderLessons persists the submitted sequence and responds with the
// refreshed course so the client sees the persisted order.
func (lc *LessonsController) ReorderLessons(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input ReorderInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if err := lc.Courses.ReorderLessons(user, uint(courseID), input.IDs); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return serviceError(c, err)
		}
		if detail, loadErr := lc.Courses.GetCourseDetail(uint(courseID)); loadErr == nil {
			return utils.Error(c, fiber.StatusInternalServerError, err, detail)
		}
		return serviceError(c, err)
	}

	detail, err := lc.Courses.GetCourseDetail(uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

// CompleteLesson records the lesson in the student's progress set.
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	if err := lc.Progress.MarkLessonComplete(user, uint(courseID), uint(lessonID)); err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id": courseID,
		"lesson_id": lessonID,
		"completed": true,
	})
}
