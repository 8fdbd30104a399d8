package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type QuizzesController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Quizzes *services.QuizService
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	progress := services.NewProgressService(db)
	return &QuizzesController{
		DB:      db,
		Cfg:     cfg,
		Quizzes: services.NewQuizService(db, progress),
	}
}

func (qc *QuizzesController) SaveCourseQuiz(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input services.QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	quiz, err := qc.Quizzes.SaveCourseQuiz(user, uint(courseID), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, quiz)
}

func (qc *QuizzesController) SaveLessonQuiz(c *fiber.Ctx) error {
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

	var input services.QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if fields := validateStruct(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	quiz, err := qc.Quizzes.SaveLessonQuiz(user, uint(courseID), uint(lessonID), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, quiz)
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the submitted answers, stores the result and returns the per-question detail
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id}/submit [post]
func (qc *QuizzesController) SubmitQuiz(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input struct {
		Answers map[uint]int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result, graded, err := qc.Quizzes.Submit(user, uint(quizID), input.Answers)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"result_id":     result.ID,
		"score":         result.Score,
		"correct_count": graded.CorrectCount,
		"answers":       graded.Details,
		"completed_at":  result.CompletedAt,
	})
}

func (qc *QuizzesController) GetQuizResult(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	result, details, err := qc.Quizzes.ResultFor(user.ID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"result_id":    result.ID,
		"course_id":    result.CourseID,
		"quiz_id":      result.QuizID,
		"lesson_id":    result.LessonID,
		"score":        result.Score,
		"answers":      details,
		"completed_at": result.CompletedAt,
	})
}
