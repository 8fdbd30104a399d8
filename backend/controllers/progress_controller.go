package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Progress *services.ProgressService
	Courses  *services.CourseService
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{
		DB:       db,
		Cfg:      cfg,
		Progress: services.NewProgressService(db),
		Courses:  services.NewCourseService(db),
	}
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns the user's per-course progress and quiz statistics
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	merged, err := pc.Progress.UserProgress(user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	var courses []models.Course
	if err := pc.DB.Preload("Lessons").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make(map[uint]services.CourseStats, len(merged))
	for _, course := range courses {
		view, ok := merged[course.ID]
		if !ok {
			continue
		}
		result[course.ID] = services.ComputeCourseStats(len(course.Lessons), view)
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// ListStudents returns the student roster, admin only.
func (pc *ProgressController) ListStudents(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	students, err := pc.Progress.Students(user)
	if err != nil {
		return serviceError(c, err)
	}

	roster := make([]fiber.Map, 0, len(students))
	for _, student := range students {
		roster = append(roster, fiber.Map{
			"id":         student.ID,
			"email":      student.Email,
			"full_name":  student.FullName,
			"branch":     student.Branch,
			"created_at": student.CreatedAt,
		})
	}
	return utils.Success(c, fiber.StatusOK, roster)
}

// GetStudentProgress returns one student's merged progress view, admin only.
func (pc *ProgressController) GetStudentProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	merged, err := pc.Progress.StudentProgressData(user, uint(studentID))
	if err != nil {
		return serviceError(c, err)
	}

	var courses []models.Course
	if err := pc.DB.Preload("Lessons").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make(map[uint]services.CourseStats, len(merged))
	for _, course := range courses {
		view, ok := merged[course.ID]
		if !ok {
			continue
		}
		result[course.ID] = services.ComputeCourseStats(len(course.Lessons), view)
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetAllStudentProgress returns the flat progress report, admin only.
func (pc *ProgressController) GetAllStudentProgress(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	rows, err := pc.Progress.AllStudentProgress(user)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, rows)
}

// UpdateStudentProfile lets an admin correct a student's name and branch.
func (pc *ProgressController) UpdateStudentProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if !user.IsAdmin() {
		return utils.Forbidden(c, "Admin access required")
	}

	studentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid student ID")
	}

	var input struct {
		FullName string `json:"full_name"`
		Branch   string `json:"branch"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var student models.User
	if err := pc.DB.First(&student, studentID).Error; err != nil {
		return utils.NotFound(c, "Student not found")
	}

	if input.FullName != "" {
		student.FullName = input.FullName
	}
	if input.Branch != "" {
		student.Branch = input.Branch
	}

	if err := pc.DB.Save(&student).Error; err != nil {
		return utils.InternalServerError(c, "Could not update student")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":        student.ID,
		"full_name": student.FullName,
		"branch":    student.Branch,
	})
}
