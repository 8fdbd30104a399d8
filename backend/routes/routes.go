package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	lessonsController := controllers.NewLessonsController(db, cfg)
	quizzesController := controllers.NewQuizzesController(db, cfg)

	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/categories", coursesController.GetCategories)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/lessons/:lessonId/complete", lessonsController.CompleteLesson)

	// Quiz routes
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Post("/:id/submit", quizzesController.SubmitQuiz)
	quizzes.Get("/:id/result", quizzesController.GetQuizResult)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/progress", authMiddleware, progressController.GetProgress)

	// Admin routes for courses
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/reorder", coursesController.ReorderCourses)
	adminCourses.Put("/categories", coursesController.UpdateCategories)
	adminCourses.Put("/:id", coursesController.UpdateCourse)
	adminCourses.Delete("/:id", coursesController.DeleteCourse)
	adminCourses.Post("/:id/lessons", lessonsController.AddLesson)
	adminCourses.Put("/:id/lessons/reorder", lessonsController.ReorderLessons)
	adminCourses.Put("/:id/lessons/:lessonId", lessonsController.UpdateLesson)
	adminCourses.Delete("/:id/lessons/:lessonId", lessonsController.DeleteLesson)
	adminCourses.Put("/:id/quiz", quizzesController.SaveCourseQuiz)
	adminCourses.Put("/:id/lessons/:lessonId/quiz", quizzesController.SaveLessonQuiz)

	// Admin routes for students
	adminStudents := app.Group("/api/admin/students", authMiddleware, adminMiddleware)
	adminStudents.Get("/", progressController.ListStudents)
	adminStudents.Get("/progress", progressController.GetAllStudentProgress)
	adminStudents.Get("/:id/progress", progressController.GetStudentProgress)
	adminStudents.Put("/:id/profile", progressController.UpdateStudentProfile)
}
