package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"learnhub/backend/database"
	"learnhub/backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// keep every query on the single in-memory connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Test User",
		Branch:       "Main",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourseWithLessons(t *testing.T, db *gorm.DB, title string, lessonCount int) (models.Course, []models.Lesson) {
	t.Helper()

	course := models.Course{Title: title}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]models.Lesson, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := models.Lesson{
			CourseID:      course.ID,
			Title:         "Lesson",
			SequenceOrder: i + 1,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return course, lessons
}

func saveQuizFor(t *testing.T, db *gorm.DB, admin models.User, courseID uint, lessonID *uint) models.Quiz {
	t.Helper()

	svc := NewQuizService(db, NewProgressService(db))
	input := QuizInput{
		Title: "Quiz",
		Questions: []QuestionInput{
			{Text: "2+2?", Options: []string{"3", "4"}, Correct: 1, Explanation: "arithmetic"},
			{Text: "Capital of France?", Options: []string{"Paris", "Rome"}, Correct: 0},
		},
	}

	var (
		quiz models.Quiz
		err  error
	)
	if lessonID == nil {
		quiz, err = svc.SaveCourseQuiz(admin, courseID, input)
	} else {
		quiz, err = svc.SaveLessonQuiz(admin, courseID, *lessonID, input)
	}
	require.NoError(t, err)
	return quiz
}
