package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"learnhub/backend/models"
)

type QuizService struct {
	DB       *gorm.DB
	Progress *ProgressService
}

func NewQuizService(db *gorm.DB, progress *ProgressService) *QuizService {
	return &QuizService{DB: db, Progress: progress}
}

type QuestionInput struct {
	Text        string   `json:"text" validate:"required"`
	Options     []string `json:"options" validate:"min=2"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

type QuizInput struct {
	Title     string          `json:"title"`
	Questions []QuestionInput `json:"questions" validate:"min=1,dive"`
}

var errBadCorrectIndex = errors.New("correct answer index out of range")

// SaveCourseQuiz replaces the course-level quiz of the course.
func (s *QuizService) SaveCourseQuiz(actor models.User, courseID uint, input QuizInput) (models.Quiz, error) {
	return s.saveQuiz(actor, courseID, nil, input)
}

// SaveLessonQuiz replaces the quiz attached to the lesson.
func (s *QuizService) SaveLessonQuiz(actor models.User, courseID, lessonID uint, input QuizInput) (models.Quiz, error) {
	return s.saveQuiz(actor, courseID, &lessonID, input)
}

// saveQuiz enforces the one-quiz-per-target invariant: any existing quiz for
// the same course or lesson is removed in the same transaction that inserts
// the replacement.
func (s *QuizService) saveQuiz(actor models.User, courseID uint, lessonID *uint, input QuizInput) (models.Quiz, error) {
	if !actor.IsAdmin() {
		return models.Quiz{}, ErrUnauthorized
	}
	if len(input.Questions) == 0 {
		return models.Quiz{}, ErrNoQuestions
	}
	for _, question := range input.Questions {
		if question.Correct < 0 || question.Correct >= len(question.Options) {
			return models.Quiz{}, errBadCorrectIndex
		}
	}

	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrNotFound
		}
		return models.Quiz{}, err
	}
	if lessonID != nil {
		var lesson models.Lesson
		if err := s.DB.Where("id = ? AND course_id = ?", *lessonID, courseID).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Quiz{}, ErrNotFound
			}
			return models.Quiz{}, err
		}
	}

	quiz := models.Quiz{CourseID: courseID, LessonID: lessonID, Title: input.Title}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		existing := tx.Where("course_id = ?", courseID)
		if lessonID == nil {
			existing = existing.Where("lesson_id IS NULL")
		} else {
			existing = existing.Where("lesson_id = ?", *lessonID)
		}

		var old []models.Quiz
		if err := existing.Find(&old).Error; err != nil {
			return err
		}
		for _, q := range old {
			if err := tx.Where("quiz_id = ?", q.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Quiz{}, q.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, question := range input.Questions {
			options, err := json.Marshal(question.Options)
			if err != nil {
				return err
			}
			record := models.Question{
				QuizID:        quiz.ID,
				Text:          question.Text,
				Options:       options,
				Correct:       question.Correct,
				Explanation:   question.Explanation,
				SequenceOrder: i + 1,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			quiz.Questions = append(quiz.Questions, record)
		}
		return nil
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// QuizFor loads the quiz for the given target with questions in order.
// lessonID == nil selects the course-level quiz.
func (s *QuizService) QuizFor(courseID uint, lessonID *uint) (models.Quiz, error) {
	query := s.DB.Where("course_id = ?", courseID)
	if lessonID == nil {
		query = query.Where("lesson_id IS NULL")
	} else {
		query = query.Where("lesson_id = ?", *lessonID)
	}

	var quiz models.Quiz
	if err := query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrNotFound
		}
		return models.Quiz{}, err
	}
	return quiz, nil
}

// Submit grades the attempt and stores the result, replacing any previous
// result for the same quiz in one transaction so a reader never sees two
// results for one (user, quiz) pair. Grading a lesson quiz always marks the
// lesson complete, whatever the score.
func (s *QuizService) Submit(actor models.User, quizID uint, answers map[uint]int) (models.QuizResult, GradedQuiz, error) {
	if actor.IsAdmin() {
		return models.QuizResult{}, GradedQuiz{}, ErrUnauthorized
	}

	var quiz models.Quiz
	if err := s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QuizResult{}, GradedQuiz{}, ErrNotFound
		}
		return models.QuizResult{}, GradedQuiz{}, err
	}

	graded, err := GradeQuiz(quiz.Questions, answers)
	if err != nil {
		return models.QuizResult{}, GradedQuiz{}, err
	}

	details, err := json.Marshal(graded.Details)
	if err != nil {
		return models.QuizResult{}, GradedQuiz{}, err
	}

	result := models.QuizResult{
		ID:          uuid.NewString(),
		UserID:      actor.ID,
		CourseID:    quiz.CourseID,
		QuizID:      quiz.ID,
		LessonID:    quiz.LessonID,
		Score:       graded.Score,
		Answers:     details,
		CompletedAt: time.Now().UTC(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND quiz_id = ?", actor.ID, quiz.ID).
			Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}
		return tx.Create(&result).Error
	})
	if err != nil {
		return models.QuizResult{}, GradedQuiz{}, err
	}

	if quiz.LessonID != nil {
		if err := s.Progress.MarkLessonComplete(actor, quiz.CourseID, *quiz.LessonID); err != nil {
			return models.QuizResult{}, GradedQuiz{}, err
		}
	}

	return result, graded, nil
}

// ResultFor returns the user's stored result for the quiz, with the
// per-question detail decoded for review screens.
func (s *QuizService) ResultFor(userID, quizID uint) (models.QuizResult, []AnswerDetail, error) {
	var result models.QuizResult
	if err := s.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QuizResult{}, nil, ErrNotFound
		}
		return models.QuizResult{}, nil, err
	}

	var details []AnswerDetail
	if err := json.Unmarshal(result.Answers, &details); err != nil {
		return models.QuizResult{}, nil, err
	}
	return result, details, nil
}
