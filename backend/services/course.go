package services

import (
	"encoding/json"
	"errors"
	"sort"

	"gorm.io/gorm"

	"learnhub/backend/models"
)

type CourseService struct {
	DB *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{DB: db}
}

type CourseSummary struct {
	models.Course
	LessonsCount int `json:"lessons_count"`
}

type LessonDetail struct {
	models.Lesson
	Quiz *models.Quiz `json:"quiz,omitempty"`
}

type CourseDetail struct {
	models.Course
	Lessons []LessonDetail `json:"lessons"`
	Quiz    *models.Quiz   `json:"quiz,omitempty"`
}

type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	ShortDesc   string `json:"short_desc"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type LessonInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

var defaultCategories = []string{"Training", "Product", "Newsletter"}

// ListCourses returns every course with its lesson count, ordered by the
// admin-controlled display order. Unordered courses sort last; ties break
// newest first.
func (s *CourseService) ListCourses(category string) ([]CourseSummary, error) {
	query := s.DB.Preload("Lessons")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		summaries = append(summaries, CourseSummary{Course: course, LessonsCount: len(course.Lessons)})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		oi, oj := summaries[i].DisplayOrder, summaries[j].DisplayOrder
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi == nil && oj != nil:
			return false
		case oi != nil && oj == nil:
			return true
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries, nil
}

// GetCourseDetail resolves the course with its ordered lessons, the
// course-level quiz and every lesson quiz.
func (s *CourseService) GetCourseDetail(courseID uint) (CourseDetail, error) {
	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CourseDetail{}, ErrNotFound
		}
		return CourseDetail{}, err
	}

	var lessons []models.Lesson
	if err := s.DB.Where("course_id = ?", courseID).Order("sequence_order ASC").Find(&lessons).Error; err != nil {
		return CourseDetail{}, err
	}

	var quizzes []models.Quiz
	if err := s.DB.Where("course_id = ?", courseID).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).Find(&quizzes).Error; err != nil {
		return CourseDetail{}, err
	}

	detail := CourseDetail{Course: course}
	lessonQuizzes := make(map[uint]*models.Quiz, len(quizzes))
	for i := range quizzes {
		if quizzes[i].LessonID == nil {
			detail.Quiz = &quizzes[i]
		} else {
			lessonQuizzes[*quizzes[i].LessonID] = &quizzes[i]
		}
	}
	for _, lesson := range lessons {
		detail.Lessons = append(detail.Lessons, LessonDetail{Lesson: lesson, Quiz: lessonQuizzes[lesson.ID]})
	}

	return detail, nil
}

// CreateCourse adds a new course at the top of the list.
func (s *CourseService) CreateCourse(actor models.User, input CourseInput) (models.Course, error) {
	if !actor.IsAdmin() {
		return models.Course{}, ErrUnauthorized
	}

	top := 0
	course := models.Course{
		Title:        input.Title,
		ShortDesc:    input.ShortDesc,
		Description:  input.Description,
		Category:     input.Category,
		DisplayOrder: &top,
	}
	if err := s.DB.Create(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// UpdateCourse overwrites the provided fields of an existing course.
func (s *CourseService) UpdateCourse(actor models.User, courseID uint, input CourseInput) (models.Course, error) {
	if !actor.IsAdmin() {
		return models.Course{}, ErrUnauthorized
	}

	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrNotFound
		}
		return models.Course{}, err
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.ShortDesc != "" {
		course.ShortDesc = input.ShortDesc
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}

	if err := s.DB.Save(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// DeleteCourse removes the course and everything hanging off it in one
// transaction: its lessons, its quizzes and their questions, and every
// user's progress and quiz results for it. Nothing is committed on failure.
func (s *CourseService) DeleteCourse(actor models.User, courseID uint) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&models.Quiz{}).Where("course_id = ?", courseID).
			Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, courseID).Error
	})
}

// ReorderCourses persists the given sequence as the display order, 0-based.
func (s *CourseService) ReorderCourses(actor models.User, orderedIDs []uint) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			if err := tx.Model(&models.Course{}).Where("id = ?", id).
				Update("display_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddLesson appends a lesson after the current last sibling.
func (s *CourseService) AddLesson(actor models.User, courseID uint, input LessonInput) (models.Lesson, error) {
	if !actor.IsAdmin() {
		return models.Lesson{}, ErrUnauthorized
	}

	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrNotFound
		}
		return models.Lesson{}, err
	}

	var count int64
	if err := s.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return models.Lesson{}, err
	}

	lesson := models.Lesson{
		CourseID:      courseID,
		Title:         input.Title,
		Description:   input.Description,
		Content:       input.Content,
		SequenceOrder: int(count) + 1,
	}
	if err := s.DB.Create(&lesson).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

// UpdateLesson overwrites the provided fields of an existing lesson.
func (s *CourseService) UpdateLesson(actor models.User, courseID, lessonID uint, input LessonInput) (models.Lesson, error) {
	if !actor.IsAdmin() {
		return models.Lesson{}, ErrUnauthorized
	}

	var lesson models.Lesson
	if err := s.DB.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrNotFound
		}
		return models.Lesson{}, err
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Description != "" {
		lesson.Description = input.Description
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}

	if err := s.DB.Save(&lesson).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

// DeleteLesson removes the lesson together with its quiz, then renumbers the
// surviving siblings so their order stays contiguous from 1 — all in one
// transaction.
func (s *CourseService) DeleteLesson(actor models.User, courseID, lessonID uint) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	var lesson models.Lesson
	if err := s.DB.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&models.Quiz{}).Where("lesson_id = ?", lessonID).
			Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("lesson_id = ?", lessonID).Delete(&models.Quiz{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Lesson{}, lessonID).Error; err != nil {
			return err
		}

		var siblings []models.Lesson
		if err := tx.Where("course_id = ?", courseID).Order("sequence_order ASC").
			Find(&siblings).Error; err != nil {
			return err
		}
		for index, sibling := range siblings {
			if sibling.SequenceOrder == index+1 {
				continue
			}
			if err := tx.Model(&models.Lesson{}).Where("id = ?", sibling.ID).
				Update("sequence_order", index+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReorderLessons persists the given sequence as the lesson order, 1-based.
func (s *CourseService) ReorderLessons(actor models.User, courseID uint, orderedIDs []uint) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			if err := tx.Model(&models.Lesson{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("sequence_order", index+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Categories returns the configured category display order, falling back to
// the defaults when nothing has been saved yet.
func (s *CourseService) Categories() ([]string, error) {
	var setting models.Setting
	if err := s.DB.First(&setting, models.SettingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultCategories, nil
		}
		return nil, err
	}

	categories := setting.CategoryList()
	if len(categories) == 0 {
		return defaultCategories, nil
	}
	return categories, nil
}

// UpdateCategories saves a new category display order.
func (s *CourseService) UpdateCategories(actor models.User, categories []string) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}

	setting := models.Setting{ID: models.SettingID, Categories: raw}
	return s.DB.Save(&setting).Error
}
