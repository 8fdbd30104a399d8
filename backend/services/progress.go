package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"learnhub/backend/models"
)

type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// CourseProgressView is one user's merged progress on one course: the set
// of completed lesson ids plus every quiz result, ordered by completion time.
type CourseProgressView struct {
	CompletedLessons []uint
	QuizResults      []models.QuizResult
}

// CourseStats is derived per user and course, never persisted.
type CourseStats struct {
	TotalLessons       int  `json:"total_lessons"`
	CompletedLessons   int  `json:"completed_lessons"`
	ProgressPercentage int  `json:"progress_percentage"`
	LatestScore        *int `json:"latest_score"`
	QuizAttempts       int  `json:"quiz_attempts"`
}

// StudentCourseRow is one flat line of the admin progress report.
type StudentCourseRow struct {
	Branch             string    `json:"branch"`
	FullName           string    `json:"full_name"`
	CourseTitle        string    `json:"course_title"`
	ProgressPercentage int       `json:"progress_percentage"`
	LatestScore        *int      `json:"latest_score"`
	QuizAttempts       int       `json:"quiz_attempts"`
	RegisteredAt       time.Time `json:"registered_at"`
}

// MergeProgressView folds progress records and quiz results into one view
// per course. A course the user has quizzed on but never completed a lesson
// in still gets an entry with an empty lesson set. Completed lesson ids are
// deduplicated; no quiz result is dropped.
func MergeProgressView(progress []models.Progress, results []models.QuizResult) map[uint]*CourseProgressView {
	merged := make(map[uint]*CourseProgressView, len(progress))

	for _, record := range progress {
		merged[record.CourseID] = &CourseProgressView{
			CompletedLessons: dedupIDs(record.CompletedLessonIDs()),
		}
	}

	for _, result := range results {
		view, ok := merged[result.CourseID]
		if !ok {
			view = &CourseProgressView{CompletedLessons: []uint{}}
			merged[result.CourseID] = view
		}
		view.QuizResults = append(view.QuizResults, result)
	}

	// "Latest" is defined by completion time, not by fetch order.
	for _, view := range merged {
		sort.SliceStable(view.QuizResults, func(i, j int) bool {
			return view.QuizResults[i].CompletedAt.Before(view.QuizResults[j].CompletedAt)
		})
	}

	return merged
}

// ComputeCourseStats derives the progress percentage and course-level quiz
// statistics from a merged view. Lesson-level results are excluded from the
// score figures. A nil view or a course with no lessons yields zeroes.
func ComputeCourseStats(totalLessons int, view *CourseProgressView) CourseStats {
	stats := CourseStats{TotalLessons: totalLessons}
	if view == nil {
		return stats
	}

	stats.CompletedLessons = len(view.CompletedLessons)
	if totalLessons > 0 {
		stats.ProgressPercentage = int(math.Round(float64(stats.CompletedLessons) / float64(totalLessons) * 100))
	}

	for _, result := range view.QuizResults {
		if result.LessonID != nil {
			continue
		}
		stats.QuizAttempts++
		score := result.Score
		stats.LatestScore = &score
	}

	return stats
}

// UserProgress loads and merges the user's progress and quiz result records.
func (s *ProgressService) UserProgress(userID uint) (map[uint]*CourseProgressView, error) {
	var progress []models.Progress
	if err := s.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, err
	}

	var results []models.QuizResult
	if err := s.DB.Where("user_id = ?", userID).Find(&results).Error; err != nil {
		return nil, err
	}

	return MergeProgressView(progress, results), nil
}

// MarkLessonComplete records the lesson in the user's progress set for the
// course, creating the record on first completion. Recording the same lesson
// twice is a no-op. Admin accounts do not accumulate progress.
func (s *ProgressService) MarkLessonComplete(actor models.User, courseID, lessonID uint) error {
	if actor.IsAdmin() {
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
		var progress models.Progress
		err := tx.Where("user_id = ? AND course_id = ?", actor.ID, courseID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.Progress{UserID: actor.ID, CourseID: courseID}
			progress.AddCompletedLesson(lessonID)
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		if !progress.AddCompletedLesson(lessonID) {
			return nil
		}
		return tx.Save(&progress).Error
	})
}

// IsLessonCompleted reports whether the user has the lesson in their set.
func (s *ProgressService) IsLessonCompleted(userID, courseID, lessonID uint) bool {
	var progress models.Progress
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return false
	}
	for _, id := range progress.CompletedLessonIDs() {
		if id == lessonID {
			return true
		}
	}
	return false
}

// StudentProgressData returns one student's merged view, admin only.
func (s *ProgressService) StudentProgressData(actor models.User, userID uint) (map[uint]*CourseProgressView, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return s.UserProgress(userID)
}

// Students lists every student account, admin only.
func (s *ProgressService) Students(actor models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var students []models.User
	if err := s.DB.Where("role = ?", models.RoleStudent).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// AllStudentProgress emits one row per (student, course) pair the student
// has touched, for the admin progress report.
func (s *ProgressService) AllStudentProgress(actor models.User) ([]StudentCourseRow, error) {
	students, err := s.Students(actor)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := s.DB.Preload("Lessons").Find(&courses).Error; err != nil {
		return nil, err
	}

	rows := []StudentCourseRow{}
	for _, student := range students {
		merged, err := s.UserProgress(student.ID)
		if err != nil {
			return nil, err
		}

		for _, course := range courses {
			view, ok := merged[course.ID]
			if !ok {
				continue
			}
			stats := ComputeCourseStats(len(course.Lessons), view)
			rows = append(rows, StudentCourseRow{
				Branch:             student.Branch,
				FullName:           student.FullName,
				CourseTitle:        course.Title,
				ProgressPercentage: stats.ProgressPercentage,
				LatestScore:        stats.LatestScore,
				QuizAttempts:       stats.QuizAttempts,
				RegisteredAt:       student.CreatedAt,
			})
		}
	}
	return rows, nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
