package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz belongs to a course, and optionally to a single lesson of that course.
// LessonID == nil marks the course-level quiz. A course has at most one
// course-level quiz and each lesson at most one quiz; saving replaces.
type Quiz struct {
	gorm.Model
	CourseID  uint       `gorm:"index;not null" json:"course_id"`
	LessonID  *uint      `gorm:"index" json:"lesson_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions,omitempty"`
}

type Question struct {
	gorm.Model
	QuizID        uint           `gorm:"index;not null" json:"quiz_id"`
	Text          string         `gorm:"not null" json:"text"`
	Options       datatypes.JSON `json:"options"` // JSON array of option strings
	Correct       int            `json:"correct"` // index into Options
	Explanation   string         `json:"explanation"`
	SequenceOrder int            `json:"sequence_order"`
}

func (q Question) OptionList() []string {
	var options []string
	json.Unmarshal(q.Options, &options)
	return options
}

// QuizResult records one graded attempt. At most one row exists per
// (user, quiz) at any time; resubmission replaces the previous row.
type QuizResult struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	CourseID    uint           `gorm:"index;not null" json:"course_id"`
	QuizID      uint           `gorm:"index;not null" json:"quiz_id"`
	LessonID    *uint          `json:"lesson_id"`
	Score       int            `json:"score"`
	Answers     datatypes.JSON `json:"answers"` // per-question detail in question order
	CompletedAt time.Time      `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
}
