package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress holds the set of completed lesson ids for one user on one course.
// Created on first completion, merged on every later one.
type Progress struct {
	gorm.Model
	UserID           uint           `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID         uint           `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"course_id"`
	CompletedLessons datatypes.JSON `json:"completed_lessons"` // JSON array of lesson ids, set semantics
}

func (p Progress) CompletedLessonIDs() []uint {
	var ids []uint
	json.Unmarshal(p.CompletedLessons, &ids)
	return ids
}

// AddCompletedLesson records the lesson id if not already present and
// reports whether the set changed.
func (p *Progress) AddCompletedLesson(lessonID uint) bool {
	ids := p.CompletedLessonIDs()
	for _, id := range ids {
		if id == lessonID {
			return false
		}
	}
	raw, _ := json.Marshal(append(ids, lessonID))
	p.CompletedLessons = raw
	return true
}

// Setting is the singleton configuration row, currently holding the
// category display order for the course list.
type Setting struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Categories datatypes.JSON `json:"categories"` // JSON array of category names
	UpdatedAt  time.Time      `json:"updated_at"`
}

const SettingID = 1

func (s Setting) CategoryList() []string {
	var categories []string
	json.Unmarshal(s.Categories, &categories)
	return categories
}
