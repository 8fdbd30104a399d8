package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	ShortDesc   string `json:"short_desc"`
	Description string `json:"description"`
	Category    string `json:"category"`
	// DisplayOrder is the admin-controlled position in the course list.
	// NULL means "not yet ordered" and sorts after every ordered course.
	DisplayOrder *int     `json:"display_order"`
	Lessons      []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	// 1-based and contiguous among siblings of the same course.
	SequenceOrder int `gorm:"not null;default:1" json:"sequence_order"`
}
