package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `json:"full_name"`
	Branch       string `json:"branch"`
	Role         string `gorm:"default:student" json:"role"` // student, admin
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginHistory struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	LoginTime time.Time
}
