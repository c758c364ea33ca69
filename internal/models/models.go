package models

import (
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"size:50"                       json:"first_name,omitempty"`
	LastName     string    `gorm:"size:50"                       json:"last_name,omitempty"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"`
	IsActive     bool      `gorm:"not null;default:true"         json:"is_active"`
	IsSuperuser  bool      `gorm:"not null;default:false"        json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Task struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"               json:"id"`
	UserID      uint       `gorm:"index;not null"                         json:"user_id"`
	CategoryID  *uint      `gorm:"index"                                  json:"category_id"`
	Category    *Category  `gorm:"foreignKey:CategoryID"                  json:"-"`
	Title       string     `gorm:"size:200;not null"                      json:"title"`
	Description string     `gorm:"type:text"                              json:"description,omitempty"`
	Priority    Priority   `gorm:"size:10;not null;default:medium;index"  json:"priority"`
	Status      Status     `gorm:"size:10;not null;default:pending;index" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                              json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uq_category_owner_name"           json:"user_id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:uq_category_owner_name"  json:"name"`
	Description string    `gorm:"type:text"                                             json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
