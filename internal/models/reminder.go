package models

import (
	"time"
)

// Reminder is a user-owned message with a due date and completion flag
type Reminder struct {
	ReminderID  uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;index"`
	Message     string `gorm:"size:500;not null"`
	DueDate     time.Time `gorm:"not null"`
	IsCompleted bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// TableName overrides the table name for Reminder
func (Reminder) TableName() string {
	return "reminders"
}
