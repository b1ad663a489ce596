package services

import (
	"fmt"
	"time"

	"github.com/localnerve/taxtrackdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CreateReminder adds a reminder for the user
func CreateReminder(db *gorm.DB, userID uint64, message string, dueDate time.Time) (*models.Reminder, error) {
	if message == "" || dueDate.IsZero() {
		return nil, fmt.Errorf("invalid input")
	}

	reminder := models.Reminder{
		UserID:  userID,
		Message: message,
		DueDate: dueDate,
	}
	if err := db.Create(&reminder).Error; err != nil {
		return nil, err
	}

	return &reminder, nil
}

// ListReminders returns the user's reminders ordered by due date.
// pendingOnly restricts the list to incomplete reminders.
func ListReminders(db *gorm.DB, userID uint64, pendingOnly bool) ([]models.Reminder, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("user_id = ?", userID)
	if pendingOnly {
		query = query.Where("is_completed = ?", false)
	}

	var reminders []models.Reminder
	if err := query.Order("due_date").Find(&reminders).Error; err != nil {
		return nil, err
	}

	return reminders, nil
}

// CompleteReminder marks the user's reminder completed
func CompleteReminder(db *gorm.DB, reminderID, userID uint64) error {
	result := db.Model(&models.Reminder{}).
		Where("reminder_id = ? AND user_id = ? AND is_completed = ?", reminderID, userID, false).
		Update("is_completed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
