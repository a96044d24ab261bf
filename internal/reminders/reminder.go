// Package reminders manages scheduled purchase reminders.
//
// Reminders are soft-deleted: rows are flagged, never removed, so a
// notification collaborator can reconcile already-scheduled alerts.
package reminders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder types
const (
	TypeList    = "list"
	TypeGeneral = "general"
)

// Reminder represents a scheduled alert, optionally attached to a list.
type Reminder struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID         *uint     `gorm:"column:liste_id;index" json:"list_id"`
	Title          string    `gorm:"not null" json:"title"`
	Message        string    `json:"message"`
	ReminderDate   string    `gorm:"not null;index" json:"reminder_date"` // ISO-8601 date
	ReminderTime   string    `json:"reminder_time"`                       // HH:MM
	Type           string    `gorm:"not null;default:'list'" json:"type"`
	Read           bool      `gorm:"column:read_flag;not null;default:false" json:"read"`
	Deleted        bool      `gorm:"not null;default:false" json:"deleted"`
	NotificationID string    `json:"notification_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the historical on-disk table name.
func (Reminder) TableName() string { return "Rappel" }

// CreateReminder inserts a reminder, assigning a notification id when the
// caller did not schedule one yet.
func CreateReminder(db *gorm.DB, reminder *Reminder) error {
	if reminder.NotificationID == "" {
		reminder.NotificationID = uuid.NewString()
	}
	if reminder.Type == "" {
		reminder.Type = TypeList
	}
	reminder.CreatedAt = time.Now().UTC()
	return db.Create(reminder).Error
}

// GetReminderByID retrieves a reminder by its ID
func GetReminderByID(db *gorm.DB, id uint) (Reminder, error) {
	var reminder Reminder
	if err := db.First(&reminder, id).Error; err != nil {
		return Reminder{}, err
	}
	return reminder, nil
}

// GetActiveReminders retrieves all reminders that are not soft-deleted
func GetActiveReminders(db *gorm.DB) ([]Reminder, error) {
	var result []Reminder
	err := db.Where("deleted = ?", false).
		Order("reminder_date, reminder_time").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active reminders: %w", err)
	}
	return result, nil
}

// GetPendingReminders retrieves unread, non-deleted reminders due on or
// before the given date.
func GetPendingReminders(db *gorm.DB, due time.Time) ([]Reminder, error) {
	var result []Reminder
	err := db.Where("deleted = ? AND read_flag = ?", false, false).
		Where("date(reminder_date) <= date(?)", due.UTC().Format("2006-01-02")).
		Order("reminder_date, reminder_time").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending reminders: %w", err)
	}
	return result, nil
}

// GetRemindersForList retrieves non-deleted reminders attached to a list
func GetRemindersForList(db *gorm.DB, listID uint) ([]Reminder, error) {
	var result []Reminder
	err := db.Where("liste_id = ? AND deleted = ?", listID, false).
		Order("reminder_date, reminder_time").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders for list %d: %w", listID, err)
	}
	return result, nil
}

// MarkRead flags a reminder as read
func MarkRead(db *gorm.DB, id uint) error {
	result := db.Model(&Reminder{}).Where("id = ?", id).Update("read_flag", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteReminder flags a reminder as deleted without removing the row
func SoftDeleteReminder(db *gorm.DB, id uint) error {
	result := db.Model(&Reminder{}).Where("id = ?", id).Update("deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
