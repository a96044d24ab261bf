// Package lists manages purchase lists and their line items.
//
// Two invariants are maintained on every write path:
//   - LineItem.LineTotal is always recomputed as Quantity*UnitPrice,
//     never trusted from the caller.
//   - PurchaseList.TotalAmount is the sum of its line totals and is
//     recomputed after each line-item insert, update or delete.
package lists

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// List status values
const (
	StatusDraft     = 0
	StatusValidated = 1
)

// DateLayout is the storage layout for list dates (ISO-8601, second precision).
const DateLayout = "2006-01-02T15:04:05"

// ListNotFoundError represents an error when a purchase list is not found
type ListNotFoundError struct {
	ID uint
}

func (e *ListNotFoundError) Error() string {
	return fmt.Sprintf("purchase list not found: %d", e.ID)
}

// NewListNotFoundError creates a new ListNotFoundError
func NewListNotFoundError(id uint) *ListNotFoundError {
	return &ListNotFoundError{ID: id}
}

// PurchaseList represents one shopping trip. TotalAmount is a denormalized
// cache over the list's line items.
type PurchaseList struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Date        string  `gorm:"not null;index" json:"date"` // ISO-8601
	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`
	Notes       string  `json:"notes"`
	Status      int     `gorm:"not null;default:0" json:"status"`
}

// TableName keeps the historical on-disk table name.
func (PurchaseList) TableName() string { return "ListeAchat" }

// CreateList inserts a new purchase list. The total starts at zero
// regardless of what the caller set; items drive it from here on.
func CreateList(db *gorm.DB, list *PurchaseList) error {
	if list.Date == "" {
		list.Date = time.Now().UTC().Format(DateLayout)
	}
	list.TotalAmount = 0
	return db.Create(list).Error
}

// GetListByID retrieves a purchase list by its ID
func GetListByID(db *gorm.DB, id uint) (PurchaseList, error) {
	var list PurchaseList
	if err := db.First(&list, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PurchaseList{}, NewListNotFoundError(id)
		}
		return PurchaseList{}, err
	}
	return list, nil
}

// GetListsInRange retrieves lists whose date falls within [from, to] inclusive
func GetListsInRange(db *gorm.DB, from, to time.Time) ([]PurchaseList, error) {
	var lists []PurchaseList
	err := db.
		Where("datetime(date) BETWEEN datetime(?) AND datetime(?)",
			from.UTC().Format(DateLayout), to.UTC().Format(DateLayout)).
		Order("date").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get lists in range: %w", err)
	}
	return lists, nil
}

// UpdateList saves name, date, notes and status changes. TotalAmount is
// re-derived from the line items, not taken from the caller.
func UpdateList(db *gorm.DB, list *PurchaseList) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&PurchaseList{}).Where("id = ?", list.ID).
			Updates(map[string]interface{}{
				"name":   list.Name,
				"date":   list.Date,
				"notes":  list.Notes,
				"status": list.Status,
			}).Error; err != nil {
			return err
		}
		return recalcListTotal(tx, list.ID)
	})
}

// ValidateList transitions a draft list to validated
func ValidateList(db *gorm.DB, id uint) error {
	result := db.Model(&PurchaseList{}).Where("id = ?", id).Update("status", StatusValidated)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewListNotFoundError(id)
	}
	return nil
}

// DeleteList removes a list, its line items, and soft-deletes its reminders
func DeleteList(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("liste_id = ?", id).Delete(&LineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete line items for list %d: %w", id, err)
		}
		if err := tx.Table("Rappel").Where("liste_id = ?", id).
			Update("deleted", true).Error; err != nil {
			return fmt.Errorf("failed to flag reminders for list %d: %w", id, err)
		}
		result := tx.Delete(&PurchaseList{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewListNotFoundError(id)
		}
		return nil
	})
}

// recalcListTotal re-derives the denormalized TotalAmount cache from the
// list's line items inside the caller's transaction.
func recalcListTotal(tx *gorm.DB, listID uint) error {
	var result struct {
		Total float64
	}

	query := `
    SELECT COALESCE(SUM(line_total), 0) as total
    FROM LigneAchat
    WHERE liste_id = ?
    `

	if err := tx.Raw(query, listID).Scan(&result).Error; err != nil {
		return fmt.Errorf("failed to sum line totals for list %d: %w", listID, err)
	}

	return tx.Model(&PurchaseList{}).Where("id = ?", listID).
		Update("total_amount", result.Total).Error
}
