package lists

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// LineItem represents one product entry on a purchase list. ProductID must
// reference an existing catalog row; migrations materialize missing products
// before this foreign key is introduced.
type LineItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID    uint    `gorm:"column:liste_id;not null;index" json:"list_id"`
	ProductID uint    `gorm:"column:produit_id;not null;index" json:"product_id"`
	Quantity  float64 `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"not null;default:0" json:"unit_price"`
	LineTotal float64 `gorm:"not null;default:0" json:"line_total"`
	Unit      string  `gorm:"not null;default:'pcs'" json:"unit"`
	Checked   bool    `gorm:"not null;default:false" json:"checked"`
}

// TableName keeps the historical on-disk table name.
func (LineItem) TableName() string { return "LigneAchat" }

// AddLineItem inserts a line item and refreshes the owning list's total.
// LineTotal is recomputed from quantity and unit price.
func AddLineItem(db *gorm.DB, item *LineItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if item.Unit == "" {
			item.Unit = "pcs"
		}
		item.LineTotal = item.Quantity * item.UnitPrice
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create line item: %w", err)
		}
		return recalcListTotal(tx, item.ListID)
	})
}

// UpdateLineItem saves a line item and refreshes the owning list's total.
// LineTotal is recomputed from quantity and unit price.
func UpdateLineItem(db *gorm.DB, item *LineItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		item.LineTotal = item.Quantity * item.UnitPrice
		result := tx.Model(&LineItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"produit_id": item.ProductID,
				"quantity":   item.Quantity,
				"unit_price": item.UnitPrice,
				"line_total": item.LineTotal,
				"unit":       item.Unit,
				"checked":    item.Checked,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update line item %d: %w", item.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recalcListTotal(tx, item.ListID)
	})
}

// DeleteLineItem removes a line item and refreshes the owning list's total
func DeleteLineItem(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var item LineItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return fmt.Errorf("failed to load line item %d: %w", id, err)
		}
		if err := tx.Delete(&LineItem{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete line item %d: %w", id, err)
		}
		return recalcListTotal(tx, item.ListID)
	})
}

// GetLineItems retrieves all line items belonging to a list
func GetLineItems(db *gorm.DB, listID uint) ([]LineItem, error) {
	var items []LineItem
	if err := db.Where("liste_id = ?", listID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get line items for list %d: %w", listID, err)
	}
	return items, nil
}

// ToggleChecked flips the checked flag on a line item
func ToggleChecked(db *gorm.DB, id uint) error {
	result := db.Model(&LineItem{}).Where("id = ?", id).
		Update("checked", gorm.Expr("NOT checked"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
