// Package catalog manages the product reference table.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// DefaultUnit is the unit assigned to products created without one.
const DefaultUnit = "pcs"

var labelCaser = cases.Title(language.French)

// ProductNotFoundError represents an error when a product is not found
type ProductNotFoundError struct {
	Label string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found for label: %s", e.Label)
}

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(label string) *ProductNotFoundError {
	return &ProductNotFoundError{Label: label}
}

// Product represents a purchasable item in the reference catalog.
// Labels are unique by convention, not enforced by the schema.
type Product struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Label string `gorm:"not null" json:"label"`
	Unit  string `gorm:"not null;default:'pcs'" json:"unit"`
}

// TableName keeps the historical on-disk table name.
func (Product) TableName() string { return "Produit" }

// NormalizeLabel trims and title-cases a user-entered product label so that
// "riz" and "Riz " resolve to the same catalog row.
func NormalizeLabel(label string) string {
	return labelCaser.String(strings.ToLower(strings.Join(strings.Fields(label), " ")))
}

// GetProductByID retrieves a product by its ID
func GetProductByID(db *gorm.DB, id uint) (Product, error) {
	var product Product
	if err := db.First(&product, id).Error; err != nil {
		return Product{}, err
	}
	return product, nil
}

// GetProductByLabel retrieves a product by its normalized label
func GetProductByLabel(db *gorm.DB, label string) (*Product, error) {
	var product Product
	err := db.Where("label = ?", NormalizeLabel(label)).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProductNotFoundError(label)
		}
		return nil, fmt.Errorf("unexpected error querying product: %w", err)
	}
	return &product, nil
}

// FindOrCreateByLabel resolves a label to an existing product or lazily
// creates one. Used when a user names a product that is not in the catalog.
func FindOrCreateByLabel(db *gorm.DB, label, unit string) (*Product, error) {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return nil, fmt.Errorf("product label cannot be empty")
	}

	var product Product
	err := db.Where("label = ?", normalized).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("unexpected error querying product: %w", err)
	}

	if unit == "" {
		unit = DefaultUnit
	}
	product = Product{Label: normalized, Unit: unit}
	if err := db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product %q: %w", normalized, err)
	}
	return &product, nil
}

// GetAllProducts retrieves the full catalog ordered by label
func GetAllProducts(db *gorm.DB) ([]Product, error) {
	var products []Product
	if err := db.Order("label").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// CountProducts returns the number of catalog rows
func CountProducts(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
