// Package seeder installs the baseline product catalog on first run.
package seeder

import (
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"panier/assets"
	"panier/internal/catalog"
)

// Seeder inserts default catalog data when the database holds none.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
}

// NewSeeder creates a new seeder instance.
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
	}
}

type seedCatalog struct {
	Products []struct {
		Label string `yaml:"label"`
		Unit  string `yaml:"unit"`
	} `yaml:"products"`
}

// SeedDefaultCatalog inserts the embedded product catalog if and only if
// the product table is empty. A single user-created product is enough to
// suppress seeding forever.
func (s *Seeder) SeedDefaultCatalog() error {
	db := s.DBManager.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	count, err := catalog.CountProducts(db)
	if err != nil {
		return fmt.Errorf("failed to count products before seeding: %w", err)
	}
	if count > 0 {
		s.Logger.Debug("Skipping catalog seed, products already present", slog.Int64("count", count))
		return nil
	}

	var parsed seedCatalog
	if err := yaml.Unmarshal(assets.SeedCatalog(), &parsed); err != nil {
		return fmt.Errorf("failed to parse embedded seed catalog: %w", err)
	}
	if len(parsed.Products) == 0 {
		return fmt.Errorf("embedded seed catalog is empty")
	}

	products := make([]catalog.Product, len(parsed.Products))
	for i, p := range parsed.Products {
		unit := p.Unit
		if unit == "" {
			unit = catalog.DefaultUnit
		}
		products[i] = catalog.Product{Label: p.Label, Unit: unit}
	}

	err = sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
		return tx.Create(&products).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert seed catalog: %w", err)
	}

	s.Logger.Info("Seeded default product catalog", slog.Int("products", len(products)))
	return nil
}
