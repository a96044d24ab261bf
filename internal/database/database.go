package database

import (
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"panier/internal/catalog"
	"panier/internal/config"
	"panier/internal/lists"
	"panier/internal/reminders"
	"panier/internal/schema"
)

// DBManager wraps cartridge's sqlite.Manager with panier-specific schema methods.
type DBManager struct {
	*sqlite.Manager
	logger *slog.Logger
}

// NewDBManager creates a new database manager using cartridge's sqlite.Manager.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	sqliteCfg := sqlite.Config{
		Path:         cfg.DatabaseName,
		MaxOpenConns: cfg.GetMaxOpenConns(),
		MaxIdleConns: cfg.GetMaxIdleConns(),
		Logger:       logger,
		EnableWAL:    true,
		TxImmediate:  true,
		BusyTimeout:  5000,
	}

	return &DBManager{
		Manager: sqlite.NewManager(sqliteCfg),
		logger:  logger,
	}
}

// Init initializes the database connection.
func (dm *DBManager) Init() error {
	_, err := dm.Manager.Connect()
	return err
}

// Models returns every current-shape model in migration order.
func Models() []any {
	return []any{
		&catalog.Product{},
		&lists.PurchaseList{},
		&lists.LineItem{},
		&reminders.Reminder{},
	}
}

// EnsureSchema creates the current-shape tables with if-not-exists
// semantics. A table that already exists under a current name is left
// completely untouched, even when its columns are legacy-shaped; the
// migration engine reshapes it afterwards and its reconcile step adds
// any columns still missing. Running AutoMigrate over a legacy layout
// here would try to bolt NOT NULL columns onto populated tables and
// brick initialization.
func (dm *DBManager) EnsureSchema() error {
	db := dm.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range Models() {
			tabler, ok := model.(interface{ TableName() string })
			if !ok {
				return fmt.Errorf("model %T does not declare a table name", model)
			}
			if schema.TableExists(tx, tabler.TableName()) {
				continue
			}
			if err := tx.AutoMigrate(model); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		dm.logger.Error("Failed to ensure base schema", slog.Any("error", err))
		return err
	}

	if err := dm.CheckpointWAL("FULL"); err != nil {
		dm.logger.Warn("Failed to checkpoint WAL after schema ensure", slog.Any("error", err))
	}

	dm.logger.Info("Base schema ensured")
	return nil
}
