// Package migrations reshapes legacy on-disk layouts into the current
// schema. Every step is self-guarded by catalog probes and idempotent, so
// the whole sequence can run on every startup. A failed step is recorded
// in the report and the remaining steps still run; steps never drop source
// data before the copy into the new shape has succeeded.
package migrations

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"panier/internal/database"
	"panier/internal/schema"
)

// StepStatus is the outcome class of a single migration step.
type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepOutcome records how one step ended. Error is empty unless the step
// failed.
type StepOutcome struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// Report lists the outcome of every step in execution order.
type Report struct {
	Outcomes []StepOutcome `json:"outcomes"`
}

// Applied returns how many steps actually changed the schema.
func (r Report) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StepApplied {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of steps that errored.
func (r Report) Failed() []StepOutcome {
	var failed []StepOutcome
	for _, o := range r.Outcomes {
		if o.Status == StepFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// LegacyShape is the historical layout of the line-item table, determined
// once at migration start.
type LegacyShape int

const (
	// ShapeFresh means the table is already in the current layout.
	ShapeFresh LegacyShape = iota
	// ShapeDenormalized means items carry a free-text product label column
	// and no product foreign key.
	ShapeDenormalized
	// ShapeRenamedColumns means the table is normalized but the owning-list
	// foreign key is still named achat_id.
	ShapeRenamedColumns
)

func (s LegacyShape) String() string {
	switch s {
	case ShapeDenormalized:
		return "denormalized"
	case ShapeRenamedColumns:
		return "renamed-columns"
	default:
		return "fresh"
	}
}

type step struct {
	name string
	// run returns true when the step changed the schema.
	run func(db *gorm.DB, logger *slog.Logger) (bool, error)
}

func steps() []step {
	return []step{
		{name: "rename-achat-to-liste-achat", run: func(db *gorm.DB, logger *slog.Logger) (bool, error) {
			return renameTable(db, "Achat", "ListeAchat")
		}},
		{name: "rename-notification-to-rappel", run: func(db *gorm.DB, logger *slog.Logger) (bool, error) {
			return renameTable(db, "Notification", "Rappel")
		}},
		{name: "rename-course-to-ligne-achat", run: func(db *gorm.DB, logger *slog.Logger) (bool, error) {
			return renameTable(db, "Course", "LigneAchat")
		}},
		{name: "normalize-line-items", run: normalizeLineItems},
		{name: "rename-reminder-columns", run: renameReminderColumns},
		{name: "reconcile-schema", run: reconcileSchema},
	}
}

// Run executes the full step sequence and reports per-step outcomes. It
// never returns an error: a broken step is recorded as failed and the
// sequence continues, leaving at worst legacy names alongside new ones.
func Run(db *gorm.DB, logger *slog.Logger) Report {
	var report Report

	for _, s := range steps() {
		applied, err := s.run(db, logger)

		outcome := StepOutcome{Name: s.name}
		switch {
		case err != nil:
			outcome.Status = StepFailed
			outcome.Error = err.Error()
			logger.Error("Migration step failed", slog.String("step", s.name), slog.Any("error", err))
		case applied:
			outcome.Status = StepApplied
			logger.Info("Migration step applied", slog.String("step", s.name))
		default:
			outcome.Status = StepSkipped
			logger.Debug("Migration step skipped", slog.String("step", s.name))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Info("Migrations completed",
		slog.Int("applied", report.Applied()),
		slog.Int("failed", len(report.Failed())),
	)
	return report
}

// renameTable moves a legacy table to its current name. When the current
// name already exists but holds no rows (the base schema was ensured before
// migrations on an upgraded install), the empty table is dropped and the
// legacy one renamed into place, in one transaction.
func renameTable(db *gorm.DB, oldName, newName string) (bool, error) {
	if !schema.TableExists(db, oldName) {
		return false, nil
	}

	if schema.TableExists(db, newName) {
		var count int64
		if err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %q", newName)).Scan(&count).Error; err != nil {
			return false, fmt.Errorf("error counting rows in %s: %w", newName, err)
		}
		if count > 0 {
			// Both tables carry data; nothing safe to do automatically.
			return false, nil
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(fmt.Sprintf("DROP TABLE %q", newName)).Error; err != nil {
				return fmt.Errorf("error dropping empty table %s: %w", newName, err)
			}
			return tx.Exec(fmt.Sprintf("ALTER TABLE %q RENAME TO %q", oldName, newName)).Error
		})
		if err != nil {
			return false, fmt.Errorf("error renaming %s to %s: %w", oldName, newName, err)
		}
		return true, nil
	}

	if err := db.Exec(fmt.Sprintf("ALTER TABLE %q RENAME TO %q", oldName, newName)).Error; err != nil {
		return false, fmt.Errorf("error renaming %s to %s: %w", oldName, newName, err)
	}
	return true, nil
}

// detectLegacyShape classifies the line-item table's layout exactly once.
func detectLegacyShape(db *gorm.DB) LegacyShape {
	if !schema.TableExists(db, "LigneAchat") {
		return ShapeFresh
	}
	if schema.ColumnExists(db, "LigneAchat", "produit") && !schema.ColumnExists(db, "LigneAchat", "produit_id") {
		return ShapeDenormalized
	}
	if schema.ColumnExists(db, "LigneAchat", "achat_id") && !schema.ColumnExists(db, "LigneAchat", "liste_id") {
		return ShapeRenamedColumns
	}
	return ShapeFresh
}

func normalizeLineItems(db *gorm.DB, logger *slog.Logger) (bool, error) {
	shape := detectLegacyShape(db)
	logger.Debug("Detected line-item shape", slog.String("shape", shape.String()))

	switch shape {
	case ShapeDenormalized:
		return true, normalizeDenormalized(db)
	case ShapeRenamedColumns:
		err := db.Exec("ALTER TABLE LigneAchat RENAME COLUMN achat_id TO liste_id").Error
		if err != nil {
			return false, fmt.Errorf("error renaming line-item list column: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}

// normalizeDenormalized rebuilds the line-item table around a product
// foreign key. Missing products are backfilled from the distinct free-text
// labels first, so every copied row resolves. The whole reshape is one
// transaction; on any failure the legacy table survives untouched.
func normalizeDenormalized(db *gorm.DB) error {
	listFK := "liste_id"
	if schema.ColumnExists(db, "LigneAchat", "achat_id") {
		listFK = "achat_id"
	}
	checkedExpr := "0"
	if schema.ColumnExists(db, "LigneAchat", "checked") {
		checkedExpr = "li.checked"
	}
	unitExpr := "COALESCE(p.unit, 'pcs')"
	if schema.ColumnExists(db, "LigneAchat", "unit") {
		unitExpr = "COALESCE(li.unit, p.unit, 'pcs')"
	}

	return db.Transaction(func(tx *gorm.DB) error {
		backfill := `
        INSERT INTO Produit (label, unit)
        SELECT DISTINCT TRIM(produit), 'pcs'
        FROM LigneAchat
        WHERE TRIM(produit) != ''
          AND TRIM(produit) NOT IN (SELECT label FROM Produit)
        `
		if err := tx.Exec(backfill).Error; err != nil {
			return fmt.Errorf("error backfilling products from legacy labels: %w", err)
		}

		create := `
        CREATE TABLE LigneAchat_new (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            liste_id INTEGER NOT NULL,
            produit_id INTEGER NOT NULL,
            quantity REAL NOT NULL DEFAULT 0,
            unit_price REAL NOT NULL DEFAULT 0,
            line_total REAL NOT NULL DEFAULT 0,
            unit TEXT NOT NULL DEFAULT 'pcs',
            checked NUMERIC NOT NULL DEFAULT 0
        )
        `
		if err := tx.Exec(create).Error; err != nil {
			return fmt.Errorf("error creating normalized line-item table: %w", err)
		}

		copyRows := fmt.Sprintf(`
        INSERT INTO LigneAchat_new (id, liste_id, produit_id, quantity, unit_price, line_total, unit, checked)
        SELECT
            li.id,
            li.%s,
            p.id,
            COALESCE(li.quantity, 0),
            COALESCE(li.unit_price, 0),
            COALESCE(li.quantity, 0) * COALESCE(li.unit_price, 0),
            %s,
            %s
        FROM LigneAchat li
        JOIN Produit p ON p.label = TRIM(li.produit)
        `, listFK, unitExpr, checkedExpr)
		if err := tx.Exec(copyRows).Error; err != nil {
			return fmt.Errorf("error copying legacy line items: %w", err)
		}

		if err := tx.Exec("DROP TABLE LigneAchat").Error; err != nil {
			return fmt.Errorf("error dropping legacy line-item table: %w", err)
		}
		if err := tx.Exec("ALTER TABLE LigneAchat_new RENAME TO LigneAchat").Error; err != nil {
			return fmt.Errorf("error renaming normalized line-item table: %w", err)
		}
		return nil
	})
}

func renameReminderColumns(db *gorm.DB, logger *slog.Logger) (bool, error) {
	applied := false

	renames := []struct{ old, new string }{
		{"achat_id", "liste_id"},
		{"lu", "read_flag"},
	}
	for _, r := range renames {
		if !schema.ColumnExists(db, "Rappel", r.old) || schema.ColumnExists(db, "Rappel", r.new) {
			continue
		}
		err := db.Exec(fmt.Sprintf("ALTER TABLE Rappel RENAME COLUMN %q TO %q", r.old, r.new)).Error
		if err != nil {
			return applied, fmt.Errorf("error renaming reminder column %s: %w", r.old, err)
		}
		applied = true
	}
	return applied, nil
}

// reconcileSchema re-runs AutoMigrate after the reshaping steps so tables
// renamed into place pick up any columns added since their legacy version.
func reconcileSchema(db *gorm.DB, logger *slog.Logger) (bool, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(database.Models()...)
	})
	if err != nil {
		return false, fmt.Errorf("error reconciling schema: %w", err)
	}
	return true, nil
}
