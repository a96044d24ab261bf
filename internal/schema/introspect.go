// Package schema provides fail-soft catalog probes used to gate migrations.
//
// Both probes follow the same contract: any failure, including a broken or
// nil handle, is reported as "does not exist". They never error and have no
// side effects, so migration steps gated on them are safe to re-run.
package schema

import (
	"gorm.io/gorm"
)

// TableExists reports whether a table with the given name exists.
func TableExists(db *gorm.DB, name string) (exists bool) {
	if db == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			exists = false
		}
	}()

	var count int64
	err := db.Raw(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		name,
	).Scan(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// ColumnExists reports whether the table has a column with the given name.
func ColumnExists(db *gorm.DB, table, column string) (exists bool) {
	if db == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			exists = false
		}
	}()

	if !TableExists(db, table) {
		return false
	}

	var count int64
	err := db.Raw(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	).Scan(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}
