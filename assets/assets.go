// Package assets exposes files embedded into the binary.
package assets

import (
	_ "embed"
)

//go:embed seed_products.yaml
var seedCatalog []byte

// SeedCatalog returns the default product catalog shipped with the app.
func SeedCatalog() []byte {
	return seedCatalog
}
