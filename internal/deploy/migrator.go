package deploy

import (
	"fmt"
	"os"
	"path/filepath"
)

// MigrationPair maps a versioned schema document to the location the
// application reads it from.
type MigrationPair struct {
	Candidate string
	Target    string
}

// Pairs returns the fixed set of compatibility migrations. The set never
// grows at runtime; new pairs are added here when a schema revision ships.
func Pairs() []MigrationPair {
	return []MigrationPair{
		{Candidate: "models/order_v2.yaml", Target: "models/order.yaml"},
		{Candidate: "schemas/common_v2.yaml", Target: "schemas/common.yaml"},
		{Candidate: "schemas/order_v2.yaml", Target: "schemas/order.yaml"},
	}
}

// MigrationResult lists which candidates were applied and which were
// absent and skipped.
type MigrationResult struct {
	Applied []string
	Skipped []string
}

// Migrate copies each present candidate over its target, byte for byte.
// An absent candidate is skipped silently; a failed copy is fatal. Running
// Migrate twice leaves the tree unchanged.
func Migrate(root string) (MigrationResult, error) {
	var res MigrationResult
	for _, p := range Pairs() {
		candidate := filepath.Join(root, p.Candidate)
		target := filepath.Join(root, p.Target)

		data, err := os.ReadFile(candidate)
		if os.IsNotExist(err) {
			res.Skipped = append(res.Skipped, p.Candidate)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("migrate %s: %w", p.Candidate, err)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return res, fmt.Errorf("migrate %s: %w", p.Candidate, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return res, fmt.Errorf("migrate %s: %w", p.Candidate, err)
		}
		res.Applied = append(res.Applied, p.Candidate)
	}
	return res, nil
}
