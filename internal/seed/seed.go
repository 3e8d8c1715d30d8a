// Package seed installs the default material catalog on first start so a
// fresh deployment can quote immediately. Densities are laminate data-sheet
// values in g/cm³.
package seed

import (
	"database/sql"
	"fmt"
)

type materialRow struct {
	Name          string
	Density       float64
	PriceDelta    float64
	ExtraLeadDays int
	Default       bool
	Notes         string
}

var defaultMaterials = []materialRow{
	{Name: "fr4", Density: 1.85, PriceDelta: 0, ExtraLeadDays: 0, Default: true, Notes: "standard glass-epoxy laminate"},
	{Name: "aluminum", Density: 2.70, PriceDelta: 18, ExtraLeadDays: 1, Notes: "metal-core boards for LED / power"},
	{Name: "rogers", Density: 1.92, PriceDelta: 45, ExtraLeadDays: 3, Notes: "RF laminate, sourced per order"},
	{Name: "flex", Density: 1.60, PriceDelta: 30, ExtraLeadDays: 2, Notes: "polyimide flex stack-up"},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, m := range defaultMaterials {
		if err := ensureMaterial(tx, m, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterial(tx *sql.Tx, m materialRow, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check material %q existence: %w", m.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO materials (name, density_g_cm3, price_delta, extra_lead_days, is_default, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, TRUE)
	`, m.Name, m.Density, m.PriceDelta, m.ExtraLeadDays, m.Default, m.Notes); err != nil {
		return fmt.Errorf("insert material %q: %w", m.Name, err)
	}
	stats.Inserts++
	return nil
}
