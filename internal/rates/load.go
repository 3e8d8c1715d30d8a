package rates

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// rateCard is the YAML shape of the published rate card file.
type rateCard struct {
	Version string `mapstructure:"version"`

	Pricing struct {
		StartFee       float64               `mapstructure:"start_fee"`
		AreaRate       float64               `mapstructure:"area_rate"`
		PerLayerRate   float64               `mapstructure:"per_layer_rate"`
		PriceFloor     float64               `mapstructure:"price_floor"`
		CutoffHour     int                   `mapstructure:"cutoff_hour"`
		ReportItemRate OptionRate            `mapstructure:"report_item_rate"`
		Options        map[string]map[string]OptionRate `mapstructure:"options"`
		Flags          map[string]OptionRate `mapstructure:"flags"`
		Discounts      []DiscountTier        `mapstructure:"discounts"`
	} `mapstructure:"pricing"`

	LeadTime LeadTimeRules `mapstructure:"lead_time"`

	Shipping struct {
		MinChargeableKg    float64            `mapstructure:"min_chargeable_kg"`
		ServiceMultipliers map[string]float64 `mapstructure:"service_multipliers"`
		PeakMonths         []int              `mapstructure:"peak_months"`
		Zones              []Zone             `mapstructure:"zones"`
	} `mapstructure:"shipping"`
}

// Load builds an immutable Table from the rate card YAML file and the
// material catalog rows in the database. A table that fails validation is
// never returned half-built.
func Load(path string, db *sql.DB) (*Table, error) {
	// Option values like "0.3mm" contain dots; the default "." key
	// delimiter would split them into nested keys.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rate card %s: %w", path, err)
	}

	var card rateCard
	if err := v.Unmarshal(&card); err != nil {
		return nil, fmt.Errorf("decode rate card %s: %w", path, err)
	}

	materials, defaultMaterial, err := loadMaterials(db)
	if err != nil {
		return nil, err
	}

	tbl := &Table{
		Version:            card.Version,
		StartFee:           card.Pricing.StartFee,
		AreaRate:           card.Pricing.AreaRate,
		PerLayerRate:       card.Pricing.PerLayerRate,
		PriceFloor:         card.Pricing.PriceFloor,
		CutoffHour:         card.Pricing.CutoffHour,
		Options:            card.Pricing.Options,
		Flags:              card.Pricing.Flags,
		ReportItemRate:     card.Pricing.ReportItemRate,
		Discounts:          card.Pricing.Discounts,
		LeadTime:           card.LeadTime,
		Materials:          materials,
		DefaultMaterial:    defaultMaterial,
		MinChargeableKg:    card.Shipping.MinChargeableKg,
		ServiceMultipliers: card.Shipping.ServiceMultipliers,
		Zones:              card.Shipping.Zones,
	}
	for _, m := range card.Shipping.PeakMonths {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("rate card: peak month %d out of range", m)
		}
		tbl.PeakMonths = append(tbl.PeakMonths, time.Month(m))
	}

	sortDiscounts(tbl.Discounts)

	if err := validate(tbl); err != nil {
		return nil, fmt.Errorf("rate card %s: %w", path, err)
	}
	return tbl, nil
}

func loadMaterials(db *sql.DB) (map[string]Material, string, error) {
	rows, err := db.Query(`
		SELECT name, density_g_cm3, price_delta, extra_lead_days, is_default
		FROM materials
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, "", fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make(map[string]Material)
	defaultMaterial := ""
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.Name, &m.DensityGPerCm3, &m.PriceDelta, &m.ExtraLeadDays, &m.Default); err != nil {
			return nil, "", fmt.Errorf("scan material: %w", err)
		}
		key := strings.ToLower(m.Name)
		materials[key] = m
		if m.Default {
			defaultMaterial = key
		}
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate materials: %w", err)
	}

	return materials, defaultMaterial, nil
}

func validate(t *Table) error {
	if t.StartFee < 0 || t.AreaRate <= 0 || t.PerLayerRate < 0 {
		return fmt.Errorf("base pricing rates must be non-negative and area_rate positive")
	}
	if t.PriceFloor < 0 {
		return fmt.Errorf("price_floor must be non-negative")
	}
	if t.CutoffHour < 0 || t.CutoffHour > 23 {
		return fmt.Errorf("cutoff_hour %d out of range", t.CutoffHour)
	}
	if len(t.Materials) == 0 {
		return fmt.Errorf("material catalog is empty")
	}
	for name, m := range t.Materials {
		if m.DensityGPerCm3 <= 0 {
			return fmt.Errorf("material %q has non-positive density", name)
		}
	}
	if t.DefaultMaterial == "" {
		return fmt.Errorf("material catalog declares no default material")
	}
	for _, tier := range t.Discounts {
		if tier.MinQty < 1 || tier.Multiplier <= 0 {
			return fmt.Errorf("invalid discount tier %+v", tier)
		}
	}
	if t.MinChargeableKg <= 0 {
		return fmt.Errorf("min_chargeable_kg must be positive")
	}
	if len(t.ServiceMultipliers) == 0 {
		return fmt.Errorf("service multiplier set is empty")
	}
	for service, mult := range t.ServiceMultipliers {
		if mult <= 0 {
			return fmt.Errorf("service %q has non-positive multiplier", service)
		}
	}
	if len(t.Zones) == 0 {
		return fmt.Errorf("no shipping zones configured")
	}
	for _, zone := range t.Zones {
		if zone.Name == "" || len(zone.Countries) == 0 || len(zone.Carriers) == 0 {
			return fmt.Errorf("zone %q must declare countries and carriers", zone.Name)
		}
	}
	return nil
}
