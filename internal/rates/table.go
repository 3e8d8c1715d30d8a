// Package rates loads the published rate card and material catalog into an
// immutable in-memory table. Calculations are config-driven: every legal
// option value lives in data, and lookups fail closed on anything else.
package rates

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/openfab/boardquote/internal/quote"
)

// OptionRate prices one option value and carries the extra production days
// the option adds to the lead time.
type OptionRate struct {
	Price     float64 `mapstructure:"price"`
	ExtraDays int     `mapstructure:"extra_days"`
}

// Material is one row of the merchant-editable material catalog.
type Material struct {
	Name           string
	DensityGPerCm3 float64
	PriceDelta     float64
	ExtraLeadDays  int
	Default        bool
}

// DiscountTier is one quantity-discount breakpoint. Tiers are kept sorted
// descending by MinQty; the first threshold the quantity meets wins.
type DiscountTier struct {
	MinQty     int     `mapstructure:"min_qty"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// CarrierRate is one carrier's rate card within a zone.
type CarrierRate struct {
	BaseRate         float64 `mapstructure:"base_rate"`
	PricePerKg       float64 `mapstructure:"price_per_kg"`
	FuelSurchargePct float64 `mapstructure:"fuel_surcharge_pct"`
	PeakSurchargePct float64 `mapstructure:"peak_surcharge_pct"`
}

// Zone groups destination countries sharing one set of carrier rate cards.
type Zone struct {
	Name      string                 `mapstructure:"name"`
	Countries []string               `mapstructure:"countries"`
	Carriers  map[string]CarrierRate `mapstructure:"carriers"`
}

// LeadTimeRules holds the production lead-time knobs that are not tied to a
// single option value.
type LeadTimeRules struct {
	BaseDays       int     `mapstructure:"base_days"`
	ExtraLayerDays int     `mapstructure:"extra_layer_days"`
	LargeAreaCm2   float64 `mapstructure:"large_area_cm2"`
	LargeAreaDays  int     `mapstructure:"large_area_days"`
	LargeQty       int     `mapstructure:"large_qty"`
	LargeQtyDays   int     `mapstructure:"large_qty_days"`
	PanelModeDays  int     `mapstructure:"panel_mode_days"`
}

// Table is one immutable snapshot of all reference data the engine reads.
// Concurrent readers share snapshots freely; updates always swap the whole
// table reference through a Holder.
type Table struct {
	Version string

	StartFee     float64
	AreaRate     float64
	PerLayerRate float64
	PriceFloor   float64
	CutoffHour   int

	// Options maps field -> legal value -> rate. Flags maps a boolean
	// field to the rate applied when the flag is set.
	Options map[string]map[string]OptionRate
	Flags   map[string]OptionRate

	ReportItemRate OptionRate
	Discounts      []DiscountTier
	LeadTime       LeadTimeRules

	Materials       map[string]Material
	DefaultMaterial string

	MinChargeableKg    float64
	ServiceMultipliers map[string]float64
	PeakMonths         []time.Month
	Zones              []Zone
}

// OptionRate resolves one enum option value, failing closed on anything the
// table does not declare.
func (t *Table) OptionRate(field, value string) (OptionRate, error) {
	values, ok := t.Options[field]
	if !ok {
		return OptionRate{}, &quote.UnknownOptionValueError{Field: field, Value: value}
	}
	rate, ok := values[value]
	if !ok {
		return OptionRate{}, &quote.UnknownOptionValueError{Field: field, Value: value}
	}
	return rate, nil
}

// CopperRate resolves the copper-weight surcharge. Copper weights are keyed
// by their ounce value rendered without trailing zeros ("1", "2", "0.5").
func (t *Table) CopperRate(oz float64) (OptionRate, error) {
	return t.OptionRate("copper_weight_oz", strconv.FormatFloat(oz, 'f', -1, 64))
}

// FlagRate resolves a boolean option. A flag the table does not price
// contributes nothing; booleans never fail closed.
func (t *Table) FlagRate(field string) OptionRate {
	return t.Flags[field]
}

// MaterialFor resolves a material by catalog name.
func (t *Table) MaterialFor(name string) (Material, error) {
	m, ok := t.Materials[strings.ToLower(name)]
	if !ok {
		return Material{}, &quote.UnknownOptionValueError{Field: "material", Value: name}
	}
	return m, nil
}

// DiscountMultiplier returns the multiplier of the highest breakpoint the
// quantity meets, or 1.0 when none is reached. The lookup does not depend on
// table authoring order.
func (t *Table) DiscountMultiplier(qty int) float64 {
	mult := 1.0
	best := 0
	for _, tier := range t.Discounts {
		if qty >= tier.MinQty && tier.MinQty > best {
			best = tier.MinQty
			mult = tier.Multiplier
		}
	}
	return mult
}

// ZoneFor resolves a destination country code to exactly one zone.
func (t *Table) ZoneFor(country string) (*Zone, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	for i := range t.Zones {
		for _, member := range t.Zones[i].Countries {
			if strings.ToUpper(member) == code {
				return &t.Zones[i], nil
			}
		}
	}
	return nil, &quote.UnsupportedDestinationError{Country: country}
}

// Carrier resolves a carrier rate card within the zone.
func (z *Zone) Carrier(code string) (CarrierRate, error) {
	rate, ok := z.Carriers[strings.ToLower(code)]
	if !ok {
		return CarrierRate{}, &quote.UnrecognizedCarrierError{Carrier: code, Zone: z.Name}
	}
	return rate, nil
}

// ServiceMultiplier resolves a service level. An unrecognized service is an
// error, never a silent 1.0.
func (t *Table) ServiceMultiplier(service string) (float64, error) {
	mult, ok := t.ServiceMultipliers[strings.ToLower(service)]
	if !ok {
		return 0, &quote.UnrecognizedServiceError{Service: service}
	}
	return mult, nil
}

// IsPeakMonth reports whether the month falls in the peak-season surcharge
// window.
func (t *Table) IsPeakMonth(m time.Month) bool {
	for _, peak := range t.PeakMonths {
		if m == peak {
			return true
		}
	}
	return false
}

// sortDiscounts orders breakpoints descending by threshold so lookups never
// depend on table authoring order.
func sortDiscounts(tiers []DiscountTier) {
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinQty > tiers[j].MinQty
	})
}
