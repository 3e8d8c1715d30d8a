// Package pricing maps a board specification to a quoted price and a
// production lead time, driven entirely by the loaded rate table.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/openfab/boardquote/internal/delivery"
	"github.com/openfab/boardquote/internal/quote"
	"github.com/openfab/boardquote/internal/rates"
)

// Result contains the full pricing output. Every priced component appears in
// Breakdown and at least one human-readable Notes line; quote explanations
// shown to customers are built from these, so the attribution is a contract,
// not cosmetics.
type Result struct {
	TotalPrice     float64            `json:"total_price"`
	UnitPrice      float64            `json:"unit_price"`
	Breakdown      map[string]float64 `json:"breakdown"`
	Notes          []string           `json:"notes"`
	LeadTimeDays   int                `json:"lead_time_days"`
	LeadTimeReason []string           `json:"lead_time_reason"`
	MinOrderQty    int                `json:"min_order_qty"`

	// ProductionDays is the working-day count before the cutoff and rush
	// adjustments. The delivery estimator consumes this figure and applies
	// both rules itself, so a caller composing the two never applies them
	// twice.
	ProductionDays int `json:"production_days"`
}

// Price computes the quoted price for one specification. orderedAt feeds the
// production cutoff rule only; the calculation has no other clock dependence.
func Price(spec quote.Specification, tbl *rates.Table, orderedAt time.Time) (Result, error) {
	units, err := spec.Units()
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Breakdown: make(map[string]float64),
		Notes:     make([]string, 0, 8),
	}

	area := spec.AreaCm2()
	extraLayers := spec.Layers - 2
	if extraLayers < 0 {
		extraLayers = 0
	}

	res.Breakdown["start_fee"] = quote.RoundCurrency(tbl.StartFee)
	res.Breakdown["area_cost"] = quote.RoundCurrency(area * tbl.AreaRate)
	res.Notes = append(res.Notes, fmt.Sprintf("base: %.2f start fee + %.2fcm² at %.2f/cm²", tbl.StartFee, area, tbl.AreaRate))
	if extraLayers > 0 {
		res.Breakdown["layer_surcharge"] = quote.RoundCurrency(float64(extraLayers) * tbl.PerLayerRate)
		res.Notes = append(res.Notes, fmt.Sprintf("%d layers beyond 2 at %.2f per layer", extraLayers, tbl.PerLayerRate))
	}
	perUnit := tbl.StartFee + area*tbl.AreaRate + float64(extraLayers)*tbl.PerLayerRate

	days := tbl.LeadTime.BaseDays
	reasons := []string{fmt.Sprintf("base production time: %d days", tbl.LeadTime.BaseDays)}
	if extraLayers > 0 && tbl.LeadTime.ExtraLayerDays > 0 {
		days += tbl.LeadTime.ExtraLayerDays
		reasons = append(reasons, fmt.Sprintf("%d-layer build: +%d days", spec.Layers, tbl.LeadTime.ExtraLayerDays))
	}

	materialName := spec.Material
	if materialName == "" {
		materialName = tbl.DefaultMaterial
	}
	material, err := tbl.MaterialFor(materialName)
	if err != nil {
		return Result{}, err
	}
	perUnit += material.PriceDelta
	if material.PriceDelta != 0 {
		res.Breakdown["material"] = quote.RoundCurrency(material.PriceDelta)
		res.Notes = append(res.Notes, fmt.Sprintf("material %s: %+.2f per unit", material.Name, material.PriceDelta))
	}
	if material.ExtraLeadDays > 0 {
		days += material.ExtraLeadDays
		reasons = append(reasons, fmt.Sprintf("material %s: +%d days", material.Name, material.ExtraLeadDays))
	}

	var copperRate rates.OptionRate
	if spec.CopperWeightOz > 0 {
		copperRate, err = tbl.CopperRate(spec.CopperWeightOz)
		if err != nil {
			return Result{}, err
		}
	}
	perUnit += copperRate.Price
	if copperRate.Price != 0 {
		res.Breakdown["copper_weight"] = quote.RoundCurrency(copperRate.Price)
		res.Notes = append(res.Notes, fmt.Sprintf("%goz copper: %+.2f per unit", spec.CopperWeightOz, copperRate.Price))
	}
	if copperRate.ExtraDays > 0 {
		days += copperRate.ExtraDays
		reasons = append(reasons, fmt.Sprintf("%goz copper: +%d days", spec.CopperWeightOz, copperRate.ExtraDays))
	}

	for _, opt := range []struct {
		field string
		value string
	}{
		{"surface_finish", spec.SurfaceFinish},
		{"hdi", spec.HDI},
		{"solder_mask", spec.SolderMask},
		{"silkscreen", spec.Silkscreen},
		{"trace_class", spec.TraceClass},
		{"hole_class", spec.HoleClass},
	} {
		// An omitted option is "not selected", not an unknown value; only
		// explicit values are checked against the table.
		if opt.value == "" {
			continue
		}
		rate, err := tbl.OptionRate(opt.field, opt.value)
		if err != nil {
			return Result{}, err
		}
		perUnit += rate.Price
		if rate.Price != 0 {
			res.Breakdown[opt.field] = quote.RoundCurrency(rate.Price)
			res.Notes = append(res.Notes, fmt.Sprintf("%s %s: %+.2f per unit", opt.field, opt.value, rate.Price))
		}
		if rate.ExtraDays > 0 {
			days += rate.ExtraDays
			reasons = append(reasons, fmt.Sprintf("%s %s: +%d days", opt.field, opt.value, rate.ExtraDays))
		}
	}

	for _, flag := range []struct {
		field string
		set   bool
	}{
		{"gold_fingers", spec.GoldFingers},
		{"impedance_control", spec.ImpedanceControl},
		{"edge_plating", spec.EdgePlating},
		{"castellated_holes", spec.CastellatedHoles},
		{"smt_assembly", spec.SMTAssembly},
		{"full_inspection", spec.FullInspection},
	} {
		if !flag.set {
			continue
		}
		rate := tbl.FlagRate(flag.field)
		perUnit += rate.Price
		if rate.Price != 0 {
			res.Breakdown[flag.field] = quote.RoundCurrency(rate.Price)
			res.Notes = append(res.Notes, fmt.Sprintf("%s: %+.2f per unit", flag.field, rate.Price))
		}
		if rate.ExtraDays > 0 {
			days += rate.ExtraDays
			reasons = append(reasons, fmt.Sprintf("%s: +%d days", flag.field, rate.ExtraDays))
		}
	}

	if billable := spec.BillableReports(); billable > 0 {
		reportCost := float64(billable) * tbl.ReportItemRate.Price
		perUnit += reportCost
		res.Breakdown["reports"] = quote.RoundCurrency(reportCost)
		res.Notes = append(res.Notes, fmt.Sprintf("%d production reports at %.2f each", billable, tbl.ReportItemRate.Price))
		if tbl.ReportItemRate.ExtraDays > 0 {
			days += tbl.ReportItemRate.ExtraDays
			reasons = append(reasons, fmt.Sprintf("production reports: +%d days", tbl.ReportItemRate.ExtraDays))
		}
	}

	if spec.ShipMode == quote.ShipModePanel || spec.ShipMode == quote.ShipModePanelAgent {
		if tbl.LeadTime.PanelModeDays > 0 {
			days += tbl.LeadTime.PanelModeDays
			reasons = append(reasons, fmt.Sprintf("panelized order: +%d days", tbl.LeadTime.PanelModeDays))
		}
	}
	if tbl.LeadTime.LargeAreaCm2 > 0 && area >= tbl.LeadTime.LargeAreaCm2 {
		days += tbl.LeadTime.LargeAreaDays
		reasons = append(reasons, fmt.Sprintf("board area %.0fcm² at or above %.0fcm²: +%d days", area, tbl.LeadTime.LargeAreaCm2, tbl.LeadTime.LargeAreaDays))
	}
	if tbl.LeadTime.LargeQty > 0 && units >= tbl.LeadTime.LargeQty {
		days += tbl.LeadTime.LargeQtyDays
		reasons = append(reasons, fmt.Sprintf("%d units at or above %d: +%d days", units, tbl.LeadTime.LargeQty, tbl.LeadTime.LargeQtyDays))
	}

	res.ProductionDays = days

	if delivery.AfterCutoff(orderedAt, tbl.CutoffHour) {
		days++
		reasons = append(reasons, fmt.Sprintf("ordered after %02d:00 cutoff: +1 day", tbl.CutoffHour))
	}
	if spec.Urgent {
		adjusted := delivery.AdjustForRush(days, true)
		if adjusted != days {
			reasons = append(reasons, fmt.Sprintf("urgent service: -%d days", days-adjusted))
		}
		days = adjusted
	}

	subtotal := perUnit * float64(units)
	discount := tbl.DiscountMultiplier(units)

	// Tiered discounts must never make a larger order cheaper than a
	// smaller one. Just past a breakpoint the raw multiplier would do
	// exactly that, so the billable unit count is clamped to the best
	// total reachable below any crossed breakpoint; the multiplier takes
	// full effect once the quantity grows past the crossover.
	billableUnits := float64(units) * discount
	for _, tier := range tbl.Discounts {
		if tier.MinQty <= 1 || tier.MinQty > units {
			continue
		}
		below := tier.MinQty - 1
		if f := float64(below) * tbl.DiscountMultiplier(below); f > billableUnits {
			billableUnits = f
		}
	}

	total := perUnit * billableUnits
	if discount != 1.0 {
		res.Breakdown["quantity_discount"] = quote.RoundCurrency(total - subtotal)
		res.Notes = append(res.Notes, fmt.Sprintf("quantity discount for %d units: x%.2f", units, discount))
	}

	// The minimum order value clamps after the discount, not before.
	if total < tbl.PriceFloor {
		res.Breakdown["minimum_order_adjustment"] = quote.RoundCurrency(tbl.PriceFloor - total)
		res.Notes = append(res.Notes, fmt.Sprintf("adjusted to minimum order value %.2f", tbl.PriceFloor))
		total = tbl.PriceFloor
	}

	res.TotalPrice = quote.RoundCurrency(total)
	res.UnitPrice = quote.RoundCurrency(total / float64(units))
	res.LeadTimeDays = days
	res.LeadTimeReason = reasons
	res.MinOrderQty = minOrderQty(perUnit, tbl.PriceFloor)
	return res, nil
}

// minOrderQty reports the smallest unit count whose undiscounted total meets
// the minimum order value.
func minOrderQty(perUnit, floor float64) int {
	if perUnit <= 0 || floor <= 0 {
		return 1
	}
	qty := int(math.Ceil(floor / perUnit))
	if qty < 1 {
		qty = 1
	}
	return qty
}
