// Package shipping prices a shipment: zone-rated carrier cost on the
// chargeable weight plus fuel and peak-season surcharges, scaled by the
// selected service level.
package shipping

import (
	"time"

	"github.com/openfab/boardquote/internal/quote"
	"github.com/openfab/boardquote/internal/rates"
	"github.com/openfab/boardquote/internal/weight"
)

// Result reports every intermediate weight and cost figure so quotes stay
// auditable. Weights are kilograms at 3 decimals, costs currency at 2.
type Result struct {
	ActualWeight     float64 `json:"actual_weight"`
	VolumetricWeight float64 `json:"volumetric_weight"`
	ChargeableWeight float64 `json:"chargeable_weight"`
	BaseCost         float64 `json:"base_cost"`
	FuelSurcharge    float64 `json:"fuel_surcharge"`
	PeakCharge       float64 `json:"peak_charge"`
	FinalCost        float64 `json:"final_cost"`
	Zone             string  `json:"zone"`
	Carrier          string  `json:"carrier"`
	Service          string  `json:"service"`
}

// Cost computes the shipping cost for a specification to a destination
// country via the given carrier and service level. orderDate drives only the
// peak-season window.
func Cost(spec quote.Specification, country, carrier, service string, orderDate time.Time, tbl *rates.Table) (Result, error) {
	units, err := spec.Units()
	if err != nil {
		return Result{}, err
	}

	zone, err := tbl.ZoneFor(country)
	if err != nil {
		return Result{}, err
	}
	card, err := zone.Carrier(carrier)
	if err != nil {
		return Result{}, err
	}
	multiplier, err := tbl.ServiceMultiplier(service)
	if err != nil {
		return Result{}, err
	}

	panelGrams, err := weight.SinglePanelGrams(spec, tbl)
	if err != nil {
		return Result{}, err
	}
	actual := weight.ShipmentKg(panelGrams, units)
	volumetric := weight.VolumetricKg(spec.LengthCm, spec.WidthCm, spec.ThicknessMm, units)
	chargeable, err := weight.ChargeableKg(actual, volumetric, tbl.MinChargeableKg)
	if err != nil {
		return Result{}, err
	}

	base := card.BaseRate + chargeable*card.PricePerKg
	fuel := base * card.FuelSurchargePct
	peak := 0.0
	if tbl.IsPeakMonth(orderDate.Month()) {
		peak = base * card.PeakSurchargePct
	}
	final := (base + fuel + peak) * multiplier

	return Result{
		ActualWeight:     actual,
		VolumetricWeight: volumetric,
		ChargeableWeight: chargeable,
		BaseCost:         quote.RoundCurrency(base),
		FuelSurcharge:    quote.RoundCurrency(fuel),
		PeakCharge:       quote.RoundCurrency(peak),
		FinalCost:        quote.RoundCurrency(final),
		Zone:             zone.Name,
		Carrier:          carrier,
		Service:          service,
	}, nil
}
