// Package weight computes the physical and billable mass of a manufactured
// order: true mass from the material stack-up, volumetric mass from package
// dimensions, and the chargeable weight carriers actually bill.
package weight

import (
	"github.com/openfab/boardquote/internal/quote"
	"github.com/openfab/boardquote/internal/rates"
)

// Stack-up modeling constants. Coverage and finish fractions are modeling
// approximations, not measured values; override them per deployment if the
// fab's empirical numbers differ.
const (
	// MmPerOzCopper converts finished copper weight to foil thickness:
	// 1 oz/ft² of copper is 0.035 mm.
	MmPerOzCopper = 0.035

	// CopperDensityGPerCm3 is the density of copper.
	CopperDensityGPerCm3 = 8.96

	// CopperCoverageRatio approximates how much foil survives etching.
	CopperCoverageRatio = 0.75

	// FinishMassFraction adds plating-finish mass as a fraction of the
	// total copper mass.
	FinishMassFraction = 0.03

	// Solder mask and silkscreen masses per face, grams per cm².
	SolderMaskGramsPerCm2 = 0.002
	SilkscreenGramsPerCm2 = 0.001

	// DimFactor is the carrier-industry volumetric divisor (cm³ per kg).
	DimFactor = 5000
)

// SinglePanelGrams computes the mass of one manufactured unit in grams,
// rounded to 2 decimal places. An unknown material is an error, never a
// zero-weight default.
func SinglePanelGrams(spec quote.Specification, tbl *rates.Table) (float64, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	materialName := spec.Material
	if materialName == "" {
		materialName = tbl.DefaultMaterial
	}
	material, err := tbl.MaterialFor(materialName)
	if err != nil {
		return 0, err
	}

	area := spec.AreaCm2()
	substrate := area * (spec.ThicknessMm / 10) * material.DensityGPerCm3

	copperCm := spec.CopperWeightOz * MmPerOzCopper / 10
	layerMass := area * copperCm * CopperDensityGPerCm3 * CopperCoverageRatio
	outer := 2 * layerMass
	inner := float64(maxInt(0, spec.Layers-2)) * layerMass
	copper := outer + inner

	finish := copper * FinishMassFraction
	mask := 2 * area * SolderMaskGramsPerCm2
	silkscreen := 2 * area * SilkscreenGramsPerCm2

	return quote.RoundGrams(substrate + copper + finish + mask + silkscreen), nil
}

// ShipmentKg converts a single-unit mass into the total shipment weight for
// the resolved unit count.
func ShipmentKg(panelGrams float64, units int) float64 {
	return quote.RoundWeight(panelGrams * float64(units) / 1000)
}

// VolumetricKg computes the carrier volumetric weight from the stacked
// package dimensions. Thickness arrives in millimeters, matching the
// specification fields.
func VolumetricKg(lengthCm, widthCm, thicknessMm float64, units int) float64 {
	volume := lengthCm * widthCm * (thicknessMm / 10) * float64(units)
	return quote.RoundWeight(volume / DimFactor)
}

// ChargeableKg resolves the billable weight: the greater of actual and
// volumetric, checked against the minimum billable shipment floor. Falling
// under the floor is a hard error; the threshold is commercially meaningful
// and must never be bumped silently.
func ChargeableKg(actualKg, volumetricKg, floorKg float64) (float64, error) {
	chargeable := actualKg
	if volumetricKg > chargeable {
		chargeable = volumetricKg
	}
	if chargeable < floorKg {
		return 0, &quote.BelowMinimumWeightError{ChargeableKg: chargeable, FloorKg: floorKg}
	}
	return quote.RoundWeight(chargeable), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
