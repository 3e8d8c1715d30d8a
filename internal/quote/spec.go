package quote

// Ship modes supported by the order form. Panel modes multiply the ordered
// quantity by the panel set count; "single" ships loose boards.
const (
	ShipModeSingle     = "single"
	ShipModePanel      = "panel"
	ShipModePanelAgent = "panel_agent"
)

// Specification describes one manufacturable item exactly as the customer
// configured it. It is immutable for the duration of a calculation; the
// engine never mutates or retains it.
type Specification struct {
	Material      string `json:"material"`
	Layers        int    `json:"layers"`
	SurfaceFinish string `json:"surface_finish"`
	HDI           string `json:"hdi"`
	SolderMask    string `json:"solder_mask"`
	Silkscreen    string `json:"silkscreen"`
	TraceClass    string `json:"trace_class"`
	HoleClass     string `json:"hole_class"`
	ShipMode      string `json:"ship_mode"`

	// CopperWeightOz is the finished copper weight per layer in ounces.
	CopperWeightOz float64 `json:"copper_weight_oz"`

	GoldFingers      bool `json:"gold_fingers"`
	ImpedanceControl bool `json:"impedance_control"`
	EdgePlating      bool `json:"edge_plating"`
	CastellatedHoles bool `json:"castellated_holes"`
	SMTAssembly      bool `json:"smt_assembly"`
	FullInspection   bool `json:"full_inspection"`
	Urgent           bool `json:"urgent"`

	// Single-unit dimensions. Length and width are centimeters, board
	// thickness is millimeters (the unit the fab tooling speaks).
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	ThicknessMm float64 `json:"thickness_mm"`

	Quantity   int `json:"quantity"`
	PanelCount int `json:"panel_count"`

	// Reports lists requested production reports. "none" entries are
	// non-billable; an absent or empty list behaves the same way.
	Reports []string `json:"reports"`
}

// AreaCm2 returns the single-unit board area in square centimeters.
func (s Specification) AreaCm2() float64 {
	return s.LengthCm * s.WidthCm
}

// Validate checks the structural numeric invariants of the specification.
// Enum membership is validated later against the loaded rate table, so that
// the legal value sets stay data, not code.
func (s Specification) Validate() error {
	if s.Quantity < 1 {
		return &InvalidQuantityError{Quantity: s.Quantity}
	}
	if s.LengthCm <= 0 {
		return &InvalidDimensionsError{Field: "length_cm", Value: s.LengthCm}
	}
	if s.WidthCm <= 0 {
		return &InvalidDimensionsError{Field: "width_cm", Value: s.WidthCm}
	}
	if s.ThicknessMm <= 0 {
		return &InvalidDimensionsError{Field: "thickness_mm", Value: s.ThicknessMm}
	}
	return nil
}

// Units resolves the number of manufactured units the order produces.
// Panel modes require an explicit panel set count; it is never inferred.
func (s Specification) Units() (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	switch s.ShipMode {
	case ShipModeSingle, "":
		return s.Quantity, nil
	case ShipModePanel, ShipModePanelAgent:
		if s.PanelCount < 1 {
			return 0, &InvalidQuantityError{Field: "panel_count", Quantity: s.PanelCount}
		}
		return s.Quantity * s.PanelCount, nil
	default:
		return 0, &UnknownOptionValueError{Field: "ship_mode", Value: s.ShipMode}
	}
}

// BillableReports counts requested report types, ignoring "none" entries.
func (s Specification) BillableReports() int {
	count := 0
	for _, r := range s.Reports {
		if r != "" && r != "none" {
			count++
		}
	}
	return count
}
