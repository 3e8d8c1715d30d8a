package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/openfab/boardquote/internal/calendar"
	"github.com/openfab/boardquote/internal/db"
	"github.com/openfab/boardquote/internal/migrations"
	"github.com/openfab/boardquote/internal/pricing"
	"github.com/openfab/boardquote/internal/rates"
	"github.com/openfab/boardquote/internal/seed"
)

const testRateCard = `
version: "test-1"
pricing:
  start_fee: 5
  area_rate: 0.08
  per_layer_rate: 8
  price_floor: 25
  cutoff_hour: 20
  report_item_rate: {price: 3, extra_days: 1}
  options:
    surface_finish:
      hasl: {price: 0}
      enig: {price: 12, extra_days: 1}
    copper_weight_oz:
      "1": {price: 0}
  flags:
    gold_fingers: {price: 10, extra_days: 1}
  discounts:
    - {min_qty: 100, multiplier: 0.95}
lead_time:
  base_days: 2
  extra_layer_days: 2
shipping:
  min_chargeable_kg: 0.5
  service_multipliers: {standard: 1.0, express: 1.5}
  peak_months: []
  zones:
    - name: north_america
      countries: [US, CA]
      carriers:
        dhl: {base_rate: 18, price_per_kg: 6.5, fuel_surcharge_pct: 0.18, peak_surcharge_pct: 0.10}
`

func newTestServer(t *testing.T) *server {
	t.Helper()

	dir := t.TempDir()
	conn, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migrations.Up(conn, "../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := seed.Run(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cardPath := filepath.Join(dir, "rates.yml")
	if err := os.WriteFile(cardPath, []byte(testRateCard), 0o644); err != nil {
		t.Fatalf("write rate card: %v", err)
	}
	holder, err := rates.NewHolder(cardPath, conn, zap.NewNop())
	if err != nil {
		t.Fatalf("load rate card: %v", err)
	}

	return &server{
		db:     conn,
		holder: holder,
		cal:    calendar.New(nil, nil, nil),
		log:    zap.NewNop(),
	}
}

func TestInsertAndListQuotes(t *testing.T) {
	s := newTestServer(t)

	for _, title := range []string{"LED driver rev2", "Sensor array"} {
		req := quoteRequest{Title: title, Notes: "prototype run"}
		req.Quantity = 10
		resp := quoteResponse{Pricing: pricing.Result{TotalPrice: 130}, Total: 130}
		if _, err := s.insertQuote(req, resp); err != nil {
			t.Fatalf("insert quote %q: %v", title, err)
		}
	}

	all, err := s.listQuotes("")
	if err != nil {
		t.Fatalf("list quotes: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(all))
	}
	// Newest first.
	if all[0].Title != "Sensor array" || all[1].Title != "LED driver rev2" {
		t.Fatalf("unexpected order: %q then %q", all[0].Title, all[1].Title)
	}

	filtered, err := s.listQuotes("LED")
	if err != nil {
		t.Fatalf("filter quotes: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "LED driver rev2" {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}

	byNotes, err := s.listQuotes("prototype")
	if err != nil {
		t.Fatalf("filter quotes by notes: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected notes filter to match both, got %d", len(byNotes))
	}
}

func TestMaterialStore(t *testing.T) {
	s := newTestServer(t)

	seeded, err := s.listMaterials()
	if err != nil {
		t.Fatalf("list materials: %v", err)
	}
	if len(seeded) == 0 {
		t.Fatalf("expected seeded materials")
	}

	id, err := s.insertMaterial(material{Name: "ceramic", DensityGCm3: 3.9, PriceDelta: 60, ExtraLeadDays: 5})
	if err != nil {
		t.Fatalf("insert material: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive material id, got %d", id)
	}

	updated, err := s.updateMaterial(material{ID: id, Name: "ceramic", DensityGCm3: 3.9, PriceDelta: 55, Active: true})
	if err != nil {
		t.Fatalf("update material: %v", err)
	}
	if !updated {
		t.Fatalf("expected update to hit existing row")
	}

	updated, err = s.updateMaterial(material{ID: 99999, Name: "ghost", DensityGCm3: 1})
	if err != nil {
		t.Fatalf("update missing material: %v", err)
	}
	if updated {
		t.Fatalf("expected no rows affected for unknown id")
	}
}

func TestMaterialValidate(t *testing.T) {
	if err := (material{Name: "", DensityGCm3: 1}).validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := (material{Name: "x", DensityGCm3: 0}).validate(); err == nil {
		t.Fatalf("expected error for non-positive density")
	}
	if err := (material{Name: "x", DensityGCm3: 1, ExtraLeadDays: -1}).validate(); err == nil {
		t.Fatalf("expected error for negative lead days")
	}
	if err := (material{Name: "x", DensityGCm3: 1}).validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
