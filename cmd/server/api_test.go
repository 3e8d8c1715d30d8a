package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doJSON(t *testing.T, s *server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

const baseSpecJSON = `{
	"material": "fr4",
	"layers": 2,
	"surface_finish": "hasl",
	"copper_weight_oz": 1,
	"length_cm": 10,
	"width_cm": 10,
	"thickness_mm": 1.6,
	"quantity": 10
}`

func TestAPI_Price(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/price", baseSpecJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		TotalPrice float64 `json:"total_price"`
		UnitPrice  float64 `json:"unit_price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.TotalPrice != 130 || res.UnitPrice != 13 {
		t.Fatalf("price = %v/%v, want 130/13", res.TotalPrice, res.UnitPrice)
	}
}

func TestAPI_Price_UnknownOptionIs422(t *testing.T) {
	s := newTestServer(t)

	body := strings.Replace(baseSpecJSON, `"hasl"`, `"rainbow"`, 1)
	rec := doJSON(t, s, http.MethodPost, "/api/price", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Error struct {
			Field string `json:"field"`
			Value string `json:"value"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Error.Field != "surface_finish" || res.Error.Value != "rainbow" {
		t.Fatalf("unexpected error payload: %s", rec.Body.String())
	}
}

func TestAPI_Price_UnknownJSONFieldIs400(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/price", `{"quantity": 10, "warp_drive": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAPI_CreateQuoteAndList(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/quotes", `{
		"material": "fr4",
		"layers": 2,
		"surface_finish": "hasl",
		"copper_weight_oz": 1,
		"length_cm": 10,
		"width_cm": 10,
		"thickness_mm": 1.6,
		"quantity": 10,
		"title": "LED driver rev2"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID    int64   `json:"id"`
		Total float64 `json:"total"`
		Delivery struct {
			DeliveryDate string `json:"delivery_date"`
		} `json:"delivery"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected persisted quote id, got %d", created.ID)
	}
	if created.Total != 130 {
		t.Fatalf("total = %v, want 130", created.Total)
	}
	if created.Delivery.DeliveryDate == "" {
		t.Fatalf("expected a promised delivery date")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/quotes?q=LED", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Quotes []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"quotes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Quotes) != 1 || listed.Quotes[0].ID != created.ID {
		t.Fatalf("unexpected list result: %s", rec.Body.String())
	}
}

func TestAPI_Shipping(t *testing.T) {
	s := newTestServer(t)

	shipBody := `{
		"material": "fr4",
		"layers": 2,
		"copper_weight_oz": 1,
		"length_cm": 10,
		"width_cm": 10,
		"thickness_mm": 1.6,
		"quantity": 40,
		"destination_country": "US",
		"carrier": "dhl",
		"service": "standard"
	}`
	rec := doJSON(t, s, http.MethodPost, "/api/shipping", shipBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		ChargeableWeight float64 `json:"chargeable_weight"`
		FinalCost        float64 `json:"final_cost"`
		Zone             string  `json:"zone"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Zone != "north_america" {
		t.Fatalf("zone = %q, want north_america", res.Zone)
	}
	if res.ChargeableWeight != 1.402 {
		t.Fatalf("chargeable weight = %v, want 1.402", res.ChargeableWeight)
	}
	if res.FinalCost != 31.99 {
		t.Fatalf("final cost = %v, want 31.99", res.FinalCost)
	}
}

func TestAPI_Shipping_UnsupportedDestination(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/shipping", `{
		"quantity": 40, "length_cm": 10, "width_cm": 10, "thickness_mm": 1.6,
		"destination_country": "BR", "carrier": "dhl", "service": "standard"
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_DeliveryDate(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/delivery-date", `{
		"production_days": 5,
		"start": "2026-03-06T10:00:00Z"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		DeliveryDate      string `json:"delivery_date"`
		TotalCalendarDays int    `json:"total_calendar_days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(res.DeliveryDate, "2026-03-13") {
		t.Fatalf("delivery date = %q, want 2026-03-13", res.DeliveryDate)
	}
	if res.TotalCalendarDays != 7 {
		t.Fatalf("calendar days = %d, want 7", res.TotalCalendarDays)
	}
}

func TestAPI_DeliveryDate_BadStart(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/delivery-date", `{
		"production_days": 5,
		"start": "next tuesday"
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAPI_Materials(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/materials", `{"name": "", "density_g_cm3": 1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid material status = %d, want 422", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/materials", `{"name": "ceramic", "density_g_cm3": 3.9, "price_delta": 60, "extra_lead_days": 5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create material status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created material
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode material: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected material id, got %d", created.ID)
	}

	// The new material is live in the rate table without a restart.
	if _, err := s.holder.Table().MaterialFor("ceramic"); err != nil {
		t.Fatalf("material not visible after reload: %v", err)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/materials/99999", `{"name": "ghost", "density_g_cm3": 1, "active": true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing material status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/materials/not-a-number", `{"name": "x", "density_g_cm3": 1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id status = %d, want 422", rec.Code)
	}
}

func TestAPI_RatesReload(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/rates/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var res map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res["version"] != "test-1" {
		t.Fatalf("version = %q, want test-1", res["version"])
	}
}
