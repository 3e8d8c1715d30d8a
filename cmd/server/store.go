package main

import (
	"encoding/json"
	"fmt"
)

type material struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DensityGCm3   float64 `json:"density_g_cm3"`
	PriceDelta    float64 `json:"price_delta"`
	ExtraLeadDays int     `json:"extra_lead_days"`
	IsDefault     bool    `json:"is_default"`
	Notes         string  `json:"notes"`
	Active        bool    `json:"active"`
}

func (m material) validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.DensityGCm3 <= 0 {
		return fmt.Errorf("density_g_cm3 must be greater than 0")
	}
	if m.ExtraLeadDays < 0 {
		return fmt.Errorf("extra_lead_days must not be negative")
	}
	return nil
}

type quoteListItem struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"created_at"`
	Title     string  `json:"title"`
	Total     float64 `json:"total"`
}

func (s *server) insertQuote(req quoteRequest, resp quoteResponse) (int64, error) {
	specJSON, err := json.Marshal(req.Specification)
	if err != nil {
		return 0, fmt.Errorf("marshal spec: %w", err)
	}
	pricingJSON, err := json.Marshal(resp.Pricing)
	if err != nil {
		return 0, fmt.Errorf("marshal pricing: %w", err)
	}
	deliveryJSON, err := json.Marshal(resp.Delivery)
	if err != nil {
		return 0, fmt.Errorf("marshal delivery: %w", err)
	}
	var shippingJSON any
	if resp.Shipping != nil {
		raw, err := json.Marshal(resp.Shipping)
		if err != nil {
			return 0, fmt.Errorf("marshal shipping: %w", err)
		}
		shippingJSON = string(raw)
	}

	result, err := s.db.Exec(`
		INSERT INTO quotes (title, notes, spec_json, pricing_json, shipping_json, delivery_json, total)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, req.Title, req.Notes, string(specJSON), string(pricingJSON), shippingJSON, string(deliveryJSON), resp.Total)
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quote insert id: %w", err)
	}
	return id, nil
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			total
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.Total); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func (s *server) listMaterials() ([]material, error) {
	rows, err := s.db.Query(`
		SELECT id, name, density_g_cm3, price_delta, extra_lead_days, is_default, COALESCE(notes, ''), active
		FROM materials
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]material, 0)
	for rows.Next() {
		var m material
		if err := rows.Scan(&m.ID, &m.Name, &m.DensityGCm3, &m.PriceDelta, &m.ExtraLeadDays, &m.IsDefault, &m.Notes, &m.Active); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

func (s *server) insertMaterial(m material) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO materials (name, density_g_cm3, price_delta, extra_lead_days, is_default, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, TRUE)
	`, m.Name, m.DensityGCm3, m.PriceDelta, m.ExtraLeadDays, m.IsDefault, m.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("material insert id: %w", err)
	}
	return id, nil
}

func (s *server) updateMaterial(m material) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE materials
		SET
			name = ?,
			density_g_cm3 = ?,
			price_delta = ?,
			extra_lead_days = ?,
			is_default = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Name, m.DensityGCm3, m.PriceDelta, m.ExtraLeadDays, m.IsDefault, m.Notes, m.Active, m.ID)
	if err != nil {
		return false, fmt.Errorf("update material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update material rows affected: %w", err)
	}
	return affected > 0, nil
}
