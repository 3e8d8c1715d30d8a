package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openfab/boardquote/internal/delivery"
	"github.com/openfab/boardquote/internal/pricing"
	"github.com/openfab/boardquote/internal/quote"
	"github.com/openfab/boardquote/internal/shipping"
)

type quoteRequest struct {
	quote.Specification
	Title              string `json:"title"`
	Notes              string `json:"notes"`
	DestinationCountry string `json:"destination_country"`
	Carrier            string `json:"carrier"`
	Service            string `json:"service"`
}

type quoteResponse struct {
	ID       int64            `json:"id,omitempty"`
	Title    string           `json:"title,omitempty"`
	Pricing  pricing.Result   `json:"pricing"`
	Delivery delivery.Result  `json:"delivery"`
	Shipping *shipping.Result `json:"shipping,omitempty"`
	Total    float64          `json:"total"`
}

// handleCreateQuote runs the full quote flow: price the specification, promise a
// delivery date and, when a destination is given, price the shipment. The
// combined quote is persisted for the history view.
func (s *server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	now := time.Now()
	tbl := s.holder.Table()

	priced, err := pricing.Price(req.Specification, tbl, now)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	estimated, err := delivery.Estimate(priced.ProductionDays, now, req.Urgent, s.cal, tbl.CutoffHour)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	resp := quoteResponse{
		Title:    req.Title,
		Pricing:  priced,
		Delivery: estimated,
		Total:    priced.TotalPrice,
	}
	if req.DestinationCountry != "" {
		shipped, err := shipping.Cost(req.Specification, req.DestinationCountry, req.Carrier, req.Service, now, tbl)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		resp.Shipping = &shipped
		resp.Total = quote.RoundCurrency(priced.TotalPrice + shipped.FinalCost)
	}

	id, err := s.insertQuote(req, resp)
	if err != nil {
		s.log.Error("failed to persist quote", zap.Error(err))
		http.Error(w, "failed to save quote", http.StatusInternalServerError)
		return
	}
	resp.ID = id

	writeJSON(w, http.StatusCreated, resp)
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var spec quote.Specification
	if err := decodeJSON(w, r, &spec); err != nil {
		return
	}

	res, err := pricing.Price(spec, s.holder.Table(), time.Now())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type shippingRequest struct {
	quote.Specification
	DestinationCountry string `json:"destination_country"`
	Carrier            string `json:"carrier"`
	Service            string `json:"service"`
}

func (s *server) handleShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	res, err := shipping.Cost(req.Specification, req.DestinationCountry, req.Carrier, req.Service, time.Now(), s.holder.Table())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type deliveryRequest struct {
	ProductionDays int    `json:"production_days"`
	Start          string `json:"start"`
	Urgent         bool   `json:"urgent"`
}

func (s *server) handleDeliveryDate(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	start := time.Now()
	if req.Start != "" {
		parsed, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			writeValidationError(w, "start", req.Start, "start must be RFC3339")
			return
		}
		start = parsed
	}

	res, err := delivery.Estimate(req.ProductionDays, start, req.Urgent, s.cal, s.holder.Table().CutoffHour)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(query)
	if err != nil {
		s.log.Error("failed to load quotes", zap.Error(err))
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (s *server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.listMaterials()
	if err != nil {
		s.log.Error("failed to load materials", zap.Error(err))
		http.Error(w, "failed to load materials", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
}

func (s *server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var m material
	if err := decodeJSON(w, r, &m); err != nil {
		return
	}
	if err := m.validate(); err != nil {
		writeValidationError(w, "material", m.Name, err.Error())
		return
	}

	id, err := s.insertMaterial(m)
	if err != nil {
		s.log.Error("failed to create material", zap.Error(err))
		http.Error(w, "failed to create material", http.StatusInternalServerError)
		return
	}
	m.ID = id

	// Reference data changed: publish a fresh rate table snapshot.
	if err := s.holder.Reload(); err != nil {
		s.log.Error("rate table reload after material create failed", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, m)
}

func (s *server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeValidationError(w, "id", chi.URLParam(r, "id"), "invalid material id")
		return
	}

	var m material
	if err := decodeJSON(w, r, &m); err != nil {
		return
	}
	if err := m.validate(); err != nil {
		writeValidationError(w, "material", m.Name, err.Error())
		return
	}
	m.ID = id

	updated, err := s.updateMaterial(m)
	if err != nil {
		s.log.Error("failed to update material", zap.Error(err))
		http.Error(w, "failed to update material", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.NotFound(w, r)
		return
	}

	if err := s.holder.Reload(); err != nil {
		s.log.Error("rate table reload after material update failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleRatesReload(w http.ResponseWriter, r *http.Request) {
	if err := s.holder.Reload(); err != nil {
		http.Error(w, "rate table reload failed", http.StatusInternalServerError)
		return
	}
	tbl := s.holder.Table()
	writeJSON(w, http.StatusOK, map[string]string{"version": tbl.Version})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorPayload struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

func writeValidationError(w http.ResponseWriter, field, value, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]errorPayload{
		"error": {Message: message, Field: field, Value: value},
	})
}

// writeEngineError maps the engine's typed validation failures to 422
// responses carrying the offending field and value; anything else is a 500.
func (s *server) writeEngineError(w http.ResponseWriter, err error) {
	payload := errorPayload{Message: err.Error()}

	var unknownOption *quote.UnknownOptionValueError
	var unsupportedDest *quote.UnsupportedDestinationError
	var belowMin *quote.BelowMinimumWeightError
	var invalidQty *quote.InvalidQuantityError
	var invalidDims *quote.InvalidDimensionsError
	var badService *quote.UnrecognizedServiceError
	var badCarrier *quote.UnrecognizedCarrierError

	switch {
	case errors.As(err, &unknownOption):
		payload.Field = unknownOption.Field
		payload.Value = unknownOption.Value
	case errors.As(err, &unsupportedDest):
		payload.Field = "destination_country"
		payload.Value = unsupportedDest.Country
	case errors.As(err, &belowMin):
		payload.Field = "chargeable_weight"
	case errors.As(err, &invalidQty):
		payload.Field = invalidQty.Field
		if payload.Field == "" {
			payload.Field = "quantity"
		}
		payload.Value = strconv.Itoa(invalidQty.Quantity)
	case errors.As(err, &invalidDims):
		payload.Field = invalidDims.Field
	case errors.As(err, &badService):
		payload.Field = "service"
		payload.Value = badService.Service
	case errors.As(err, &badCarrier):
		payload.Field = "carrier"
		payload.Value = badCarrier.Carrier
	default:
		s.log.Error("quote calculation failed", zap.Error(err))
		http.Error(w, "quote calculation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusUnprocessableEntity, map[string]errorPayload{"error": payload})
}
