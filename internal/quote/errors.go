package quote

import "fmt"

// The engine fails closed: a value the rate table does not know about is an
// error, never a silent zero-cost default. Every error carries the offending
// field and value so the caller can tell the customer what to fix.

// UnknownOptionValueError reports a specification field holding a value that
// is absent from its declared option set.
type UnknownOptionValueError struct {
	Field string
	Value string
}

func (e *UnknownOptionValueError) Error() string {
	return fmt.Sprintf("unknown value %q for option %q", e.Value, e.Field)
}

// UnsupportedDestinationError reports a destination country that belongs to
// no shipping zone.
type UnsupportedDestinationError struct {
	Country string
}

func (e *UnsupportedDestinationError) Error() string {
	return fmt.Sprintf("destination country %q is not covered by any shipping zone", e.Country)
}

// BelowMinimumWeightError reports a chargeable weight under the configured
// minimum billable shipment weight.
type BelowMinimumWeightError struct {
	ChargeableKg float64
	FloorKg      float64
}

func (e *BelowMinimumWeightError) Error() string {
	return fmt.Sprintf("chargeable weight %.3fkg is below the minimum billable weight %.3fkg", e.ChargeableKg, e.FloorKg)
}

// InvalidQuantityError reports a quantity-like field below 1. Field is empty
// for the main order quantity.
type InvalidQuantityError struct {
	Field    string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	field := e.Field
	if field == "" {
		field = "quantity"
	}
	return fmt.Sprintf("%s must be at least 1, got %d", field, e.Quantity)
}

// InvalidDimensionsError reports a non-positive linear dimension.
type InvalidDimensionsError struct {
	Field string
	Value float64
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("%s must be greater than 0, got %v", e.Field, e.Value)
}

// UnrecognizedServiceError reports a shipping service level outside the
// configured multiplier set.
type UnrecognizedServiceError struct {
	Service string
}

func (e *UnrecognizedServiceError) Error() string {
	return fmt.Sprintf("unrecognized shipping service %q", e.Service)
}

// UnrecognizedCarrierError reports a carrier code the resolved zone has no
// rate card for.
type UnrecognizedCarrierError struct {
	Carrier string
	Zone    string
}

func (e *UnrecognizedCarrierError) Error() string {
	return fmt.Sprintf("zone %q has no rate card for carrier %q", e.Zone, e.Carrier)
}
