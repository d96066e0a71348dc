package errors

import (
	"math"
	"slices"
	"strings"
)

// ValidateFinite rejects NaN and infinite values.
// NaN compares false against every bound, so range checks alone would let it through.
func ValidateFinite(code Code, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be a finite number, got %g", field, v)
	}
	return nil
}

// ValidatePositive checks that v is finite and strictly greater than zero.
func ValidatePositive(code Code, field string, v float64) error {
	if err := ValidateFinite(code, field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(code, "%s must be > 0, got %g", field, v)
	}
	return nil
}

// ValidateNonNegative checks that v is finite and not below zero.
func ValidateNonNegative(code Code, field string, v float64) error {
	if err := ValidateFinite(code, field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(code, "%s must be >= 0, got %g", field, v)
	}
	return nil
}

// ValidateRange checks that v is finite and within [min, max] inclusive.
func ValidateRange(code Code, field string, v, min, max float64) error {
	if err := ValidateFinite(code, field, v); err != nil {
		return err
	}
	if v < min || v > max {
		return New(code, "%s must be within [%g, %g], got %g", field, min, max, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of allowed. Matching is case-sensitive.
func ValidateOneOf(code Code, field, v string, allowed []string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, v, strings.Join(allowed, ", "))
}
