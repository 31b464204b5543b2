package simulation

import (
	"fmt"
	"math"

	"aluguelcompra/server/config"
)

// TermMonths is the loan term and the simulation horizon.
const TermMonths = 360

// Params are the user supplied inputs of one simulation
type Params struct {
	Price                     float64
	InitialRent               float64
	DownPaymentFraction       float64
	AnnualFinancingRate       float64
	ExtraAmortizationFraction float64
}

// ParamsFromConfig returns the configured default scenario
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Price:                     cfg.Simulation.Price,
		InitialRent:               cfg.Simulation.Rent,
		DownPaymentFraction:       cfg.Simulation.DownPayment,
		AnnualFinancingRate:       cfg.Simulation.FinancingRate,
		ExtraAmortizationFraction: cfg.Simulation.ExtraAmortization,
	}
}

// ValidationError reports a parameter outside its domain. No simulation
// state is computed when it is returned.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

// Validate checks every parameter against its domain and returns the first violation
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
		rule  string
	}{
		{"price", p.Price, p.Price > 0, "must be positive"},
		{"initial_rent", p.InitialRent, p.InitialRent > 0, "must be positive"},
		{"down_payment_fraction", p.DownPaymentFraction, p.DownPaymentFraction >= 0 && p.DownPaymentFraction < 1, "must be in [0, 1)"},
		{"annual_financing_rate", p.AnnualFinancingRate, p.AnnualFinancingRate >= 0, "must not be negative"},
		{"extra_amortization_fraction", p.ExtraAmortizationFraction, p.ExtraAmortizationFraction >= 0, "must not be negative"},
	}

	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ValidationError{Field: c.field, Value: c.value, Reason: "must be a finite number"}
		}
		if !c.ok {
			return &ValidationError{Field: c.field, Value: c.value, Reason: c.rule}
		}
	}
	return nil
}

// Financing holds the figures derived from the parameters before the first month
type Financing struct {
	DownPayment  float64
	Financed     float64
	MonthlyRate  float64
	Installment  float64
	ExtraPayment float64
	// MonthlyBudget is spent every month by all three strategies
	MonthlyBudget float64
}

// NewFinancing computes down payment, financed principal, installment and budget
func NewFinancing(p Params) Financing {
	financed := p.Price * (1 - p.DownPaymentFraction)
	installment := Installment(financed, p.AnnualFinancingRate, TermMonths)
	extra := installment * p.ExtraAmortizationFraction

	return Financing{
		DownPayment:   p.Price * p.DownPaymentFraction,
		Financed:      financed,
		MonthlyRate:   p.AnnualFinancingRate / 12,
		Installment:   installment,
		ExtraPayment:  extra,
		MonthlyBudget: installment + extra,
	}
}

// Installment calculates the fixed monthly payment of a loan
// Using formula: M = P * r(1+r)^n / ((1+r)^n - 1)
// Rates too small to change (1+r)^n in float64 are treated as zero.
func Installment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}

	n := float64(months)
	monthlyRate := annualRate / 12
	growth := math.Expm1(n * math.Log1p(monthlyRate)) // (1+r)^n - 1
	if monthlyRate == 0 || growth == 0 || math.IsInf(growth, 0) || math.IsNaN(growth) {
		return principal / n
	}

	installment := principal * monthlyRate * (growth + 1) / growth
	if math.IsInf(installment, 0) || math.IsNaN(installment) {
		return principal / n
	}
	return installment
}
