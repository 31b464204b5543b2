package rates

import (
	"errors"
	"fmt"
	"math"
)

// Horizon is the number of simulated years, matching a 360 month loan term.
const Horizon = 30

var ErrInvalidTimeline = errors.New("invalid rate timeline")

// RatePeriod holds the macro rates of one calendar year, in percent
type RatePeriod struct {
	Year       int     `json:"year" yaml:"year"`
	Inflation  float64 `json:"ipca" yaml:"ipca"`
	PolicyRate float64 `json:"selic" yaml:"selic"`
}

// Timeline is the ordered sequence of periods driving a simulation. The
// engine reads it by position; Year is a display label.
type Timeline []RatePeriod

var historical = Timeline{
	{2010, 5.91, 9.8}, {2011, 6.50, 11.6}, {2012, 5.84, 8.5},
	{2013, 5.91, 8.2}, {2014, 6.41, 10.9}, {2015, 10.67, 13.3},
	{2016, 6.29, 14.0}, {2017, 2.95, 10.0}, {2018, 3.75, 6.4},
	{2019, 4.31, 5.9}, {2020, 4.52, 2.8}, {2021, 10.06, 4.4},
	{2022, 5.78, 12.4}, {2023, 4.62, 13.0}, {2024, 4.83, 10.9},
	{2025, 4.26, 14.3},
}

var projected = Timeline{
	{2026, 4.5, 15.0}, {2027, 4.5, 13.0}, {2028, 5.0, 10.5},
	{2029, 5.5, 9.0}, {2030, 6.0, 7.5}, {2031, 6.5, 5.5},
	{2032, 7.0, 4.0}, {2033, 8.0, 6.0}, {2034, 7.0, 10.0},
	{2035, 5.5, 13.0}, {2036, 4.5, 12.0}, {2037, 4.0, 10.0},
	{2038, 4.5, 9.0}, {2039, 5.0, 8.0},
}

// Historical returns observed IPCA and Selic for 2010-2025
func Historical() Timeline {
	return historical.Clone()
}

// Projected returns the scenario for 2026-2039
func Projected() Timeline {
	return projected.Clone()
}

// Default returns the historical sequence followed by the projection, 30 years in total
func Default() Timeline {
	t := make(Timeline, 0, len(historical)+len(projected))
	t = append(t, historical...)
	return append(t, projected...)
}

// Clone returns a copy that can be modified without touching the receiver
func (t Timeline) Clone() Timeline {
	out := make(Timeline, len(t))
	copy(out, t)
	return out
}

// Validate checks that the timeline covers exactly the simulation horizon
// with strictly increasing years.
func (t Timeline) Validate() error {
	if len(t) != Horizon {
		return fmt.Errorf("%w: %d periods, want %d", ErrInvalidTimeline, len(t), Horizon)
	}
	for i := 1; i < len(t); i++ {
		if t[i].Year <= t[i-1].Year {
			return fmt.Errorf("%w: year %d follows %d", ErrInvalidTimeline, t[i].Year, t[i-1].Year)
		}
	}
	for _, p := range t {
		if !finite(p.Inflation) || !finite(p.PolicyRate) {
			return fmt.Errorf("%w: rates for %d must be finite numbers", ErrInvalidTimeline, p.Year)
		}
		if p.Inflation <= -100 || p.PolicyRate <= -100 {
			return fmt.Errorf("%w: rates for %d must be above -100%%", ErrInvalidTimeline, p.Year)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Averages returns the mean policy rate and mean inflation over the timeline
func (t Timeline) Averages() (policyRate, inflation float64) {
	if len(t) == 0 {
		return 0, 0
	}
	for _, p := range t {
		policyRate += p.PolicyRate
		inflation += p.Inflation
	}
	n := float64(len(t))
	return policyRate / n, inflation / n
}
