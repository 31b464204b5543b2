package simulation

import (
	"fmt"

	"aluguelcompra/server/internal/rates"
)

// Engine runs simulations against a fixed rate timeline
type Engine struct {
	timeline rates.Timeline
}

// Observer is called after every simulated month
type Observer func(period rates.RatePeriod, s State)

// NewEngine creates an engine over a validated copy of the timeline
func NewEngine(timeline rates.Timeline) (*Engine, error) {
	if err := timeline.Validate(); err != nil {
		return nil, err
	}
	return &Engine{timeline: timeline.Clone()}, nil
}

// Timeline returns a copy of the engine's rate timeline
func (e *Engine) Timeline() rates.Timeline {
	return e.timeline.Clone()
}

// Simulate runs the 30 year comparison for the given parameters
func (e *Engine) Simulate(p Params) (*Result, error) {
	return e.Run(p, nil)
}

// Run simulates month by month, reporting each month to observe when it is not nil
func (e *Engine) Run(p Params, observe Observer) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := NewFinancing(p)
	s := NewState(p, f)
	years := make([]YearSnapshot, 0, len(e.timeline))

	for idx, period := range e.timeline {
		yearIndex := idx + 1
		marketRate := MonthlyMarketRate(period.PolicyRate)

		for m := 0; m < 12; m++ {
			s = AdvanceMonth(s, f, marketRate)
			if observe != nil {
				observe(period, s)
			}
		}

		s = CloseYear(s, yearIndex, period, f.Installment)
		years = append(years, YearSnapshot{
			Index:               yearIndex,
			Year:                period.Year,
			Inflation:           period.Inflation,
			PolicyRate:          period.PolicyRate,
			Rent:                s.Rent,
			BalanceWithExtra:    s.WithExtra.Balance,
			BalanceWithoutExtra: s.WithoutExtra.Balance,
			BuyerWealth:         s.BuyerWealth,
			RenterWealth:        s.RenterWealth,
			PropertyValue:       s.PropertyValue,
		})
	}

	if s.Month != TermMonths {
		return nil, fmt.Errorf("simulated %d months, want %d", s.Month, TermMonths)
	}

	policy, inflation := e.timeline.Averages()
	buyerTotal := s.PropertyValue + s.BuyerWealth

	return &Result{
		Params:    p,
		Financing: f,
		Averages: Averages{
			PolicyRate: policy,
			Inflation:  inflation,
			RealRate:   policy - inflation,
		},
		Summary: Summary{
			PaidOff:                  s.WithExtra.Phase == PhaseInvesting,
			PayoffMonths:             s.WithExtra.PaidOffMonth,
			PayoffYears:              float64(s.WithExtra.PaidOffMonth) / 12,
			WithoutExtraPayoffMonths: s.WithoutExtra.PaidOffMonth,
			InterestWithExtra:        s.WithExtra.InterestPaid,
			InterestWithoutExtra:     s.WithoutExtra.InterestPaid,
			InterestSavings:          s.WithoutExtra.InterestPaid - s.WithExtra.InterestPaid,
			CrossoverYear:            s.CrossoverYear,
			FinalRent:                s.Rent,
			Installment:              f.Installment,
			FinalPropertyValue:       s.PropertyValue,
			BuyerInvestment:          s.BuyerWealth,
			BuyerTotalWealth:         buyerTotal,
			RenterWealth:             s.RenterWealth,
			TotalRentPaid:            s.RentPaid,
			TotalBuyerPaid:           s.BuyerPaid,
		},
		Ranking: rank(s.PropertyValue, buyerTotal, s.RenterWealth),
		Years:   years,
	}, nil
}

var defaultEngine = &Engine{timeline: rates.Default()}

// Simulate runs the comparison against the default historical and projected timeline
func Simulate(p Params) (*Result, error) {
	return defaultEngine.Simulate(p)
}
