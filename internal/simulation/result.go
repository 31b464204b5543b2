package simulation

import "sort"

// Scenario identifies one of the compared strategies
type Scenario int

const (
	ScenarioBuyWithoutExtra Scenario = iota
	ScenarioBuyWithExtra
	ScenarioRentAndInvest
)

// String returns the label shown in reports
func (s Scenario) String() string {
	switch s {
	case ScenarioBuyWithoutExtra:
		return "Comprar SEM amortizar"
	case ScenarioBuyWithExtra:
		return "Comprar COM amortizar"
	case ScenarioRentAndInvest:
		return "Alugar + investir"
	default:
		return "desconhecido"
	}
}

// ParseScenario maps a report label back to its Scenario
func ParseScenario(label string) (Scenario, bool) {
	for _, s := range []Scenario{ScenarioBuyWithoutExtra, ScenarioBuyWithExtra, ScenarioRentAndInvest} {
		if s.String() == label {
			return s, true
		}
	}
	return 0, false
}

type RankedScenario struct {
	Scenario Scenario
	Wealth   float64
}

type Averages struct {
	PolicyRate float64
	Inflation  float64
	RealRate   float64
}

// Summary holds the terminal figures of a run
type Summary struct {
	PaidOff      bool
	PayoffMonths int
	PayoffYears  float64
	// WithoutExtraPayoffMonths is 0 when the plain schedule does not settle within the horizon
	WithoutExtraPayoffMonths int

	InterestWithExtra    float64
	InterestWithoutExtra float64
	InterestSavings      float64

	CrossoverYear int

	FinalRent          float64
	Installment        float64
	FinalPropertyValue float64

	BuyerInvestment  float64
	BuyerTotalWealth float64
	RenterWealth     float64

	TotalRentPaid  float64
	TotalBuyerPaid float64
}

// YearSnapshot is the state at the end of one simulated year
type YearSnapshot struct {
	// Index runs from 1 to 30; Year is the timeline label
	Index      int
	Year       int
	Inflation  float64
	PolicyRate float64

	Rent                float64
	BalanceWithExtra    float64
	BalanceWithoutExtra float64
	BuyerWealth         float64
	RenterWealth        float64
	PropertyValue       float64
}

// Result is the full outcome of one simulation, kept at full precision
type Result struct {
	Params    Params
	Financing Financing
	Averages  Averages
	Summary   Summary
	Ranking   []RankedScenario
	Years     []YearSnapshot
}

// Winner returns the best ranked scenario
func (r *Result) Winner() RankedScenario {
	return r.Ranking[0]
}

// rank orders terminal wealth descending; ties keep the listed order
func rank(withoutExtra, withExtra, renter float64) []RankedScenario {
	ranking := []RankedScenario{
		{Scenario: ScenarioBuyWithoutExtra, Wealth: withoutExtra},
		{Scenario: ScenarioBuyWithExtra, Wealth: withExtra},
		{Scenario: ScenarioRentAndInvest, Wealth: renter},
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Wealth > ranking[j].Wealth
	})
	return ranking
}
