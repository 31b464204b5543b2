package rates

import "fmt"

// Cycle is a macroeconomic regime lasting a number of years at constant rates
type Cycle struct {
	Name       string  `json:"nome" yaml:"name"`
	Years      int     `json:"anos" yaml:"years"`
	PolicyRate float64 `json:"selic" yaml:"selic"`
	Inflation  float64 `json:"ipca" yaml:"ipca"`
}

// DefaultCycles follows the pattern of Brazilian cycles between 2010 and 2025,
// starting from the current tightening.
func DefaultCycles() []Cycle {
	return []Cycle{
		{Name: "Aperto (atual)", Years: 4, PolicyRate: 14.0, Inflation: 4.5},
		{Name: "Afrouxamento", Years: 5, PolicyRate: 9.0, Inflation: 5.5},
		{Name: "Juros baixos", Years: 3, PolicyRate: 5.0, Inflation: 6.5},
		{Name: "Choque inflação", Years: 5, PolicyRate: 13.0, Inflation: 8.0},
		{Name: "Estabilização", Years: 5, PolicyRate: 10.5, Inflation: 5.0},
		{Name: "Novo afrouxamento", Years: 4, PolicyRate: 7.0, Inflation: 5.5},
		{Name: "Novo aperto", Years: 4, PolicyRate: 12.0, Inflation: 4.5},
	}
}

// CyclesStartYear is the first year of the cycle based scenario
const CyclesStartYear = 2026

// CyclesTimeline expands DefaultCycles from CyclesStartYear
func CyclesTimeline() Timeline {
	t, err := FromCycles(CyclesStartYear, DefaultCycles())
	if err != nil {
		panic(err) // the default cycles always cover the horizon
	}
	return t
}

// FromCycles expands cycles into a yearly timeline starting at startYear
func FromCycles(startYear int, cycles []Cycle) (Timeline, error) {
	var t Timeline
	year := startYear
	for _, c := range cycles {
		if c.Years <= 0 {
			return nil, fmt.Errorf("%w: cycle %q has %d years", ErrInvalidTimeline, c.Name, c.Years)
		}
		for i := 0; i < c.Years; i++ {
			t = append(t, RatePeriod{Year: year, Inflation: c.Inflation, PolicyRate: c.PolicyRate})
			year++
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
