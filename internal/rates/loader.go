package rates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scenarioFile is the YAML layout of an alternative scenario. Either periods
// or cycles must be given; cycles start at start_year.
type scenarioFile struct {
	Periods   []RatePeriod `yaml:"periods"`
	StartYear int          `yaml:"start_year"`
	Cycles    []Cycle      `yaml:"cycles"`
}

// CyclesScenario selects CyclesTimeline in Load instead of a file
const CyclesScenario = "ciclos"

// Load resolves a scenario name: empty for the historical and projected
// default, CyclesScenario for the cycle projection, any other value is a
// YAML file path.
func Load(name string) (Timeline, error) {
	switch name {
	case "":
		return Default(), nil
	case CyclesScenario:
		return CyclesTimeline(), nil
	}
	return LoadFile(name)
}

// LoadFile reads and validates a rate scenario from a YAML file
func LoadFile(path string) (Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML rate scenario
func Parse(data []byte) (Timeline, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rate scenario: %w", err)
	}

	switch {
	case len(file.Periods) > 0 && len(file.Cycles) > 0:
		return nil, fmt.Errorf("%w: scenario sets both periods and cycles", ErrInvalidTimeline)
	case len(file.Cycles) > 0:
		return FromCycles(file.StartYear, file.Cycles)
	}

	t := Timeline(file.Periods)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
