package plugins

import (
	"fmt"

	"github.com/maelqr/ecomeet/core/calculator"
)

// CalculatorFactory builds a calculator descriptor from a raw configuration
// map. Builtin calculators ignore the map; external ones may decode it.
type CalculatorFactory func(name string, conf map[string]any) (*calculator.Descriptor, error)

// Calculators maps calculator names to their factories.
var Calculators = map[string]CalculatorFactory{}

// defaultOrder preserves the registration order when no explicit list is
// configured.
var defaultOrder []string

// RegisterCalculator adds a factory under the given name.
func RegisterCalculator(name string, f CalculatorFactory) {
	if _, ok := Calculators[name]; !ok {
		defaultOrder = append(defaultOrder, name)
	}
	Calculators[name] = f
}

// DefaultCalculators returns every registered name in registration order.
func DefaultCalculators() []string {
	out := make([]string, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

// BuildRegistry constructs a registry holding the named calculators. An empty
// list enables every registered calculator.
func BuildRegistry(names []string) (*calculator.Registry, error) {
	if len(names) == 0 {
		names = DefaultCalculators()
	}
	reg := calculator.NewRegistry()
	for _, name := range names {
		f, ok := Calculators[name]
		if !ok {
			return nil, fmt.Errorf("plugins: unknown calculator %s", name)
		}
		d, err := f(name, nil)
		if err != nil {
			return nil, fmt.Errorf("plugins: build %s: %w", name, err)
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
