package plugins

import (
	"github.com/maelqr/ecomeet/core/calculator"
)

func init() {
	RegisterCalculator(calculator.FlightName, func(string, map[string]any) (*calculator.Descriptor, error) {
		return calculator.NewFlightDescriptor(), nil
	})
	RegisterCalculator(calculator.TrainName, func(string, map[string]any) (*calculator.Descriptor, error) {
		return calculator.NewTrainDescriptor(), nil
	})
	RegisterCalculator(calculator.CarName, func(string, map[string]any) (*calculator.Descriptor, error) {
		return calculator.NewCarDescriptor(), nil
	})
	RegisterCalculator(calculator.OnlineName, func(string, map[string]any) (*calculator.Descriptor, error) {
		return calculator.NewOnlineDescriptor(), nil
	})
	RegisterCalculator(calculator.ComparisonName, func(string, map[string]any) (*calculator.Descriptor, error) {
		return calculator.NewComparisonDescriptor(), nil
	})
}
