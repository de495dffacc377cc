package derive

import (
	"fmt"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

const (
	milesPerKm  = 0.621371
	poundsPerKg = 2.20462
)

// UnitsOf returns the profile's display units, metric when there is no
// profile yet.
func UnitsOf(p *fitness.Profile) fitness.Units {
	if p == nil || !p.Units.Valid() {
		return fitness.Metric
	}
	return p.Units
}

func isMetric(u fitness.Units) bool {
	switch u {
	case fitness.Metric:
		return true
	case fitness.Imperial:
		return false
	}
	panic("derive: unknown units " + string(u))
}

// ConvertDistance converts value from one unit system to another
// (kilometers and miles).
func ConvertDistance(value float64, from, to fitness.Units) float64 {
	return convert(value, from, to, milesPerKm)
}

// ConvertWeight converts value from one unit system to another
// (kilograms and pounds).
func ConvertWeight(value float64, from, to fitness.Units) float64 {
	return convert(value, from, to, poundsPerKg)
}

func convert(value float64, from, to fitness.Units, factor float64) float64 {
	fromMetric, toMetric := isMetric(from), isMetric(to)
	switch {
	case fromMetric == toMetric:
		return value
	case fromMetric:
		return value * factor
	default:
		return value / factor
	}
}

// FormatDistance renders a canonical kilometer value in the given units.
func FormatDistance(km float64, units fitness.Units) string {
	if isMetric(units) {
		return fmt.Sprintf("%.2f km", km)
	}
	return fmt.Sprintf("%.2f mi", ConvertDistance(km, fitness.Metric, fitness.Imperial))
}

// FormatWeight renders a canonical kilogram value in the given units.
func FormatWeight(kg float64, units fitness.Units) string {
	if isMetric(units) {
		return fmt.Sprintf("%.1f kg", kg)
	}
	return fmt.Sprintf("%.1f lbs", ConvertWeight(kg, fitness.Metric, fitness.Imperial))
}

// WeightUnit is the short label for weights entered in units.
func WeightUnit(units fitness.Units) string {
	if isMetric(units) {
		return "kg"
	}
	return "lbs"
}
