// Package units converts Celsius thresholds for display in the user's unit.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Temperature is a display unit.
type Temperature string

const (
	Celsius    Temperature = "celsius"
	Fahrenheit Temperature = "fahrenheit"
	Kelvin     Temperature = "kelvin"
)

// ParseTemperature accepts full names or the symbols C, F and K.
func ParseTemperature(raw string) (Temperature, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "c", "celsius", "metric":
		return Celsius, nil
	case "f", "fahrenheit", "imperial":
		return Fahrenheit, nil
	case "k", "kelvin", "standard":
		return Kelvin, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", raw)
	}
}

// Symbol returns the suffix shown after a converted value.
func (t Temperature) Symbol() string {
	switch t {
	case Fahrenheit:
		return "°F"
	case Kelvin:
		return "K"
	default:
		return "°C"
	}
}

// FromCelsius converts c into unit t.
func (t Temperature) FromCelsius(c float64) float64 {
	switch t {
	case Fahrenheit:
		return c*9/5 + 32
	case Kelvin:
		return c + 273.15
	default:
		return c
	}
}

// Format renders a Celsius value in unit t with at most one decimal.
func (t Temperature) Format(c float64) string {
	value := strconv.FormatFloat(t.FromCelsius(c), 'f', 1, 64)
	value = strings.TrimSuffix(value, ".0")
	return value + t.Symbol()
}
