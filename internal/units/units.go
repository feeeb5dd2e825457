// Package units converts canonical kilogram weights into the display unit
// chosen by the user, and user-entered values back into kilograms.
package units

import (
	"strconv"
	"strings"

	"github.com/mesut7942/my-gym-log/pkg"
)

type Unit string

const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lbs"
)

const lbsPerKg = 2.20462

// ParseUnit falls back to Kilograms for anything that is not a known unit.
func ParseUnit(s string) Unit {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Pounds:
		return Pounds
	default:
		return Kilograms
	}
}

func (u Unit) String() string {
	return string(u)
}

func (u Unit) IsValid() bool {
	return u == Kilograms || u == Pounds
}

// Convert returns weightKg expressed in the target unit.
func Convert(weightKg float64, target Unit) float64 {
	if target == Pounds {
		return pkg.RoundTo(weightKg*lbsPerKg, 1)
	}
	return weightKg
}

// ToKilograms turns a value entered in unit from into kilograms.
func ToKilograms(value float64, from Unit) float64 {
	if from == Pounds {
		return pkg.RoundTo(value/lbsPerKg, 2)
	}
	return value
}

// Converter applies a display unit preference.
type Converter struct {
	Unit Unit
}

func NewConverter(unit Unit) Converter {
	return Converter{Unit: ParseUnit(string(unit))}
}

func (c Converter) unit() Unit {
	if c.Unit.IsValid() {
		return c.Unit
	}
	return Kilograms
}

func (c Converter) Convert(weightKg float64) float64 {
	return Convert(weightKg, c.unit())
}

func (c Converter) ToKilograms(value float64) float64 {
	return ToKilograms(value, c.unit())
}

// Format renders weightKg in the preferred unit, e.g. "220.5 lbs".
func (c Converter) Format(weightKg float64) string {
	return strconv.FormatFloat(c.Convert(weightKg), 'f', -1, 64) + " " + c.unit().String()
}
