package enums

import "fmt"

// Unit is the weight or count unit a listing is sold in.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitLiter    Unit = "l"
	UnitPiece    Unit = "piece"
	UnitDozen    Unit = "dozen"
	UnitBunch    Unit = "bunch"
)

var validUnits = []Unit{
	UnitKilogram,
	UnitGram,
	UnitLiter,
	UnitPiece,
	UnitDozen,
	UnitBunch,
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnit converts raw input into a Unit.
func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}
