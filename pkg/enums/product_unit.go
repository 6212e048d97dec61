package enums

import "fmt"

// ProductUnit defines how a product quantity is measured.
type ProductUnit string

const (
	ProductUnitMass   ProductUnit = "mass"
	ProductUnitVolume ProductUnit = "volume"
	ProductUnitCount  ProductUnit = "count"
)

var validProductUnits = []ProductUnit{
	ProductUnitMass,
	ProductUnitVolume,
	ProductUnitCount,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductUnit.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
