package enums

import "fmt"

// LotStatus tracks the availability of an inventory lot.
type LotStatus string

const (
	LotStatusAvailable LotStatus = "available"
	LotStatusReserved  LotStatus = "reserved"
	LotStatusDepleted  LotStatus = "depleted"
)

var validLotStatuses = []LotStatus{
	LotStatusAvailable,
	LotStatusReserved,
	LotStatusDepleted,
}

// String implements fmt.Stringer.
func (l LotStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LotStatus.
func (l LotStatus) IsValid() bool {
	for _, candidate := range validLotStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLotStatus converts raw input into a LotStatus.
func ParseLotStatus(value string) (LotStatus, error) {
	for _, candidate := range validLotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lot status %q", value)
}
