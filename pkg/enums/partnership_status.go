package enums

import "fmt"

// PartnershipStatus tracks a buyer-supplier direct connection.
type PartnershipStatus string

const (
	PartnershipStatusActive  PartnershipStatus = "active"
	PartnershipStatusPending PartnershipStatus = "pending"
	PartnershipStatusRevoked PartnershipStatus = "revoked"
)

var validPartnershipStatuses = []PartnershipStatus{
	PartnershipStatusActive,
	PartnershipStatusPending,
	PartnershipStatusRevoked,
}

// String implements fmt.Stringer.
func (p PartnershipStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartnershipStatus.
func (p PartnershipStatus) IsValid() bool {
	for _, candidate := range validPartnershipStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartnershipStatus converts raw input into a PartnershipStatus.
func ParsePartnershipStatus(value string) (PartnershipStatus, error) {
	for _, candidate := range validPartnershipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partnership status %q", value)
}
